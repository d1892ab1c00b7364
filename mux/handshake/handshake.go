// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package handshake implements the Handshake mini-protocol: the
// version-negotiation exchange that runs first on every mux session,
// encoded with the same strict-CBOR codec machinery as the ledger object
// schema.
package handshake

import (
	"github.com/gocardano/core/codec"
	"github.com/gocardano/core/codec/cbor"
)

// Params are the per-version parameters a ProposeVersions/AcceptVersion
// offers. DiffusionMode and PeerSharing only apply to node-to-node
// sessions; a node-to-client session's Params leaves them nil.
type Params struct {
	NetworkMagic  uint32
	DiffusionMode *bool
	PeerSharing   *bool
	Query         bool
}

func (p Params) encode(w *cbor.Writer) {
	e := codec.NewStructEncoder()
	magic := p.NetworkMagic
	e.Set(0, func(w *cbor.Writer) { w.WriteUint(uint64(magic)) })
	if p.DiffusionMode != nil {
		dm := *p.DiffusionMode
		e.Set(1, func(w *cbor.Writer) { w.WriteBool(dm) })
	}
	if p.PeerSharing != nil {
		ps := *p.PeerSharing
		e.Set(2, func(w *cbor.Writer) { w.WriteBool(ps) })
	}
	query := p.Query
	e.Set(3, func(w *cbor.Writer) { w.WriteBool(query) })
	e.Encode(w)
}

func decodeParams(r *cbor.Reader, path string) (Params, error) {
	d, err := codec.NewStructDecoder(r, path)
	if err != nil {
		return Params{}, err
	}
	var p Params
	if d.MissingField(0) {
		return Params{}, d.RequireField(0, "network_magic")
	}
	magic, err := r.ReadUint()
	if err != nil {
		return Params{}, err
	}
	p.NetworkMagic = uint32(magic)
	if !d.MissingField(1) {
		if r.IsNull() {
			if err := d.ExpectNull("diffusion_mode"); err != nil {
				return Params{}, err
			}
		} else {
			v, err := r.ReadBool()
			if err != nil {
				return Params{}, err
			}
			p.DiffusionMode = &v
		}
	}
	if !d.MissingField(2) {
		if r.IsNull() {
			if err := d.ExpectNull("peer_sharing"); err != nil {
				return Params{}, err
			}
		} else {
			v, err := r.ReadBool()
			if err != nil {
				return Params{}, err
			}
			p.PeerSharing = &v
		}
	}
	if !d.MissingField(3) {
		v, err := r.ReadBool()
		if err != nil {
			return Params{}, err
		}
		p.Query = v
	}
	return p, nil
}

// ProposeVersions is the client->server version offer, moving the
// mini-protocol from Propose to Confirm.
type ProposeVersions struct {
	Versions map[uint64]Params
}

// AcceptVersion is the server->client acceptance, moving from Confirm
// to Done.
type AcceptVersion struct {
	Version uint64
	Params  Params
}

// RefuseKind distinguishes the three reasons a server can give for
// refusing a handshake.
type RefuseKind int

const (
	VersionMismatch RefuseKind = iota
	HandshakeDecodeError
	Refused
)

var refuseArity = codec.FlatEnumArity{
	uint64(VersionMismatch):      1,
	uint64(HandshakeDecodeError): 2,
	uint64(Refused):              2,
}

// RefuseReason is the typed reason attached to a Refuse message.
type RefuseReason struct {
	Kind    RefuseKind
	Offered []uint64 // VersionMismatch
	Version uint64    // HandshakeDecodeError / Refused
	Message string    // HandshakeDecodeError / Refused
}

func (r RefuseReason) encode(w *cbor.Writer) {
	switch r.Kind {
	case VersionMismatch:
		offered := r.Offered
		codec.EncodeFlatEnum(w, uint64(VersionMismatch), func(w *cbor.Writer) {
			w.WriteArrayHeader(uint64(len(offered)))
			for _, v := range offered {
				w.WriteUint(v)
			}
		})
	case HandshakeDecodeError:
		version, msg := r.Version, r.Message
		codec.EncodeFlatEnum(w, uint64(HandshakeDecodeError),
			func(w *cbor.Writer) { w.WriteUint(version) },
			func(w *cbor.Writer) { w.WriteBytes([]byte(msg)) },
		)
	case Refused:
		version, msg := r.Version, r.Message
		codec.EncodeFlatEnum(w, uint64(Refused),
			func(w *cbor.Writer) { w.WriteUint(version) },
			func(w *cbor.Writer) { w.WriteBytes([]byte(msg)) },
		)
	}
}

func decodeRefuseReason(r *cbor.Reader, path string) (RefuseReason, error) {
	tag, err := codec.DecodeFlatEnumHeader(r, refuseArity, path)
	if err != nil {
		return RefuseReason{}, err
	}
	switch RefuseKind(tag) {
	case VersionMismatch:
		n, err := r.ReadArrayHeader()
		if err != nil {
			return RefuseReason{}, err
		}
		offered := make([]uint64, 0, n)
		for i := uint64(0); i < n; i++ {
			v, err := r.ReadUint()
			if err != nil {
				return RefuseReason{}, err
			}
			offered = append(offered, v)
		}
		return RefuseReason{Kind: VersionMismatch, Offered: offered}, nil
	case HandshakeDecodeError, Refused:
		version, err := r.ReadUint()
		if err != nil {
			return RefuseReason{}, err
		}
		msg, err := r.ReadBytes()
		if err != nil {
			return RefuseReason{}, err
		}
		return RefuseReason{Kind: RefuseKind(tag), Version: version, Message: string(msg)}, nil
	}
	return RefuseReason{}, nil
}

// Refuse is the server->client rejection, moving from Confirm to Done.
type Refuse struct {
	Reason RefuseReason
}

// Message tags for the mini-protocol's three message types, shared with
// the generic miniprotocol.StateMachine via their integer value.
const (
	TagProposeVersions uint64 = 0
	TagAcceptVersion   uint64 = 1
	TagRefuse          uint64 = 2
)

// Encode writes whichever handshake message v holds onto w. v must be
// one of ProposeVersions, AcceptVersion or Refuse.
func Encode(w *cbor.Writer, v interface{}) {
	switch m := v.(type) {
	case ProposeVersions:
		versions := m.Versions
		codec.EncodeFlatEnum(w, TagProposeVersions, func(w *cbor.Writer) {
			w.WriteMapPairsHeader(uint64(len(versions)))
			for ver, p := range versions {
				w.WriteUint(ver)
				p.encode(w)
			}
		})
	case AcceptVersion:
		version, params := m.Version, m.Params
		codec.EncodeFlatEnum(w, TagAcceptVersion,
			func(w *cbor.Writer) { w.WriteUint(version) },
			func(w *cbor.Writer) { params.encode(w) },
		)
	case Refuse:
		reason := m.Reason
		codec.EncodeFlatEnum(w, TagRefuse, func(w *cbor.Writer) { reason.encode(w) })
	}
}

var messageArity = codec.FlatEnumArity{
	TagProposeVersions: 1,
	TagAcceptVersion:   2,
	TagRefuse:          1,
}

// Decode reads one handshake message, returning its tag alongside the
// decoded value (one of ProposeVersions, AcceptVersion or Refuse).
func Decode(r *cbor.Reader, path string) (tag uint64, msg interface{}, err error) {
	tag, err = codec.DecodeFlatEnumHeader(r, messageArity, path)
	if err != nil {
		return 0, nil, err
	}
	switch tag {
	case TagProposeVersions:
		n, err := r.ReadMapPairsHeader()
		if err != nil {
			return 0, nil, err
		}
		versions := make(map[uint64]Params, n)
		for i := uint64(0); i < n; i++ {
			ver, err := r.ReadUint()
			if err != nil {
				return 0, nil, err
			}
			p, err := decodeParams(r, path+".versions")
			if err != nil {
				return 0, nil, err
			}
			versions[ver] = p
		}
		return tag, ProposeVersions{Versions: versions}, nil
	case TagAcceptVersion:
		ver, err := r.ReadUint()
		if err != nil {
			return 0, nil, err
		}
		p, err := decodeParams(r, path+".params")
		if err != nil {
			return 0, nil, err
		}
		return tag, AcceptVersion{Version: ver, Params: p}, nil
	case TagRefuse:
		reason, err := decodeRefuseReason(r, path+".reason")
		if err != nil {
			return 0, nil, err
		}
		return tag, Refuse{Reason: reason}, nil
	}
	return tag, nil, nil
}

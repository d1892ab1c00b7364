// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/gocardano/core/codec"
	"github.com/gocardano/core/codec/cbor"
	"github.com/gocardano/core/digest"
)

// CertificateKind identifies which of the nine logical certificate
// shapes a Certificate carries; several kinds (AccountAction chief
// among them) fold multiple wire tags into one shape distinguished only
// by which optional fields are present.
type CertificateKind int

const (
	CertAccountAction CertificateKind = iota
	CertAccountUnregistration
	CertPoolRegistration
	CertPoolRetirement
	CertCommitteeAuthorization
	CertCommitteeResignation
	CertDRepRegistration
	CertDRepUnregistration
	CertDRepUpdate
)

// PoolMetadata references a stake pool's off-chain metadata document.
type PoolMetadata struct {
	URL  string
	Hash digest.Hash256
}

// Certificate is any one of the 17 wire-tagged certificate variants.
// Only the fields relevant to Kind are populated; tagAndFields and
// certificateArity hold the exact (kind, present-optionals) -> tag mapping.
type Certificate struct {
	Kind CertificateKind

	Credential             Credential
	Pool                   *digest.Hash224
	DelegateRepresentative *DelegateRepresentative
	Deposit                *uint64

	Operator          digest.Hash224
	VRFKeyHash        digest.Hash256
	Pledge            uint64
	Cost              uint64
	MarginNumerator   uint64
	MarginDenominator uint64
	RewardAccount     []byte
	Owners            []digest.Hash224
	Relays            [][]byte
	Metadata          *PoolMetadata

	PoolID digest.Hash224
	Epoch  uint64

	Issuer        Credential
	HotCredential Credential

	Anchor *Anchor
}

// tagAndFields computes the wire tag and field count for c.
func (c Certificate) tagAndFields() (tag uint64, fields int) {
	switch c.Kind {
	case CertAccountAction:
		switch {
		case c.Deposit == nil && c.Pool == nil && c.DelegateRepresentative == nil:
			return 0, 1
		case c.Deposit == nil && c.Pool == nil && c.DelegateRepresentative != nil:
			return 9, 2
		case c.Deposit == nil && c.Pool != nil && c.DelegateRepresentative == nil:
			return 2, 2
		case c.Deposit == nil && c.Pool != nil && c.DelegateRepresentative != nil:
			return 10, 3
		case c.Deposit != nil && c.Pool == nil && c.DelegateRepresentative == nil:
			return 7, 2
		case c.Deposit != nil && c.Pool == nil && c.DelegateRepresentative != nil:
			return 12, 3
		case c.Deposit != nil && c.Pool != nil && c.DelegateRepresentative == nil:
			return 11, 3
		default:
			return 13, 4
		}
	case CertAccountUnregistration:
		if c.Deposit != nil {
			return 8, 2
		}
		return 1, 1
	case CertPoolRegistration:
		return 3, 9
	case CertPoolRetirement:
		return 4, 2
	case CertCommitteeAuthorization:
		return 14, 2
	case CertCommitteeResignation:
		return 15, 2
	case CertDRepRegistration:
		return 16, 3
	case CertDRepUnregistration:
		return 17, 2
	case CertDRepUpdate:
		return 18, 2
	default:
		panic("ledger: unknown certificate kind")
	}
}

var certificateArity = codec.FlatEnumArity{
	0: 1, 1: 1, 2: 2, 3: 9, 4: 2, 7: 2, 8: 2, 9: 2,
	10: 3, 11: 3, 12: 3, 13: 4, 14: 2, 15: 2, 16: 3, 17: 2, 18: 2,
}

// Encode writes c in flat-tagged-enum form.
func (c Certificate) Encode(w *cbor.Writer) {
	tag, fields := c.tagAndFields()
	w.WriteArrayHeader(uint64(1 + fields))
	w.WriteUint(tag)

	switch c.Kind {
	case CertAccountAction:
		c.Credential.encode(w)
		if c.Pool != nil {
			w.WriteBytes(c.Pool[:])
		}
		if c.DelegateRepresentative != nil {
			c.DelegateRepresentative.encode(w)
		}
		if c.Deposit != nil {
			w.WriteUint(*c.Deposit)
		}
	case CertAccountUnregistration:
		c.Credential.encode(w)
		if c.Deposit != nil {
			w.WriteUint(*c.Deposit)
		}
	case CertPoolRegistration:
		w.WriteBytes(c.Operator[:])
		w.WriteBytes(c.VRFKeyHash[:])
		w.WriteUint(c.Pledge)
		w.WriteUint(c.Cost)
		w.WriteArrayHeader(2)
		w.WriteUint(c.MarginNumerator)
		w.WriteUint(c.MarginDenominator)
		w.WriteBytes(c.RewardAccount)
		w.WriteArrayHeader(uint64(len(c.Owners)))
		for _, o := range c.Owners {
			w.WriteBytes(o[:])
		}
		w.WriteArrayHeader(uint64(len(c.Relays)))
		for _, rel := range c.Relays {
			w.WriteBytes(rel)
		}
		codec.WriteOptionalField(w, c.Metadata != nil, func(w *cbor.Writer) {
			enc := codec.NewStructEncoder()
			enc.Set(0, func(w *cbor.Writer) { w.WriteBytes([]byte(c.Metadata.URL)) })
			enc.Set(1, func(w *cbor.Writer) { w.WriteBytes(c.Metadata.Hash[:]) })
			enc.Encode(w)
		})
	case CertPoolRetirement:
		w.WriteBytes(c.PoolID[:])
		w.WriteUint(c.Epoch)
	case CertCommitteeAuthorization:
		c.Issuer.encode(w)
		c.HotCredential.encode(w)
	case CertCommitteeResignation:
		c.Credential.encode(w)
		encodeOptionalAnchor(w, c.Anchor)
	case CertDRepRegistration:
		c.Credential.encode(w)
		w.WriteUint(*c.Deposit)
		encodeOptionalAnchor(w, c.Anchor)
	case CertDRepUnregistration:
		c.Credential.encode(w)
		w.WriteUint(*c.Deposit)
	case CertDRepUpdate:
		c.Credential.encode(w)
		encodeOptionalAnchor(w, c.Anchor)
	}
}

// Decode reads a Certificate, dispatching on the wire tag.
func Decode(r *cbor.Reader, path string) (Certificate, error) {
	tag, err := codec.DecodeFlatEnumHeader(r, certificateArity, path)
	if err != nil {
		return Certificate{}, err
	}

	readDeposit := func() (uint64, error) {
		return r.ReadUint()
	}

	switch tag {
	case 0, 2, 7, 9, 10, 11, 12, 13:
		cred, err := decodeCredential(r, path+".credential")
		if err != nil {
			return Certificate{}, err
		}
		c := Certificate{Kind: CertAccountAction, Credential: cred}
		switch tag {
		case 2:
			h, err := readHash224(r, path+".pool")
			if err != nil {
				return Certificate{}, err
			}
			c.Pool = &h
		case 7:
			d, err := readDeposit()
			if err != nil {
				return Certificate{}, err
			}
			c.Deposit = &d
		case 9:
			d, err := decodeDRep(r, path+".delegate_representative")
			if err != nil {
				return Certificate{}, err
			}
			c.DelegateRepresentative = &d
		case 10:
			h, err := readHash224(r, path+".pool")
			if err != nil {
				return Certificate{}, err
			}
			c.Pool = &h
			d, err := decodeDRep(r, path+".delegate_representative")
			if err != nil {
				return Certificate{}, err
			}
			c.DelegateRepresentative = &d
		case 11:
			h, err := readHash224(r, path+".pool")
			if err != nil {
				return Certificate{}, err
			}
			c.Pool = &h
			dep, err := readDeposit()
			if err != nil {
				return Certificate{}, err
			}
			c.Deposit = &dep
		case 12:
			d, err := decodeDRep(r, path+".delegate_representative")
			if err != nil {
				return Certificate{}, err
			}
			c.DelegateRepresentative = &d
			dep, err := readDeposit()
			if err != nil {
				return Certificate{}, err
			}
			c.Deposit = &dep
		case 13:
			h, err := readHash224(r, path+".pool")
			if err != nil {
				return Certificate{}, err
			}
			c.Pool = &h
			d, err := decodeDRep(r, path+".delegate_representative")
			if err != nil {
				return Certificate{}, err
			}
			c.DelegateRepresentative = &d
			dep, err := readDeposit()
			if err != nil {
				return Certificate{}, err
			}
			c.Deposit = &dep
		}
		return c, nil

	case 1, 8:
		cred, err := decodeCredential(r, path+".credential")
		if err != nil {
			return Certificate{}, err
		}
		c := Certificate{Kind: CertAccountUnregistration, Credential: cred}
		if tag == 8 {
			d, err := readDeposit()
			if err != nil {
				return Certificate{}, err
			}
			c.Deposit = &d
		}
		return c, nil

	case 3:
		return decodePoolRegistration(r, path)

	case 4:
		pool, err := readHash224(r, path+".pool")
		if err != nil {
			return Certificate{}, err
		}
		epoch, err := r.ReadUint()
		if err != nil {
			return Certificate{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".epoch", Err: err}
		}
		return Certificate{Kind: CertPoolRetirement, PoolID: pool, Epoch: epoch}, nil

	case 14:
		issuer, err := decodeCredential(r, path+".issuer")
		if err != nil {
			return Certificate{}, err
		}
		hot, err := decodeCredential(r, path+".hot_credential")
		if err != nil {
			return Certificate{}, err
		}
		return Certificate{Kind: CertCommitteeAuthorization, Issuer: issuer, HotCredential: hot}, nil

	case 15:
		cred, err := decodeCredential(r, path+".credential")
		if err != nil {
			return Certificate{}, err
		}
		anchor, err := decodeOptionalAnchor(r, path+".anchor")
		if err != nil {
			return Certificate{}, err
		}
		return Certificate{Kind: CertCommitteeResignation, Credential: cred, Anchor: anchor}, nil

	case 16:
		cred, err := decodeCredential(r, path+".credential")
		if err != nil {
			return Certificate{}, err
		}
		dep, err := readDeposit()
		if err != nil {
			return Certificate{}, err
		}
		anchor, err := decodeOptionalAnchor(r, path+".anchor")
		if err != nil {
			return Certificate{}, err
		}
		return Certificate{Kind: CertDRepRegistration, Credential: cred, Deposit: &dep, Anchor: anchor}, nil

	case 17:
		cred, err := decodeCredential(r, path+".credential")
		if err != nil {
			return Certificate{}, err
		}
		dep, err := readDeposit()
		if err != nil {
			return Certificate{}, err
		}
		return Certificate{Kind: CertDRepUnregistration, Credential: cred, Deposit: &dep}, nil

	case 18:
		cred, err := decodeCredential(r, path+".credential")
		if err != nil {
			return Certificate{}, err
		}
		anchor, err := decodeOptionalAnchor(r, path+".anchor")
		if err != nil {
			return Certificate{}, err
		}
		return Certificate{Kind: CertDRepUpdate, Credential: cred, Anchor: anchor}, nil

	default:
		return Certificate{}, &codec.DecodeError{Kind: codec.KindUnknownVariantTag, FieldPath: path, Index: int(tag)}
	}
}

func readHash224(r *cbor.Reader, path string) (digest.Hash224, error) {
	raw, err := r.ReadBytes()
	if err != nil {
		return digest.Hash224{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path, Err: err}
	}
	h, err := digest.Hash224FromBytes(raw)
	if err != nil {
		return digest.Hash224{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path, Err: err}
	}
	return h, nil
}

func readHash256(r *cbor.Reader, path string) (digest.Hash256, error) {
	raw, err := r.ReadBytes()
	if err != nil {
		return digest.Hash256{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path, Err: err}
	}
	h, err := digest.Hash256FromBytes(raw)
	if err != nil {
		return digest.Hash256{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path, Err: err}
	}
	return h, nil
}

func decodePoolRegistration(r *cbor.Reader, path string) (Certificate, error) {
	operator, err := readHash224(r, path+".operator")
	if err != nil {
		return Certificate{}, err
	}
	vrf, err := readHash256(r, path+".vrf_keyhash")
	if err != nil {
		return Certificate{}, err
	}
	pledge, err := r.ReadUint()
	if err != nil {
		return Certificate{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".pledge", Err: err}
	}
	cost, err := r.ReadUint()
	if err != nil {
		return Certificate{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".cost", Err: err}
	}
	if _, err := r.ReadArrayHeader(); err != nil {
		return Certificate{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".margin", Err: err}
	}
	num, err := r.ReadUint()
	if err != nil {
		return Certificate{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".margin_numerator", Err: err}
	}
	denom, err := r.ReadUint()
	if err != nil {
		return Certificate{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".margin_denominator", Err: err}
	}
	account, err := r.ReadBytes()
	if err != nil {
		return Certificate{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".account", Err: err}
	}

	ownersLen, err := r.ReadArrayHeader()
	if err != nil {
		return Certificate{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".owners", Err: err}
	}
	owners := make([]digest.Hash224, 0, ownersLen)
	for i := uint64(0); i < ownersLen; i++ {
		h, err := readHash224(r, path+".owners")
		if err != nil {
			return Certificate{}, err
		}
		owners = append(owners, h)
	}

	relaysLen, err := r.ReadArrayHeader()
	if err != nil {
		return Certificate{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".relays", Err: err}
	}
	relays := make([][]byte, 0, relaysLen)
	for i := uint64(0); i < relaysLen; i++ {
		rel, err := r.ReadBytes()
		if err != nil {
			return Certificate{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".relays", Err: err}
		}
		relays = append(relays, rel)
	}

	present, err := codec.ReadOptionalField(r)
	if err != nil {
		return Certificate{}, err
	}
	var metadata *PoolMetadata
	if present {
		dec, err := codec.NewStructDecoder(r, path+".metadata")
		if err != nil {
			return Certificate{}, err
		}
		if err := dec.RequireField(0, "url"); err != nil {
			return Certificate{}, err
		}
		urlBytes, err := r.ReadBytes()
		if err != nil {
			return Certificate{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".metadata.url", Err: err}
		}
		if err := dec.RequireField(1, "hash"); err != nil {
			return Certificate{}, err
		}
		hash, err := readHash256(r, path+".metadata.hash")
		if err != nil {
			return Certificate{}, err
		}
		metadata = &PoolMetadata{URL: string(urlBytes), Hash: hash}
	}

	return Certificate{
		Kind: CertPoolRegistration, Operator: operator, VRFKeyHash: vrf,
		Pledge: pledge, Cost: cost, MarginNumerator: num, MarginDenominator: denom,
		RewardAccount: account, Owners: owners, Relays: relays, Metadata: metadata,
	}, nil
}

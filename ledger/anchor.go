// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/gocardano/core/codec"
	"github.com/gocardano/core/codec/cbor"
	"github.com/gocardano/core/digest"
)

// Anchor points at an off-chain metadata document: its URL and the
// Blake2b-256 hash of its content, used by governance and DRep
// certificates.
type Anchor struct {
	URL      string
	DataHash digest.Hash256
}

func (a Anchor) encode(w *cbor.Writer) {
	enc := codec.NewStructEncoder()
	enc.Set(0, func(w *cbor.Writer) { w.WriteBytes([]byte(a.URL)) })
	enc.Set(1, func(w *cbor.Writer) { w.WriteBytes(a.DataHash[:]) })
	enc.Encode(w)
}

func decodeAnchor(r *cbor.Reader, path string) (Anchor, error) {
	dec, err := codec.NewStructDecoder(r, path)
	if err != nil {
		return Anchor{}, err
	}
	if err := dec.RequireField(0, "url"); err != nil {
		return Anchor{}, err
	}
	urlBytes, err := r.ReadBytes()
	if err != nil {
		return Anchor{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".url", Err: err}
	}
	if err := dec.RequireField(1, "data_hash"); err != nil {
		return Anchor{}, err
	}
	raw, err := r.ReadBytes()
	if err != nil {
		return Anchor{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".data_hash", Err: err}
	}
	hash, err := digest.Hash256FromBytes(raw)
	if err != nil {
		return Anchor{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".data_hash", Err: err}
	}
	return Anchor{URL: string(urlBytes), DataHash: hash}, nil
}

// encodeOptionalAnchor writes a when it is non-nil, null otherwise,
// following this package's struct/map gap convention.
func encodeOptionalAnchor(w *cbor.Writer, a *Anchor) {
	codec.WriteOptionalField(w, a != nil, func(w *cbor.Writer) { a.encode(w) })
}

func decodeOptionalAnchor(r *cbor.Reader, path string) (*Anchor, error) {
	present, err := codec.ReadOptionalField(r)
	if err != nil || !present {
		return nil, err
	}
	a, err := decodeAnchor(r, path)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

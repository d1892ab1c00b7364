// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/gocardano/core/codec"
	"github.com/gocardano/core/codec/cbor"
	"github.com/gocardano/core/digest"
)

// DRepKind distinguishes the four forms a delegate representative
// target can take.
type DRepKind uint64

const (
	DRepKeyHash      DRepKind = 0
	DRepScriptHash    DRepKind = 1
	DRepAbstain       DRepKind = 2
	DRepNoConfidence DRepKind = 3
)

var drepArity = codec.FlatEnumArity{0: 1, 1: 1, 2: 0, 3: 0}

// DelegateRepresentative names the governance vote delegation target of
// an account: a keyed or scripted DRep, or the two always-on pseudo
// DReps (Abstain, NoConfidence).
type DelegateRepresentative struct {
	Kind DRepKind
	Hash digest.Hash224 // valid when Kind is DRepKeyHash or DRepScriptHash
}

func (d DelegateRepresentative) encode(w *cbor.Writer) {
	switch d.Kind {
	case DRepKeyHash, DRepScriptHash:
		codec.EncodeFlatEnum(w, uint64(d.Kind), func(w *cbor.Writer) { w.WriteBytes(d.Hash[:]) })
	default:
		codec.EncodeFlatEnum(w, uint64(d.Kind))
	}
}

func decodeDRep(r *cbor.Reader, path string) (DelegateRepresentative, error) {
	tag, err := codec.DecodeFlatEnumHeader(r, drepArity, path)
	if err != nil {
		return DelegateRepresentative{}, err
	}
	kind := DRepKind(tag)
	if kind != DRepKeyHash && kind != DRepScriptHash {
		return DelegateRepresentative{Kind: kind}, nil
	}
	raw, err := r.ReadBytes()
	if err != nil {
		return DelegateRepresentative{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".hash", Err: err}
	}
	hash, err := digest.Hash224FromBytes(raw)
	if err != nil {
		return DelegateRepresentative{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".hash", Err: err}
	}
	return DelegateRepresentative{Kind: kind, Hash: hash}, nil
}

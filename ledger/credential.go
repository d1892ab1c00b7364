// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger implements the codec-defined ledger object schema:
// certificates, the delegate-representative and anchor types they
// reference, protocol parameter updates, and transaction bodies. Every
// type here is built on the three structural patterns of package
// codec.
package ledger

import (
	"github.com/gocardano/core/codec"
	"github.com/gocardano/core/codec/cbor"
	"github.com/gocardano/core/digest"
)

// CredentialKind distinguishes a verification-key from a script
// credential.
type CredentialKind uint64

const (
	CredentialVKeyHash   CredentialKind = 0
	CredentialScriptHash CredentialKind = 1
)

var credentialArity = codec.FlatEnumArity{0: 1, 1: 1}

// Credential is a payment/stake/governance credential: either a
// verification-key hash or a script hash, both Blake2b-224.
type Credential struct {
	Kind CredentialKind
	Hash digest.Hash224
}

func (c Credential) encode(w *cbor.Writer) {
	codec.EncodeFlatEnum(w, uint64(c.Kind), func(w *cbor.Writer) { w.WriteBytes(c.Hash[:]) })
}

func decodeCredential(r *cbor.Reader, path string) (Credential, error) {
	tag, err := codec.DecodeFlatEnumHeader(r, credentialArity, path)
	if err != nil {
		return Credential{}, err
	}
	raw, err := r.ReadBytes()
	if err != nil {
		return Credential{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".hash", Err: err}
	}
	h, err := digest.Hash224FromBytes(raw)
	if err != nil {
		return Credential{}, &codec.DecodeError{Kind: codec.KindUnexpectedType, FieldPath: path + ".hash", Err: err}
	}
	return Credential{Kind: CredentialKind(tag), Hash: h}, nil
}

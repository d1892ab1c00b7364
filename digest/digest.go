// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package digest provides the fixed-width Blake2b hash types used
// throughout the ledger and KES layers.
package digest

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Hash224 is a 28-byte Blake2b-224 digest, used for payment and stake
// credential hashes.
type Hash224 [28]byte

// Hash256 is a 32-byte Blake2b-256 digest, used for block, transaction and
// verifying-key hashes.
type Hash256 [32]byte

// String renders the digest as lowercase hex, in byte order.
func (h Hash224) String() string { return hex.EncodeToString(h[:]) }
func (h Hash256) String() string { return hex.EncodeToString(h[:]) }

// Bytes returns a copy of the underlying bytes.
func (h Hash224) Bytes() []byte { b := make([]byte, len(h)); copy(b, h[:]); return b }
func (h Hash256) Bytes() []byte { b := make([]byte, len(h)); copy(b, h[:]); return b }

// SumHash224 computes the Blake2b-224 digest of data.
func SumHash224(data []byte) Hash224 {
	h, err := blake2b.New(28, nil)
	if err != nil {
		// Only width/key-size mismatches cause New to fail, and 28 is a
		// valid Blake2b output size, so this is unreachable.
		panic(fmt.Sprintf("digest: blake2b-224 init: %v", err))
	}
	h.Write(data)
	var out Hash224
	copy(out[:], h.Sum(nil))
	return out
}

// SumHash256 computes the Blake2b-256 digest of data.
func SumHash256(data []byte) Hash256 {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(fmt.Sprintf("digest: blake2b-256 init: %v", err))
	}
	h.Write(data)
	var out Hash256
	copy(out[:], h.Sum(nil))
	return out
}

// Hash224FromBytes builds a Hash224 from a byte slice, failing if the
// length is not exactly 28.
func Hash224FromBytes(b []byte) (Hash224, error) {
	var out Hash224
	if len(b) != len(out) {
		return out, fmt.Errorf("digest: invalid hash224 length %d, want %d", len(b), len(out))
	}
	copy(out[:], b)
	return out, nil
}

// Hash256FromBytes builds a Hash256 from a byte slice, failing if the
// length is not exactly 32.
func Hash256FromBytes(b []byte) (Hash256, error) {
	var out Hash256
	if len(b) != len(out) {
		return out, fmt.Errorf("digest: invalid hash256 length %d, want %d", len(b), len(out))
	}
	copy(out[:], b)
	return out, nil
}

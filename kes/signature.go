// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package kes

import (
	"fmt"

	"github.com/gocardano/core/digest"
	"github.com/gocardano/core/kes/basesig"
)

// levelVKs is the (vkL, vkR) pair attached at one level of the tree when
// signing: the active child's own verifying key and the cached
// verifying key of the inactive side, in left/right order.
type levelVKs struct {
	Left, Right VerifyingKey
}

// Signature is a full (non-compact) KES signature: the base signature
// plus the child verifying keys recorded at every level of the tree it
// was produced from, ordered from the leaf's immediate parent (index 0)
// up to the root (the last entry). It serializes as sig ∥ vkL ∥ vkR,
// recursively.
type Signature struct {
	base   basesig.Signature
	levels []levelVKs
}

// Depth reports the number of tree levels this signature was produced
// at (equivalently, len(levels)).
func (s Signature) Depth() int { return len(s.levels) }

// MarshalBinary serializes the signature as base ∥ (vkL,vkR) per level,
// leaf-adjacent level first.
func (s Signature) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, len(s.base)+64*len(s.levels))
	out = append(out, s.base[:]...)
	for _, lvl := range s.levels {
		out = append(out, lvl.Left[:]...)
		out = append(out, lvl.Right[:]...)
	}
	return out, nil
}

// SignatureFieldError identifies which field of a framed KES signature
// rejected its byte slice during decode.
type SignatureFieldError struct {
	Field string
	Want  int
	Got   int
}

func (e *SignatureFieldError) Error() string {
	return fmt.Sprintf("kes: signature field %s: want %d bytes, got %d", e.Field, e.Want, e.Got)
}

// UnmarshalSignature decodes a Signature produced at the given tree
// depth. The decoder partitions the input using the declared
// compile-time sizes of the base signature and the per-level verifying
// keys.
func UnmarshalSignature(data []byte, depth int) (Signature, error) {
	want := len(basesig.Signature{}) + 64*depth
	if len(data) != want {
		return Signature{}, &SignatureFieldError{Field: "signature", Want: want, Got: len(data)}
	}
	var sig Signature
	copy(sig.base[:], data[:len(sig.base)])
	rest := data[len(sig.base):]
	sig.levels = make([]levelVKs, depth)
	for i := 0; i < depth; i++ {
		var lvl levelVKs
		copy(lvl.Left[:], rest[:32])
		copy(lvl.Right[:], rest[32:64])
		rest = rest[64:]
		sig.levels[i] = lvl
	}
	return sig, nil
}

// Verify checks sig against vk for msg at the given period: the
// aggregate verifying key is recomputed at every level from the
// recorded child keys and must match before the base signature is
// checked against whichever child key is on the signing path.
func Verify(vk VerifyingKey, msg []byte, sig Signature, period uint32) bool {
	depth := len(sig.levels)
	return verify(vk, msg, sig.base, sig.levels, period, depth)
}

func verify(vk VerifyingKey, msg []byte, base basesig.Signature, levels []levelVKs, period uint32, depth int) bool {
	if depth == 0 {
		return basesig.PublicKey(vk).Verify(msg, base)
	}
	idx := depth - 1
	pair := levels[idx]
	recomputed := digest.Hash256(digest.SumHash256(append(append([]byte{}, pair.Left[:]...), pair.Right[:]...)))
	if recomputed != digest.Hash256(vk) {
		return false
	}
	leftCount := uint32(1) << uint(depth-1)
	if period < leftCount {
		return verify(pair.Left, msg, base, levels[:idx], period, depth-1)
	}
	return verify(pair.Right, msg, base, levels[:idx], period-leftCount, depth-1)
}

// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package compact implements the compact KES signature variant:
// instead of recording both child verifying
// keys at every level, it records only the off-path one, plus the single
// on-path verifying key at the leaf (which cannot be recomputed from a
// signature). The on-path key at every level above the leaf is
// reconstructed bottom-up during verification.
package compact

import (
	"fmt"

	"github.com/gocardano/core/digest"
	"github.com/gocardano/core/kes"
	"github.com/gocardano/core/kes/basesig"
)

// Signature is a compact KES signature.
type Signature struct {
	depth int

	// valid when depth == 0: the leaf's own verifying key, which cannot
	// be recomputed from the base signature.
	base     basesig.Signature
	onPathVK kes.VerifyingKey

	// valid when depth > 0: the next level down, and this level's
	// off-path (inactive side) verifying key.
	inner     *Signature
	offPathVK kes.VerifyingKey
}

// Sign produces a compact signature of msg under node's current period,
// recursing down the active path and keeping only the off-path
// verifying key at each composite level (kes.Node.OtherVK).
func Sign(node *kes.Node, msg []byte) Signature {
	if node.IsLeaf() {
		return Signature{depth: 0, base: node.SignBase(msg), onPathVK: node.VerifyingKey()}
	}
	inner := Sign(node.ActiveChild(), msg)
	return Signature{depth: inner.depth + 1, inner: &inner, offPathVK: node.OtherVK()}
}

// ToVerifyingKey recomputes the aggregate verifying key implied by sig
// at the given period, reconstructing each level's missing on-path key
// bottom-up.
func ToVerifyingKey(sig Signature, period uint32) kes.VerifyingKey {
	if sig.depth == 0 {
		return sig.onPathVK
	}
	leftCount := uint32(1) << uint(sig.depth-1)
	leftSide := period < leftCount
	innerPeriod := period
	if !leftSide {
		innerPeriod = period - leftCount
	}
	innerVK := ToVerifyingKey(*sig.inner, innerPeriod)

	var concat []byte
	if leftSide {
		concat = append(append([]byte{}, innerVK[:]...), sig.offPathVK[:]...)
	} else {
		concat = append(append([]byte{}, sig.offPathVK[:]...), innerVK[:]...)
	}
	return kes.VerifyingKey(digest.SumHash256(concat))
}

// Verify checks sig against vk for msg at the given period: the
// reconstructed aggregate key must match vk, and the base signature
// must verify against the on-path leaf key.
func Verify(vk kes.VerifyingKey, msg []byte, sig Signature, period uint32) bool {
	if ToVerifyingKey(sig, period) != vk {
		return false
	}
	return verifyBase(sig, msg, period)
}

func verifyBase(sig Signature, msg []byte, period uint32) bool {
	if sig.depth == 0 {
		return basesig.PublicKey(sig.onPathVK).Verify(msg, sig.base)
	}
	leftCount := uint32(1) << uint(sig.depth-1)
	if period < leftCount {
		return verifyBase(*sig.inner, msg, period)
	}
	return verifyBase(*sig.inner, msg, period-leftCount)
}

// MarshalBinary serializes sig as base ∥ onPathVK ∥ offPath_0 ∥ ... ∥
// offPath_{depth-1}, leaf first.
func (s Signature) MarshalBinary() ([]byte, error) {
	levels := make([]kes.VerifyingKey, s.depth)
	cur := &s
	for i := s.depth - 1; i >= 0; i-- {
		levels[i] = cur.offPathVK
		cur = cur.inner
	}
	out := append([]byte{}, cur.base[:]...)
	out = append(out, cur.onPathVK[:]...)
	for _, vk := range levels {
		out = append(out, vk[:]...)
	}
	return out, nil
}

// FieldError identifies which field of a framed compact signature
// rejected its byte slice during decode.
type FieldError struct {
	Field string
	Want  int
	Got   int
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("compact: field %s: want %d bytes, got %d", e.Field, e.Want, e.Got)
}

// Unmarshal decodes a compact Signature produced at the given tree
// depth.
func Unmarshal(data []byte, depth int) (Signature, error) {
	want := 64 + 32 + 32*depth
	if len(data) != want {
		return Signature{}, &FieldError{Field: "signature", Want: want, Got: len(data)}
	}
	var base basesig.Signature
	copy(base[:], data[:64])
	var onPath kes.VerifyingKey
	copy(onPath[:], data[64:96])
	rest := data[96:]

	sig := Signature{depth: 0, base: base, onPathVK: onPath}
	for i := 0; i < depth; i++ {
		var off kes.VerifyingKey
		copy(off[:], rest[:32])
		rest = rest[32:]
		sig = Signature{depth: i + 1, inner: cloneSig(sig), offPathVK: off}
	}
	return sig, nil
}

func cloneSig(s Signature) *Signature {
	c := s
	return &c
}

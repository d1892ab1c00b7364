// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package basesig is the single-use Ed25519-shaped base signature primitive
// that the KES Sum tree evolves over.
package basesig

import (
	"errors"

	"golang.org/x/crypto/ed25519"
)

// SeedSize is the width of the seed consumed by GenerateFromSeed.
const SeedSize = ed25519.SeedSize

// PublicKeySize and SignatureSize are the declared compile-time sizes the
// KES signature framing slices by.
const (
	PublicKeySize  = ed25519.PublicKeySize
	SignatureSize  = ed25519.SignatureSize
	PrivateKeySize = ed25519.SeedSize
)

// ErrSeedSize is returned when GenerateFromSeed is given a seed of the
// wrong width.
var ErrSeedSize = errors.New("basesig: seed must be exactly SeedSize bytes")

// PublicKey is the fixed-width verifying key.
type PublicKey [PublicKeySize]byte

// Signature is the fixed-width base signature.
type Signature [SignatureSize]byte

// PrivateKey is a base signing key, derived deterministically from a seed.
// It is never exposed with byte-slice aliasing so callers cannot retain a
// reference into zeroized memory after Zero is called.
type PrivateKey struct {
	seed [PrivateKeySize]byte
}

// GenerateFromSeed derives a PrivateKey deterministically from seed.
func GenerateFromSeed(seed []byte) (PrivateKey, error) {
	var pk PrivateKey
	if len(seed) != SeedSize {
		return pk, ErrSeedSize
	}
	copy(pk.seed[:], seed)
	return pk, nil
}

// Public derives the verifying key associated with pk.
func (pk PrivateKey) Public() PublicKey {
	edPriv := ed25519.NewKeyFromSeed(pk.seed[:])
	var out PublicKey
	copy(out[:], edPriv[ed25519.SeedSize:])
	return out
}

// Sign produces a deterministic signature of msg under pk.
func (pk PrivateKey) Sign(msg []byte) Signature {
	edPriv := ed25519.NewKeyFromSeed(pk.seed[:])
	sig := ed25519.Sign(edPriv, msg)
	var out Signature
	copy(out[:], sig)
	return out
}

// Zero overwrites the seed in place. Callers must not use pk after calling
// Zero; this is the base-case of the KES tree's zeroize-on-evolve
// requirement.
func (pk *PrivateKey) Zero() {
	for i := range pk.seed {
		pk.seed[i] = 0
	}
}

// Verify is a total function: it never panics, returning false for any
// malformed input.
func (pub PublicKey) Verify(msg []byte, sig Signature) bool {
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig[:])
}

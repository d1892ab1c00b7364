// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package kes implements the binary-tree "Sum" construction for a
// Key-Evolving Signature scheme. A tree of depth d has 2^d
// forward-secure periods and a single verifying key that never
// changes across evolution.
//
// The reference construction expresses the tree shape as a type-level
// unary recursion (Sum<Sum<L,R,H>,...>). Go generics cannot express
// that ergonomically, so this package represents depth as a runtime
// integer and the tree as an ordinary recursive struct (see Node).
package kes

import (
	"errors"

	"github.com/gocardano/core/digest"
	"github.com/gocardano/core/kes/basesig"
)

// SeedSize is the width of the seed consumed at every level of the tree;
// the Sum construction requires KEY_SIZE(L) == KEY_SIZE(R), and this
// construction keeps that width constant (32 bytes) at every depth.
const SeedSize = 32

// VerifyingKey is the 32-byte public identity of a KES node: either a raw
// base verifying key (at a leaf) or the Blake2b-256 hash of a level's two
// child verifying keys (at a composite node). It never changes across
// evolution.
type VerifyingKey [32]byte

// ErrKeyExhausted is returned by Evolve once the final period has been
// consumed. It is terminal: the caller must not retry.
var ErrKeyExhausted = errors.New("kes: key exhausted, no further periods")

// ErrInvalidDepth is returned by NewNode for a negative depth.
var ErrInvalidDepth = errors.New("kes: depth must be >= 0")

// ErrInvalidSeedSize is returned by NewNode when seed is not SeedSize
// bytes wide.
var ErrInvalidSeedSize = errors.New("kes: seed must be SeedSize bytes")

// Node is one instance of the Sum KES construction at a given tree depth.
// A depth-0 node is a bare base signing key with a single usable period;
// a depth-d node (d>0) composes two depth-(d-1) subtrees.
type Node struct {
	depth int
	vkey  VerifyingKey

	// leaf state, valid only when depth == 0.
	leafKey *basesig.PrivateKey

	// composite state, valid only when depth > 0.
	activeLeft  bool
	active      *Node
	otherVK     VerifyingKey
	pendingSeed []byte // retained right seed while left-active; nil once consumed or zeroized
}

// Depth reports the tree depth this node was constructed with.
func (n *Node) Depth() int { return n.depth }

// PeriodCount reports the total number of signing periods this node
// supports: 2^depth.
func (n *Node) PeriodCount() uint32 { return uint32(1) << uint(n.depth) }

// NewNode constructs a fresh KES node of the given depth from seed.
//
// Construction recursively derives (left_seed, right_seed) via
// doubleLength, builds the left subtree eagerly, and materializes the
// right subtree only long enough to extract its verifying key before
// discarding its secret state — the right side stays dormant, keyed by
// the retained seed, until the left side is fully evolved.
func NewNode(seed []byte, depth int) (*Node, error) {
	if depth < 0 {
		return nil, ErrInvalidDepth
	}
	if len(seed) != SeedSize {
		return nil, ErrInvalidSeedSize
	}

	if depth == 0 {
		priv, err := basesig.GenerateFromSeed(seed)
		if err != nil {
			return nil, err
		}
		var vk VerifyingKey
		pub := priv.Public()
		copy(vk[:], pub[:])
		return &Node{depth: 0, vkey: vk, leafKey: &priv}, nil
	}

	leftSeed, rightSeed := doubleLength(seed)
	defer zero(leftSeed[:])

	left, err := NewNode(leftSeed[:], depth-1)
	if err != nil {
		return nil, err
	}
	right, err := NewNode(rightSeed[:], depth-1)
	if err != nil {
		return nil, err
	}
	rightVK := right.vkey
	right.Zero() // materialize only long enough to read its vk

	vkey := VerifyingKey(digest.SumHash256(append(append([]byte{}, left.vkey[:]...), rightVK[:]...)))

	pending := make([]byte, SeedSize)
	copy(pending, rightSeed[:])
	zero(rightSeed[:])

	return &Node{
		depth:       depth,
		vkey:        vkey,
		activeLeft:  true,
		active:      left,
		otherVK:     rightVK,
		pendingSeed: pending,
	}, nil
}

// VerifyingKey returns the node's public, evolution-invariant identity.
func (n *Node) VerifyingKey() VerifyingKey { return n.vkey }

// IsLeaf reports whether n is a depth-0 base-signature node.
func (n *Node) IsLeaf() bool { return n.depth == 0 }

// ActiveChild returns the currently-active subtree of a composite node.
// It is nil for a leaf.
func (n *Node) ActiveChild() *Node { return n.active }

// IsLeftActive reports whether the left subtree is currently active.
// Only meaningful for a composite node.
func (n *Node) IsLeftActive() bool { return n.activeLeft }

// OtherVK returns the cached verifying key of the currently inactive
// side of a composite node — the off-path key the compact signature
// variant records instead of re-deriving both children's keys.
func (n *Node) OtherVK() VerifyingKey { return n.otherVK }

// SignBase signs msg directly with a leaf's base key. It panics if n is
// not a leaf; callers should check IsLeaf first.
func (n *Node) SignBase(msg []byte) basesig.Signature {
	if n.depth != 0 {
		panic("kes: SignBase called on a non-leaf node")
	}
	return n.leafKey.Sign(msg)
}

// Period reports the current 0-based period index within this node's
// range [0, PeriodCount()).
func (n *Node) Period() uint32 {
	if n.depth == 0 {
		return 0
	}
	if n.activeLeft {
		return n.active.Period()
	}
	leftCount := uint32(1) << uint(n.depth-1)
	return leftCount + n.active.Period()
}

// Evolve advances the node to its successor, consuming the receiver.
// Callers must not use n again after Evolve returns, successfully or
// not: the secret material backing the current period is zeroized
// either way.
//
// A depth-0 node always returns ErrKeyExhausted: the base signature is
// single-use. A composite node tries to evolve its active child first;
// when that child is exhausted, it transitions from the left subtree to
// a freshly materialized right subtree (zeroizing the retained seed in
// the process) rather than failing, unless the right side is itself
// already exhausted.
func (n *Node) Evolve() (*Node, error) {
	if n.depth == 0 {
		if n.leafKey != nil {
			n.leafKey.Zero()
			n.leafKey = nil
		}
		return nil, ErrKeyExhausted
	}

	if n.activeLeft {
		newActive, err := n.active.Evolve()
		if err == nil {
			n.active = newActive
			return n, nil
		}
		if !errors.Is(err, ErrKeyExhausted) {
			return nil, err
		}
		// The left side always reports its own verifying key from a
		// field cached before any secret material was evolved away.
		leftVK := n.active.VerifyingKey()
		right, rerr := NewNode(n.pendingSeed, n.depth-1)
		if rerr != nil {
			return nil, rerr
		}
		zero(n.pendingSeed)
		n.pendingSeed = nil
		n.active = right
		n.otherVK = leftVK
		n.activeLeft = false
		return n, nil
	}

	newActive, err := n.active.Evolve()
	if err != nil {
		return nil, err
	}
	n.active = newActive
	return n, nil
}

// Zero destroys all secret material reachable from n without changing
// its cached verifying key. It is idempotent.
func (n *Node) Zero() {
	if n.depth == 0 {
		if n.leafKey != nil {
			n.leafKey.Zero()
			n.leafKey = nil
		}
		return
	}
	if n.active != nil {
		n.active.Zero()
	}
	if n.pendingSeed != nil {
		zero(n.pendingSeed)
		n.pendingSeed = nil
	}
}

// Sign produces a signature of msg under the node's current period.
func (n *Node) Sign(msg []byte) Signature {
	if n.depth == 0 {
		return Signature{base: n.leafKey.Sign(msg)}
	}
	child := n.active.Sign(msg)
	var pair levelVKs
	if n.activeLeft {
		pair = levelVKs{Left: n.active.VerifyingKey(), Right: n.otherVK}
	} else {
		pair = levelVKs{Left: n.otherVK, Right: n.active.VerifyingKey()}
	}
	return Signature{base: child.base, levels: append(append([]levelVKs{}, child.levels...), pair)}
}

func doubleLength(seed []byte) (left, right [SeedSize]byte) {
	left = sumHashPrefixed(0x01, seed)
	right = sumHashPrefixed(0x02, seed)
	return
}

func sumHashPrefixed(prefix byte, seed []byte) [SeedSize]byte {
	buf := make([]byte, 0, 1+len(seed))
	buf = append(buf, prefix)
	buf = append(buf, seed...)
	h := digest.SumHash256(buf)
	var out [SeedSize]byte
	copy(out[:], h[:])
	return out
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package filter implements a Golomb-coded set membership filter,
// adapted from the Decred/btcsuite GCS block filter (BIP-158 style) but
// re-targeted at this module's domain: a compact probabilistic index of
// credential hashes rather than a block's set of spent outpoints. No
// other package in this module builds or queries one.
package filter

import (
	"encoding/binary"
	"errors"
	"math"
	"sort"

	"github.com/dchest/siphash"

	"github.com/gocardano/core/digest"
)

// KeySize is the width of the SipHash key used to key a Filter.
const KeySize = 16

var (
	// ErrNTooBig signifies that the filter can't handle N items.
	ErrNTooBig = errors.New("filter: N does not fit in uint32")

	// ErrPTooBig signifies that the filter can't handle `1/2**P`
	// collision probability.
	ErrPTooBig = errors.New("filter: P is too large")

	// ErrNoData signifies that an empty slice was passed to NewFilter.
	ErrNoData = errors.New("filter: no data provided")

	// ErrMisserialized signifies a filter was misserialized and is
	// missing the N and/or P parameters of a serialized filter.
	ErrMisserialized = errors.New("filter: missing N or P")
)

// Filter is an immutable Golomb-coded set: a compact, queryable
// approximate-membership structure over a set of byte strings (here,
// credential hashes), with false-positive rate `1/2**P`.
type Filter struct {
	n           uint32
	p           uint8
	modulusNP   uint64
	filterNData []byte // 4 bytes n big endian, remainder is filter data
}

func siphashSum(key [KeySize]byte, data []byte) uint64 {
	k0 := binary.BigEndian.Uint64(key[0:8])
	k1 := binary.BigEndian.Uint64(key[8:16])
	return siphash.Hash(k0, k1, data)
}

// NewFilter builds a new Golomb-coded set with collision probability
// `1/(2**P)`, keyed by key, over every []byte in members (the raw bytes
// of each credential hash, typically digest.Hash224[:]).
func NewFilter(p uint8, key [KeySize]byte, members [][]byte) (*Filter, error) {
	if len(members) == 0 {
		return nil, ErrNoData
	}
	if len(members) > math.MaxInt32 {
		return nil, ErrNTooBig
	}
	if p > 32 {
		return nil, ErrPTooBig
	}

	modP := uint64(1) << p
	f := Filter{
		n:         uint32(len(members)),
		p:         p,
		modulusNP: uint64(len(members)) * modP,
	}

	values := make(uint64Slice, 0, len(members))
	for _, m := range members {
		values = append(values, siphashSum(key, m)%f.modulusNP)
	}
	sort.Sort(values)

	var b bitWriter
	modPMask := modP - 1
	var lastValue uint64
	for _, v := range values {
		remainder := (v - lastValue) & modPMask
		quotient := (v - lastValue - remainder) >> f.p
		lastValue = v

		for quotient > 0 {
			b.writeOne()
			quotient--
		}
		b.writeZero()
		b.writeNBits(remainder, uint(f.p))
	}

	ndata := make([]byte, 4+len(b.bytes))
	binary.BigEndian.PutUint32(ndata, f.n)
	copy(ndata[4:], b.bytes)
	f.filterNData = ndata

	return &f, nil
}

// FromNPBytes reconstructs a Filter from the serialized form NPBytes
// produces: a 4-byte N, a 1-byte P, then the Golomb-coded bitstream.
func FromNPBytes(d []byte) (*Filter, error) {
	if len(d) < 5 {
		return nil, ErrMisserialized
	}
	n := binary.BigEndian.Uint32(d[:4])
	p := d[4]
	if p > 32 {
		return nil, ErrPTooBig
	}
	ndata := make([]byte, 4+len(d)-5)
	binary.BigEndian.PutUint32(ndata, n)
	copy(ndata[4:], d[5:])
	return &Filter{
		n:           n,
		p:           p,
		modulusNP:   uint64(n) * (uint64(1) << p),
		filterNData: ndata,
	}, nil
}

// N reports the number of members used to build the filter.
func (f *Filter) N() uint32 { return f.n }

// P reports the filter's collision probability as a negative power of
// two.
func (f *Filter) P() uint8 { return f.p }

// Bytes returns the serialized Golomb-coded bitstream, without N or P.
func (f *Filter) Bytes() []byte { return f.filterNData[4:] }

// NPBytes returns the serialized form including N and P, suitable for
// sending to a peer that does not already know them out of band.
func (f *Filter) NPBytes() []byte {
	out := make([]byte, 5+len(f.filterNData)-4)
	copy(out[:4], f.filterNData[:4])
	out[4] = f.p
	copy(out[5:], f.filterNData[4:])
	return out
}

// Match reports whether member is likely present in the filter (within
// the configured false-positive rate).
func (f *Filter) Match(key [KeySize]byte, member []byte) bool {
	b := newBitReader(f.filterNData[4:])
	term := siphashSum(key, member) % f.modulusNP

	var lastValue uint64
	for lastValue < term {
		v, err := f.readFullUint64(&b)
		if err != nil {
			return false
		}
		lastValue += v
		if lastValue == term {
			return true
		}
	}
	return false
}

// MatchAny reports whether any of members is likely present, walking
// both sorted value streams in lockstep rather than calling Match once
// per candidate.
func (f *Filter) MatchAny(key [KeySize]byte, members [][]byte) bool {
	if len(members) == 0 {
		return false
	}
	b := newBitReader(f.filterNData[4:])

	values := make(uint64Slice, 0, len(members))
	for _, m := range members {
		values = append(values, siphashSum(key, m)%f.modulusNP)
	}
	sort.Sort(values)

	var filterValue, searchValue uint64
	searchValue = values[0]
	i := 1
	for filterValue != searchValue {
		switch {
		case filterValue > searchValue:
			if i < len(values) {
				searchValue = values[i]
				i++
			} else {
				return false
			}
		case searchValue > filterValue:
			v, err := f.readFullUint64(&b)
			if err != nil {
				return false
			}
			filterValue += v
		}
	}
	return true
}

func (f *Filter) readFullUint64(b *bitReader) (uint64, error) {
	quotient, err := b.readUnary()
	if err != nil {
		return 0, err
	}
	remainder, err := b.readNBits(uint(f.p))
	if err != nil {
		return 0, err
	}
	return quotient<<f.p + remainder, nil
}

// Hash returns the Blake2b-256 digest of the filter's serialized bytes,
// used as a compact commitment the way a filter-chain header chains
// block filters together.
func (f *Filter) Hash() digest.Hash256 {
	return digest.SumHash256(f.filterNData)
}

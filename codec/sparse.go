// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"sort"

	"github.com/jrick/bitset"

	"github.com/gocardano/core/codec/cbor"
)

// SparseStruct encodes a struct whose fields are each independently
// optional, keyed by a CBOR map from tag to value. Useful for protocol
// parameter updates, where a given update typically touches only a
// handful of dozens of possible parameters. Present tags are tracked in
// a bitmap so a tag cannot silently be set twice.
type SparseStruct struct {
	present bitset.Bytes
	maxTag  int
	values  map[uint64]func(*cbor.Writer)
	order   []uint64
}

// NewSparseStruct returns an empty SparseStruct able to address tags in
// [0, maxTag].
func NewSparseStruct(maxTag int) *SparseStruct {
	return &SparseStruct{
		present: bitset.NewBytes(maxTag + 1),
		maxTag:  maxTag,
		values:  make(map[uint64]func(*cbor.Writer)),
	}
}

// Set records the value for tag. It panics if tag is out of range or
// already set, since that indicates a bug in the caller rather than
// malformed wire data.
func (s *SparseStruct) Set(tag uint64, write func(*cbor.Writer)) {
	if int(tag) > s.maxTag {
		panic("codec: sparse struct tag out of range")
	}
	if s.present.Get(int(tag)) {
		panic("codec: sparse struct tag set twice")
	}
	s.present.Set(int(tag))
	s.values[tag] = write
	s.order = append(s.order, tag)
}

// Encode writes the map of present tags to values, in ascending key
// order, matching the canonical map-key ordering the decoder enforces.
func (s *SparseStruct) Encode(w *cbor.Writer) {
	tags := append([]uint64{}, s.order...)
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	w.WriteMapPairsHeader(uint64(len(tags)))
	for _, tag := range tags {
		w.WriteUint(tag)
		s.values[tag](w)
	}
}

// SparseStructDecoder reads a tag-to-value map back, rejecting duplicate
// or descending keys.
type SparseStructDecoder struct {
	R       *cbor.Reader
	Pairs   int
	path    string
	seen    bitset.Bytes
	maxTag  int
	lastTag int64
}

// NewSparseStructDecoder reads the map header.
func NewSparseStructDecoder(r *cbor.Reader, maxTag int, path string) (*SparseStructDecoder, error) {
	n, err := r.ReadMapPairsHeader()
	if err != nil {
		return nil, wrap(KindUnexpectedType, path, err)
	}
	return &SparseStructDecoder{
		R: r, Pairs: int(n), path: path,
		seen: bitset.NewBytes(maxTag + 1), maxTag: maxTag, lastTag: -1,
	}, nil
}

// NextTag reads the next pair's key, enforcing strictly ascending,
// non-duplicate, in-range tags.
func (d *SparseStructDecoder) NextTag() (uint64, error) {
	tag, err := d.R.ReadUint()
	if err != nil {
		return 0, wrap(KindUnexpectedType, d.path, err)
	}
	if int(tag) > d.maxTag {
		return 0, &DecodeError{Kind: KindUnknownVariantTag, FieldPath: d.path, Index: int(tag)}
	}
	if int64(tag) <= d.lastTag {
		if d.seen.Get(int(tag)) {
			return 0, &DecodeError{Kind: KindDuplicateKey, FieldPath: d.path, Index: int(tag)}
		}
		return 0, &DecodeError{Kind: KindNonCanonicalInteger, FieldPath: d.path, Index: int(tag)}
	}
	d.seen.Set(int(tag))
	d.lastTag = int64(tag)
	return tag, nil
}

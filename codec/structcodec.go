// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import "github.com/gocardano/core/codec/cbor"

// StructEncoder builds the field-index-keyed struct/map pattern: fields
// are addressed by position, the array length is imax+1 where imax is
// the highest present field index, and any gap below imax is written as
// null. Trailing absent fields are not written at all, which is how an
// object that grew new optional fields over time stays byte-compatible
// with older encodings of the same value.
type StructEncoder struct {
	fields map[int]func(*cbor.Writer)
	imax   int
}

// NewStructEncoder returns an empty StructEncoder.
func NewStructEncoder() *StructEncoder {
	return &StructEncoder{fields: make(map[int]func(*cbor.Writer)), imax: -1}
}

// Set records the encoder for field index i. Calling Set more than once
// for the same index keeps the last value.
func (e *StructEncoder) Set(i int, write func(*cbor.Writer)) {
	e.fields[i] = write
	if i > e.imax {
		e.imax = i
	}
}

// Encode writes the accumulated fields into w as a definite-length
// array.
func (e *StructEncoder) Encode(w *cbor.Writer) {
	if e.imax < 0 {
		w.WriteArrayHeader(0)
		return
	}
	w.WriteArrayHeader(uint64(e.imax + 1))
	for i := 0; i <= e.imax; i++ {
		if f, ok := e.fields[i]; ok {
			f(w)
		} else {
			w.WriteNull()
		}
	}
}

// StructDecoder reads the field-index-keyed struct/map pattern. Callers
// read fields by position via the embedded Reader; MissingField reports
// whether a trailing field beyond the array's length should be treated
// as absent and defaulted rather than decoded.
type StructDecoder struct {
	R     *cbor.Reader
	Count int
	path  string
}

// NewStructDecoder reads the array header and returns a positioned
// decoder, or a MissingRequiredField-flavored error path is left to the
// caller since an empty struct is often valid.
func NewStructDecoder(r *cbor.Reader, path string) (*StructDecoder, error) {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return nil, wrap(KindUnexpectedType, path, err)
	}
	return &StructDecoder{R: r, Count: int(n), path: path}, nil
}

// MissingField reports whether field index i lies beyond the encoded
// array and should be treated as absent.
func (d *StructDecoder) MissingField(i int) bool { return i >= d.Count }

// ExpectNull consumes a null placeholder for a present-but-absent field
// (a gap below imax).
func (d *StructDecoder) ExpectNull(field string) error {
	if err := d.R.ReadNull(); err != nil {
		return wrap(KindUnexpectedType, d.path+"."+field, err)
	}
	return nil
}

// RequireField returns a MissingRequiredField error for index i if it is
// not present; callers use this for fields with no sensible default.
func (d *StructDecoder) RequireField(i int, field string) error {
	if d.MissingField(i) {
		return &DecodeError{Kind: KindMissingRequiredField, FieldPath: d.path + "." + field, Index: i}
	}
	return nil
}

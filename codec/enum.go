// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import "github.com/gocardano/core/codec/cbor"

// FlatEnumArity maps a variant tag to the fixed number of fields that
// variant carries, so a decoder can validate an array's declared length
// against the variant it claims to be before reading a single field.
type FlatEnumArity map[uint64]int

// EncodeFlatEnum writes a flat tagged-enum item: a single array whose
// first element is the variant tag and whose remaining len(fields)
// elements are the variant's fields (not a nested sub-array).
func EncodeFlatEnum(w *cbor.Writer, tag uint64, fields ...func(*cbor.Writer)) {
	w.WriteArrayHeader(uint64(1 + len(fields)))
	w.WriteUint(tag)
	for _, f := range fields {
		f(w)
	}
}

// DecodeFlatEnumHeader reads a flat tagged-enum's array header and tag,
// validating the element count against arity. It returns the tag and
// leaves r positioned at the first field; callers read exactly
// arity[tag] further items from r.
func DecodeFlatEnumHeader(r *cbor.Reader, arity FlatEnumArity, path string) (tag uint64, err error) {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return 0, wrap(KindUnexpectedType, path, err)
	}
	if n == 0 {
		return 0, wrap(KindTruncated, path, nil)
	}
	tag, err = r.ReadUint()
	if err != nil {
		return 0, wrap(KindUnexpectedType, path+".tag", err)
	}
	want, ok := arity[tag]
	if !ok {
		return 0, &DecodeError{Kind: KindUnknownVariantTag, FieldPath: path, Index: int(tag)}
	}
	if uint64(want) != n-1 {
		return 0, &DecodeError{Kind: KindMissingRequiredField, FieldPath: path, Index: want}
	}
	return tag, nil
}

// EncodeIndexEnum writes a bare-integer index enum: just the tag, no
// wrapping array.
func EncodeIndexEnum(w *cbor.Writer, tag uint64) { w.WriteUint(tag) }

// DecodeIndexEnum reads a bare-integer index enum and validates it
// against the allowed set.
func DecodeIndexEnum(r *cbor.Reader, allowed map[uint64]bool, path string) (uint64, error) {
	tag, err := r.ReadUint()
	if err != nil {
		return 0, wrap(KindUnexpectedType, path, err)
	}
	if !allowed[tag] {
		return 0, &DecodeError{Kind: KindUnknownVariantTag, FieldPath: path, Index: int(tag)}
	}
	return tag, nil
}

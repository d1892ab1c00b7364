// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package codec implements the three structural patterns the ledger
// object encoding is built from: field-index-keyed struct/map framing,
// flat tagged enums, and bare-integer index enums, plus the
// sparse-struct variant used for protocol parameter updates. It sits on
// top of the hand-rolled codec/cbor reader/writer.
package codec

import "fmt"

// ErrorKind classifies why a decode failed.
type ErrorKind int

const (
	KindTruncated ErrorKind = iota
	KindTrailingGarbage
	KindUnexpectedType
	KindUnknownVariantTag
	KindMissingRequiredField
	KindDuplicateKey
	KindNonCanonicalInteger
	KindChainPointerInvalid
	KindBadNetwork
	KindBadAddressType
)

func (k ErrorKind) String() string {
	switch k {
	case KindTruncated:
		return "truncated"
	case KindTrailingGarbage:
		return "trailing garbage"
	case KindUnexpectedType:
		return "unexpected type"
	case KindUnknownVariantTag:
		return "unknown variant tag"
	case KindMissingRequiredField:
		return "missing required field"
	case KindDuplicateKey:
		return "duplicate key"
	case KindNonCanonicalInteger:
		return "non-canonical integer"
	case KindChainPointerInvalid:
		return "invalid chain pointer"
	case KindBadNetwork:
		return "bad network id"
	case KindBadAddressType:
		return "bad address type"
	default:
		return "unknown"
	}
}

// DecodeError reports where in a nested object a decode failed and why.
type DecodeError struct {
	Kind      ErrorKind
	FieldPath string
	Index     int
	Err       error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("codec: %s at %s: %v", e.Kind, e.FieldPath, e.Err)
	}
	return fmt.Sprintf("codec: %s at %s", e.Kind, e.FieldPath)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func wrap(kind ErrorKind, path string, err error) *DecodeError {
	return &DecodeError{Kind: kind, FieldPath: path, Err: err}
}

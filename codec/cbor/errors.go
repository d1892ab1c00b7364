// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cbor

import "errors"

// ErrTruncated is returned when the reader runs out of bytes mid-item.
var ErrTruncated = errors.New("cbor: truncated input")

// ErrUnexpectedType is returned when the next item's major type does not
// match what the caller asked to read.
var ErrUnexpectedType = errors.New("cbor: unexpected major type")

// ErrNonCanonicalInteger is returned when an integer, length, or tag head
// was encoded in a wider form than its value required. This reader
// treats that as a hard decode failure rather than a lenient accept.
var ErrNonCanonicalInteger = errors.New("cbor: non-canonical integer encoding")

// ErrUnsupportedSimple is returned for a major-7 value this reader does
// not implement (floats, undefined, reserved simple values).
var ErrUnsupportedSimple = errors.New("cbor: unsupported simple value")

// ErrMissingBreak is returned when an indefinite-length item's break byte
// (0xff) was expected but not found.
var ErrMissingBreak = errors.New("cbor: missing break for indefinite-length item")

// ErrIndefiniteChunkType is returned when a bounded-bytes chunk is not
// itself a definite-length byte string, or exceeds the 64-byte chunk
// width.
var ErrIndefiniteChunkType = errors.New("cbor: malformed bounded-bytes chunk")

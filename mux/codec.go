// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mux

import (
	"errors"

	"github.com/gocardano/core/codec/cbor"
	"github.com/gocardano/core/mux/miniprotocol"
)

// ErrEndOfInput signals that buf does not yet hold a complete message;
// the reader loop retains the residual bytes and waits for the next
// frame of the same mini-protocol.
var ErrEndOfInput = errors.New("mux: incomplete message, need more bytes")

// decodeMessage reads exactly one top-level mini-protocol message off
// buf. Every message this substrate carries, opaque or not, is encoded
// as a flat tagged-enum array: [tag, field0, field1, ...]. The mux only
// needs the tag (to drive the mini-protocol's state machine) and the
// byte span consumed, so it reads the tag and then generically skips the
// remaining fields rather than decoding them — message bodies are
// handed to the registered protocol handler as raw bytes for its own
// (possibly typed) decode.
func decodeMessage(buf []byte) (tag miniprotocol.Tag, consumed int, err error) {
	r := cbor.NewReader(buf)
	n, err := r.ReadArrayHeader()
	if err != nil {
		return 0, 0, endOfInput(err)
	}
	if n == 0 {
		return 0, 0, cbor.ErrUnexpectedType
	}
	t, err := r.ReadUint()
	if err != nil {
		return 0, 0, endOfInput(err)
	}
	for i := uint64(1); i < n; i++ {
		if err := r.SkipValue(); err != nil {
			return 0, 0, endOfInput(err)
		}
	}
	return miniprotocol.Tag(t), r.Pos(), nil
}

func endOfInput(err error) error {
	if errors.Is(err, cbor.ErrTruncated) {
		return ErrEndOfInput
	}
	return err
}

// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mux implements a multiplexed session layer: N typed
// mini-protocols sharing one duplex byte stream, with per-protocol
// state-machine enforcement and agency tracking.
package mux

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the width of the fixed 8-byte frame header.
const HeaderSize = 8

// MaxPayloadSize is the largest payload a single frame can carry; the
// length field is a 16-bit unsigned integer.
const MaxPayloadSize = 65535

// responderBit marks a frame as server-initiated (bit 15 of the
// protocol-id field).
const responderBit = 0x8000

// ErrOversizePayload reports a payload longer than MaxPayloadSize. The
// 16-bit PayloadLen field cannot hold such a length, so no function in
// this package currently returns it.
var ErrOversizePayload = errors.New("mux: payload exceeds 65535 bytes")

// ErrShortHeader is returned when fewer than HeaderSize bytes are
// available to unmarshal.
var ErrShortHeader = errors.New("mux: short frame header")

// Header is the fixed 8-byte frame header prefixing every mux frame's
// payload.
type Header struct {
	// Timestamp is a 32-bit microsecond wall-clock delta, monotonic
	// since session start from the sender's point of view.
	Timestamp uint32
	// Protocol identifies the mini-protocol this frame belongs to.
	Protocol ProtocolID
	// Responder is true when the frame was sent by the protocol
	// responder (server) side rather than the initiator (client).
	Responder bool
	// PayloadLen is the number of payload bytes following the header.
	PayloadLen uint16
}

// MarshalBinary encodes h as its on-wire 8-byte form.
func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], h.Timestamp)
	idField := uint16(h.Protocol) & 0x7fff
	if h.Responder {
		idField |= responderBit
	}
	binary.BigEndian.PutUint16(buf[4:6], idField)
	binary.BigEndian.PutUint16(buf[6:8], h.PayloadLen)
	return buf, nil
}

// UnmarshalBinary decodes an 8-byte frame header from buf.
func (h *Header) UnmarshalBinary(buf []byte) error {
	if len(buf) < HeaderSize {
		return ErrShortHeader
	}
	h.Timestamp = binary.BigEndian.Uint32(buf[0:4])
	idField := binary.BigEndian.Uint16(buf[4:6])
	h.Responder = idField&responderBit != 0
	h.Protocol = ProtocolID(idField &^ responderBit)
	h.PayloadLen = binary.BigEndian.Uint16(buf[6:8])
	return nil
}

func (h Header) String() string {
	dir := "initiator"
	if h.Responder {
		dir = "responder"
	}
	return fmt.Sprintf("mux.Header{ts=%d proto=%d(%s) len=%d}", h.Timestamp, h.Protocol, dir, h.PayloadLen)
}

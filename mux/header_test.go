// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mux

import (
	"bytes"
	"testing"
)

// A header with ts=0x00000001, protocol=ChainSync, responder=false,
// len=3 serializes to 00 00 00 01 00 02 00 03, the payload bytes
// following immediately after.
func TestHeaderMarshalKnownBytes(t *testing.T) {
	h := Header{Timestamp: 1, Protocol: N2NChainSync, Responder: false, PayloadLen: 3}
	got, err := h.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x01, 0x00, 0x02, 0x00, 0x03}
	if !bytes.Equal(got, want) {
		t.Fatalf("header = % x, want % x", got, want)
	}

	var decoded Header
	if err := decoded.UnmarshalBinary(got); err != nil {
		t.Fatal(err)
	}
	if decoded != h {
		t.Fatalf("decoded = %+v, want %+v", decoded, h)
	}
}

func TestHeaderResponderBit(t *testing.T) {
	h := Header{Timestamp: 42, Protocol: N2NHandshake, Responder: true, PayloadLen: 10}
	raw, _ := h.MarshalBinary()
	if raw[4]&0x80 == 0 {
		t.Fatal("responder bit not set")
	}
	var decoded Header
	if err := decoded.UnmarshalBinary(raw); err != nil {
		t.Fatal(err)
	}
	if !decoded.Responder || decoded.Protocol != N2NHandshake {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestHeaderUnmarshalShortBuffer(t *testing.T) {
	var h Header
	if err := h.UnmarshalBinary([]byte{0x00, 0x01}); err == nil {
		t.Fatal("expected short-header error")
	}
}

func TestProtocolIDValidation(t *testing.T) {
	if !ModeNodeToNode.Valid(N2NChainSync) {
		t.Fatal("ChainSync should be valid under N2N")
	}
	if ModeNodeToNode.Valid(ProtocolID(99)) {
		t.Fatal("unknown id should be invalid")
	}
	if !ModeNodeToClient.Valid(N2CLocalStateQuery) {
		t.Fatal("LocalStateQuery should be valid under N2C")
	}
}

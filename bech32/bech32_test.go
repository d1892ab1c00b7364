// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bech32

import "testing"

func TestEncodeDecodeRoundtrip(t *testing.T) {
	payload := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0xff, 0xee}
	enc, err := EncodeFromBytes("addr", payload)
	if err != nil {
		t.Fatal(err)
	}
	hrp, got, err := DecodeToBytes(enc)
	if err != nil {
		t.Fatal(err)
	}
	if hrp != "addr" {
		t.Fatalf("hrp = %q", hrp)
	}
	if len(got) != len(payload) {
		t.Fatalf("payload length = %d, want %d", len(got), len(payload))
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Fatalf("byte %d = %x, want %x", i, got[i], payload[i])
		}
	}
}

func TestDecodeRejectsBadChecksum(t *testing.T) {
	enc, err := EncodeFromBytes("addr", []byte{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	tampered := []byte(enc)
	last := tampered[len(tampered)-1]
	if last == 'q' {
		last = 'p'
	} else {
		last = 'q'
	}
	tampered[len(tampered)-1] = last
	if _, _, err := Decode(string(tampered)); err == nil {
		t.Fatal("expected checksum failure")
	}
}

func TestDecodeRejectsMixedCase(t *testing.T) {
	if _, _, err := Decode("Addr1qqqsyqcyq5rqwzqfpg9scrgwpugpzysnzs23v9ccrydpk8qarc0jqxv9hhh"); err == nil {
		t.Fatal("expected mixed-case rejection")
	}
}

func TestEncodeRejectsEmptyHRP(t *testing.T) {
	if _, err := Encode("", []byte{1}); err == nil {
		t.Fatal("expected empty-hrp rejection")
	}
}

func TestConvertBitsRoundtrip(t *testing.T) {
	orig := []byte{0xde, 0xad, 0xbe, 0xef, 0x01}
	fives, err := ConvertBits(orig, 8, 5, true)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ConvertBits(fives, 5, 8, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != len(orig) {
		t.Fatalf("length = %d, want %d", len(back), len(orig))
	}
	for i := range orig {
		if back[i] != orig[i] {
			t.Fatalf("byte %d = %x, want %x", i, back[i], orig[i])
		}
	}
}

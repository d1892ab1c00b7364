// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cbor

import (
	"bytes"
	"errors"
	"testing"
)

func TestUintRoundtripShortForms(t *testing.T) {
	cases := []uint64{0, 1, 23, 24, 255, 256, 65535, 65536, 4294967295, 4294967296}
	for _, v := range cases {
		w := NewWriter()
		w.WriteUint(v)
		r := NewReader(w.Bytes())
		got, err := r.ReadUint()
		if err != nil {
			t.Fatalf("v=%d: %v", v, err)
		}
		if got != v {
			t.Fatalf("v=%d: got %d", v, got)
		}
		if !r.AtEOF() {
			t.Fatalf("v=%d: trailing bytes", v)
		}
	}
}

func TestNegativeIntRoundtrip(t *testing.T) {
	cases := []int64{-1, -24, -25, -256, -257}
	for _, v := range cases {
		w := NewWriter()
		w.WriteInt(v)
		r := NewReader(w.Bytes())
		got, err := r.ReadInt()
		if err != nil || got != v {
			t.Fatalf("v=%d: got %d, err %v", v, got, err)
		}
	}
}

func TestBytesInlineRoundtrip(t *testing.T) {
	b := bytes.Repeat([]byte{0xab}, 40)
	w := NewWriter()
	w.WriteBytes(b)
	r := NewReader(w.Bytes())
	got, err := r.ReadBytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, b) {
		t.Fatal("roundtrip mismatch")
	}
}

func TestBytesBoundedChunkedRoundtrip(t *testing.T) {
	b := bytes.Repeat([]byte{0x42}, 200)
	w := NewWriter()
	w.WriteBytes(b)
	out := w.Bytes()
	if out[0] != MajorBytes<<5|31 {
		t.Fatalf("expected indefinite-length byte-string head, got %#x", out[0])
	}
	r := NewReader(out)
	got, err := r.ReadBytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, b) {
		t.Fatal("roundtrip mismatch")
	}
}

func TestNonCanonicalIntegerRejected(t *testing.T) {
	// 0x18 0x05 encodes 5 using the 1-byte extension, but 5 fits in the
	// direct 5-bit form: non-canonical.
	r := NewReader([]byte{0x18, 0x05})
	if _, err := r.ReadUint(); !errors.Is(err, ErrNonCanonicalInteger) {
		t.Fatalf("got %v, want ErrNonCanonicalInteger", err)
	}
}

func TestTruncatedInputDetected(t *testing.T) {
	r := NewReader([]byte{0x19, 0x01})
	if _, err := r.ReadUint(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("got %v, want ErrTruncated", err)
	}
}

func TestArrayAndMapPairsHeaderRoundtrip(t *testing.T) {
	w := NewWriter()
	w.WriteArrayHeader(3)
	r := NewReader(w.Bytes())
	n, err := r.ReadArrayHeader()
	if err != nil || n != 3 {
		t.Fatalf("got %d, %v", n, err)
	}

	w2 := NewWriter()
	w2.WriteMapPairsHeader(2)
	r2 := NewReader(w2.Bytes())
	pairs, err := r2.ReadMapPairsHeader()
	if err != nil || pairs != 2 {
		t.Fatalf("got %d, %v", pairs, err)
	}
}

func TestBoolAndNullRoundtrip(t *testing.T) {
	w := NewWriter()
	w.WriteBool(true)
	w.WriteBool(false)
	w.WriteNull()
	r := NewReader(w.Bytes())
	if v, err := r.ReadBool(); err != nil || !v {
		t.Fatalf("true: got %v, %v", v, err)
	}
	if v, err := r.ReadBool(); err != nil || v {
		t.Fatalf("false: got %v, %v", v, err)
	}
	if !r.IsNull() {
		t.Fatal("expected IsNull")
	}
	if err := r.ReadNull(); err != nil {
		t.Fatal(err)
	}
	if !r.AtEOF() {
		t.Fatal("expected EOF")
	}
}

func TestTagRoundtrip(t *testing.T) {
	w := NewWriter()
	w.WriteTag(258)
	w.WriteArrayHeader(0)
	r := NewReader(w.Bytes())
	tag, err := r.ReadTag()
	if err != nil || tag != 258 {
		t.Fatalf("got %d, %v", tag, err)
	}
	if n, err := r.ReadArrayHeader(); err != nil || n != 0 {
		t.Fatalf("got %d, %v", n, err)
	}
}

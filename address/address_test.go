// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"testing"

	"github.com/gocardano/core/digest"
)

func hashFrom(b byte) digest.Hash224 {
	var h digest.Hash224
	for i := range h {
		h[i] = b
	}
	return h
}

// Property 11: header nibble is a bijective function of
// (payment-kind, delegation-kind, is-stake-only).
func TestHeaderBijective(t *testing.T) {
	seen := make(map[Header]bool)
	for _, p := range []PaymentKind{PaymentVKey, PaymentScript} {
		for _, d := range []DelegationKind{DelegationStakeKey, DelegationScript, DelegationPointer, DelegationNone} {
			h := HeaderFor(p, d)
			if seen[h] {
				t.Fatalf("header %x produced by more than one (payment,delegation) pair", h)
			}
			seen[h] = true
			if h.PaymentKind() != p {
				t.Fatalf("header %x: PaymentKind() = %v, want %v", h, h.PaymentKind(), p)
			}
			if h.DelegationKind() != d {
				t.Fatalf("header %x: DelegationKind() = %v, want %v", h, h.DelegationKind(), d)
			}
		}
		stakeOnly := HeaderForStakeOnly(p)
		if seen[stakeOnly] {
			t.Fatalf("stake-only header %x collides with a payment+delegation header", stakeOnly)
		}
		seen[stakeOnly] = true
		if !stakeOnly.IsStakeOnly() || stakeOnly.PaymentKind() != p {
			t.Fatalf("stake-only header %x roundtrip failed", stakeOnly)
		}
	}
	if len(seen) != 10 {
		t.Fatalf("got %d distinct headers, want 10", len(seen))
	}
}

// Property 10: Bech32 round-trip for each of the 10 header types on
// both networks.
func TestBech32RoundtripAllHeaderTypes(t *testing.T) {
	headers := []Header{
		HeaderVKeyStakeKey, HeaderScriptStakeKey,
		HeaderVKeyScript, HeaderScriptScript,
		HeaderVKeyPointer, HeaderScriptPointer,
		HeaderVKeyNone, HeaderScriptNone,
		HeaderVKeyStakeOnly, HeaderScriptStakeOnly,
	}
	for _, h := range headers {
		for _, n := range []Network{Mainnet, Testnet} {
			addr := Address{Header: h, Network: n, PaymentHash: hashFrom(0xab)}
			if !h.IsStakeOnly() {
				switch h.DelegationKind() {
				case DelegationStakeKey, DelegationScript:
					sh := hashFrom(0xcd)
					addr.StakeHash = &sh
				case DelegationPointer:
					addr.Pointer = &ChainPointer{Slot: 2498243, Tx: 27, Cert: 3}
				}
			}
			encoded, err := addr.Bech32()
			if err != nil {
				t.Fatalf("header %x network %v: encode: %v", h, n, err)
			}
			decoded, err := DecodeBech32(encoded)
			if err != nil {
				t.Fatalf("header %x network %v: decode %q: %v", h, n, encoded, err)
			}
			if decoded.Header != h || decoded.Network != n || decoded.PaymentHash != addr.PaymentHash {
				t.Fatalf("header %x network %v: roundtrip mismatch", h, n)
			}
			reencoded, err := decoded.Bech32()
			if err != nil || reencoded != encoded {
				t.Fatalf("header %x network %v: re-encode mismatch: %q vs %q (err %v)", h, n, reencoded, encoded, err)
			}
		}
	}
}

func TestDecodeBech32RejectsWrongHRP(t *testing.T) {
	addr := Address{Header: HeaderVKeyNone, Network: Mainnet, PaymentHash: hashFrom(1)}
	encoded, err := addr.Bech32()
	if err != nil {
		t.Fatal(err)
	}
	tampered := "stake" + encoded[len("addr"):]
	if _, err := DecodeBech32(tampered); err == nil {
		t.Fatal("expected HRP mismatch to be rejected")
	}
}

func TestChainPointerVarintRoundtrip(t *testing.T) {
	cases := []ChainPointer{
		{Slot: 0, Tx: 0, Cert: 0},
		{Slot: 127, Tx: 128, Cert: 16383},
		{Slot: 2498243, Tx: 27, Cert: 3},
		{Slot: 1 << 40, Tx: 1 << 20, Cert: 1 << 10},
	}
	for _, p := range cases {
		enc := p.Encode(nil)
		got, rest, err := DecodeChainPointer(enc)
		if err != nil {
			t.Fatalf("%+v: decode: %v", p, err)
		}
		if len(rest) != 0 {
			t.Fatalf("%+v: leftover bytes %v", p, rest)
		}
		if got != p {
			t.Fatalf("got %+v, want %+v", got, p)
		}
	}
}

func TestChainPointerSingleByteGroupsHaveNoContinuationBit(t *testing.T) {
	p := ChainPointer{Slot: 27, Tx: 3, Cert: 0}
	enc := p.Encode(nil)
	for i, b := range enc {
		if b&0x80 != 0 {
			t.Fatalf("byte %d (%#x) has continuation bit set but every group here is single-byte", i, b)
		}
	}
}

func TestDecodeChainPointerRejectsTruncated(t *testing.T) {
	if _, _, err := DecodeChainPointer([]byte{0x81}); err == nil {
		t.Fatal("expected truncation error")
	}
}

// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/gocardano/core/codec"
	"github.com/gocardano/core/codec/cbor"
)

func TestTransactionBodyRoundtrip(t *testing.T) {
	ttl := uint64(9_000_000)
	body := TransactionBody{
		Inputs:  []TxIn{{TransactionID: [32]byte{0x01}, Index: 0}},
		Outputs: [][]byte{{0xa0, 0x01}, {0xa0, 0x02}},
		Fee:     180_000,
		TTL:     &ttl,
		Mint:    map[string]int64{"token": 10, "other": -5},
	}

	w := cbor.NewWriter()
	body.Encode(w)
	r := cbor.NewReader(w.Bytes())
	decoded, err := DecodeTransactionBody(r, "body")
	if err != nil {
		t.Fatal(err)
	}
	if !r.AtEOF() {
		t.Fatal("trailing bytes")
	}
	if decoded.Fee != body.Fee {
		t.Fatalf("fee = %d, want %d", decoded.Fee, body.Fee)
	}
	if len(decoded.Inputs) != 1 || decoded.Inputs[0].Index != 0 {
		t.Fatal("inputs mismatch")
	}
	if len(decoded.Outputs) != 2 {
		t.Fatal("outputs mismatch")
	}
	if decoded.TTL == nil || *decoded.TTL != ttl {
		t.Fatal("ttl mismatch")
	}
	if len(decoded.Mint) != 2 || decoded.Mint["token"] != 10 || decoded.Mint["other"] != -5 {
		t.Fatal("mint mismatch")
	}
	if decoded.NetworkID != nil {
		t.Fatal("network id should be absent, not false")
	}
}

func TestTransactionBodyRequiresFee(t *testing.T) {
	w := cbor.NewWriter()
	w.WriteMapPairsHeader(0)
	r := cbor.NewReader(w.Bytes())
	if _, err := DecodeTransactionBody(r, "body"); err == nil {
		t.Fatal("expected missing-fee error")
	}
}

// A conforming encoder always emits absence for network_id, regardless
// of the in-memory value; a conforming decoder treats an explicit null
// and absence identically.
func TestTransactionBodyNetworkIDNeverEncodesFalse(t *testing.T) {
	falseID := false
	body := TransactionBody{Fee: 1, NetworkID: &falseID}
	w := cbor.NewWriter()
	body.Encode(w)
	r := cbor.NewReader(w.Bytes())
	decoded, err := DecodeTransactionBody(r, "body")
	if err != nil {
		t.Fatal(err)
	}
	if decoded.NetworkID != nil {
		t.Fatal("network id is never written by Encode, so it must decode as absent")
	}
}

func TestTransactionBodyNetworkIDExplicitNullTreatedAsAbsent(t *testing.T) {
	w := cbor.NewWriter()
	s := codec.NewSparseStruct(txBodyMaxTag)
	fee := uint64(1)
	s.Set(TxBodyFee, func(w *cbor.Writer) { w.WriteUint(fee) })
	s.Set(TxBodyNetworkID, func(w *cbor.Writer) { w.WriteNull() })
	s.Encode(w)
	r := cbor.NewReader(w.Bytes())
	decoded, err := DecodeTransactionBody(r, "body")
	if err != nil {
		t.Fatal(err)
	}
	if decoded.NetworkID != nil {
		t.Fatal("explicit null network id should decode identically to absence")
	}
}

func TestTransactionBodyCertificatesRoundtrip(t *testing.T) {
	body := TransactionBody{
		Fee: 200_000,
		Certificates: []Certificate{
			{Kind: CertAccountUnregistration, Credential: Credential{Kind: CredentialVKeyHash, Hash: hash224(0x0a)}},
		},
	}
	w := cbor.NewWriter()
	body.Encode(w)
	r := cbor.NewReader(w.Bytes())
	decoded, err := DecodeTransactionBody(r, "body")
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded.Certificates) != 1 || decoded.Certificates[0].Kind != CertAccountUnregistration {
		t.Fatalf("certificates mismatch, got %v", spew.Sdump(decoded.Certificates))
	}
}

// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"testing"

	"github.com/gocardano/core/codec/cbor"
	"github.com/gocardano/core/digest"
)

func hash224(b byte) digest.Hash224 {
	var h digest.Hash224
	for i := range h {
		h[i] = b
	}
	return h
}

func hash256(b byte) digest.Hash256 {
	var h digest.Hash256
	for i := range h {
		h[i] = b
	}
	return h
}

func roundtripCertificate(t *testing.T, c Certificate) Certificate {
	t.Helper()
	w := cbor.NewWriter()
	c.Encode(w)
	r := cbor.NewReader(w.Bytes())
	decoded, err := Decode(r, "cert")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !r.AtEOF() {
		t.Fatalf("trailing bytes after decode")
	}
	return decoded
}

// S4: AccountAction{credential, pool=Some, drep=Some, deposit=None}
// encodes as tag 10, array length 4, and round-trips.
func TestScenarioS4AccountActionTag10(t *testing.T) {
	pool := hash224(0x11)
	drep := DelegateRepresentative{Kind: DRepKeyHash, Hash: hash224(0x22)}
	c := Certificate{
		Kind:                   CertAccountAction,
		Credential:             Credential{Kind: CredentialVKeyHash, Hash: hash224(0x01)},
		Pool:                   &pool,
		DelegateRepresentative: &drep,
	}
	tag, fields := c.tagAndFields()
	if tag != 10 || fields != 3 {
		t.Fatalf("tag=%d fields=%d, want 10,3", tag, fields)
	}

	w := cbor.NewWriter()
	c.Encode(w)
	r := cbor.NewReader(w.Bytes())
	n, err := r.ReadArrayHeader()
	if err != nil || n != 4 {
		t.Fatalf("array length = %d, want 4 (err %v)", n, err)
	}

	decoded := roundtripCertificate(t, c)
	if decoded.Kind != CertAccountAction || decoded.Credential != c.Credential {
		t.Fatal("credential mismatch")
	}
	if decoded.Pool == nil || *decoded.Pool != pool {
		t.Fatal("pool mismatch")
	}
	if decoded.DelegateRepresentative == nil || *decoded.DelegateRepresentative != drep {
		t.Fatal("delegate representative mismatch")
	}
	if decoded.Deposit != nil {
		t.Fatal("deposit should be absent")
	}
}

func TestCertificateAllAccountActionCombinations(t *testing.T) {
	deposit := uint64(5_000_000)
	cred := Credential{Kind: CredentialScriptHash, Hash: hash224(0x03)}
	pool := hash224(0x04)
	drep := DelegateRepresentative{Kind: DRepAbstain}

	cases := []struct {
		name string
		c    Certificate
		tag  uint64
	}{
		{"bare", Certificate{Kind: CertAccountAction, Credential: cred}, 0},
		{"drep-only", Certificate{Kind: CertAccountAction, Credential: cred, DelegateRepresentative: &drep}, 9},
		{"pool-only", Certificate{Kind: CertAccountAction, Credential: cred, Pool: &pool}, 2},
		{"pool-drep", Certificate{Kind: CertAccountAction, Credential: cred, Pool: &pool, DelegateRepresentative: &drep}, 10},
		{"deposit-only", Certificate{Kind: CertAccountAction, Credential: cred, Deposit: &deposit}, 7},
		{"deposit-drep", Certificate{Kind: CertAccountAction, Credential: cred, Deposit: &deposit, DelegateRepresentative: &drep}, 12},
		{"deposit-pool", Certificate{Kind: CertAccountAction, Credential: cred, Deposit: &deposit, Pool: &pool}, 11},
		{"all", Certificate{Kind: CertAccountAction, Credential: cred, Deposit: &deposit, Pool: &pool, DelegateRepresentative: &drep}, 13},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tag, _ := tc.c.tagAndFields()
			if tag != tc.tag {
				t.Fatalf("tag = %d, want %d", tag, tc.tag)
			}
			decoded := roundtripCertificate(t, tc.c)
			if decoded.Credential != tc.c.Credential {
				t.Fatal("credential mismatch")
			}
		})
	}
}

func TestCertificatePoolRetirementRoundtrip(t *testing.T) {
	c := Certificate{Kind: CertPoolRetirement, PoolID: hash224(0x09), Epoch: 412}
	decoded := roundtripCertificate(t, c)
	if decoded.PoolID != c.PoolID || decoded.Epoch != c.Epoch {
		t.Fatal("pool retirement roundtrip mismatch")
	}
}

func TestCertificatePoolRegistrationRoundtrip(t *testing.T) {
	c := Certificate{
		Kind:              CertPoolRegistration,
		Operator:          hash224(0x01),
		VRFKeyHash:        hash256(0x02),
		Pledge:            1_000_000,
		Cost:              340_000,
		MarginNumerator:   3,
		MarginDenominator: 100,
		RewardAccount:     []byte{0xe0, 0x01, 0x02},
		Owners:            []digest.Hash224{hash224(0x03), hash224(0x04)},
		Relays:            [][]byte{{0x01, 0x02}, {0x03}},
		Metadata:          &PoolMetadata{URL: "https://pool.example/metadata.json", Hash: hash256(0x05)},
	}
	decoded := roundtripCertificate(t, c)
	if decoded.Operator != c.Operator || decoded.VRFKeyHash != c.VRFKeyHash {
		t.Fatal("key hash mismatch")
	}
	if len(decoded.Owners) != 2 || len(decoded.Relays) != 2 {
		t.Fatal("owners/relays length mismatch")
	}
	if decoded.Metadata == nil || decoded.Metadata.URL != c.Metadata.URL {
		t.Fatal("metadata mismatch")
	}
}

func TestCertificateDRepRegistrationWithAnchor(t *testing.T) {
	deposit := uint64(500_000_000)
	anchor := Anchor{URL: "https://drep.example/info.json", DataHash: hash256(0x07)}
	c := Certificate{
		Kind:       CertDRepRegistration,
		Credential: Credential{Kind: CredentialVKeyHash, Hash: hash224(0x08)},
		Deposit:    &deposit,
		Anchor:     &anchor,
	}
	decoded := roundtripCertificate(t, c)
	if decoded.Deposit == nil || *decoded.Deposit != deposit {
		t.Fatal("deposit mismatch")
	}
	if decoded.Anchor == nil || *decoded.Anchor != anchor {
		t.Fatal("anchor mismatch")
	}
}

func TestDecodeRejectsUnknownTag(t *testing.T) {
	w := cbor.NewWriter()
	w.WriteArrayHeader(1)
	w.WriteUint(6) // tag 6 is not in the defined set
	r := cbor.NewReader(w.Bytes())
	if _, err := Decode(r, "cert"); err == nil {
		t.Fatal("expected unknown-tag error")
	}
}

// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package filter

import (
	"testing"

	"github.com/gocardano/core/digest"
)

func testKey() [KeySize]byte {
	var k [KeySize]byte
	for i := range k {
		k[i] = byte(i + 1)
	}
	return k
}

func credHashes(labels ...string) [][]byte {
	out := make([][]byte, len(labels))
	for i, l := range labels {
		h := digest.SumHash224([]byte(l))
		out[i] = h[:]
	}
	return out
}

func TestFilterMatchesMembers(t *testing.T) {
	key := testKey()
	members := credHashes("alice", "bob", "carol", "dave")
	f, err := NewFilter(19, key, members)
	if err != nil {
		t.Fatal(err)
	}
	if f.N() != 4 {
		t.Fatalf("N = %d", f.N())
	}
	for i, m := range members {
		if !f.Match(key, m) {
			t.Fatalf("member %d not matched", i)
		}
	}
}

func TestFilterRejectsAbsentMemberUsually(t *testing.T) {
	key := testKey()
	members := credHashes("alice", "bob", "carol")
	f, err := NewFilter(19, key, members)
	if err != nil {
		t.Fatal(err)
	}
	absent := credHashes("definitely-not-present")[0]
	if f.Match(key, absent) {
		t.Log("false positive hit, acceptable at low probability")
	}
}

func TestFilterMatchAny(t *testing.T) {
	key := testKey()
	members := credHashes("alice", "bob", "carol")
	f, err := NewFilter(19, key, members)
	if err != nil {
		t.Fatal(err)
	}
	candidates := credHashes("zzz-absent", "bob")
	if !f.MatchAny(key, candidates) {
		t.Fatal("expected MatchAny to find bob")
	}
}

func TestFilterSerializationRoundtrip(t *testing.T) {
	key := testKey()
	members := credHashes("alice", "bob", "carol", "dave", "erin")
	f, err := NewFilter(20, key, members)
	if err != nil {
		t.Fatal(err)
	}
	np := f.NPBytes()
	g, err := FromNPBytes(np)
	if err != nil {
		t.Fatal(err)
	}
	if g.N() != f.N() || g.P() != f.P() {
		t.Fatalf("N/P mismatch after roundtrip: got (%d,%d) want (%d,%d)", g.N(), g.P(), f.N(), f.P())
	}
	for i, m := range members {
		if !g.Match(key, m) {
			t.Fatalf("member %d not matched after roundtrip", i)
		}
	}
}

func TestNewFilterRejectsEmptySet(t *testing.T) {
	if _, err := NewFilter(19, testKey(), nil); err != ErrNoData {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestFromNPBytesRejectsShortInput(t *testing.T) {
	if _, err := FromNPBytes([]byte{1, 2, 3}); err != ErrMisserialized {
		t.Fatalf("err = %v, want ErrMisserialized", err)
	}
}

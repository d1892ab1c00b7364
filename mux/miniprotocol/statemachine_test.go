// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package miniprotocol

import "testing"

func TestHandshakeAgencyTable(t *testing.T) {
	sm := Handshake()
	if sm.AgentFor(StatePropose) != AgencyClient {
		t.Fatal("Propose should be client agency")
	}
	if sm.AgentFor(StateConfirm) != AgencyServer {
		t.Fatal("Confirm should be server agency")
	}
	if sm.AgentFor(StateDone) != AgencyNone {
		t.Fatal("Done should have no agency")
	}

	tr, ok := sm.Lookup(TagProposeVersions)
	if !ok || tr.From != StatePropose || tr.To != StateConfirm {
		t.Fatalf("ProposeVersions transition = %+v", tr)
	}
}

func TestRequestResponseMachine(t *testing.T) {
	sm := RequestResponse("ChainSync")
	tr, ok := sm.Lookup(TagRequest)
	if !ok || sm.AgentFor(tr.From) != AgencyClient {
		t.Fatal("request must originate from client-agency state")
	}
	tr, ok = sm.Lookup(TagResponse)
	if !ok || sm.AgentFor(tr.From) != AgencyServer || sm.AgentFor(tr.To) != AgencyClient {
		t.Fatal("response should return agency to client")
	}
}

func TestRegistryCoversAllProtocolNames(t *testing.T) {
	want := []string{"Handshake", "ChainSync", "BlockFetch", "TxSubmission", "KeepAlive", "PeerSharing"}
	for _, name := range want {
		if _, ok := N2N[name]; !ok {
			t.Fatalf("N2N missing %s", name)
		}
	}
	wantC := []string{"Handshake", "ChainSync", "LocalTxSubmission", "LocalStateQuery", "LocalTxMonitor"}
	for _, name := range wantC {
		if _, ok := N2C[name]; !ok {
			t.Fatalf("N2C missing %s", name)
		}
	}
}

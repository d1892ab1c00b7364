// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mux

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/gocardano/core/codec/cbor"
	"github.com/gocardano/core/mux/handshake"
	"github.com/gocardano/core/mux/miniprotocol"
)

// The server receives ProposeVersions({7:{magic:1,query:false}}) and
// replies Refuse(VersionMismatch([10,11,12])); both sides transition to
// Done.
func TestHandshakeRefuseEndToEnd(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	client := NewSession(clientConn, ModeNodeToNode, miniprotocol.AgencyClient)
	server := NewSession(serverConn, ModeNodeToNode, miniprotocol.AgencyServer)

	serverInbox := make(chan ReceivedMessage, 1)
	if err := client.Register(N2NHandshake, miniprotocol.Handshake(), nil); err != nil {
		t.Fatal(err)
	}
	if err := server.Register(N2NHandshake, miniprotocol.Handshake(), serverInbox); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client.Run(ctx)
	server.Run(ctx)

	clientReply := make(chan ReceivedMessage, 1)
	propose := handshake.ProposeVersions{
		Versions: map[uint64]handshake.Params{
			7: {NetworkMagic: 1, Query: false},
		},
	}
	err := client.Send(N2NHandshake, miniprotocol.TagProposeVersions, func(w *cbor.Writer) {
		handshake.Encode(w, propose)
	}, clientReply)
	if err != nil {
		t.Fatalf("client send: %v", err)
	}

	select {
	case rm := <-serverInbox:
		tag, msg, err := handshake.Decode(cbor.NewReader(rm.Raw), "msg")
		if err != nil {
			t.Fatal(err)
		}
		if tag != handshake.TagProposeVersions {
			t.Fatalf("server received tag %d, want ProposeVersions", tag)
		}
		pv, ok := msg.(handshake.ProposeVersions)
		if !ok || pv.Versions[7].NetworkMagic != 1 {
			t.Fatalf("server decoded %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server to receive ProposeVersions")
	}

	refuse := handshake.Refuse{Reason: handshake.RefuseReason{
		Kind:    handshake.VersionMismatch,
		Offered: []uint64{10, 11, 12},
	}}
	if err := server.Send(N2NHandshake, miniprotocol.TagRefuse, func(w *cbor.Writer) {
		handshake.Encode(w, refuse)
	}, nil); err != nil {
		t.Fatalf("server send: %v", err)
	}

	select {
	case rm := <-clientReply:
		tag, msg, err := handshake.Decode(cbor.NewReader(rm.Raw), "msg")
		if err != nil {
			t.Fatal(err)
		}
		if tag != handshake.TagRefuse {
			t.Fatalf("client received tag %d, want Refuse", tag)
		}
		ref, ok := msg.(handshake.Refuse)
		if !ok || ref.Reason.Kind != handshake.VersionMismatch {
			t.Fatalf("client decoded %+v", msg)
		}
		if len(ref.Reason.Offered) != 3 || ref.Reason.Offered[0] != 10 {
			t.Fatalf("offered versions = %v", ref.Reason.Offered)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for client to receive Refuse")
	}
}

// A send attempted from a state whose agent is not the local side is
// rejected without touching the wire.
func TestSendRejectsWrongAgency(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	server := NewSession(serverConn, ModeNodeToNode, miniprotocol.AgencyServer)
	_ = clientConn
	if err := server.Register(N2NHandshake, miniprotocol.Handshake(), nil); err != nil {
		t.Fatal(err)
	}

	// The server cannot send ProposeVersions: that message's from-state
	// (Propose) has client agency.
	err := server.Send(N2NHandshake, miniprotocol.TagProposeVersions, func(w *cbor.Writer) {
		handshake.Encode(w, handshake.ProposeVersions{Versions: map[uint64]handshake.Params{}})
	}, nil)
	if err == nil {
		t.Fatal("expected wrong-agency rejection")
	}
}

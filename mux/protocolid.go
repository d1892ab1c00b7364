// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mux

import "errors"

// ProtocolID is a mini-protocol identifier, the low 15 bits of a mux
// frame's protocol-id field.
type ProtocolID uint16

// Node-to-node mini-protocol ids.
const (
	N2NHandshake    ProtocolID = 0
	N2NChainSync    ProtocolID = 2
	N2NBlockFetch   ProtocolID = 3
	N2NTxSubmission ProtocolID = 4
	N2NKeepAlive    ProtocolID = 8
	N2NPeerSharing  ProtocolID = 10
)

// Node-to-client mini-protocol ids.
const (
	N2CHandshake         ProtocolID = 0
	N2CChainSync         ProtocolID = 5
	N2CLocalTxSubmission ProtocolID = 6
	N2CLocalStateQuery   ProtocolID = 7
	N2CLocalTxMonitor    ProtocolID = 9
)

// ErrInvalidPeer is returned when a frame names a protocol id outside
// the registered set for the session's mode.
var ErrInvalidPeer = errors.New("mux: unknown protocol id (InvalidPeer)")

// Mode selects which id table a Session validates frames against.
type Mode int

const (
	// ModeNodeToNode validates protocol ids against the N2N table.
	ModeNodeToNode Mode = iota
	// ModeNodeToClient validates protocol ids against the N2C table.
	ModeNodeToClient
)

var n2nIDs = map[ProtocolID]string{
	N2NHandshake:    "Handshake",
	N2NChainSync:    "ChainSync",
	N2NBlockFetch:   "BlockFetch",
	N2NTxSubmission: "TxSubmission",
	N2NKeepAlive:    "KeepAlive",
	N2NPeerSharing:  "PeerSharing",
}

var n2cIDs = map[ProtocolID]string{
	N2CHandshake:         "Handshake",
	N2CChainSync:         "ChainSync",
	N2CLocalTxSubmission: "LocalTxSubmission",
	N2CLocalStateQuery:   "LocalStateQuery",
	N2CLocalTxMonitor:    "LocalTxMonitor",
}

// Name returns the registered mini-protocol name for id under mode, or
// ok=false if id is not a member of that mode's table.
func (m Mode) Name(id ProtocolID) (string, bool) {
	if m == ModeNodeToClient {
		name, ok := n2cIDs[id]
		return name, ok
	}
	name, ok := n2nIDs[id]
	return name, ok
}

// Valid reports whether id is a registered mini-protocol for mode.
func (m Mode) Valid(id ProtocolID) bool {
	_, ok := m.Name(id)
	return ok
}

// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package miniprotocol

// Handshake states and tags: client proposes, server confirms with an
// accept or refuse, either terminates the session.
const (
	StatePropose State = "Propose"
	StateConfirm State = "Confirm"
	StateDone    State = "Done"
)

const (
	// TagProposeVersions is the client->server offer message.
	TagProposeVersions Tag = 0
	// TagAcceptVersion is the server->client acceptance.
	TagAcceptVersion Tag = 1
	// TagRefuse is the server->client rejection.
	TagRefuse Tag = 2
)

// Handshake returns the state machine for the Handshake mini-protocol:
// `ProposeVersions` carries Propose to Confirm, `AcceptVersion`/`Refuse`
// carry Confirm to the terminal Done state.
func Handshake() *StateMachine {
	return &StateMachine{
		Name:    "Handshake",
		Initial: StatePropose,
		Agency: map[State]Agency{
			StatePropose: AgencyClient,
			StateConfirm: AgencyServer,
			StateDone:    AgencyNone,
		},
		Transitions: map[Tag]Transition{
			TagProposeVersions: {From: StatePropose, To: StateConfirm},
			TagAcceptVersion:   {From: StateConfirm, To: StateDone},
			TagRefuse:          {From: StateConfirm, To: StateDone},
		},
	}
}

// Generic request/response states used by every mini-protocol whose
// message bodies fall outside this substrate's scope (block validation,
// mempool, local queries): the framing and agency rules these protocols
// impose on the mux are identical regardless of what the request/response
// payloads mean, so a single two-state ping-pong machine models all of
// them, giving every registered protocol id the same state-machine and
// agency-tracking coverage Handshake gets.
const (
	StateIdle State = "Idle"
	StateBusy State = "Busy"
)

const (
	// TagRequest is the client->server request message.
	TagRequest Tag = 0
	// TagResponse is the server->client reply, returning agency to the
	// client.
	TagResponse Tag = 1
	// TagDone is the client->server termination message.
	TagDone Tag = 2
)

// RequestResponse builds the generic opaque-body state machine shared
// by ChainSync, BlockFetch, TxSubmission, KeepAlive, PeerSharing,
// LocalStateQuery, LocalTxMonitor and LocalTxSubmission.
func RequestResponse(name string) *StateMachine {
	return &StateMachine{
		Name:    name,
		Initial: StateIdle,
		Agency: map[State]Agency{
			StateIdle: AgencyClient,
			StateBusy: AgencyServer,
			StateDone: AgencyNone,
		},
		Transitions: map[Tag]Transition{
			TagRequest:  {From: StateIdle, To: StateBusy},
			TagResponse: {From: StateBusy, To: StateIdle},
			TagDone:     {From: StateIdle, To: StateDone},
		},
	}
}

// N2N holds the state machines for every node-to-node mini-protocol,
// keyed by protocol name.
var N2N = map[string]*StateMachine{
	"Handshake":    Handshake(),
	"ChainSync":    RequestResponse("ChainSync"),
	"BlockFetch":   RequestResponse("BlockFetch"),
	"TxSubmission": RequestResponse("TxSubmission"),
	"KeepAlive":    RequestResponse("KeepAlive"),
	"PeerSharing":  RequestResponse("PeerSharing"),
}

// N2C holds the state machines for every node-to-client mini-protocol.
var N2C = map[string]*StateMachine{
	"Handshake":          Handshake(),
	"ChainSync":          RequestResponse("ChainSync"),
	"LocalTxSubmission":  RequestResponse("LocalTxSubmission"),
	"LocalStateQuery":    RequestResponse("LocalStateQuery"),
	"LocalTxMonitor":     RequestResponse("LocalTxMonitor"),
}

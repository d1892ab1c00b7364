// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package miniprotocol describes the shared from-state/to-state/agency
// state-machine shape that every mini-protocol carried by a mux session
// conforms to, independent of its message bodies.
package miniprotocol

import "fmt"

// Agency identifies which side of a session is entitled to send the
// next message while a mini-protocol sits in a given state.
type Agency int

const (
	// AgencyNone marks a terminal state: neither side may send.
	AgencyNone Agency = iota
	// AgencyClient marks a state where the initiator holds agency.
	AgencyClient
	// AgencyServer marks a state where the responder holds agency.
	AgencyServer
)

func (a Agency) String() string {
	switch a {
	case AgencyClient:
		return "client"
	case AgencyServer:
		return "server"
	default:
		return "none"
	}
}

// State is one node of a mini-protocol's state machine.
type State string

// Tag identifies a message type within a mini-protocol.
type Tag uint64

// Transition describes the state change a message of a given Tag
// causes: it moves the protocol from From to To.
type Transition struct {
	From State
	To   State
}

// StateMachine is the from-state/to-state/agency table a mini-protocol
// declares. The mux enforces it without needing to know anything about
// message bodies.
type StateMachine struct {
	Name        string
	Initial     State
	Agency      map[State]Agency
	Transitions map[Tag]Transition
}

// AgentFor reports which side holds agency in state s. An unregistered
// state has no agency (AgencyNone).
func (sm *StateMachine) AgentFor(s State) Agency {
	return sm.Agency[s]
}

// Lookup returns the transition a message tagged t causes, or ok=false
// if t is not part of this mini-protocol.
func (sm *StateMachine) Lookup(t Tag) (Transition, bool) {
	tr, ok := sm.Transitions[t]
	return tr, ok
}

// ErrWrongAgency is returned when a local send or a remote receive is
// attempted from a state whose agent does not match the side attempting
// it.
type ErrWrongAgency struct {
	Protocol string
	State    State
	Want     Agency
	Have     Agency
}

func (e *ErrWrongAgency) Error() string {
	return fmt.Sprintf("miniprotocol %s: state %s requires agency %s, have %s",
		e.Protocol, e.State, e.Want, e.Have)
}

// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mux

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gocardano/core/codec/cbor"
	"github.com/gocardano/core/internal/chainlog"
	"github.com/gocardano/core/mux/miniprotocol"
)

var log = chainlog.Disabled()

// UseLogger sets the package-wide logger used by every Session,
// following the UseLogger convention exccd's wire/addrmgr/peer packages
// use for theirs.
func UseLogger(logger chainlog.Logger) { log = logger }

// ErrHandleDropped is the fatal, session-terminating error surfaced
// when a caller cancels a session's context before its conversations
// complete. Cancellation is the only caller-side way to tear a session
// down; bearer I/O and protocol errors also end it, with their own error.
var ErrHandleDropped = errors.New("mux: handle dropped, session terminated")

// ReceivedMessage is one decoded mini-protocol message delivered to a
// reply sink or a protocol's server handler channel.
type ReceivedMessage struct {
	Protocol ProtocolID
	Tag      miniprotocol.Tag
	// Raw is the full encoded message (including its tag), ready to be
	// handed to the mini-protocol's own typed decoder (e.g.
	// mux/handshake.Decode).
	Raw     []byte
	ToState miniprotocol.State
}

// protoState is the mutable per-mini-protocol bookkeeping a session
// keeps: current state-machine position, the residual partial-frame
// tail, and the FIFO queue of reply sinks awaiting a response.
type protoState struct {
	mu            sync.Mutex
	machine       *miniprotocol.StateMachine
	state         miniprotocol.State
	residual      []byte
	replyQueue    []chan ReceivedMessage
	serverHandler chan ReceivedMessage
}

// sendBundle is one outbound message queued for the writer goroutine.
type sendBundle struct {
	protocol   ProtocolID
	responder  bool
	data       []byte
}

// Session owns one duplex bearer and multiplexes N mini-protocols over
// it: one reader goroutine and one writer goroutine each own exclusive
// access to their respective half of the bearer, and the bookkeeping
// shared between them for a given mini-protocol is guarded by a single
// mutex per protoState rather than ad hoc locking.
type Session struct {
	bearer    io.ReadWriter
	mode      Mode
	localRole miniprotocol.Agency

	protocols map[ProtocolID]*protoState

	sendCh chan sendBundle
	errCh  chan error
	start  time.Time

	closeOnce sync.Once
	closed    chan struct{}
}

// NewSession constructs a Session bound to bearer, validating frames
// against mode's protocol-id table. localRole is the agency this side
// of the session plays (AgencyClient for an initiator, AgencyServer for
// a responder).
func NewSession(bearer io.ReadWriter, mode Mode, localRole miniprotocol.Agency) *Session {
	return &Session{
		bearer:    bearer,
		mode:      mode,
		localRole: localRole,
		protocols: make(map[ProtocolID]*protoState),
		sendCh:    make(chan sendBundle, 64),
		errCh:     make(chan error, 1),
		start:     time.Now(),
		closed:    make(chan struct{}),
	}
}

// Register attaches a mini-protocol's state machine to id. serverHandler
// receives messages that are not replies to an outstanding local send
// (server-initiated traffic); it may be nil if this session never
// expects unsolicited messages for id.
func (s *Session) Register(id ProtocolID, machine *miniprotocol.StateMachine, serverHandler chan ReceivedMessage) error {
	if !s.mode.Valid(id) {
		return fmt.Errorf("mux: %w: id %d", ErrInvalidPeer, id)
	}
	s.protocols[id] = &protoState{
		machine:       machine,
		state:         machine.Initial,
		serverHandler: serverHandler,
	}
	return nil
}

// opposite returns the other side's agency.
func opposite(a miniprotocol.Agency) miniprotocol.Agency {
	switch a {
	case miniprotocol.AgencyClient:
		return miniprotocol.AgencyServer
	case miniprotocol.AgencyServer:
		return miniprotocol.AgencyClient
	default:
		return miniprotocol.AgencyNone
	}
}

// Send encodes and queues one local message for mini-protocol id. encode
// must write the complete tagged message (tag plus fields), matching
// the codec.EncodeFlatEnum shape every mini-protocol message in this
// module uses. If reply is non-nil, it is enqueued as the sink for this
// conversation's eventual response(s), per mini-protocol, in the order
// sends occur.
//
// Send fails immediately, without touching the wire, if the local side
// does not currently hold agency for tag's declared from-state.
func (s *Session) Send(id ProtocolID, tag miniprotocol.Tag, encode func(*cbor.Writer), reply chan ReceivedMessage) error {
	ps, ok := s.protocols[id]
	if !ok {
		return fmt.Errorf("mux: protocol %d not registered", id)
	}

	ps.mu.Lock()
	tr, ok := ps.machine.Lookup(tag)
	if !ok {
		ps.mu.Unlock()
		return &miniprotocol.ErrWrongAgency{Protocol: ps.machine.Name, State: ps.state}
	}
	if tr.From != ps.state {
		ps.mu.Unlock()
		return fmt.Errorf("mux: %s: cannot send tag %d from state %s", ps.machine.Name, tag, ps.state)
	}
	if ps.machine.AgentFor(tr.From) != s.localRole {
		ps.mu.Unlock()
		return &miniprotocol.ErrWrongAgency{
			Protocol: ps.machine.Name,
			State:    tr.From,
			Want:     ps.machine.AgentFor(tr.From),
			Have:     s.localRole,
		}
	}
	ps.state = tr.To
	if reply != nil {
		ps.replyQueue = append(ps.replyQueue, reply)
	}
	ps.mu.Unlock()

	w := cbor.NewWriter()
	encode(w)

	select {
	case s.sendCh <- sendBundle{protocol: id, responder: s.localRole == miniprotocol.AgencyServer, data: w.Bytes()}:
		return nil
	case <-s.closed:
		return ErrHandleDropped
	}
}

// Run starts the reader and writer goroutines. Cancelling ctx is the
// session's sole cancellation path; it surfaces as ErrHandleDropped.
func (s *Session) Run(ctx context.Context) {
	go s.writerLoop(ctx)
	go s.readerLoop(ctx)
}

// Done returns a channel closed once the session has terminated.
func (s *Session) Done() <-chan struct{} { return s.closed }

// Err returns the error that terminated the session, or nil if it has
// not terminated yet.
func (s *Session) Err() error {
	select {
	case err := <-s.errCh:
		s.errCh <- err
		return err
	default:
		return nil
	}
}

func (s *Session) fail(err error) {
	log.Errorf("mux: session terminated: %v", err)
	select {
	case s.errCh <- err:
	default:
	}
	s.closeOnce.Do(func() { close(s.closed) })
}

func (s *Session) writerLoop(ctx context.Context) {
	// stash holds a bundle the batching loop below peeked from sendCh but
	// could not fold into the in-progress batch because it addresses a
	// different (protocol, direction). It is consumed as cur at the top
	// of the next iteration, ahead of sendCh, so a bundle queued after it
	// can never overtake it.
	var stash *sendBundle

	for {
		var cur sendBundle
		if stash != nil {
			cur, stash = *stash, nil
		} else {
			select {
			case cur = <-s.sendCh:
			case <-ctx.Done():
				s.fail(ErrHandleDropped)
				return
			case <-s.closed:
				return
			}
		}

		buf := append([]byte{}, cur.data...)
		protocol, responder := cur.protocol, cur.responder

	batch:
		for len(buf) < MaxPayloadSize {
			select {
			case next := <-s.sendCh:
				if next.protocol == protocol && next.responder == responder && len(buf)+len(next.data) <= MaxPayloadSize {
					buf = append(buf, next.data...)
					continue batch
				}
				stash = &next
				break batch
			default:
				break batch
			}
		}

		if err := s.writeFrames(protocol, responder, buf); err != nil {
			s.fail(err)
			return
		}
	}
}

func (s *Session) writeFrames(protocol ProtocolID, responder bool, buf []byte) error {
	for len(buf) > 0 {
		n := len(buf)
		if n > MaxPayloadSize {
			n = MaxPayloadSize
		}
		h := Header{
			Timestamp:  uint32(time.Since(s.start).Microseconds()),
			Protocol:   protocol,
			Responder:  responder,
			PayloadLen: uint16(n),
		}
		hdr, _ := h.MarshalBinary()
		if _, err := s.bearer.Write(hdr); err != nil {
			return err
		}
		if _, err := s.bearer.Write(buf[:n]); err != nil {
			return err
		}
		buf = buf[n:]
	}
	return nil
}

func (s *Session) readerLoop(ctx context.Context) {
	hdrBuf := make([]byte, HeaderSize)
	for {
		select {
		case <-ctx.Done():
			s.fail(ErrHandleDropped)
			return
		case <-s.closed:
			return
		default:
		}

		if _, err := io.ReadFull(s.bearer, hdrBuf); err != nil {
			s.fail(err)
			return
		}
		var h Header
		if err := h.UnmarshalBinary(hdrBuf); err != nil {
			s.fail(err)
			return
		}

		payload := make([]byte, h.PayloadLen)
		if h.PayloadLen > 0 {
			if _, err := io.ReadFull(s.bearer, payload); err != nil {
				s.fail(err)
				return
			}
		}

		if err := s.deliverFrame(h.Protocol, payload); err != nil {
			s.fail(err)
			return
		}
	}
}

func (s *Session) deliverFrame(id ProtocolID, payload []byte) error {
	ps, ok := s.protocols[id]
	if !ok || !s.mode.Valid(id) {
		return ErrInvalidPeer
	}

	ps.mu.Lock()
	ps.residual = append(ps.residual, payload...)

	for {
		tag, consumed, err := decodeMessage(ps.residual)
		if err != nil {
			if errors.Is(err, ErrEndOfInput) {
				break
			}
			ps.mu.Unlock()
			return err
		}
		raw := append([]byte{}, ps.residual[:consumed]...)
		ps.residual = ps.residual[consumed:]

		tr, ok := ps.machine.Lookup(tag)
		if !ok || tr.From != ps.state {
			ps.mu.Unlock()
			return fmt.Errorf("mux: %s: %w", ps.machine.Name, ErrPeerProtocolViolation)
		}
		remoteAgent := opposite(s.localRole)
		if ps.machine.AgentFor(tr.From) != remoteAgent {
			ps.mu.Unlock()
			return fmt.Errorf("mux: %s: %w", ps.machine.Name, ErrPeerProtocolViolation)
		}
		ps.state = tr.To

		var sink chan ReceivedMessage
		if ps.machine.AgentFor(tr.To) == remoteAgent {
			if len(ps.replyQueue) > 0 {
				sink = ps.replyQueue[0]
			}
		} else if len(ps.replyQueue) > 0 {
			sink = ps.replyQueue[0]
			ps.replyQueue = ps.replyQueue[1:]
		}
		handler := ps.serverHandler
		ps.mu.Unlock()

		rm := ReceivedMessage{Protocol: id, Tag: tag, Raw: raw, ToState: tr.To}
		if sink != nil {
			sink <- rm
		} else if handler != nil {
			handler <- rm
		}

		ps.mu.Lock()
	}
	ps.mu.Unlock()
	return nil
}

// ErrPeerProtocolViolation is returned when a received message's
// from-state agency does not match the remote side, or names an
// unexpected transition for the mini-protocol's current state.
var ErrPeerProtocolViolation = errors.New("mux: peer protocol violation")

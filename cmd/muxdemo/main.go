// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// muxdemo drives a single Handshake exchange over an in-process mux
// session pair, printing one line for the proposal it sends and one for
// the decoded reply. It
// exists to exercise the mux/miniprotocol/handshake stack end to end
// outside of the test suite.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"sort"
	"time"

	flags "github.com/jessevdk/go-flags"
	"github.com/jrick/logrotate/rotator"

	"github.com/gocardano/core/codec/cbor"
	"github.com/gocardano/core/internal/chainlog"
	"github.com/gocardano/core/mux"
	"github.com/gocardano/core/mux/handshake"
	"github.com/gocardano/core/mux/miniprotocol"
)

type options struct {
	Magic   uint32 `short:"m" long:"magic" default:"764824073" description:"network magic to propose"`
	Refuse  bool   `long:"refuse" description:"have the server refuse instead of accept"`
	Verbose bool   `short:"v" long:"verbose" description:"enable mux debug logging"`
	LogFile string `long:"logfile" description:"rotate debug logging to this file instead of stderr"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "muxdemo:", err)
		os.Exit(1)
	}
}

func run() error {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		return err
	}

	if opts.Verbose {
		w, err := logWriter(opts.LogFile)
		if err != nil {
			return err
		}
		backend := chainlog.NewBackend(w)
		mux.UseLogger(chainlog.SubsystemLogger(backend, "MUXD", 0))
	}

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	client := mux.NewSession(clientConn, mux.ModeNodeToNode, miniprotocol.AgencyClient)
	server := mux.NewSession(serverConn, mux.ModeNodeToNode, miniprotocol.AgencyServer)

	serverInbox := make(chan mux.ReceivedMessage, 1)
	if err := client.Register(mux.N2NHandshake, miniprotocol.Handshake(), nil); err != nil {
		return err
	}
	if err := server.Register(mux.N2NHandshake, miniprotocol.Handshake(), serverInbox); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client.Run(ctx)
	server.Run(ctx)

	clientReply := make(chan mux.ReceivedMessage, 1)
	propose := handshake.ProposeVersions{
		Versions: map[uint64]handshake.Params{
			9: {NetworkMagic: opts.Magic, Query: false},
		},
	}
	if err := client.Send(mux.N2NHandshake, miniprotocol.TagProposeVersions, func(w *cbor.Writer) {
		handshake.Encode(w, propose)
	}, clientReply); err != nil {
		return fmt.Errorf("client send: %w", err)
	}
	fmt.Printf("client -> server: ProposeVersions(magic=%d)\n", opts.Magic)

	select {
	case rm := <-serverInbox:
		if err := respond(server, rm, opts); err != nil {
			return err
		}
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for server to receive handshake")
	}

	select {
	case rm := <-clientReply:
		_, msg, err := handshake.Decode(cbor.NewReader(rm.Raw), "reply")
		if err != nil {
			return err
		}
		switch m := msg.(type) {
		case handshake.AcceptVersion:
			fmt.Printf("server -> client: AcceptVersion(version=%d, magic=%d)\n", m.Version, m.Params.NetworkMagic)
		case handshake.Refuse:
			fmt.Printf("server -> client: Refuse(kind=%d)\n", m.Reason.Kind)
		}
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for client to receive reply")
	}

	return nil
}

// logWriter returns stderr, or a size-rolling rotator.Rotator over path when
// one is given.
func logWriter(path string) (io.Writer, error) {
	if path == "" {
		return os.Stderr, nil
	}
	r, err := rotator.New(path, 10*1024, false, 3)
	if err != nil {
		return nil, fmt.Errorf("opening log rotator: %w", err)
	}
	return r, nil
}

func respond(server *mux.Session, rm mux.ReceivedMessage, opts options) error {
	tag, msg, err := handshake.Decode(cbor.NewReader(rm.Raw), "propose")
	if err != nil {
		return err
	}
	if tag != handshake.TagProposeVersions {
		return fmt.Errorf("unexpected message tag %d", tag)
	}
	pv := msg.(handshake.ProposeVersions)

	if opts.Refuse {
		refuse := handshake.Refuse{Reason: handshake.RefuseReason{
			Kind:    handshake.VersionMismatch,
			Offered: sortedVersions(pv.Versions),
		}}
		return server.Send(mux.N2NHandshake, miniprotocol.TagRefuse, func(w *cbor.Writer) {
			handshake.Encode(w, refuse)
		}, nil)
	}

	var chosen uint64
	var params handshake.Params
	for v, p := range pv.Versions {
		if v > chosen {
			chosen, params = v, p
		}
	}
	accept := handshake.AcceptVersion{Version: chosen, Params: params}
	return server.Send(mux.N2NHandshake, miniprotocol.TagAcceptVersion, func(w *cbor.Writer) {
		handshake.Encode(w, accept)
	}, nil)
}

func sortedVersions(versions map[uint64]handshake.Params) []uint64 {
	out := make([]uint64, 0, len(versions))
	for v := range versions {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

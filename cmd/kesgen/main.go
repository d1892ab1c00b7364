// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// kesgen generates a KES Sum-construction key at a given tree depth,
// optionally evolves it forward a number of periods, and prints the
// resulting verifying key and a signature over a supplied message.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/jrick/logrotate/rotator"

	"github.com/gocardano/core/internal/chainlog"
	"github.com/gocardano/core/kes"
)

var log = chainlog.Disabled()

type options struct {
	Depth   int    `short:"d" long:"depth" default:"2" description:"KES tree depth (2^depth signing periods)"`
	Evolve  int    `short:"e" long:"evolve" default:"0" description:"number of periods to evolve forward before signing"`
	Message string `short:"m" long:"message" default:"gocardano" description:"message to sign with the final key"`
	Seed    string `short:"s" long:"seed" description:"hex-encoded 32-byte seed (random if omitted)"`
	Verbose bool   `short:"v" long:"verbose" description:"enable debug logging"`
	LogFile string `long:"logfile" description:"rotate debug logging to this file instead of stderr"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "kesgen:", err)
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
		log = chainlog.SubsystemLogger(backend, "KESG", 0)
	}

	seed, err := loadSeed(opts.Seed)
	if err != nil {
		return err
	}

	node, err := kes.NewNode(seed, opts.Depth)
	if err != nil {
		return fmt.Errorf("creating node: %w", err)
	}
	log.Infof("generated depth-%d node with %d periods", opts.Depth, node.PeriodCount())

	for i := 0; i < opts.Evolve; i++ {
		node, err = node.Evolve()
		if err != nil {
			return fmt.Errorf("evolving to period %d: %w", i+1, err)
		}
	}
	log.Infof("node now at period %d", node.Period())

	vk := node.VerifyingKey()
	sig := node.Sign([]byte(opts.Message))
	sigBytes, err := sig.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshaling signature: %w", err)
	}

	fmt.Printf("depth:          %d\n", opts.Depth)
	fmt.Printf("period:         %d\n", node.Period())
	fmt.Printf("verifying key:  %s\n", hex.EncodeToString(vk[:]))
	fmt.Printf("message:        %s\n", opts.Message)
	fmt.Printf("signature:      %s\n", hex.EncodeToString(sigBytes))
	fmt.Printf("verifies:       %t\n", kes.Verify(vk, []byte(opts.Message), sig, node.Period()))

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

func loadSeed(hexSeed string) ([]byte, error) {
	if hexSeed == "" {
		seed := make([]byte, kes.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			return nil, fmt.Errorf("reading random seed: %w", err)
		}
		return seed, nil
	}
	seed, err := hex.DecodeString(hexSeed)
	if err != nil {
		return nil, fmt.Errorf("decoding seed: %w", err)
	}
	if len(seed) != kes.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", kes.SeedSize, len(seed))
	}
	return seed, nil
}

// Copyright (c) 2024 The gocardano developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainlog is the shared leveled-logging backend that package mux
// (through mux.UseLogger) and the cmd tools bind through; the codec and
// kes packages do not log. It follows the subsystem/UseLogger convention exccd's wire, addrmgr
// and peer packages use around github.com/decred/slog.
package chainlog

import (
	"io"

	"github.com/decred/slog"
)

// Logger is the leveled logging interface every package-level `log`
// variable in this module is typed as.
type Logger = slog.Logger

// Backend produces per-subsystem Loggers that share one output and
// level configuration.
type Backend = slog.Backend

// Disabled returns a Logger that discards everything, the default every
// package starts with until a caller wires a real backend through
// UseLogger.
func Disabled() Logger { return slog.Disabled }

// NewBackend constructs a Backend writing to w, in the same shape as
// exccd's top-level `logger.go` (a single backend shared across every
// subsystem logger).
func NewBackend(w io.Writer) *Backend { return slog.NewBackend(w) }

// SubsystemLogger returns a Logger tagged with subsystem, bound to
// backend, at the given level.
func SubsystemLogger(backend *Backend, subsystem string, level slog.Level) Logger {
	l := backend.Logger(subsystem)
	l.SetLevel(level)
	return l
}

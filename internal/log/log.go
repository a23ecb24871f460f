// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package log provides the per-subsystem loggers used throughout coretx,
// plus a thin "sugared" layer of key/value helpers (InfoS, DebugS, TraceS,
// WarnS) on top of btclog.Logger so call sites can attach structured
// context without building format strings by hand.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/btcsuite/btclog"
)

// backendLog is the single backend every subsystem logger is created
// from. A host binary that wants output somewhere other than the
// default io.Discard writer calls SetBackend before touching any
// subsystem logger.
var backendLog = btclog.NewBackend(discardWriter{})

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Loggers per subsystem. Selection is the coins-selection engine, Mempool
// is the transaction/certificate mempool core, Sidechain is the sidechain
// index, Chainview is the read-through chain-view adapter, and Feeest is
// the fee/priority estimator.
var (
	Selection = backendLog.Logger("SLCT")
	Mempool   = backendLog.Logger("MEMP")
	Sidechain = backendLog.Logger("SCID")
	Chainview = backendLog.Logger("CHNV")
	Feeest    = backendLog.Logger("FEST")
)

// subsystems maps each subsystem identifier to its logger, mirroring the
// indirection the host binary needs to change levels by name.
var subsystems = map[string]btclog.Logger{
	"SLCT": Selection,
	"MEMP": Mempool,
	"SCID": Sidechain,
	"CHNV": Chainview,
	"FEST": Feeest,
}

// SetBackend redirects every subsystem logger to write through w. It
// replaces the package-level Logger variables with new loggers built
// from the new backend, so call sites that read those variables at call
// time use w; a Logger value copied out before the call keeps writing to
// the old backend, and levels set earlier are not carried over.
func SetBackend(w io.Writer) {
	backendLog = btclog.NewBackend(w)
	Selection = backendLog.Logger("SLCT")
	Mempool = backendLog.Logger("MEMP")
	Sidechain = backendLog.Logger("SCID")
	Chainview = backendLog.Logger("CHNV")
	Feeest = backendLog.Logger("FEST")
	subsystems = map[string]btclog.Logger{
		"SLCT": Selection,
		"MEMP": Mempool,
		"SCID": Sidechain,
		"CHNV": Chainview,
		"FEST": Feeest,
	}
}

// SetLogLevel sets the logging level for the named subsystem. Unknown
// subsystem identifiers are ignored.
func SetLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystems[subsystemID]
	if !ok {
		return
	}
	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// SetLogLevels sets every subsystem logger to logLevel.
func SetLogLevels(logLevel string) {
	for id := range subsystems {
		SetLogLevel(id, logLevel)
	}
}

// fields flattens alternating key/value pairs into "k1=v1 k2=v2 ..." and
// prefixes a context request ID, if ctx carries one, so log lines from a
// single mempool operation can be correlated.
func fields(ctx context.Context, kv []interface{}) string {
	var b strings.Builder
	if id := ctx.Value(reqIDKey{}); id != nil {
		fmt.Fprintf(&b, "req=%v ", id)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v=%v", kv[i], kv[i+1])
	}
	return b.String()
}

type reqIDKey struct{}

// WithRequestID attaches an identifier to ctx that InfoS/DebugS/TraceS/
// WarnS will surface on every log line derived from it.
func WithRequestID(ctx context.Context, id interface{}) context.Context {
	return context.WithValue(ctx, reqIDKey{}, id)
}

// InfoS logs msg at Info level with the given alternating key/value pairs.
func InfoS(ctx context.Context, l btclog.Logger, msg string, kv ...interface{}) {
	l.Infof("%s %s", msg, fields(ctx, kv))
}

// DebugS logs msg at Debug level with the given alternating key/value pairs.
func DebugS(ctx context.Context, l btclog.Logger, msg string, kv ...interface{}) {
	l.Debugf("%s %s", msg, fields(ctx, kv))
}

// TraceS logs msg at Trace level with the given alternating key/value pairs.
func TraceS(ctx context.Context, l btclog.Logger, msg string, kv ...interface{}) {
	l.Tracef("%s %s", msg, fields(ctx, kv))
}

// WarnS logs msg at Warn level with err and the given alternating
// key/value pairs.
func WarnS(ctx context.Context, l btclog.Logger, msg string, err error, kv ...interface{}) {
	l.Warnf("%s err=%v %s", msg, err, fields(ctx, kv))
}

// Package jsonout implements ports.Emitter by writing envelopes as JSON.
//
// The delivery layer (webhook relay, notification job) consumes the file or
// stream; its transport is out of scope here.
package jsonout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/katalvlaran/matchcycle/ports"
)

// Emitter writes one JSON document per Emit call.
type Emitter struct {
	mu     sync.Mutex
	w      io.Writer
	indent bool
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithIndent pretty-prints documents with two-space indentation.
func WithIndent() Option {
	return func(e *Emitter) { e.indent = true }
}

// New returns an Emitter writing to w. Panics on nil.
func New(w io.Writer, opts ...Option) *Emitter {
	if w == nil {
		panic("jsonout: New(nil writer)")
	}
	e := &Emitter{w: w}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit encodes env followed by a newline.
func (e *Emitter) Emit(ctx context.Context, env ports.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if env.Result == nil {
		return fmt.Errorf("jsonout: envelope %s has no result", env.RunID)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	enc := json.NewEncoder(e.w)
	if e.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("jsonout: encode envelope %s: %w", env.RunID, err)
	}
	return nil
}

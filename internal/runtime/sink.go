package runtime

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/birdayz/kchain/krecord"
)

// TerminalSink is the pre-existing output a chain ends in, typically a
// channel towards the network layer. Collect may block to apply backpressure.
type TerminalSink interface {
	Collect(ctx context.Context, rec krecord.Record) error
	Close() error
}

// Sink is a stage a link can push into: another link or the counting wrapper
// around the terminal sink. Every Sink accounts the bytes pushed into it so
// the upstream link can report what it produced.
type Sink interface {
	TerminalSink

	// DrainCollectedBytes returns the bytes collected since the previous call
	// and resets the count.
	DrainCollectedBytes() int64
}

// CountingSink adds byte accounting and close-once semantics to a
// TerminalSink.
type CountingSink struct {
	sink      TerminalSink
	collected int64
	closed    atomic.Bool
}

func NewCountingSink(sink TerminalSink) *CountingSink {
	return &CountingSink{sink: sink}
}

func (s *CountingSink) Collect(ctx context.Context, rec krecord.Record) error {
	if s.closed.Load() {
		return fmt.Errorf("terminal sink: %w", ErrClosed)
	}
	s.collected += krecord.Length(rec)
	return s.sink.Collect(ctx, rec)
}

func (s *CountingSink) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("terminal sink: %w", ErrClosed)
	}
	return s.sink.Close()
}

func (s *CountingSink) DrainCollectedBytes() int64 {
	n := s.collected
	s.collected = 0
	return n
}

var _ Sink = (*CountingSink)(nil)

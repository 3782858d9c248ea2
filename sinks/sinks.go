// Package sinks provides terminal sinks that end a chain in process.
package sinks

import (
	"bufio"
	"context"
	"encoding"
	"fmt"
	"io"
	"sync"

	"github.com/birdayz/kchain/krecord"
)

// Discard drops every record.
type Discard struct{}

func (Discard) Collect(context.Context, krecord.Record) error { return nil }
func (Discard) Close() error                                  { return nil }

// Func adapts a function to a terminal sink. Close is a no-op.
type Func func(ctx context.Context, rec krecord.Record) error

func (f Func) Collect(ctx context.Context, rec krecord.Record) error {
	return f(ctx, rec)
}

func (Func) Close() error { return nil }

// Memory keeps every record. It is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	records []krecord.Record
	closed  bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Collect(_ context.Context, rec krecord.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Records returns a copy of the collected records.
func (m *Memory) Records() []krecord.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]krecord.Record(nil), m.records...)
}

func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Writer writes every record as one line. Records must implement
// encoding.BinaryMarshaler. Close flushes but does not close w.
type Writer struct {
	w *bufio.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (s *Writer) Collect(_ context.Context, rec krecord.Record) error {
	m, ok := rec.(encoding.BinaryMarshaler)
	if !ok {
		return fmt.Errorf("record of type %T cannot be written", rec)
	}
	b, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := s.w.Write(b); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

func (s *Writer) Close() error {
	return s.w.Flush()
}

package execution

import (
	"bufio"
	"context"
	"io"

	"github.com/birdayz/kchain/krecord"
)

// Source feeds records into a task. Next returns io.EOF once the input is
// exhausted.
type Source interface {
	Next(ctx context.Context) (krecord.Record, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (krecord.Record, error)

func (f SourceFunc) Next(ctx context.Context) (krecord.Record, error) {
	return f(ctx)
}

type sliceSource struct {
	records []krecord.Record
	pos     int
}

// SliceSource returns the given records in order.
func SliceSource(records ...krecord.Record) Source {
	return &sliceSource{records: records}
}

func (s *sliceSource) Next(ctx context.Context) (krecord.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.records) {
		return nil, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

type chanSource struct {
	ch <-chan krecord.Record
}

// ChanSource reads records from ch until it is closed.
func ChanSource(ch <-chan krecord.Record) Source {
	return chanSource{ch: ch}
}

func (s chanSource) Next(ctx context.Context) (krecord.Record, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case rec, ok := <-s.ch:
		if !ok {
			return nil, io.EOF
		}
		return rec, nil
	}
}

type scannerSource struct {
	scanner *bufio.Scanner
}

// MaxLineSize bounds a single line read by LineSource.
const MaxLineSize = 16 << 20

// LineSource emits every line of r as a krecord.Bytes record, without the
// trailing newline. Lines longer than MaxLineSize fail with
// bufio.ErrTooLong.
func LineSource(r io.Reader) Source {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineSize)
	return &scannerSource{scanner: scanner}
}

func (s *scannerSource) Next(ctx context.Context) (krecord.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	line := s.scanner.Bytes()
	rec := make(krecord.Bytes, len(line))
	copy(rec, line)
	return rec, nil
}

package ktransform

import (
	"context"

	"github.com/birdayz/kchain/krecord"
)

// ProcessFunc is the body of a transformation built with NewFunc.
type ProcessFunc func(ctx context.Context, rec krecord.Record, out Collector) error

// FuncOption configures optional behavior for NewFunc transformations.
type FuncOption func(*funcTransformation)

// WithOpen adds custom initialization logic to a NewFunc transformation.
func WithOpen(fn func(cfg *Config) error) FuncOption {
	return func(t *funcTransformation) {
		t.openFn = fn
	}
}

// WithClose adds custom cleanup logic to a NewFunc transformation.
func WithClose(fn func() error) FuncOption {
	return func(t *funcTransformation) {
		t.closeFn = fn
	}
}

// WithCancel adds a forced teardown. Without it, cancellation falls back to
// the close function.
func WithCancel(fn func() error) FuncOption {
	return func(t *funcTransformation) {
		t.cancelFn = fn
	}
}

// NewFunc creates a Factory from a function.
//
// Example:
//
//	ktransform.NewFunc(func(ctx context.Context, rec krecord.Record, out ktransform.Collector) error {
//	    return out.Collect(ctx, rec)
//	}, ktransform.WithClose(func() error { ... }))
func NewFunc(processFn ProcessFunc, opts ...FuncOption) Factory {
	return func() Transformation {
		t := &funcTransformation{
			processFn: processFn,
		}
		for _, opt := range opts {
			opt(t)
		}
		return t
	}
}

// Map creates a Factory emitting exactly one output per input.
func Map(fn func(rec krecord.Record) (krecord.Record, error)) Factory {
	return NewFunc(func(ctx context.Context, rec krecord.Record, out Collector) error {
		mapped, err := fn(rec)
		if err != nil {
			return err
		}
		return out.Collect(ctx, mapped)
	})
}

// Filter creates a Factory forwarding only records for which keep returns true.
func Filter(keep func(rec krecord.Record) bool) Factory {
	return NewFunc(func(ctx context.Context, rec krecord.Record, out Collector) error {
		if !keep(rec) {
			return nil
		}
		return out.Collect(ctx, rec)
	})
}

type funcTransformation struct {
	processFn ProcessFunc
	openFn    func(cfg *Config) error
	closeFn   func() error
	cancelFn  func() error
}

func (t *funcTransformation) Open(cfg *Config) error {
	if t.openFn != nil {
		return t.openFn(cfg)
	}
	return nil
}

func (t *funcTransformation) Process(ctx context.Context, rec krecord.Record, out Collector) error {
	return t.processFn(ctx, rec, out)
}

func (t *funcTransformation) Close() error {
	if t.closeFn != nil {
		return t.closeFn()
	}
	return nil
}

func (t *funcTransformation) Cancel() error {
	if t.cancelFn != nil {
		return t.cancelFn()
	}
	return t.Close()
}

var _ Canceler = (*funcTransformation)(nil)

// Package ktransform is the contract between a chain and the user code it
// hosts. A Transformation receives one record at a time and pushes any number
// of results into the Collector it was handed.
package ktransform

import (
	"context"

	"github.com/birdayz/kchain/krecord"
)

// Collector receives records pushed by a transformation. Collect is
// synchronous: it returns once every downstream stage has handled the record.
type Collector interface {
	Collect(ctx context.Context, rec krecord.Record) error
}

// CollectorFunc adapts a function to the Collector interface.
type CollectorFunc func(ctx context.Context, rec krecord.Record) error

func (f CollectorFunc) Collect(ctx context.Context, rec krecord.Record) error {
	return f(ctx, rec)
}

// Transformation is a unit of user code hosted by a chain link.
//
// Open is called once with the link's configuration view before any record
// arrives. Process may call out.Collect zero or more times; out must not be
// retained after Process returns. Close is called once after the last record.
type Transformation interface {
	Open(cfg *Config) error
	Process(ctx context.Context, rec krecord.Record, out Collector) error
	Close() error
}

// Canceler is implemented by transformations that have a forced teardown
// distinct from Close. Cancel can be called from another goroutine while
// Process is running and must be safe for that.
type Canceler interface {
	Cancel() error
}

// Factory creates a fresh Transformation. Each chain built from a descriptor
// calls the factory once per link, so instances are never shared.
type Factory func() Transformation

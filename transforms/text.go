// Package transforms holds the built-in transformations that chain
// descriptors can reference by id.
package transforms

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/birdayz/kchain/krecord"
	"github.com/birdayz/kchain/ktransform"
)

// Transformation ids of the built-ins.
const (
	IDIdentity = "identity"
	IDUpper    = "upper"
	IDLower    = "lower"
	IDTrim     = "trim"
	IDFilter   = "filter"
	IDSplit    = "split"
)

// Parameters understood by the built-ins.
const (
	ParamContains  = "contains"
	ParamInvert    = "invert"
	ParamSeparator = "separator"
)

// ErrUnsupportedRecord is returned when a text transformation receives a
// record that carries no bytes.
var ErrUnsupportedRecord = errors.New("unsupported record type")

// Register adds every built-in to reg.
func Register(reg *ktransform.Registry) error {
	builtins := map[string]ktransform.Factory{
		IDIdentity: Identity(),
		IDUpper:    mapBytes(bytes.ToUpper),
		IDLower:    mapBytes(bytes.ToLower),
		IDTrim:     mapBytes(bytes.TrimSpace),
		IDFilter:   Contains(),
		IDSplit:    Split(),
	}
	for _, id := range []string{IDIdentity, IDUpper, IDLower, IDTrim, IDFilter, IDSplit} {
		if err := reg.Register(id, builtins[id]); err != nil {
			return err
		}
	}
	return nil
}

// Identity forwards every record unchanged.
func Identity() ktransform.Factory {
	return ktransform.NewFunc(func(ctx context.Context, rec krecord.Record, out ktransform.Collector) error {
		return out.Collect(ctx, rec)
	})
}

// Contains keeps records whose value contains the "contains" parameter, or
// drops them when "invert" is true.
func Contains() ktransform.Factory {
	return func() ktransform.Transformation {
		f := &containsFilter{}
		return ktransform.NewFunc(f.process, ktransform.WithOpen(f.open))()
	}
}

type containsFilter struct {
	needle []byte
	invert bool
}

func (f *containsFilter) open(cfg *ktransform.Config) error {
	if !cfg.Has(ParamContains) {
		return fmt.Errorf("filter: missing parameter %q", ParamContains)
	}
	f.needle = []byte(cfg.GetString(ParamContains, ""))

	invert, err := cfg.GetBool(ParamInvert, false)
	if err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	f.invert = invert
	return nil
}

func (f *containsFilter) process(ctx context.Context, rec krecord.Record, out ktransform.Collector) error {
	value, err := valueOf(rec)
	if err != nil {
		return err
	}
	if bytes.Contains(value, f.needle) != f.invert {
		return out.Collect(ctx, rec)
	}
	return nil
}

// Split emits one record per non-empty part of the value, split on the
// "separator" parameter (a single space by default).
func Split() ktransform.Factory {
	return func() ktransform.Transformation {
		sep := []byte(" ")
		return ktransform.NewFunc(func(ctx context.Context, rec krecord.Record, out ktransform.Collector) error {
			value, err := valueOf(rec)
			if err != nil {
				return err
			}
			for _, part := range bytes.Split(value, sep) {
				if len(part) == 0 {
					continue
				}
				if err := out.Collect(ctx, withValue(rec, part)); err != nil {
					return err
				}
			}
			return nil
		}, ktransform.WithOpen(func(cfg *ktransform.Config) error {
			s := cfg.GetString(ParamSeparator, " ")
			if s == "" {
				return fmt.Errorf("split: empty %q", ParamSeparator)
			}
			sep = []byte(s)
			return nil
		}))()
	}
}

func mapBytes(fn func([]byte) []byte) ktransform.Factory {
	return ktransform.Map(func(rec krecord.Record) (krecord.Record, error) {
		value, err := valueOf(rec)
		if err != nil {
			return nil, err
		}
		return withValue(rec, fn(value)), nil
	})
}

func valueOf(rec krecord.Record) ([]byte, error) {
	switch r := rec.(type) {
	case krecord.Bytes:
		return r, nil
	case *krecord.Encoded:
		return r.Value, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedRecord, rec)
	}
}

// withValue returns a record like rec carrying value. Encoded records keep
// key, timestamp and a private copy of the headers.
func withValue(rec krecord.Record, value []byte) krecord.Record {
	if e, ok := rec.(*krecord.Encoded); ok {
		c := *e
		c.Value = value
		c.Headers = e.Headers.Clone()
		return &c
	}
	return krecord.Bytes(value)
}

package transforms

import (
	"context"

	"github.com/birdayz/kchain/krecord"
	"github.com/birdayz/kchain/ktransform"
)

// ForEach calls fn for every record and emits nothing.
func ForEach(forEachFunc func(rec krecord.Record)) ktransform.Factory {
	return func() ktransform.Transformation {
		return &ForEachTransformation{
			forEachFunc: forEachFunc,
		}
	}
}

type ForEachTransformation struct {
	forEachFunc func(krecord.Record)
	forward     bool
}

// Peek calls fn for every record and forwards it unchanged.
func Peek(peekFunc func(rec krecord.Record)) ktransform.Factory {
	return func() ktransform.Transformation {
		return &ForEachTransformation{
			forEachFunc: peekFunc,
			forward:     true,
		}
	}
}

func (p *ForEachTransformation) Process(ctx context.Context, rec krecord.Record, out ktransform.Collector) error {
	p.forEachFunc(rec)
	if p.forward {
		return out.Collect(ctx, rec)
	}
	return nil
}

func (p *ForEachTransformation) Open(*ktransform.Config) error {
	return nil
}

func (p *ForEachTransformation) Close() error {
	return nil
}

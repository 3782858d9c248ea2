package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/birdayz/kchain/kdesc"
	"github.com/birdayz/kchain/krecord"
	"github.com/birdayz/kchain/ktransform"
)

// Chain is an ordered, immutable sequence of links ending in a terminal sink.
// Link i always pushes into link i+1, the last link into the terminal sink.
type Chain struct {
	name  string
	links []*Link
	tail  *CountingSink
}

// Build creates and sets up every link described by desc. Transformations are
// resolved through reg; each call creates fresh instances, so chains built from
// the same descriptor share no state.
func Build(desc *kdesc.Descriptor, reg *ktransform.Registry, env Environment, terminal TerminalSink) (*Chain, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, errors.New("chain: nil registry")
	}
	if terminal == nil {
		return nil, errors.New("chain: nil terminal sink")
	}

	links := make([]*Link, len(desc.Links))
	for i := range links {
		links[i] = NewLink()
	}
	tail := NewCountingSink(terminal)

	for i, ld := range desc.Links {
		var downstream Sink = tail
		if i+1 < len(links) {
			downstream = links[i+1]
		}

		id := ld.Transformation
		newTransformation := func() (ktransform.Transformation, error) {
			return reg.New(id)
		}
		if err := links[i].Setup(ktransform.NewConfig(ld.Params), ld.Name, env, newTransformation, downstream); err != nil {
			return nil, fmt.Errorf("setup chain %q: %w", desc.Name, err)
		}
	}

	return &Chain{
		name:  desc.Name,
		links: links,
		tail:  tail,
	}, nil
}

// Open opens every link, head first, so no transformation receives data
// before it is initialized. It stops at the first failure.
func (c *Chain) Open() error {
	for _, l := range c.links {
		if err := l.Open(); err != nil {
			return fmt.Errorf("open link %q: %w", l.Name(), err)
		}
	}
	return nil
}

// Collect pushes rec into the head of the chain.
func (c *Chain) Collect(ctx context.Context, rec krecord.Record) error {
	return c.links[0].Collect(ctx, rec)
}

// Close closes the head link; the close cascades down to the terminal sink.
func (c *Chain) Close() error {
	return c.links[0].Close()
}

// Cancel cancels every link independently. It is safe to call concurrently
// with Collect and Close and more than once.
func (c *Chain) Cancel() {
	for _, l := range c.links {
		l.Cancel()
	}
}

func (c *Chain) Name() string {
	return c.name
}

// Names returns the link names in chain order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.links))
	for i, l := range c.links {
		names[i] = l.Name()
	}
	return names
}

func (c *Chain) Len() int {
	return len(c.links)
}

// Link returns the i-th link.
func (c *Chain) Link(i int) *Link {
	return c.links[i]
}

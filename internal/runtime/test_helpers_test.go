package runtime

import (
	"context"
	"sync"

	"github.com/birdayz/kchain/kdesc"
	"github.com/birdayz/kchain/krecord"
	"github.com/birdayz/kchain/ktransform"
)

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (e *eventLog) add(event string) {
	e.mu.Lock()
	e.events = append(e.events, event)
	e.mu.Unlock()
}

func (e *eventLog) all() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.events))
	copy(out, e.events)
	return out
}

// spyTransformation records every lifecycle call. Without processFn it passes
// records through unchanged.
type spyTransformation struct {
	name      string
	log       *eventLog
	processFn func(ctx context.Context, rec krecord.Record, out ktransform.Collector) error

	openErr      error
	closeErr     error
	cancelErr    error
	cancelPanics bool

	cfg *ktransform.Config
}

func (s *spyTransformation) Open(cfg *ktransform.Config) error {
	s.log.add("open:" + s.name)
	s.cfg = cfg
	return s.openErr
}

func (s *spyTransformation) Process(ctx context.Context, rec krecord.Record, out ktransform.Collector) error {
	s.log.add("process:" + s.name + ":" + string(rec.(krecord.Bytes)))
	if s.processFn != nil {
		return s.processFn(ctx, rec, out)
	}
	return out.Collect(ctx, rec)
}

func (s *spyTransformation) Close() error {
	s.log.add("close:" + s.name)
	return s.closeErr
}

func (s *spyTransformation) Cancel() error {
	s.log.add("cancel:" + s.name)
	if s.cancelPanics {
		panic("teardown exploded")
	}
	return s.cancelErr
}

type memorySink struct {
	log     *eventLog
	mu      sync.Mutex
	records []krecord.Record
	closed  int
}

func (m *memorySink) Collect(_ context.Context, rec krecord.Record) error {
	m.mu.Lock()
	m.records = append(m.records, rec)
	m.mu.Unlock()
	return nil
}

func (m *memorySink) Close() error {
	m.log.add("close:sink")
	m.closed++
	return nil
}

func (m *memorySink) strings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.records))
	for i, r := range m.records {
		out[i] = string(r.(krecord.Bytes))
	}
	return out
}

// registryOf registers each spy under its own name. The factory hands out the
// same spy instance so tests can inspect it afterwards.
func registryOf(spies ...*spyTransformation) *ktransform.Registry {
	reg := ktransform.NewRegistry()
	for _, s := range spies {
		spy := s
		reg.MustRegister(spy.name, func() ktransform.Transformation { return spy })
	}
	return reg
}

// descriptorOf builds a chain whose link names equal their transformation ids.
func descriptorOf(names ...string) *kdesc.Descriptor {
	links := make([]kdesc.Link, len(names))
	for i, n := range names {
		links[i] = kdesc.Link{Name: n, Transformation: n}
	}
	return kdesc.MustNew("test", links...)
}

func spies(log *eventLog, names ...string) []*spyTransformation {
	out := make([]*spyTransformation, len(names))
	for i, n := range names {
		out[i] = &spyTransformation{name: n, log: log}
	}
	return out
}

func bytesOf(values ...string) []krecord.Record {
	out := make([]krecord.Record, len(values))
	for i, v := range values {
		out[i] = krecord.Bytes(v)
	}
	return out
}

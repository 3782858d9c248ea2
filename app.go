// Package kchain runs linear chains of transformations fused into a single
// task: records are pushed from link to link by direct calls, without any
// buffering in between.
package kchain

import (
	"context"
	"errors"
	"sync"

	"github.com/birdayz/kchain/internal/execution"
	"github.com/birdayz/kchain/internal/runtime"
	"github.com/birdayz/kchain/kdesc"
	"github.com/birdayz/kchain/kmonitor"
	"github.com/birdayz/kchain/ktransform"
	"github.com/birdayz/kchain/transforms"
)

// ErrNotRunning is returned by Close when Run was never called.
var ErrNotRunning = errors.New("kchain: app not running")

type App struct {
	task *execution.Task

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// DefaultRegistry returns a registry holding the built-in transformations.
func DefaultRegistry() *ktransform.Registry {
	reg := ktransform.NewRegistry()
	if err := transforms.Register(reg); err != nil {
		panic(err)
	}
	return reg
}

func newSettings(opts []Option) *settings {
	s := &settings{
		log:          NullLogger(),
		monitor:      kmonitor.Nop(),
		subtaskCount: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = DefaultRegistry()
	}
	if len(s.interceptors) > 0 {
		s.registry.Use(s.interceptors...)
	}
	return s
}

func (s *settings) taskConfig(desc *kdesc.Descriptor, sink TerminalSink) execution.TaskConfig {
	return execution.TaskConfig{
		Descriptor: desc,
		Registry:   s.registry,
		Environment: runtime.Environment{
			TaskName:         s.taskName,
			SubtaskIndex:     s.subtaskIndex,
			SubtaskCount:     s.subtaskCount,
			SamplingInterval: s.samplingInterval,
			Monitor:          s.monitor,
			Log:              s.log,
		},
		Sink:         sink,
		FaultHandler: s.faultHandler,
		Log:          s.log,
	}
}

// New builds the chain described by desc, ending in sink. Transformations are
// instantiated here but not opened; no user code beyond the factories runs
// until Run.
func New(desc *kdesc.Descriptor, sink TerminalSink, opts ...Option) (*App, error) {
	s := newSettings(opts)
	task, err := execution.NewTask(s.taskConfig(desc, sink))
	if err != nil {
		return nil, err
	}
	return &App{task: task}, nil
}

// MustNew creates a new App, panicking on configuration errors.
// Prefer New() for production code to handle errors gracefully.
func MustNew(desc *kdesc.Descriptor, sink TerminalSink, opts ...Option) *App {
	app, err := New(desc, sink, opts...)
	if err != nil {
		panic(err)
	}
	return app
}

// Run blocks until src is exhausted, the chain fails, ctx is done or Close
// is called. A chain failure is returned as the *Fault naming the failing
// transformation.
func (a *App) Run(ctx context.Context, src Source) error {
	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.done = make(chan struct{})
	a.mu.Unlock()

	err := a.task.Run(ctx, src)

	a.mu.Lock()
	a.err = err
	close(a.done)
	a.mu.Unlock()
	cancel()
	return err
}

// Close cancels a running chain and waits for Run to return.
func (a *App) Close() error {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.mu.Unlock()
	if cancel == nil {
		return ErrNotRunning
	}

	cancel()
	<-done

	a.mu.Lock()
	defer a.mu.Unlock()
	if errors.Is(a.err, context.Canceled) {
		return nil
	}
	return a.err
}

// Records returns the number of records pushed into the chain.
func (a *App) Records() int64 {
	return a.task.Records()
}

// Links returns the link names in chain order.
func (a *App) Links() []string {
	return a.task.Chain().Names()
}

// RunParallel runs count subtasks of the chain described by desc, each with
// its own sink and source from factory. WithSubtask is ignored.
func RunParallel(ctx context.Context, desc *kdesc.Descriptor, count int, factory SubtaskFactory, opts ...Option) error {
	s := newSettings(opts)
	tm, err := execution.NewTaskManager(s.taskConfig(desc, nil), count, factory)
	if err != nil {
		return err
	}
	return tm.Run(ctx)
}

package execution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/birdayz/kchain/internal/runtime"
	"github.com/birdayz/kchain/kdesc"
	"github.com/birdayz/kchain/ktransform"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadyRun is returned when Run is called more than once on a Task.
var ErrAlreadyRun = errors.New("task already run")

// TaskConfig holds everything a Task needs to build its chain
type TaskConfig struct {
	Descriptor   *kdesc.Descriptor
	Registry     *ktransform.Registry
	Environment  runtime.Environment
	Sink         runtime.TerminalSink
	FaultHandler FaultHandler
	Log          *slog.Logger
}

// Task hosts one chain and drives records from a Source through it.
type Task struct {
	chain        *runtime.Chain
	sink         runtime.TerminalSink
	log          *slog.Logger
	faultHandler FaultHandler

	started atomic.Bool
	records atomic.Int64
}

func NewTask(cfg TaskConfig) (*Task, error) {
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	env := cfg.Environment
	if env.Log == nil {
		env.Log = log
	}

	chain, err := runtime.Build(cfg.Descriptor, cfg.Registry, env, cfg.Sink)
	if err != nil {
		return nil, fmt.Errorf("failed to build chain: %w", err)
	}

	return &Task{
		chain:        chain,
		sink:         cfg.Sink,
		log:          log.With("task", env.TaskName, "chain", chain.Name(), "subtask", env.SubtaskIndex),
		faultHandler: cfg.FaultHandler,
	}, nil
}

// Run opens the chain, pushes every record of src into it and closes it once
// src returns io.EOF. Any failure cancels every link. When ctx is done the chain
// is cancelled from a watchdog goroutine, so a record stuck in user code does
// not hold up shutdown; Run then returns ctx.Err().
func (t *Task) Run(ctx context.Context, src Source) error {
	if !t.started.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}

	if err := t.chain.Open(); err != nil {
		t.chain.Cancel()
		t.log.Error("Failed to open chain", "error", err)
		return err
	}
	t.log.Info("Chain opened", "links", t.chain.Names())

	start := time.Now()
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	grp, grpCtx := errgroup.WithContext(runCtx)

	grp.Go(func() error {
		<-grpCtx.Done()
		if ctx.Err() != nil {
			t.log.Info("Context done, cancelling chain")
			t.chain.Cancel()
		}
		return nil
	})

	grp.Go(func() error {
		defer stop()
		return t.drive(grpCtx, src)
	})

	err := grp.Wait()
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	attrs := []any{"records", t.records.Load(), "duration", time.Since(start)}
	if err != nil {
		t.log.Error("Task failed", append(attrs, "error", err)...)
		return err
	}
	t.log.Info("Task finished", attrs...)
	return nil
}

func (t *Task) drive(ctx context.Context, src Source) error {
	for {
		rec, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			if err := t.chain.Close(); err != nil {
				t.chain.Cancel()
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
			return nil
		}
		if err != nil {
			t.chain.Cancel()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read from source: %w", err)
		}

		if err := t.chain.Collect(ctx, rec); err != nil {
			if ctx.Err() != nil {
				t.chain.Cancel()
				return ctx.Err()
			}
			if fault, ok := runtime.AsFault(err); ok && t.faultHandler != nil && !runtime.IsCancelled(err) {
				t.faultHandler(ctx, fault, rec)
			}
			t.chain.Cancel()
			return err
		}
		t.records.Add(1)
	}
}

// Records returns the number of records pushed into the chain successfully.
func (t *Task) Records() int64 {
	return t.records.Load()
}

func (t *Task) Chain() *runtime.Chain {
	return t.chain
}

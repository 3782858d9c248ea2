package execution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/birdayz/kchain/internal/runtime"
	"golang.org/x/sync/errgroup"
	"go.uber.org/multierr"
)

// SubtaskFactory creates the per-subtask pieces of a parallel run.
type SubtaskFactory struct {
	Sink   func(subtask int) (runtime.TerminalSink, error)
	Source func(subtask int) Source
}

// TaskManager runs the same chain as several parallel subtasks. Each subtask
// gets its own chain instance, sink and source; a failing subtask cancels the
// others.
type TaskManager struct {
	tasks   []*Task
	sources []Source
	log     *slog.Logger
}

// NewTaskManager builds count subtasks from template. The subtask index and
// count of template.Environment are overwritten per subtask.
func NewTaskManager(template TaskConfig, count int, factory SubtaskFactory) (*TaskManager, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid subtask count %d", count)
	}
	if factory.Sink == nil || factory.Source == nil {
		return nil, errors.New("subtask factory needs both sink and source")
	}

	log := template.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tm := &TaskManager{log: log}
	for i := 0; i < count; i++ {
		sink, err := factory.Sink(i)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("failed to create sink of subtask %d: %w", i, err), tm.closeSinks())
		}

		cfg := template
		cfg.Sink = sink
		cfg.Environment.SubtaskIndex = i
		cfg.Environment.SubtaskCount = count

		task, err := NewTask(cfg)
		if err != nil {
			return nil, multierr.Combine(fmt.Errorf("failed to create subtask %d: %w", i, err), sink.Close(), tm.closeSinks())
		}
		tm.tasks = append(tm.tasks, task)
		tm.sources = append(tm.sources, factory.Source(i))
	}
	return tm, nil
}

// Run runs every subtask until all of them finished. It returns the combined
// errors of all failing subtasks; subtasks cancelled because a sibling failed
// do not contribute.
func (tm *TaskManager) Run(ctx context.Context) error {
	grp, grpCtx := errgroup.WithContext(ctx)

	errs := make([]error, len(tm.tasks))
	for i, task := range tm.tasks {
		i, task := i, task
		grp.Go(func() error {
			err := task.Run(grpCtx, tm.sources[i])
			if err != nil && !(ctx.Err() == nil && errors.Is(err, context.Canceled)) {
				errs[i] = fmt.Errorf("subtask %d: %w", i, err)
			}
			return err
		})
	}
	_ = grp.Wait()

	err := multierr.Combine(errs...)
	if err != nil {
		tm.log.Error("Subtasks failed", "count", len(multierr.Errors(err)), "error", err)
	}
	return err
}

func (tm *TaskManager) Tasks() []*Task {
	return tm.tasks
}

// Records sums the records pushed by all subtasks.
func (tm *TaskManager) Records() int64 {
	var n int64
	for _, t := range tm.tasks {
		n += t.Records()
	}
	return n
}

// closeSinks releases the sinks of subtasks built so far, for when a later
// subtask fails to build.
func (tm *TaskManager) closeSinks() error {
	var err error
	for _, t := range tm.tasks {
		t.chain.Cancel()
		err = multierr.Append(err, t.sink.Close())
	}
	return err
}

package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/birdayz/kchain/kmonitor"
	"github.com/birdayz/kchain/krecord"
	"github.com/birdayz/kchain/ktransform"
	"go.uber.org/multierr"
)

// NewTransformation instantiates the user code of a link.
type NewTransformation func() (ktransform.Transformation, error)

// Link hosts one user transformation inside a chain. It is the sink its
// predecessor pushes into and the source of every record pushed into its
// downstream.
//
// Setup, Open, Collect and Close must be called from the goroutine driving the
// chain. Cancel may be called from any goroutine at any time.
type Link struct {
	name           string
	params         *ktransform.Config
	env            Environment
	log            *slog.Logger
	transformation ktransform.Transformation

	// Assigned once in Setup.
	out  Sink
	emit ktransform.Collector

	state atomic.Int32

	// Sampling window, owned by the driving goroutine.
	records  int
	consumed int64

	// Bytes pushed into this link, drained by the upstream link's report.
	collected int64
}

// NewLink returns an unconfigured link. Links are allocated before any of
// them is set up so that every downstream exists when it gets wired.
func NewLink() *Link {
	return &Link{}
}

// Setup instantiates the transformation and wires the downstream. No user code
// beyond the factory runs here.
func (l *Link) Setup(params *ktransform.Config, name string, env Environment, newTransformation NewTransformation, downstream Sink) error {
	if s := l.State(); s != StateUnconfigured {
		return fmt.Errorf("%w: setup of link %q in state %s", ErrInvalidState, name, s)
	}
	if downstream == nil {
		return fmt.Errorf("link %q: nil downstream", name)
	}

	t, err := newTransformation()
	if err != nil {
		return fmt.Errorf("instantiate transformation of link %q: %w", name, err)
	}

	l.name = name
	l.params = params
	l.env = env.withDefaults()
	l.log = l.env.Log.With("link", name)
	l.transformation = t
	l.out = downstream
	l.emit = &output{sink: downstream}

	l.state.Store(int32(StateConfigured))
	return nil
}

// Open injects task parallelism metadata into a private copy of the link
// configuration and runs the transformation's open hook. Errors are returned
// as they are: they are startup failures, not faults. A link whose open hook
// failed rejects every later Collect and Close.
func (l *Link) Open() error {
	if !l.state.CompareAndSwap(int32(StateConfigured), int32(StateOpened)) {
		return l.stateError("open")
	}

	cfg := l.params.Clone()
	cfg.SetInt(ktransform.KeySubtaskIndex, l.env.SubtaskIndex)
	cfg.SetInt(ktransform.KeySubtaskCount, l.env.SubtaskCount)
	if l.env.TaskName != "" {
		cfg.SetString(ktransform.KeyTaskName, l.env.TaskName)
	}

	if err := l.openTransformation(cfg); err != nil {
		l.state.CompareAndSwap(int32(StateOpened), int32(StateOpenFailed))
		return err
	}
	return nil
}

// Collect pushes rec through the transformation. Any failure of user code is
// returned as a *Fault naming this link.
func (l *Link) Collect(ctx context.Context, rec krecord.Record) error {
	switch s := l.State(); s {
	case StateRunning:
	case StateOpened:
		if !l.state.CompareAndSwap(int32(StateOpened), int32(StateRunning)) {
			return l.stateError("collect")
		}
	default:
		return l.stateError("collect")
	}

	n := krecord.Length(rec)
	l.collected += n
	l.consumed += n

	if err := l.process(ctx, rec); err != nil {
		return newFault(l.name, PhaseProcess, err)
	}

	l.records++
	if l.records >= l.env.SamplingInterval {
		l.report()
	}
	return nil
}

// Close runs the close hook, then closes the downstream. Because every link
// closes its own downstream, closing the head closes the whole chain in order.
// The downstream is closed even when the close hook fails, but not when the
// link was cancelled while its close hook ran.
func (l *Link) Close() error {
	if !l.transition(StateClosing, StateOpened, StateRunning) {
		return l.stateError("close")
	}

	var err error
	if cerr := l.closeTransformation(); cerr != nil {
		err = newFault(l.name, PhaseClose, cerr)
	}
	if !l.state.CompareAndSwap(int32(StateClosing), int32(StateClosed)) {
		return l.stateError("close")
	}
	if l.records > 0 {
		l.report()
	}
	return multierr.Append(err, l.out.Close())
}

// Cancel tears the transformation down without waiting for in-flight records
// or a running close hook. It never fails; teardown errors are logged and
// dropped.
func (l *Link) Cancel() {
	var prev LinkState
	for {
		prev = l.State()
		if prev == StateUnconfigured || prev == StateCancelled {
			return
		}
		if l.state.CompareAndSwap(int32(prev), int32(StateCancelled)) {
			break
		}
	}

	// Nothing was opened, or Close already released everything.
	if prev == StateConfigured || prev == StateClosed {
		return
	}

	if err := l.teardown(); err != nil {
		l.log.Debug("Ignoring teardown error during cancel", "state", prev, "error", err)
	}
}

// DrainCollectedBytes implements Sink for the upstream link.
func (l *Link) DrainCollectedBytes() int64 {
	n := l.collected
	l.collected = 0
	return n
}

func (l *Link) Name() string {
	return l.name
}

func (l *Link) State() LinkState {
	return LinkState(l.state.Load())
}

func (l *Link) process(ctx context.Context, rec krecord.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoverAsError(r)
		}
	}()
	return l.transformation.Process(ctx, rec, l.emit)
}

func (l *Link) openTransformation(cfg *ktransform.Config) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoverAsError(r)
		}
	}()
	return l.transformation.Open(cfg)
}

func (l *Link) closeTransformation() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoverAsError(r)
		}
	}()
	return l.transformation.Close()
}

func (l *Link) teardown() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoverAsError(r)
		}
	}()
	if c, ok := l.transformation.(ktransform.Canceler); ok {
		return c.Cancel()
	}
	return l.transformation.Close()
}

// report hands the current window to the monitor and starts a new one.
func (l *Link) report() {
	l.env.Monitor.ReportStatistics(kmonitor.Statistics{
		Task:          l.env.TaskName,
		Subtask:       l.env.SubtaskIndex,
		Link:          l.name,
		Records:       l.records,
		ConsumedBytes: l.consumed,
		ProducedBytes: l.out.DrainCollectedBytes(),
	})
	l.records = 0
	l.consumed = 0
}

func (l *Link) transition(to LinkState, from ...LinkState) bool {
	for {
		cur := l.State()
		allowed := false
		for _, f := range from {
			if cur == f {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
		if l.state.CompareAndSwap(int32(cur), int32(to)) {
			return true
		}
	}
}

func (l *Link) stateError(op string) error {
	var err error
	switch s := l.State(); s {
	case StateCancelled:
		err = ErrCancelled
	case StateClosed, StateClosing:
		err = ErrClosed
	case StateUnconfigured, StateConfigured, StateOpenFailed:
		if op == "collect" {
			err = ErrNotOpened
		} else {
			err = fmt.Errorf("%w: %s", ErrInvalidState, s)
		}
	default:
		err = fmt.Errorf("%w: %s", ErrInvalidState, s)
	}
	return fmt.Errorf("%s on link %q: %w", op, l.name, err)
}

// output is the collector handed to the transformation. It exposes Collect
// only, so user code cannot close or drain its downstream.
type output struct {
	sink Sink
}

func (o *output) Collect(ctx context.Context, rec krecord.Record) error {
	return o.sink.Collect(ctx, rec)
}

var (
	_ Sink                 = (*Link)(nil)
	_ ktransform.Collector = (*output)(nil)
)

// IsCancelled reports whether err stems from a cancelled link.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

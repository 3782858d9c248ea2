package kchain

import (
	"github.com/birdayz/kchain/internal/execution"
	"github.com/birdayz/kchain/internal/runtime"
	"github.com/birdayz/kchain/kmonitor"
	"github.com/birdayz/kchain/krecord"
	"github.com/birdayz/kchain/ktransform"
)

type (
	Record         = krecord.Record
	Transformation = ktransform.Transformation
	Collector      = ktransform.Collector
	TerminalSink   = runtime.TerminalSink
	Source         = execution.Source
	Statistics     = kmonitor.Statistics
	Monitor        = kmonitor.Monitor
)

// Fault names the chained transformation that failed.
type Fault = runtime.Fault

// PanicError is the cause of a Fault raised by a panicking transformation.
type PanicError = runtime.PanicError

// Fault phases
const (
	PhaseProcess = runtime.PhaseProcess
	PhaseClose   = runtime.PhaseClose
)

var (
	ErrInvalidState = runtime.ErrInvalidState
	ErrNotOpened    = runtime.ErrNotOpened
	ErrClosed       = runtime.ErrClosed
	ErrCancelled    = runtime.ErrCancelled
)

// AsFault reports whether err is or wraps a Fault.
func AsFault(err error) (*Fault, bool) {
	return runtime.AsFault(err)
}

// FaultHandler is called with the record a chained transformation failed on,
// before the chain is cancelled
type FaultHandler = execution.FaultHandler

// SubtaskFactory creates the sink and source of each parallel subtask
type SubtaskFactory = execution.SubtaskFactory

var (
	SliceSource = execution.SliceSource
	ChanSource  = execution.ChanSource
	LineSource  = execution.LineSource
)

package runtime

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	// ErrInvalidState is returned when a lifecycle method is called out of
	// order.
	ErrInvalidState = errors.New("invalid link state")
	// ErrNotOpened is returned by Collect on a link that was never opened.
	ErrNotOpened = fmt.Errorf("%w: link not opened", ErrInvalidState)
	// ErrClosed is returned when pushing into or closing an already closed stage.
	ErrClosed = fmt.Errorf("%w: already closed", ErrInvalidState)
	// ErrCancelled is returned by every lifecycle method after Cancel.
	ErrCancelled = errors.New("link cancelled")
)

// Phase tells in which lifecycle step a chained transformation failed.
type Phase string

const (
	PhaseProcess Phase = "process"
	PhaseClose   Phase = "close"
)

// Fault identifies the chained transformation that failed while handling data
// and keeps the original failure as its cause. A fault raised further down the
// chain passes through upstream links unchanged.
type Fault struct {
	Link  string
	Phase Phase
	Cause error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("chained transformation %q failed during %s: %v", f.Link, f.Phase, f.Cause)
}

func (f *Fault) Unwrap() error {
	return f.Cause
}

// AsFault reports whether err is or wraps a Fault.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func newFault(link string, phase Phase, cause error) *Fault {
	if f, ok := AsFault(cause); ok {
		return f
	}
	return &Fault{Link: link, Phase: phase, Cause: cause}
}

// PanicError carries a value recovered from a panicking transformation.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func recoverAsError(r any) error {
	return &PanicError{Value: r, Stack: debug.Stack()}
}

package kchain

import (
	"log/slog"

	"github.com/birdayz/kchain/internal/execution"
	"github.com/birdayz/kchain/kmonitor"
	"github.com/birdayz/kchain/ktransform"
)

// Option is a function that configures an App
type Option func(*settings)

type settings struct {
	log              *slog.Logger
	registry         *ktransform.Registry
	interceptors     []ktransform.Interceptor
	monitor          kmonitor.Monitor
	samplingInterval int
	taskName         string
	subtaskIndex     int
	subtaskCount     int
	faultHandler     execution.FaultHandler
}

// WithLog sets the logger for the application
var WithLog = func(log *slog.Logger) Option {
	return func(s *settings) {
		s.log = log
	}
}

// WithRegistry sets the registry transformation ids are resolved against.
// Defaults to a registry holding the built-in transformations.
var WithRegistry = func(reg *ktransform.Registry) Option {
	return func(s *settings) {
		s.registry = reg
	}
}

// WithInterceptors installs interceptors on the registry
var WithInterceptors = func(interceptors ...ktransform.Interceptor) Option {
	return func(s *settings) {
		s.interceptors = append(s.interceptors, interceptors...)
	}
}

// WithMonitor sets where chain statistics are reported
var WithMonitor = func(m kmonitor.Monitor) Option {
	return func(s *settings) {
		s.monitor = m
	}
}

// WithSamplingInterval sets after how many records each link reports
// statistics. Values below 1 select the default of 10.
var WithSamplingInterval = func(n int) Option {
	return func(s *settings) {
		s.samplingInterval = n
	}
}

// WithTaskName sets the task name handed to every transformation
var WithTaskName = func(name string) Option {
	return func(s *settings) {
		s.taskName = name
	}
}

// WithSubtask sets the parallel instance this chain runs as
var WithSubtask = func(index, count int) Option {
	return func(s *settings) {
		s.subtaskIndex = index
		s.subtaskCount = count
	}
}

// WithFaultHandler sets a callback receiving the record a transformation
// failed on. The chain still fails.
var WithFaultHandler = func(handler FaultHandler) Option {
	return func(s *settings) {
		s.faultHandler = handler
	}
}

// NullWriter is a writer that discards all data
type NullWriter struct{}

func (NullWriter) Write(p []byte) (int, error) { return len(p), nil }

// NullLogger creates a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(NullWriter{}, nil))
}

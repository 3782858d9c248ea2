// Package kmonitor is the monitoring channel chain links report throughput
// statistics to. Reports are append-only: a Monitor never answers back.
package kmonitor

import "sync"

// Statistics is one sampling window of a single link.
type Statistics struct {
	Task    string
	Subtask int
	Link    string

	// Records is the number of records the link consumed in this window.
	Records int

	// ConsumedBytes counts the bytes of records pushed into the link.
	ConsumedBytes int64

	// ProducedBytes counts the bytes the downstream stage received from the
	// link during the same window.
	ProducedBytes int64
}

// Monitor receives statistics reports. ReportStatistics is called on the hot
// path of the reporting chain and should not block for long.
type Monitor interface {
	ReportStatistics(s Statistics)
}

// Func adapts a function to the Monitor interface.
type Func func(s Statistics)

func (f Func) ReportStatistics(s Statistics) {
	f(s)
}

type nop struct{}

func (nop) ReportStatistics(Statistics) {}

// Nop returns a Monitor that discards all reports.
func Nop() Monitor {
	return nop{}
}

type multi []Monitor

func (m multi) ReportStatistics(s Statistics) {
	for _, mon := range m {
		mon.ReportStatistics(s)
	}
}

// Multi fans every report out to all monitors in order. Nil monitors are
// skipped.
func Multi(monitors ...Monitor) Monitor {
	m := make(multi, 0, len(monitors))
	for _, mon := range monitors {
		if mon != nil {
			m = append(m, mon)
		}
	}
	return m
}

// Channel forwards reports to ch. The send blocks when ch is full, which
// stalls the reporting chain, so ch should be buffered.
func Channel(ch chan<- Statistics) Monitor {
	return Func(func(s Statistics) {
		ch <- s
	})
}

// Recorder keeps every report in memory.
type Recorder struct {
	mu      sync.Mutex
	reports []Statistics
}

func (r *Recorder) ReportStatistics(s Statistics) {
	r.mu.Lock()
	r.reports = append(r.reports, s)
	r.mu.Unlock()
}

// Reports returns a copy of all reports received so far.
func (r *Recorder) Reports() []Statistics {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Statistics, len(r.reports))
	copy(out, r.reports)
	return out
}

// ForLink returns the reports of a single link.
func (r *Recorder) ForLink(link string) []Statistics {
	var out []Statistics
	for _, s := range r.Reports() {
		if s.Link == link {
			out = append(out, s)
		}
	}
	return out
}

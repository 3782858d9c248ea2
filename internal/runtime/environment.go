package runtime

import (
	"io"
	"log/slog"

	"github.com/birdayz/kchain/kmonitor"
)

// DefaultSamplingInterval is the number of consumed records between two
// statistics reports of a link.
const DefaultSamplingInterval = 10

// Environment is what the hosting task shares with every link of its chain.
type Environment struct {
	// TaskName is optional; it is only injected into link configuration when
	// set.
	TaskName     string
	SubtaskIndex int
	SubtaskCount int

	SamplingInterval int
	Monitor          kmonitor.Monitor
	Log              *slog.Logger
}

func (e Environment) withDefaults() Environment {
	if e.SamplingInterval <= 0 {
		e.SamplingInterval = DefaultSamplingInterval
	}
	if e.SubtaskCount <= 0 {
		e.SubtaskCount = 1
	}
	if e.Monitor == nil {
		e.Monitor = kmonitor.Nop()
	}
	if e.Log == nil {
		e.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

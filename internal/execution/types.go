package execution

import (
	"context"

	"github.com/birdayz/kchain/internal/runtime"
	"github.com/birdayz/kchain/krecord"
)

// FaultHandler is called with the record a chained transformation failed on,
// before the chain is cancelled. It cannot recover the task; use it to report
// or park the record elsewhere. Faults caused by cancellation are not reported.
type FaultHandler func(ctx context.Context, fault *runtime.Fault, rec krecord.Record)

package runtime

import "fmt"

// LinkState is the lifecycle position of a link.
//
//	Unconfigured -> Configured -> Opened -> Running -> Closing -> Closed
//
// A link whose open hook fails moves to OpenFailed and accepts neither records
// nor Close. Cancelled is reachable from every state except Unconfigured.
type LinkState int32

const (
	StateUnconfigured LinkState = iota
	StateConfigured
	StateOpened
	StateRunning
	StateClosed
	StateCancelled
	StateOpenFailed
	StateClosing
)

func (s LinkState) String() string {
	switch s {
	case StateUnconfigured:
		return "UNCONFIGURED"
	case StateConfigured:
		return "CONFIGURED"
	case StateOpened:
		return "OPENED"
	case StateRunning:
		return "RUNNING"
	case StateClosed:
		return "CLOSED"
	case StateCancelled:
		return "CANCELLED"
	case StateOpenFailed:
		return "OPEN_FAILED"
	case StateClosing:
		return "CLOSING"
	default:
		return fmt.Sprintf("LinkState(%d)", int32(s))
	}
}

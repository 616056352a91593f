package strobe

import "time"

// EventKind identifies the type of a controller event.
type EventKind int

const (
	EventArmed    EventKind = iota // Ticker started
	EventToggle                    // Visibility flipped
	EventFlash                     // Frame presented on a visible transition
	EventDropped                   // Visible transition with no frame available
	EventStopping                  // Stop requested
	EventStopped                   // Loop finished
)

// String returns the lowercase name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventArmed:
		return "armed"
	case EventToggle:
		return "toggle"
	case EventFlash:
		return "flash"
	case EventDropped:
		return "dropped"
	case EventStopping:
		return "stopping"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is emitted by the controller on every observable step. When
// Controller.Hook is set, events are passed to it synchronously on the
// controller's goroutine.
type Event struct {
	Kind      EventKind
	Timestamp time.Time
	Message   string

	Tick    uint64
	Visible bool
	Shown   uint64
	Reason  StopReason
	Elapsed time.Duration
}

package strobe

import "time"

// Phase is the controller's lifecycle stage.
type Phase int

const (
	PhaseIdle     Phase = iota // Not yet armed
	PhaseArmed                 // Ticker running, accepting ticks
	PhaseStopping              // Stop requested, draining
	PhaseStopped               // Terminal
)

// validTransitions defines the allowed Phase transitions.
var validTransitions = map[Phase][]Phase{
	PhaseIdle:     {PhaseArmed},
	PhaseArmed:    {PhaseStopping},
	PhaseStopping: {PhaseStopped},
}

// CanTransitionTo reports whether moving from p to next is valid.
func (p Phase) CanTransitionTo(next Phase) bool {
	for _, valid := range validTransitions[p] {
		if valid == next {
			return true
		}
	}
	return false
}

// String returns a short uppercase label for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "IDLE"
	case PhaseArmed:
		return "ARMED"
	case PhaseStopping:
		return "STOPPING"
	case PhaseStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// StopReason records why the loop left the Armed phase.
type StopReason string

const (
	ReasonNone      StopReason = ""
	ReasonInterrupt StopReason = "interrupt"
	ReasonTime      StopReason = "time limit"
	ReasonCount     StopReason = "count limit"
	ReasonCancelled StopReason = "cancelled"
)

// State is the mutable strobe state. It is written only by the controller's
// tick, so it carries no lock.
type State struct {
	Phase         Phase
	Visible       bool
	Shown         uint64 // false→true transitions
	Ticks         uint64
	Start         time.Time
	StopRequested bool
	Reason        StopReason
}

// requestStop marks the state as stopping. A second request keeps the first
// reason.
func (s *State) requestStop(reason StopReason) {
	if s.StopRequested {
		return
	}
	s.StopRequested = true
	s.Reason = reason
	if s.Phase.CanTransitionTo(PhaseStopping) {
		s.Phase = PhaseStopping
	}
}

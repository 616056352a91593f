package strobe

import (
	"fmt"
	"strconv"
	"time"
)

// Limit decides when the strobe loop should stop. The time check runs at the
// start of a tick, before toggling; the count check runs after a flash has
// been attempted so the final flash is still shown.
type Limit interface {
	// PreTick reports whether the loop must stop before toggling.
	PreTick(st State, now time.Time) bool
	// PostFlash reports whether the loop must stop after a visible transition.
	PostFlash(st State) bool
	// String describes the limit for the start banner.
	String() string
}

// ShouldStop combines both checks of l for the given state.
func ShouldStop(l Limit, st State, now time.Time) bool {
	if l == nil {
		return false
	}
	return l.PreTick(st, now) || l.PostFlash(st)
}

// NoLimit never stops; the loop runs until interrupted.
type NoLimit struct{}

func (NoLimit) PreTick(State, time.Time) bool { return false }
func (NoLimit) PostFlash(State) bool          { return false }
func (NoLimit) String() string                { return "none" }

// TimeLimit stops once the elapsed time since arming reaches Duration.
type TimeLimit struct {
	Duration time.Duration
}

func (l TimeLimit) PreTick(st State, now time.Time) bool {
	return now.Sub(st.Start) >= l.Duration
}

func (TimeLimit) PostFlash(State) bool { return false }

func (l TimeLimit) String() string {
	return strconv.FormatFloat(l.Duration.Seconds(), 'f', -1, 64) + "s"
}

// CountLimit stops after Flashes visible transitions.
type CountLimit struct {
	Flashes uint64
}

func (CountLimit) PreTick(State, time.Time) bool { return false }

func (l CountLimit) PostFlash(st State) bool {
	return st.Shown >= l.Flashes
}

func (l CountLimit) String() string {
	if l.Flashes == 1 {
		return "1 flash"
	}
	return fmt.Sprintf("%d flashes", l.Flashes)
}

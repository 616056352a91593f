// Package strobe implements the timer-driven strobe controller: the limit
// policies, the visibility toggle, and the cooperative shutdown that lets an
// in-flight frame finish before the loop exits.
package strobe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrTimer is returned when the periodic timer cannot be created.
var ErrTimer = errors.New("strobe: create timer")

// DefaultDrain is the grace period after a count-limit stop.
const DefaultDrain = 100 * time.Millisecond

// Controller toggles a Surface on every tick until its Limit is reached or
// the Shutdown flag is raised. All state changes happen on the goroutine that
// calls Run (or Tick).
type Controller struct {
	Surface  Surface
	Limit    Limit         // nil means NoLimit
	Interval time.Duration // time between toggles
	Drain    time.Duration // grace period after a count-limit stop
	Shutdown *Shutdown
	Log      io.Writer   // tick log; nil discards
	Hook     func(Event) // optional event sink
	Now      func() time.Time

	state State
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Run arms the controller and drives ticks until Shutdown.Done is closed or
// ctx is cancelled. The controller closes Done when it reaches PhaseStopped,
// so Run returns nil on any limit or interrupt stop.
func (c *Controller) Run(ctx context.Context) error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval %v must be positive", ErrTimer, c.Interval)
	}
	if c.Surface == nil {
		return errors.New("strobe: no surface")
	}

	c.Arm(c.now())
	done := c.Shutdown.Done()

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		// A stop raised by the previous tick wins over a ready ticker.
		select {
		case <-done:
			return nil
		default:
		}
		select {
		case <-ctx.Done():
			c.stop(ctx, ReasonCancelled, false)
			return ctx.Err()
		case <-done:
			return nil
		case <-ticker.C:
			c.Tick(ctx, c.now())
		}
	}
}

// Arm records the start time and moves the controller to PhaseArmed. Calling
// Arm on a controller that is already armed has no effect.
func (c *Controller) Arm(now time.Time) {
	if !c.state.Phase.CanTransitionTo(PhaseArmed) {
		return
	}
	if c.Shutdown == nil {
		c.Shutdown = NewShutdown()
	}
	c.state = State{Phase: PhaseArmed, Start: now}
	c.emit(Event{
		Kind:    EventArmed,
		Message: fmt.Sprintf("Armed: interval %v, limit %s", c.Interval, c.limit()),
	})
}

// Tick runs one timer callback and returns the resulting phase. Ticks on a
// controller that is not armed do nothing.
func (c *Controller) Tick(ctx context.Context, now time.Time) Phase {
	st := &c.state
	if st.Phase != PhaseArmed {
		return st.Phase
	}
	st.Ticks++

	if c.Shutdown.Interrupted() {
		c.stop(ctx, ReasonInterrupt, false)
		return st.Phase
	}
	if c.limit().PreTick(*st, now) {
		c.stop(ctx, ReasonTime, false)
		return st.Phase
	}

	st.Visible = !st.Visible
	ApplyVisibility(c.Surface, st.Visible)
	c.emit(Event{Kind: EventToggle, Message: fmt.Sprintf("Tick %d: visible=%t", st.Ticks, st.Visible)})
	if !st.Visible {
		return st.Phase
	}

	presented := c.flash()
	st.Shown++
	if presented {
		c.emit(Event{Kind: EventFlash, Message: fmt.Sprintf("Flash %d", st.Shown)})
	} else {
		c.emit(Event{Kind: EventDropped, Message: fmt.Sprintf("Flash %d dropped: no frame", st.Shown)})
	}

	if c.limit().PostFlash(*st) {
		c.stop(ctx, ReasonCount, true)
	}
	return st.Phase
}

// flash acquires a frame and presents FlashColor on it. A missing frame is
// not an error.
func (c *Controller) flash() bool {
	f := c.Surface.AcquireFrame()
	if f == nil {
		return false
	}
	c.Surface.Present(f, FlashColor)
	return true
}

// stop moves through Stopping to Stopped, draining first when asked, and
// then signals the run loop.
func (c *Controller) stop(ctx context.Context, reason StopReason, drain bool) {
	st := &c.state
	if !st.Phase.CanTransitionTo(PhaseStopping) {
		return
	}
	st.requestStop(reason)
	c.emit(Event{Kind: EventStopping, Message: fmt.Sprintf("Stopping: %s", reason)})

	if drain {
		c.drain(ctx)
	}

	st.Phase = PhaseStopped
	c.emit(Event{Kind: EventStopped, Message: fmt.Sprintf("Stopped after %d flashes (%s)", st.Shown, reason)})
	c.Shutdown.RequestStop()
}

// drain waits for the last frame to reach the display, bounded by Drain.
func (c *Controller) drain(ctx context.Context) {
	if c.Drain <= 0 {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	dctx, cancel := context.WithTimeout(ctx, c.Drain)
	defer cancel()

	if d, ok := c.Surface.(Drainer); ok {
		if err := d.Drain(dctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			c.logf("Drain failed: %v", err)
		}
		return
	}
	<-dctx.Done()
}

func (c *Controller) emit(ev Event) {
	st := c.state
	ev.Timestamp = c.now()
	ev.Tick = st.Ticks
	ev.Visible = st.Visible
	ev.Shown = st.Shown
	ev.Reason = st.Reason
	if !st.Start.IsZero() {
		ev.Elapsed = ev.Timestamp.Sub(st.Start)
	}
	c.logf("%s", ev.Message)
	if c.Hook != nil {
		c.Hook(ev)
	}
}

func (c *Controller) limit() Limit {
	if c.Limit == nil {
		return NoLimit{}
	}
	return c.Limit
}

func (c *Controller) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Controller) logf(format string, args ...any) {
	if c.Log == nil {
		return
	}
	ts := c.now().Format("15:04:05.000")
	fmt.Fprintf(c.Log, "[%s]  %s\n", ts, fmt.Sprintf(format, args...))
}

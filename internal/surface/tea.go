package surface

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/strobe"
	"github.com/LISSConsulting/LISSTech.Strobe/internal/tui"
)

// Tea renders the overlay through a bubbletea program on the alternate
// screen. Frames are sent to the program as messages and drawn by its
// renderer.
type Tea struct {
	program *tea.Program
	tracker *tui.Tracker
	opts    Options

	seq    atomic.Uint64
	closed atomic.Bool

	closeOnce sync.Once
}

// teaFrame is the frame handed out by Tea.AcquireFrame.
type teaFrame struct{ seq uint64 }

// drainPoll is how often Drain checks the renderer's progress.
const drainPoll = 5 * time.Millisecond

// OpenTea creates the bubbletea program. It is started by Host.
func OpenTea(opts Options, progOpts ...tea.ProgramOption) (*Tea, error) {
	tracker := &tui.Tracker{}
	model := tui.New(tracker, opts.interrupt)

	// SIGINT is handled by the caller's shutdown coordinator.
	base := []tea.ProgramOption{tea.WithAltScreen(), tea.WithoutSignalHandler()}
	program := tea.NewProgram(model, append(base, progOpts...)...)
	return &Tea{program: program, tracker: tracker, opts: opts}, nil
}

// Host runs the bubbletea program on the calling goroutine and body on a
// second one. The program quits when body returns.
func (t *Tea) Host(ctx context.Context, body func(context.Context) error) error {
	bodyErr := make(chan error, 1)
	go func() {
		bodyErr <- body(ctx)
		t.program.Quit()
	}()

	if _, err := t.program.Run(); err != nil {
		// The program died under the controller; stop it at the next tick.
		t.opts.interrupt()
		<-bodyErr
		return fmt.Errorf("%w: bubbletea: %v", ErrQueue, err)
	}
	t.closed.Store(true)
	return <-bodyErr
}

// SetHidden shows or hides the overlay.
func (t *Tea) SetHidden(hidden bool) {
	if t.closed.Load() {
		return
	}
	t.program.Send(tui.HiddenMsg{Hidden: hidden})
}

// Valid reports whether the program is still running.
func (t *Tea) Valid() bool {
	return !t.closed.Load()
}

// AcquireFrame returns nil until the program knows the window size.
func (t *Tea) AcquireFrame() strobe.Frame {
	if t.closed.Load() || !t.tracker.Ready() {
		return nil
	}
	return teaFrame{seq: t.seq.Add(1)}
}

// Present sends the fill colour to the program.
func (t *Tea) Present(f strobe.Frame, c strobe.Color) {
	fr, ok := f.(teaFrame)
	if !ok || t.closed.Load() {
		return
	}
	t.program.Send(tui.PresentMsg{Seq: fr.seq, Fill: Hex(c), Bold: c.Extended()})
}

// Drain waits until the program has rendered the last presented frame.
func (t *Tea) Drain(ctx context.Context) error {
	want := t.seq.Load()
	ticker := time.NewTicker(drainPoll)
	defer ticker.Stop()
	for t.tracker.Rendered() < want && !t.closed.Load() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// Close stops the program if it is still running. Kill is used rather than
// Quit because Quit blocks when the program was never started.
func (t *Tea) Close() error {
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		t.program.Kill()
	})
	return nil
}

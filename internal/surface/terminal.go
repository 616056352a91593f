package surface

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/strobe"
)

// Terminal flashes the whole terminal screen. The overlay is a full-screen
// fill; hiding it clears the screen to the default background.
type Terminal struct {
	screen tcell.Screen
	opts   Options

	hidden atomic.Bool
	closed atomic.Bool

	closeOnce sync.Once
	pollDone  chan struct{}
}

// termFrame is the frame handed out by Terminal.AcquireFrame.
type termFrame struct {
	width, height int
}

// OpenTerminal takes over the controlling terminal.
func OpenTerminal(opts Options) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDevice, err)
	}
	return newTerminal(screen, opts)
}

func newTerminal(screen tcell.Screen, opts Options) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSurface, err)
	}
	screen.HideCursor()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	screen.Clear()
	screen.Show()

	t := &Terminal{screen: screen, opts: opts, pollDone: make(chan struct{})}
	t.hidden.Store(true)
	return t, nil
}

// Host polls terminal input while body runs on the calling goroutine.
func (t *Terminal) Host(ctx context.Context, body func(context.Context) error) error {
	go t.poll()
	return body(ctx)
}

// poll relays interrupt keys and keeps the screen in sync on resize. It
// exits when the screen is finalized.
func (t *Terminal) poll() {
	defer close(t.pollDone)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if isInterruptKey(ev) {
				t.opts.interrupt()
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func isInterruptKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// SetHidden shows or clears the overlay.
func (t *Terminal) SetHidden(hidden bool) {
	if t.closed.Load() {
		return
	}
	t.hidden.Store(hidden)
	if hidden {
		t.screen.Clear()
		t.screen.Show()
	}
}

// Valid reports whether the screen is still open.
func (t *Terminal) Valid() bool {
	return !t.closed.Load()
}

// AcquireFrame returns nil while the screen is closed or has no area.
func (t *Terminal) AcquireFrame() strobe.Frame {
	if t.closed.Load() {
		return nil
	}
	w, h := t.screen.Size()
	if w <= 0 || h <= 0 {
		return nil
	}
	return termFrame{width: w, height: h}
}

// Present fills the frame with c. Requests above standard white are drawn
// bold, which most terminals render at their brightest intensity.
func (t *Terminal) Present(f strobe.Frame, c strobe.Color) {
	if _, ok := f.(termFrame); !ok || t.closed.Load() || t.hidden.Load() {
		return
	}
	t.screen.Fill(' ', cellStyle(c))
	t.screen.Show()
}

// cellStyle maps c onto a tcell style.
func cellStyle(c strobe.Color) tcell.Style {
	col, _ := Displayable(c)
	r, g, b := col.RGB255()
	tc := tcell.NewRGBColor(int32(r), int32(g), int32(b))
	return tcell.StyleDefault.Background(tc).Foreground(tc).Bold(c.Extended())
}

// Drain returns once the last frame has been written. tcell flushes
// synchronously in Show, so there is nothing left to wait for.
func (t *Terminal) Drain(ctx context.Context) error {
	return ctx.Err()
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		t.screen.Fini()
	})
	return nil
}

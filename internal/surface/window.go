package surface

import (
	"context"
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/strobe"
)

// appID identifies the desktop application to fyne.
const appID = "com.lissconsulting.strobe"

// Window flashes a borderless full-screen desktop window. The overlay is a
// rectangle stacked over a black backdrop; all canvas changes are queued to
// the fyne main loop with fyne.Do, in call order.
type Window struct {
	app     fyne.App
	win     fyne.Window
	overlay *canvas.Rectangle
	opts    Options

	started atomic.Bool
	closed  atomic.Bool

	closeOnce sync.Once
}

// windowFrame is the frame handed out by Window.AcquireFrame.
type windowFrame struct{}

// OpenWindow creates the application and its overlay window. The window is
// shown by Host.
func OpenWindow(opts Options) (*Window, error) {
	return newWindow(app.NewWithID(appID), opts)
}

func newWindow(a fyne.App, opts Options) (*Window, error) {
	if a == nil || a.Driver() == nil {
		return nil, fmt.Errorf("%w: no fyne driver", ErrDevice)
	}

	var win fyne.Window
	if drv, ok := a.Driver().(desktop.Driver); ok {
		win = drv.CreateSplashWindow()
	} else {
		win = a.NewWindow("strobe")
	}
	if win == nil {
		return nil, fmt.Errorf("%w: create window", ErrSurface)
	}

	overlay := canvas.NewRectangle(color.White)
	overlay.Hide()
	backdrop := canvas.NewRectangle(color.Black)
	win.SetContent(container.NewStack(backdrop, overlay))
	win.SetPadded(false)
	win.SetFullScreen(true)

	w := &Window{app: a, win: win, overlay: overlay, opts: opts}

	win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape, fyne.KeyQ:
			opts.interrupt()
		}
	})
	win.SetCloseIntercept(opts.interrupt)
	a.Lifecycle().SetOnStarted(func() { w.started.Store(true) })

	return w, nil
}

// Host runs the fyne main loop on the calling goroutine, which must be the
// main goroutine, and body on a second one. The app quits when body returns.
func (w *Window) Host(ctx context.Context, body func(context.Context) error) error {
	bodyErr := make(chan error, 1)
	go func() {
		bodyErr <- body(ctx)
		fyne.Do(w.app.Quit)
	}()

	w.win.Show()
	w.app.Run()
	w.closed.Store(true)
	return <-bodyErr
}

// SetHidden shows or hides the overlay rectangle.
func (w *Window) SetHidden(hidden bool) {
	if w.closed.Load() {
		return
	}
	fyne.Do(func() {
		if hidden {
			w.overlay.Hide()
		} else {
			w.overlay.Show()
		}
	})
}

// Valid reports whether the window is still open.
func (w *Window) Valid() bool {
	return !w.closed.Load()
}

// AcquireFrame returns nil until the fyne main loop has started.
func (w *Window) AcquireFrame() strobe.Frame {
	if w.closed.Load() || !w.started.Load() {
		return nil
	}
	return windowFrame{}
}

// Present recolours the overlay.
func (w *Window) Present(f strobe.Frame, c strobe.Color) {
	if _, ok := f.(windowFrame); !ok || w.closed.Load() {
		return
	}
	fill := NRGBA(c)
	fyne.Do(func() {
		w.overlay.FillColor = fill
		w.overlay.Refresh()
	})
}

// Drain waits until every canvas change queued before it has run on the
// main loop.
func (w *Window) Drain(ctx context.Context) error {
	if w.closed.Load() {
		return nil
	}
	done := make(chan struct{})
	fyne.Do(func() { close(done) })
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close quits the application.
func (w *Window) Close() error {
	w.closeOnce.Do(func() {
		if !w.closed.Swap(true) {
			fyne.Do(w.app.Quit)
		}
	})
	return nil
}

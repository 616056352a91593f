// Package surface provides the render backends the strobe controller
// flashes: a full-screen terminal (tcell), a bubbletea program, and a
// borderless desktop window (fyne).
package surface

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/config"
	"github.com/LISSConsulting/LISSTech.Strobe/internal/strobe"
)

// Setup failures. Each is fatal for the process.
var (
	ErrDevice  = errors.New("surface: acquire device")
	ErrSurface = errors.New("surface: acquire render surface")
	ErrQueue   = errors.New("surface: create submission queue")
)

// Backend is a Surface that also owns the event loop it is drawn on.
type Backend interface {
	strobe.Surface

	// Host runs body while the backend's event loop is live and returns
	// body's error. Some backends must own the calling goroutine, so Host
	// is called from main.
	Host(ctx context.Context, body func(context.Context) error) error

	// Close releases the device. It is safe to call more than once.
	Close() error
}

// Options configures a backend.
type Options struct {
	// OnInterrupt is called when the user asks to stop from inside the
	// surface (Ctrl+C in raw mode, Esc, closing the window). It must only
	// set a flag.
	OnInterrupt func()
}

func (o Options) interrupt() {
	if o.OnInterrupt != nil {
		o.OnInterrupt()
	}
}

// Open creates the named backend.
func Open(name string, opts Options) (Backend, error) {
	switch name {
	case config.BackendTerminal, "":
		return OpenTerminal(opts)
	case config.BackendTea:
		return OpenTea(opts)
	case config.BackendWindow:
		return OpenWindow(opts)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q (want %s)", ErrSurface, name, strings.Join(config.Backends, ", "))
	}
}

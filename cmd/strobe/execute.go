package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/audio"
	"github.com/LISSConsulting/LISSTech.Strobe/internal/config"
	"github.com/LISSConsulting/LISSTech.Strobe/internal/notify"
	"github.com/LISSConsulting/LISSTech.Strobe/internal/store"
	"github.com/LISSConsulting/LISSTech.Strobe/internal/strobe"
	"github.com/LISSConsulting/LISSTech.Strobe/internal/surface"
	"github.com/LISSConsulting/LISSTech.Strobe/internal/tui"
)

// notifyWait bounds how long exit waits for the stop notification.
const notifyWait = 3 * time.Second

// runOptions carries command-line overrides into execute.
type runOptions struct {
	ConfigPath string
	Backend    string
	Stdout     io.Writer

	// Open creates the surface backend; nil means surface.Open.
	Open func(name string, opts surface.Options) (surface.Backend, error)
	// Audio enables the flash click when strobe.toml asks for it; tests
	// leave it nil to keep the speaker closed.
	Audio func() (*audio.Clicker, error)
}

// execute loads settings, opens the surface, and runs the controller until
// it stops. A nil return means a clean stop (interrupt or limit).
func execute(ctx context.Context, run config.Strobe, o runOptions) error {
	settings, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	if o.Backend != "" {
		settings.Surface.Backend = o.Backend
		if err := settings.Validate(); err != nil {
			return fmt.Errorf("%w: --backend: %v", config.ErrUsage, err)
		}
	}
	stdout := o.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	logW, closeLog, err := openLog(settings.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signalContext(ctx)
	defer cancel()

	sd := strobe.NewShutdown()
	sd.Notify(os.Interrupt)
	defer sd.Release()

	open := o.Open
	if open == nil {
		open = surface.Open
	}

	backend, err := open(settings.Surface.Backend, surface.Options{OnInterrupt: sd.Interrupt})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, tui.RenderBanner(run.Interval, run.Limit.String()))
	setActive(backend)
	defer func() {
		setActive(nil)
		backend.Close()
	}()

	var hooks []func(strobe.Event)

	if settings.Audio.Click && o.Audio != nil {
		clicker, err := o.Audio()
		if err != nil {
			fmt.Fprintf(logW, "audio disabled: %v\n", err)
		} else {
			defer clicker.Close()
			hooks = append(hooks, clicker.Hook)
		}
	}

	runID := uuid.NewString()

	if settings.Journal.Dir != "" {
		journal, err := store.NewJSONL(settings.Journal.Dir, runID)
		if err != nil {
			return err
		}
		defer func() {
			if err := journal.Err(); err != nil {
				fmt.Fprintf(logW, "journal: %v\n", err)
			}
			journal.Close()
			fmt.Fprintf(logW, "journal %s:\n%s", journal.Path(), formatRunSummary(journal.Summary()))
			if err := store.EnforceRetention(settings.Journal.Dir, settings.Journal.Keep); err != nil {
				fmt.Fprintf(logW, "journal: %v\n", err)
			}
		}()
		hooks = append(hooks, journal.Hook)
	}

	var notifier *notify.Notifier
	if settings.Notifications.URL != "" {
		notifier = notify.New(settings.Notifications.URL, runID, settings.Notifications.OnStop)
		hooks = append(hooks, notifier.Hook)
	}

	ctrl := &strobe.Controller{
		Surface:  backend,
		Limit:    run.Limit,
		Interval: run.Interval,
		Drain:    settings.DrainTimeout(),
		Shutdown: sd,
		Log:      logW,
		Hook:     fanOut(hooks),
	}

	runErr := backend.Host(ctx, ctrl.Run)

	// Restore the terminal before printing the exit line.
	setActive(nil)
	backend.Close()

	if notifier != nil {
		notifier.Wait(notifyWait)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	fmt.Fprintln(stdout, tui.RenderExit(string(ctrl.State().Reason)))
	return nil
}

// fanOut returns a hook that calls each of hooks in order, or nil if there
// are none.
func fanOut(hooks []func(strobe.Event)) func(strobe.Event) {
	switch len(hooks) {
	case 0:
		return nil
	case 1:
		return hooks[0]
	}
	return func(ev strobe.Event) {
		for _, h := range hooks {
			h(ev)
		}
	}
}

// openLog opens the tick log for appending. An empty path discards it.
func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

// signalContext cancels the returned context on SIGTERM. SIGINT is left to
// the shutdown coordinator so the controller stops at a tick boundary.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM)
	go func() {
		select {
		case <-sigs:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()
	return ctx, cancel
}

var active struct {
	sync.Mutex
	backend surface.Backend
}

// setActive records the backend restoreTerminal should close.
func setActive(b surface.Backend) {
	active.Lock()
	active.backend = b
	active.Unlock()
}

// restoreTerminal closes the active backend, if any.
func restoreTerminal() {
	active.Lock()
	b := active.backend
	active.backend = nil
	active.Unlock()
	if b != nil {
		b.Close()
	}
}

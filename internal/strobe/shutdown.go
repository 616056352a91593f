package strobe

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
)

// Shutdown owns the interrupt flag and the run-loop stop request.
//
// Interrupt may be called from any goroutine and does nothing but store the
// flag; the controller reads it at the top of each tick. The stop request is
// raised by the controller once it reaches PhaseStopped.
type Shutdown struct {
	interrupted atomic.Bool

	once sync.Once
	done chan struct{}

	sigs chan os.Signal
}

// NewShutdown returns a coordinator with the flag cleared.
func NewShutdown() *Shutdown {
	return &Shutdown{done: make(chan struct{})}
}

// Interrupt sets the interrupt flag.
func (s *Shutdown) Interrupt() {
	s.interrupted.Store(true)
}

// Interrupted reports whether Interrupt has been called.
func (s *Shutdown) Interrupted() bool {
	return s.interrupted.Load()
}

// RequestStop asks the owning run loop to exit. Safe to call more than once.
func (s *Shutdown) RequestStop() {
	s.once.Do(func() { close(s.done) })
}

// Done is closed once RequestStop has been called.
func (s *Shutdown) Done() <-chan struct{} {
	return s.done
}

// Notify relays the given OS signals into Interrupt. The relay goroutine
// exits when Release is called.
func (s *Shutdown) Notify(sig ...os.Signal) {
	if s.sigs != nil {
		return
	}
	s.sigs = make(chan os.Signal, 1)
	signal.Notify(s.sigs, sig...)
	go func(ch <-chan os.Signal) {
		for range ch {
			s.Interrupt()
		}
	}(s.sigs)
}

// Release stops signal delivery started by Notify.
func (s *Shutdown) Release() {
	if s.sigs == nil {
		return
	}
	signal.Stop(s.sigs)
	close(s.sigs)
	s.sigs = nil
}

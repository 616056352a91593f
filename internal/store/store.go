// Package store persists strobe events to an append-only JSONL journal, one
// file per run, and reads past runs back.
package store

import (
	"time"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/strobe"
)

// Record is one journal line.
type Record struct {
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"ts"`
	Message   string    `json:"msg"`
	Tick      uint64    `json:"tick"`
	Visible   bool      `json:"visible"`
	Shown     uint64    `json:"shown"`
	Reason    string    `json:"reason,omitempty"`
	ElapsedMS float64   `json:"elapsed_ms"`
}

// FromEvent converts a controller event to a journal record.
func FromEvent(ev strobe.Event) Record {
	return Record{
		Kind:      ev.Kind.String(),
		Timestamp: ev.Timestamp,
		Message:   ev.Message,
		Tick:      ev.Tick,
		Visible:   ev.Visible,
		Shown:     ev.Shown,
		Reason:    string(ev.Reason),
		ElapsedMS: float64(ev.Elapsed) / float64(time.Millisecond),
	}
}

// RunSummary summarises one run from its journal records.
type RunSummary struct {
	RunID     string
	StartedAt time.Time
	StoppedAt time.Time // zero until the stopped record is written
	Ticks     uint64
	Flashes   uint64
	Dropped   uint64
	Reason    string
}

// observe folds rec into the summary.
func (s *RunSummary) observe(rec Record) {
	if rec.Tick > s.Ticks {
		s.Ticks = rec.Tick
	}
	switch rec.Kind {
	case strobe.EventArmed.String():
		s.StartedAt = rec.Timestamp
	case strobe.EventFlash.String():
		s.Flashes++
	case strobe.EventDropped.String():
		s.Dropped++
	case strobe.EventStopped.String():
		s.StoppedAt = rec.Timestamp
		s.Reason = rec.Reason
	}
}

// Package audio plays a short click on every flash.
package audio

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/strobe"
)

const (
	sampleRate  = beep.SampleRate(44100)
	clickFreq   = 1760
	clickLength = 15 * time.Millisecond
)

// Clicker plays a pre-rendered click when the strobe flashes.
type Clicker struct {
	click *beep.Buffer
	play  func(...beep.Streamer)
}

// NewClicker opens the speaker. A failure here is not fatal for the strobe;
// callers log it and continue silently.
func NewClicker() (*Clicker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("audio: init speaker: %w", err)
	}
	click, err := clickBuffer(sampleRate)
	if err != nil {
		speaker.Close()
		return nil, err
	}
	return &Clicker{click: click, play: speaker.Play}, nil
}

// clickBuffer renders a short sine burst.
func clickBuffer(sr beep.SampleRate) (*beep.Buffer, error) {
	sine, err := generators.SineTone(sr, clickFreq)
	if err != nil {
		return nil, fmt.Errorf("audio: generate click: %w", err)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2})
	buf.Append(beep.Take(sr.N(clickLength), sine))
	return buf, nil
}

// Hook is a strobe.Controller.Hook-compatible function. Playback is queued
// on the speaker mixer and does not block the tick.
func (c *Clicker) Hook(ev strobe.Event) {
	if ev.Kind != strobe.EventFlash {
		return
	}
	c.play(c.click.Streamer(0, c.click.Len()))
}

// Close releases the speaker.
func (c *Clicker) Close() {
	speaker.Close()
}

// Package config parses the strobe command line and the optional strobe.toml
// settings file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the settings file looked up from the working directory.
const FileName = "strobe.toml"

// Surface backends.
const (
	BackendTerminal = "terminal"
	BackendTea      = "tea"
	BackendWindow   = "window"
)

// Backends lists the accepted surface.backend values.
var Backends = []string{BackendTerminal, BackendTea, BackendWindow}

// Settings is the top-level strobe.toml configuration. None of it changes
// what the two positional arguments mean.
type Settings struct {
	Strobe        StrobeSettings      `toml:"strobe"`
	Surface       SurfaceConfig       `toml:"surface"`
	Audio         AudioConfig         `toml:"audio"`
	Log           LogConfig           `toml:"log"`
	Journal       JournalConfig       `toml:"journal"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// StrobeSettings tunes shutdown of the strobe loop.
type StrobeSettings struct {
	DrainTimeoutMS int `toml:"drain_timeout_ms"` // grace period after a count-limit stop
}

// SurfaceConfig selects the render backend.
type SurfaceConfig struct {
	Backend string `toml:"backend"`
}

// AudioConfig controls the optional flash click.
type AudioConfig struct {
	Click bool `toml:"click"`
}

// LogConfig controls the tick log.
type LogConfig struct {
	File string `toml:"file"` // empty = discard
}

// JournalConfig controls the per-run JSONL event journal.
type JournalConfig struct {
	Dir  string `toml:"dir"`  // empty = disabled
	Keep int    `toml:"keep"` // journal files to keep; 0 = unlimited
}

// NotificationsConfig controls the webhook/ntfy.sh notification on stop.
type NotificationsConfig struct {
	URL    string `toml:"url"`
	OnStop bool   `toml:"on_stop"`
}

// DrainTimeout returns the configured grace period.
func (s *Settings) DrainTimeout() time.Duration {
	return time.Duration(s.Strobe.DrainTimeoutMS) * time.Millisecond
}

// Validate checks the settings for issues that would cause confusing
// runtime failures. It returns all found issues joined together.
func (s *Settings) Validate() error {
	var errs []error

	if s.Strobe.DrainTimeoutMS < 0 {
		errs = append(errs, fmt.Errorf("strobe.drain_timeout_ms must be >= 0 (0 = no grace period)"))
	}

	if !validBackend(s.Surface.Backend) {
		errs = append(errs, fmt.Errorf("surface.backend must be one of %s", strings.Join(Backends, ", ")))
	}

	if s.Journal.Keep < 0 {
		errs = append(errs, fmt.Errorf("journal.keep must be >= 0 (0 = unlimited)"))
	}

	if s.Notifications.URL != "" {
		u, parseErr := url.ParseRequestURI(s.Notifications.URL)
		if parseErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("notifications.url must be a valid http or https URL"))
		}
	}

	return errors.Join(errs...)
}

func validBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// Defaults returns Settings used when no strobe.toml is present.
func Defaults() Settings {
	return Settings{
		Strobe: StrobeSettings{
			DrainTimeoutMS: 100,
		},
		Surface: SurfaceConfig{
			Backend: BackendTerminal,
		},
		Audio: AudioConfig{
			Click: false,
		},
		Journal: JournalConfig{
			Dir:  "",
			Keep: 20,
		},
		Notifications: NotificationsConfig{
			URL:    "",
			OnStop: true,
		},
	}
}

// Load reads strobe.toml from the given path. If path is empty, it walks up
// from the current working directory looking for strobe.toml and falls back
// to Defaults when none is found. Returns an error if the file contains
// unknown keys (likely typos) or fails validation.
func Load(path string) (*Settings, error) {
	if path == "" {
		found, err := findSettings()
		if err != nil {
			return nil, err
		}
		if found == "" {
			s := Defaults()
			return &s, nil
		}
		path = found
	}

	s := Defaults()
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys in %s: %s (possible typos?)", path, strings.Join(keys, ", "))
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	return &s, nil
}

// findSettings walks up from the current directory looking for strobe.toml.
// It returns "" without error when the file does not exist anywhere.
func findSettings() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// InitFile writes a default strobe.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	content := `# strobe.toml: optional strobe settings
# The interval and limit are always given on the command line.

[strobe]
drain_timeout_ms = 100  # grace period after a count-limit stop; 0 = none

[surface]
backend = "terminal"  # terminal, tea, or window

[audio]
click = false  # play a short click on every flash

[log]
file = ""  # tick log destination; empty = discard

[journal]
dir = ""   # write a JSONL event journal per run here; empty = disabled
keep = 20  # journal files to keep; 0 = unlimited

[notifications]
url = ""       # ntfy.sh topic URL or any HTTP webhook (empty = disabled)
on_stop = true # notify when the strobe stops
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}

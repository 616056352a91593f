package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	s := Defaults()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"strobe.drain_timeout_ms", s.Strobe.DrainTimeoutMS, 100},
		{"surface.backend", s.Surface.Backend, BackendTerminal},
		{"audio.click", s.Audio.Click, false},
		{"log.file", s.Log.File, ""},
		{"journal.dir", s.Journal.Dir, ""},
		{"journal.keep", s.Journal.Keep, 20},
		{"notifications.url", s.Notifications.URL, ""},
		{"notifications.on_stop", s.Notifications.OnStop, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
	if s.DrainTimeout() != 100*time.Millisecond {
		t.Errorf("DrainTimeout() = %v, want 100ms", s.DrainTimeout())
	}
}

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid settings", func(t *testing.T) {
		path := writeSettings(t, t.TempDir(), `
[strobe]
drain_timeout_ms = 250

[surface]
backend = "window"

[audio]
click = true

[log]
file = "/tmp/strobe.log"

[journal]
dir = "/tmp/strobe-runs"
keep = 5

[notifications]
url = "https://ntfy.sh/strobe"
on_stop = false
`)
		s, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}

		tests := []struct {
			name string
			got  any
			want any
		}{
			{"strobe.drain_timeout_ms", s.Strobe.DrainTimeoutMS, 250},
			{"surface.backend", s.Surface.Backend, BackendWindow},
			{"audio.click", s.Audio.Click, true},
			{"log.file", s.Log.File, "/tmp/strobe.log"},
			{"journal.dir", s.Journal.Dir, "/tmp/strobe-runs"},
			{"journal.keep", s.Journal.Keep, 5},
			{"notifications.url", s.Notifications.URL, "https://ntfy.sh/strobe"},
			{"notifications.on_stop", s.Notifications.OnStop, false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if tt.got != tt.want {
					t.Errorf("got %v, want %v", tt.got, tt.want)
				}
			})
		}
	})

	t.Run("partial settings use defaults", func(t *testing.T) {
		path := writeSettings(t, t.TempDir(), "[audio]\nclick = true\n")
		s, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if s.Surface.Backend != BackendTerminal {
			t.Errorf("surface.backend: got %q, want %q", s.Surface.Backend, BackendTerminal)
		}
		if s.Strobe.DrainTimeoutMS != 100 {
			t.Errorf("strobe.drain_timeout_ms: got %d, want 100", s.Strobe.DrainTimeoutMS)
		}
	})

	t.Run("unknown keys rejected", func(t *testing.T) {
		path := writeSettings(t, t.TempDir(), "[strobe]\ndrain_timout_ms = 5\n")
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "unknown keys") {
			t.Errorf("expected unknown keys error, got %v", err)
		}
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := writeSettings(t, t.TempDir(), "[strobe]\ndrain_timeout_ms = -1\n[surface]\nbackend = \"vulkan\"\n")
		_, err := Load(path)
		if err == nil {
			t.Fatal("expected validation error")
		}
		for _, want := range []string{"drain_timeout_ms", "surface.backend"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("error should mention %q, got %v", want, err)
			}
		}
	})

	t.Run("missing explicit file returns error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		if err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid toml returns error", func(t *testing.T) {
		path := writeSettings(t, t.TempDir(), "[[[broken")
		if _, err := Load(path); err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestLoadAutoDiscovery(t *testing.T) {
	t.Run("finds strobe.toml in parent directory", func(t *testing.T) {
		root := t.TempDir()
		child := filepath.Join(root, "sub", "dir")
		if err := os.MkdirAll(child, 0755); err != nil {
			t.Fatal(err)
		}
		writeSettings(t, root, "[surface]\nbackend = \"tea\"\n")

		origDir, _ := os.Getwd()
		t.Cleanup(func() { os.Chdir(origDir) })
		if err := os.Chdir(child); err != nil {
			t.Fatal(err)
		}

		s, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		if s.Surface.Backend != BackendTea {
			t.Errorf("surface.backend: got %q, want %q", s.Surface.Backend, BackendTea)
		}
	})

	t.Run("falls back to defaults when not found", func(t *testing.T) {
		dir := t.TempDir()
		origDir, _ := os.Getwd()
		t.Cleanup(func() { os.Chdir(origDir) })
		if err := os.Chdir(dir); err != nil {
			t.Fatal(err)
		}

		s, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		if *s != Defaults() {
			t.Errorf("expected defaults, got %+v", *s)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"defaults ok", func(*Settings) {}, ""},
		{"zero drain ok", func(s *Settings) { s.Strobe.DrainTimeoutMS = 0 }, ""},
		{"negative drain", func(s *Settings) { s.Strobe.DrainTimeoutMS = -5 }, "drain_timeout_ms"},
		{"empty backend", func(s *Settings) { s.Surface.Backend = "" }, "surface.backend"},
		{"negative keep", func(s *Settings) { s.Journal.Keep = -1 }, "journal.keep"},
		{"bad url scheme", func(s *Settings) { s.Notifications.URL = "ftp://x" }, "notifications.url"},
		{"https url ok", func(s *Settings) { s.Notifications.URL = "https://ntfy.sh/x" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestInitFile(t *testing.T) {
	t.Run("creates strobe.toml", func(t *testing.T) {
		dir := t.TempDir()
		path, err := InitFile(dir)
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Base(path) != FileName {
			t.Errorf("expected %s, got %s", FileName, filepath.Base(path))
		}

		s, err := Load(path)
		if err != nil {
			t.Fatalf("generated file is not valid: %v", err)
		}
		if *s != Defaults() {
			t.Errorf("template should match defaults, got %+v", *s)
		}
	})

	t.Run("refuses to overwrite existing", func(t *testing.T) {
		dir := t.TempDir()
		writeSettings(t, dir, "existing")
		if _, err := InitFile(dir); err == nil {
			t.Error("expected error when strobe.toml already exists")
		}
	})
}

func TestErrUsageWrapped(t *testing.T) {
	_, err := ParseArgs(nil)
	if !errors.Is(err, ErrUsage) {
		t.Errorf("expected ErrUsage, got %v", err)
	}
}

package store_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/store"
	"github.com/LISSConsulting/LISSTech.Strobe/internal/strobe"
)

const testRunID = "3f2a9c1e-0000-4000-8000-000000000001"

func newJournal(t *testing.T, dir string) *store.JSONL {
	t.Helper()
	j, err := store.NewJSONL(dir, testRunID)
	if err != nil {
		t.Fatalf("NewJSONL: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

// runEvents is a two-flash count-limited run as the controller emits it.
func runEvents(start time.Time) []strobe.Event {
	at := func(ms int) time.Time { return start.Add(time.Duration(ms) * time.Millisecond) }
	return []strobe.Event{
		{Kind: strobe.EventArmed, Timestamp: at(0), Message: "Armed"},
		{Kind: strobe.EventToggle, Timestamp: at(100), Tick: 1, Visible: true},
		{Kind: strobe.EventFlash, Timestamp: at(100), Tick: 1, Visible: true, Shown: 1},
		{Kind: strobe.EventToggle, Timestamp: at(200), Tick: 2},
		{Kind: strobe.EventToggle, Timestamp: at(300), Tick: 3, Visible: true, Shown: 1},
		{Kind: strobe.EventDropped, Timestamp: at(300), Tick: 3, Visible: true, Shown: 2},
		{Kind: strobe.EventStopping, Timestamp: at(300), Tick: 3, Shown: 2, Reason: strobe.ReasonCount},
		{Kind: strobe.EventStopped, Timestamp: at(400), Tick: 3, Shown: 2, Reason: strobe.ReasonCount,
			Message: "Stopped after 2 flashes (count limit)", Elapsed: 400 * time.Millisecond},
	}
}

func TestNewJSONL_CreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "journal", "runs")
	j := newJournal(t, dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 file in dir, got %d", len(entries))
	}
	name := entries[0].Name()
	if filepath.Ext(name) != ".jsonl" {
		t.Errorf("expected .jsonl extension, got %q", name)
	}
	if !strings.HasSuffix(name, "-"+testRunID+".jsonl") {
		t.Errorf("file name %q should carry the run ID", name)
	}
	if filepath.Base(j.Path()) != name {
		t.Errorf("Path() = %q, want %q", j.Path(), name)
	}
}

func TestHookAndReadRun(t *testing.T) {
	dir := t.TempDir()
	j := newJournal(t, dir)

	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, ev := range runEvents(start) {
		j.Hook(ev)
	}
	if err := j.Err(); err != nil {
		t.Fatalf("Hook: %v", err)
	}

	live := j.Summary()
	if live.Flashes != 1 || live.Dropped != 1 || live.Ticks != 3 {
		t.Errorf("live summary = %+v, want 1 flash, 1 dropped, 3 ticks", live)
	}
	if live.Reason != string(strobe.ReasonCount) {
		t.Errorf("live summary Reason = %q, want %q", live.Reason, strobe.ReasonCount)
	}

	recs, summary, err := store.ReadRun(j.Path())
	if err != nil {
		t.Fatalf("ReadRun: %v", err)
	}
	if len(recs) != 8 {
		t.Fatalf("expected 8 records, got %d", len(recs))
	}
	if recs[0].Kind != "armed" || recs[7].Kind != "stopped" {
		t.Errorf("kinds = %q..%q, want armed..stopped", recs[0].Kind, recs[7].Kind)
	}
	if recs[7].ElapsedMS != 400 {
		t.Errorf("stopped ElapsedMS = %v, want 400", recs[7].ElapsedMS)
	}
	if summary.RunID != testRunID {
		t.Errorf("RunID = %q, want %q", summary.RunID, testRunID)
	}
	if !summary.StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", summary.StartedAt, start)
	}
	if got := summary.StoppedAt.Sub(summary.StartedAt); got != 400*time.Millisecond {
		t.Errorf("run length = %v, want 400ms", got)
	}
}

func TestReadRun_MalformedLineSkipped(t *testing.T) {
	dir := t.TempDir()
	j := newJournal(t, dir)
	if err := j.Append(store.Record{Kind: "armed"}); err != nil {
		t.Fatal(err)
	}

	f, err := os.OpenFile(j.Path(), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("{not json\n\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if err := j.Append(store.Record{Kind: "flash", Shown: 1}); err != nil {
		t.Fatal(err)
	}

	recs, summary, err := store.ReadRun(j.Path())
	if err != nil {
		t.Fatalf("ReadRun: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 valid records, got %d", len(recs))
	}
	if summary.Flashes != 1 {
		t.Errorf("Flashes = %d, want 1", summary.Flashes)
	}
}

func TestReadRun_Missing(t *testing.T) {
	if _, _, err := store.ReadRun(filepath.Join(t.TempDir(), "nope.jsonl")); err == nil {
		t.Error("expected error for missing journal")
	}
}

func TestHook_KeepsFirstError(t *testing.T) {
	j, err := store.NewJSONL(t.TempDir(), testRunID)
	if err != nil {
		t.Fatal(err)
	}
	_ = j.Close()

	j.Hook(strobe.Event{Kind: strobe.EventFlash})
	if j.Err() == nil {
		t.Error("write to a closed journal should be reported by Err")
	}
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0000000100-a.jsonl", "0000000300-c.jsonl", "0000000200-b.jsonl", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := store.Latest(dir)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if filepath.Base(got) != "0000000300-c.jsonl" {
		t.Errorf("Latest = %q, want the newest journal", got)
	}

	t.Run("empty dir", func(t *testing.T) {
		_, err := store.Latest(t.TempDir())
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}

func TestEnforceRetention(t *testing.T) {
	// createFiles creates n fake .jsonl files named 0000000000-N.jsonl
	// (stable lexicographic = chronological order) and returns the dir.
	createFiles := func(t *testing.T, n int) string {
		t.Helper()
		dir := t.TempDir()
		for i := 0; i < n; i++ {
			name := fmt.Sprintf("%010d-%d.jsonl", i, i)
			if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0644); err != nil {
				t.Fatal(err)
			}
		}
		return dir
	}

	countFiles := func(t *testing.T, dir string) int {
		t.Helper()
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		count := 0
		for _, e := range entries {
			if filepath.Ext(e.Name()) == ".jsonl" {
				count++
			}
		}
		return count
	}

	tests := []struct {
		name      string
		nFiles    int
		maxKeep   int
		wantFiles int
	}{
		{"zero files, keep 20", 0, 20, 0},
		{"fewer than limit", 5, 20, 5},
		{"exactly at limit", 20, 20, 20},
		{"one over limit", 21, 20, 20},
		{"keep 0 means unlimited", 50, 0, 50},
		{"keep 1 keeps newest", 5, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := createFiles(t, tt.nFiles)
			if err := store.EnforceRetention(dir, tt.maxKeep); err != nil {
				t.Fatalf("EnforceRetention: %v", err)
			}
			if got := countFiles(t, dir); got != tt.wantFiles {
				t.Errorf("want %d files remaining, got %d", tt.wantFiles, got)
			}
		})
	}

	t.Run("non-existent dir returns nil", func(t *testing.T) {
		if err := store.EnforceRetention(filepath.Join(t.TempDir(), "no-such-dir"), 5); err != nil {
			t.Errorf("expected nil for missing dir, got: %v", err)
		}
	})

	t.Run("oldest files are deleted", func(t *testing.T) {
		dir := createFiles(t, 5)
		if err := store.EnforceRetention(dir, 2); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 3; i++ {
			name := fmt.Sprintf("%010d-%d.jsonl", i, i)
			if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
				t.Errorf("expected file %s to be deleted", name)
			}
		}
		for i := 3; i < 5; i++ {
			name := fmt.Sprintf("%010d-%d.jsonl", i, i)
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				t.Errorf("expected file %s to remain: %v", name, err)
			}
		}
	})
}

package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/LISSConsulting/LISSTech.Strobe/internal/strobe"
)

// JSONL is a journal backed by an append-only JSONL file. Each line is a
// JSON-serialized Record. The file is synced when the stopped record is
// written so a finished run is durable without an fsync per tick.
//
// File name: "<unix-timestamp>-<run-id>.jsonl", so names sort by start time.
type JSONL struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	summary RunSummary
	err     error // first Append error seen by Hook
}

// NewJSONL creates the journal for runID in dir. dir is created with
// os.MkdirAll if it does not exist.
func NewJSONL(dir, runID string) (*JSONL, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: mkdir %q: %w", dir, err)
	}
	now := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("%d-%s.jsonl", now.Unix(), runID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	return &JSONL{
		file:    f,
		path:    path,
		summary: RunSummary{RunID: runID, StartedAt: now},
	}, nil
}

// Path returns the journal file path.
func (j *JSONL) Path() string {
	return j.path
}

// Append serializes rec as a JSON line and writes it to the file. It is
// safe to call from multiple goroutines.
func (j *JSONL) Append(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	if rec.Kind == strobe.EventStopped.String() {
		if err := j.file.Sync(); err != nil {
			return fmt.Errorf("store: sync: %w", err)
		}
	}
	j.summary.observe(rec)
	return nil
}

// Hook is a strobe.Controller.Hook-compatible function. Write failures do
// not stop the strobe; the first one is kept for Err.
func (j *JSONL) Hook(ev strobe.Event) {
	if err := j.Append(FromEvent(ev)); err != nil {
		j.mu.Lock()
		if j.err == nil {
			j.err = err
		}
		j.mu.Unlock()
	}
}

// Err returns the first error seen by Hook.
func (j *JSONL) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Summary returns the running summary of this journal.
func (j *JSONL) Summary() RunSummary {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.summary
}

// Close closes the underlying file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// ReadRun reads every record from a journal file. Malformed lines are
// skipped.
func ReadRun(path string) ([]Record, RunSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, RunSummary{}, fmt.Errorf("store: open %q: %w", path, err)
	}
	defer f.Close()

	summary := RunSummary{RunID: runIDFromPath(path)}
	var recs []Record
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			log.Printf("store: skipping malformed line %d in %s: %v", n, filepath.Base(path), err)
			continue
		}
		summary.observe(rec)
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, RunSummary{}, fmt.Errorf("store: read %q: %w", path, err)
	}
	return recs, summary, nil
}

// runIDFromPath extracts the run ID from a "<timestamp>-<run-id>.jsonl" name.
func runIDFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".jsonl")
	if _, id, ok := strings.Cut(name, "-"); ok {
		return id
	}
	return name
}

// Latest returns the path of the newest journal file in dir.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("store: read dir %q: %w", dir, err)
	}
	var newest string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") && e.Name() > newest {
			newest = e.Name()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("store: no journal files in %q: %w", dir, os.ErrNotExist)
	}
	return filepath.Join(dir, newest), nil
}

// EnforceRetention removes the oldest journal files in dir, keeping at most
// maxKeep files. If maxKeep is 0, no files are removed. Returns nil if dir
// does not exist or is empty.
func EnforceRetention(dir string, maxKeep int) error {
	if maxKeep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: read dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			files = append(files, e.Name())
		}
	}

	sort.Strings(files) // timestamp-prefixed names sort chronologically

	toDelete := len(files) - maxKeep
	for i := 0; i < toDelete; i++ {
		path := filepath.Join(dir, files[i])
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("store: remove %q: %w", path, err)
		}
	}
	return nil
}

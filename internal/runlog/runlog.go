// Package runlog provides per-run structured logging for the sampler.
//
// Each run gets one JSONL file named after its run ID. Events capture every
// stage of a sampling run: the request, each Level-A round, each sampled bin,
// and the final tally. The file is enough to audit how a sample set was drawn
// and to replay it from the recorded seed.
//
// Design constraints:
//   - All RunLog methods are nil-safe (no-op on nil receiver) so the sampler
//     does not need a nil check before every log call.
//   - Write failures are reported through slog and never abort the run.
package runlog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventKind labels a single structured event in the run log.
type EventKind string

const (
	KindRunBegin   EventKind = "run_begin"
	KindRoundDrawn EventKind = "round_drawn"
	KindBinSampled EventKind = "bin_sampled"
	KindRunEnd     EventKind = "run_end"
)

// Event is one JSONL line in the run log.
// Fields are omitempty so each event only serialises relevant data.
type Event struct {
	Kind      EventKind `json:"kind"`
	Timestamp string    `json:"ts"`
	RunID     string    `json:"run_id"`

	// run_begin
	Seed           uint64 `json:"seed,omitempty"`
	Samples        int    `json:"samples,omitempty"`
	MinMag         int    `json:"min_mag,omitempty"`
	MaxMag         int    `json:"max_mag,omitempty"`
	CatalogRecords int    `json:"catalog_records,omitempty"`

	// round_drawn
	Round     int `json:"round,omitempty"`
	RoundSize int `json:"round_size,omitempty"`
	Votes     int `json:"votes,omitempty"`

	// bin_sampled
	Value      int `json:"value,omitempty"`
	Start      int `json:"start,omitempty"`
	Population int `json:"population,omitempty"`
	Requested  int `json:"requested,omitempty"`
	Selected   int `json:"selected,omitempty"`

	// run_end
	Status    string `json:"status,omitempty"` // "ok" | "failed"
	Written   int    `json:"written,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms,omitempty"`
}

// Stats is a snapshot of what a run has logged so far.
type Stats struct {
	Rounds  int `json:"rounds"`
	Votes   int `json:"votes"`
	Bins    int `json:"bins"`
	Written int `json:"written"`
}

// RunLog is a handle for writing structured events for one run.
//
// Expectations:
//   - All methods are nil-safe (no-op when called on nil *RunLog)
//   - Concurrent writes are safe (mutex-protected)
//   - Stats reflects every RoundDrawn and BinSampled call
type RunLog struct {
	runID   string
	started time.Time
	mu      sync.Mutex
	f       *os.File
	stats   Stats
}

// Open creates dir if needed and opens <dir>/<runID>.jsonl for appending.
// Returns nil (a valid no-op log) when the file cannot be opened.
func Open(dir, runID string) *RunLog {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Error("[RUNLOG] could not create dir", "dir", dir, "error", err)
		return nil
	}
	path := filepath.Join(dir, runID+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Error("[RUNLOG] could not open log file", "path", path, "error", err)
		return nil
	}
	return &RunLog{runID: runID, started: time.Now(), f: f}
}

// Path returns the file name a run would be logged to under dir.
func Path(dir, runID string) string {
	return filepath.Join(dir, runID+".jsonl")
}

// RunID returns the run identifier, or "" on a nil log.
func (l *RunLog) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// RunBegin writes a run_begin event with the sampling request.
func (l *RunLog) RunBegin(seed uint64, samples, minMag, maxMag, records int) {
	if l == nil {
		return
	}
	l.write(Event{
		Kind:           KindRunBegin,
		Seed:           seed,
		Samples:        samples,
		MinMag:         minMag,
		MaxMag:         maxMag,
		CatalogRecords: records,
	})
}

// RoundDrawn writes a round_drawn event for one Level-A round.
// Round is written 1-indexed so round 0 is not dropped by omitempty.
func (l *RunLog) RoundDrawn(round, size, votes int) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.stats.Rounds++
	l.stats.Votes += votes
	l.mu.Unlock()
	l.write(Event{
		Kind:      KindRoundDrawn,
		Round:     round + 1,
		RoundSize: size,
		Votes:     votes,
	})
}

// BinSampled writes a bin_sampled event for one Level-B draw.
func (l *RunLog) BinSampled(value, start, population, requested, selected int) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.stats.Bins++
	l.stats.Written += selected
	l.mu.Unlock()
	l.write(Event{
		Kind:       KindBinSampled,
		Value:      value,
		Start:      start,
		Population: population,
		Requested:  requested,
		Selected:   selected,
	})
}

// Stats returns a snapshot of the run so far.
//
// Expectations:
//   - Returns the zero Stats on nil receiver
//   - Rounds and Votes accumulate RoundDrawn calls
//   - Bins and Written accumulate BinSampled calls
func (l *RunLog) Stats() Stats {
	if l == nil {
		return Stats{}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Close writes run_end with status and elapsed time, then closes the file.
// Safe to call more than once; later calls are no-ops.
func (l *RunLog) Close(status string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	written := l.stats.Written
	l.mu.Unlock()
	l.write(Event{
		Kind:      KindRunEnd,
		Status:    status,
		Written:   written,
		ElapsedMs: time.Since(l.started).Milliseconds(),
	})

	l.mu.Lock()
	if l.f != nil {
		_ = l.f.Close()
		l.f = nil
	}
	l.mu.Unlock()
}

// write appends one JSON line to the run log file. Adds timestamp and run ID.
func (l *RunLog) write(e Event) {
	e.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	e.RunID = l.runID
	data, err := json.Marshal(e)
	if err != nil {
		slog.Error("[RUNLOG] marshal event", "error", err)
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return
	}
	if _, err = fmt.Fprintf(l.f, "%s\n", data); err != nil {
		slog.Error("[RUNLOG] write event", "error", err)
	}
}

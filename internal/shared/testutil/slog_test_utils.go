package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

// LogRecord is a single captured slog record.
type LogRecord struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogRecorder is a slog.Handler that keeps every record in memory so tests
// can assert on what was logged. Safe for concurrent use.
type LogRecorder struct {
	mu      sync.Mutex
	t       *testing.T
	records []LogRecord
}

// NewTestLogger returns a logger whose output is captured by the recorder.
// Records are also echoed through t.Logf so failing tests show the stream.
func NewTestLogger(t *testing.T) (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{t: t}
	return slog.New(rec), rec
}

// Enabled captures every level regardless of the logger configuration.
func (r *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *LogRecorder) Handle(_ context.Context, rec slog.Record) error {
	attrs := make(map[string]any, rec.NumAttrs())
	rec.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	r.mu.Lock()
	r.records = append(r.records, LogRecord{
		Time:    rec.Time,
		Level:   rec.Level,
		Message: rec.Message,
		Attrs:   attrs,
	})
	r.mu.Unlock()

	if r.t != nil {
		r.t.Logf("[%s] %s %v", rec.Level, rec.Message, attrs)
	}
	return nil
}

// WithAttrs and WithGroup return the recorder unchanged; tests here only
// assert on attrs attached to individual records.
func (r *LogRecorder) WithAttrs([]slog.Attr) slog.Handler { return r }

func (r *LogRecorder) WithGroup(string) slog.Handler { return r }

// Records returns a copy of everything captured so far.
func (r *LogRecorder) Records() []LogRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]LogRecord, len(r.records))
	copy(out, r.records)
	return out
}

// RecordsAtLevel returns the captured records with exactly the given level.
func (r *LogRecorder) RecordsAtLevel(level slog.Level) []LogRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []LogRecord
	for _, rec := range r.records {
		if rec.Level == level {
			out = append(out, rec)
		}
	}
	return out
}

// ContainsMessage reports whether any captured message contains s.
func (r *LogRecorder) ContainsMessage(s string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if strings.Contains(rec.Message, s) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any captured record carries key with exactly
// the given value. Values are compared as stored by slog.Value.Any, so
// integer attrs compare as int64.
func (r *LogRecorder) ContainsAttr(key string, value any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if v, ok := rec.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

// Clear discards all captured records.
func (r *LogRecorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = r.records[:0]
}

// Count returns how many records have been captured.
func (r *LogRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

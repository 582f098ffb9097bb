// Package audit records the activity trail. Every state change in the
// document services produces one entry. The durable sink is tried first;
// when it is unreachable the entry lands in a bounded in-memory ring so the
// trail degrades instead of disappearing. Recording never fails the
// caller's operation.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// DefaultFallbackCapacity bounds the local ring when no capacity is
// configured.
const DefaultFallbackCapacity = 100

// Sink is the interface the services emit audit facts through.
type Sink interface {
	// Record persists an activity entry. Missing id/timestamp are filled in.
	Record(ctx context.Context, e model.ActivityLogEntry)

	// RecordError captures a system-level failure as a diagnostic entry.
	RecordError(ctx context.Context, subjectID string, err error, detail string)
}

// Recorder is the production Sink: durable-first with a local ring
// fallback. Entries that fall back are not retried against the durable
// sink; the ring is an operator-facing last resort, not a queue.
type Recorder struct {
	logs repository.ActivityLogRepository
	now  func() time.Time

	mu       sync.Mutex
	fallback []model.ActivityLogEntry
	capacity int
}

// NewRecorder builds a Recorder over the durable sink. A non-positive
// capacity falls back to DefaultFallbackCapacity.
func NewRecorder(logs repository.ActivityLogRepository, capacity int) *Recorder {
	return NewRecorderWithClock(logs, capacity, time.Now)
}

// NewRecorderWithClock is NewRecorder with an injectable clock for tests.
func NewRecorderWithClock(logs repository.ActivityLogRepository, capacity int, now func() time.Time) *Recorder {
	if capacity <= 0 {
		capacity = DefaultFallbackCapacity
	}
	return &Recorder{logs: logs, now: now, capacity: capacity}
}

var _ Sink = (*Recorder)(nil)

// Record attempts the durable write and swallows any failure into the
// local ring. It never returns an error and never panics.
func (r *Recorder) Record(ctx context.Context, e model.ActivityLogEntry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now().UTC()
	}

	if err := r.logs.Append(ctx, &e); err != nil {
		r.appendLocal(e)
		logJSON(map[string]any{
			"level":  "warn",
			"msg":    "audit_durable_write_failed",
			"action": string(e.Action),
			"error":  err.Error(),
		})
	}
}

// RecordError captures a system failure. It goes through the same
// durable-first path with action=ERROR.
func (r *Recorder) RecordError(ctx context.Context, subjectID string, err error, detail string) {
	if err == nil {
		return
	}
	r.Record(ctx, model.ActivityLogEntry{
		SubjectID: subjectID,
		Action:    model.ActionError,
		Detail:    detail + ": " + err.Error(),
	})
}

func (r *Recorder) appendLocal(e model.ActivityLogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = append(r.fallback, e)
	if over := len(r.fallback) - r.capacity; over > 0 {
		r.fallback = append(r.fallback[:0:0], r.fallback[over:]...)
	}
}

// Fallback returns a snapshot of the locally buffered entries, oldest
// first. Intended for diagnostics and tests.
func (r *Recorder) Fallback() []model.ActivityLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ActivityLogEntry, len(r.fallback))
	copy(out, r.fallback)
	return out
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	b, err := json.Marshal(data)
	if err != nil {
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}

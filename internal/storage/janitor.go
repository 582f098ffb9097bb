package storage

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Janitor deletes blobs whose metadata rows were soft-deleted. Paths are
// queued by the delete operation and removed here in the background, so a
// slow or failing blob store never delays the caller. Deletes are
// idempotent: a missing object counts as success.
type Janitor struct {
	store   Storage
	queue   chan string
	retries int
	backoff time.Duration
	done    chan struct{}
}

// NewJanitor builds a janitor with a bounded queue. Enqueue drops the path
// when the queue is full; the orphaned blob is logged and left for a later
// sweep.
func NewJanitor(store Storage, queueSize int) *Janitor {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Janitor{
		store:   store,
		queue:   make(chan string, queueSize),
		retries: 3,
		backoff: 2 * time.Second,
		done:    make(chan struct{}),
	}
}

// Start launches the worker goroutine. It drains until ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	go func() {
		defer close(j.done)
		for {
			select {
			case <-ctx.Done():
				return
			case path := <-j.queue:
				j.remove(ctx, path)
			}
		}
	}()
}

// Wait blocks until the worker has stopped. Intended for shutdown and tests.
func (j *Janitor) Wait() {
	<-j.done
}

// Enqueue hands a blob path to the janitor. Returns false when the queue is
// full; the failure is logged and the caller proceeds regardless.
func (j *Janitor) Enqueue(path string) bool {
	select {
	case j.queue <- path:
		return true
	default:
		j.logEvent("warn", "blob_cleanup_queue_full", path, "")
		return false
	}
}

func (j *Janitor) remove(ctx context.Context, path string) {
	var lastErr error
	for attempt := 0; attempt < j.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(j.backoff):
			}
		}
		if lastErr = j.store.Delete(ctx, path); lastErr == nil {
			return
		}
	}
	j.logEvent("warn", "blob_cleanup_failed", path, lastErr.Error())
}

func (j *Janitor) logEvent(level, msg, path, errMsg string) {
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
		"path":  path,
	}
	if errMsg != "" {
		entry["error"] = errMsg
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}

package storage

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails Delete a configurable number of times before succeeding.
type flakyStore struct {
	mu        sync.Mutex
	failures  int
	deleted   []string
	attempts  int
	succeeded chan struct{}
}

func (f *flakyStore) Put(context.Context, string, io.Reader, PutObjectOptions) (ObjectInfo, error) {
	return ObjectInfo{}, errors.New("not implemented")
}

func (f *flakyStore) Get(context.Context, string) (io.ReadCloser, ObjectInfo, error) {
	return nil, ObjectInfo{}, errors.New("not implemented")
}

func (f *flakyStore) PresignGet(context.Context, string, time.Duration) (string, error) {
	return "", errors.New("not implemented")
}

func (f *flakyStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failures {
		return errors.New("transient")
	}
	f.deleted = append(f.deleted, key)
	if f.succeeded != nil {
		close(f.succeeded)
		f.succeeded = nil
	}
	return nil
}

func TestJanitor_RetriesUntilSuccess(t *testing.T) {
	store := &flakyStore{failures: 2, succeeded: make(chan struct{})}
	done := store.succeeded

	j := NewJanitor(store, 4)
	j.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	j.Start(ctx)

	require.True(t, j.Enqueue("uploads/abc/file.pdf"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("delete never succeeded")
	}

	cancel()
	j.Wait()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 3, store.attempts)
	assert.Equal(t, []string{"uploads/abc/file.pdf"}, store.deleted)
}

func TestJanitor_EnqueueFullQueue(t *testing.T) {
	store := &flakyStore{}
	j := NewJanitor(store, 1)
	// Worker not started: the single slot fills and stays full.
	assert.True(t, j.Enqueue("a"))
	assert.False(t, j.Enqueue("b"))
}

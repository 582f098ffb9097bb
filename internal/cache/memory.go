package cache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	writtenAt time.Time
}

// Memory is a process-local TTL cache. It is safe for concurrent use.
// Growth is bounded only by the TTL: expired entries are dropped lazily on
// read and swept on write.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory returns a Memory cache with the given TTL. A non-positive TTL
// falls back to DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	return NewMemoryWithClock(ttl, time.Now)
}

// NewMemoryWithClock is NewMemory with an injectable clock for tests.
func NewMemoryWithClock(ttl time.Duration, now func() time.Time) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     now,
	}
}

var _ Store = (*Memory)(nil)

// Get decodes a fresh entry into dest. A stale or missing entry is a miss;
// stale entries are removed on the way out.
func (m *Memory) Get(key string, dest any) bool {
	m.mu.Lock()
	e, ok := m.entries[key]
	if ok && m.now().Sub(e.writtenAt) >= m.ttl {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal(e.payload, dest) == nil
}

// Set stores value under key. Encoding failures are swallowed; the entry is
// simply not cached.
func (m *Memory) Set(key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	now := m.now()
	m.mu.Lock()
	for k, e := range m.entries {
		if now.Sub(e.writtenAt) >= m.ttl {
			delete(m.entries, k)
		}
	}
	m.entries[key] = memoryEntry{payload: payload, writtenAt: now}
	m.mu.Unlock()
}

// InvalidateOwner removes every entry whose key is scoped to ownerID.
func (m *Memory) InvalidateOwner(ownerID string) {
	prefix := ownerPrefix(ownerID)
	m.mu.Lock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	m.mu.Unlock()
}

// Len reports the number of live entries. Intended for tests and metrics.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

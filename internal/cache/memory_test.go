package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"docvault/internal/model"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "owner-1|documents|", Key("owner-1", "documents", ""))
	assert.Equal(t, "owner-1|profile", Key("owner-1", "profile"))
}

func TestMemory_GetSet(t *testing.T) {
	c := NewMemory(time.Minute)

	var got []model.Document
	assert.False(t, c.Get(Key("o1", "documents", ""), &got))

	want := []model.Document{{ID: "d1", FileName: "passport.pdf"}, {ID: "d2"}}
	c.Set(Key("o1", "documents", ""), want)

	assert.True(t, c.Get(Key("o1", "documents", ""), &got))
	assert.Len(t, got, 2)
	assert.Equal(t, "d1", got[0].ID)
	assert.Equal(t, "passport.pdf", got[0].FileName)
}

func TestMemory_TTLExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }
	c := NewMemoryWithClock(time.Minute, clock)

	c.Set(Key("o1", "profile"), model.User{ID: "o1"})

	var u model.User
	assert.True(t, c.Get(Key("o1", "profile"), &u))

	// One second before the TTL boundary: still fresh.
	now = now.Add(59 * time.Second)
	assert.True(t, c.Get(Key("o1", "profile"), &u))

	// At the boundary the entry is stale and must be refetched.
	now = now.Add(time.Second)
	assert.False(t, c.Get(Key("o1", "profile"), &u))
	assert.Equal(t, 0, c.Len())
}

func TestMemory_InvalidateOwner(t *testing.T) {
	c := NewMemory(time.Minute)

	c.Set(Key("o1", "documents", ""), []model.Document{{ID: "d1"}})
	c.Set(Key("o1", "documents", "certificate"), []model.Document{{ID: "d2"}})
	c.Set(Key("o2", "documents", ""), []model.Document{{ID: "d3"}})

	c.InvalidateOwner("o1")

	var docs []model.Document
	assert.False(t, c.Get(Key("o1", "documents", ""), &docs))
	assert.False(t, c.Get(Key("o1", "documents", "certificate"), &docs))
	assert.True(t, c.Get(Key("o2", "documents", ""), &docs))
}

func TestMemory_PrefixDoesNotBleedAcrossOwners(t *testing.T) {
	c := NewMemory(time.Minute)

	// "o1" must not invalidate "o12" even though it is a string prefix.
	c.Set(Key("o12", "documents", ""), []model.Document{{ID: "d1"}})
	c.InvalidateOwner("o1")

	var docs []model.Document
	assert.True(t, c.Get(Key("o12", "documents", ""), &docs))
}

func TestMemory_SweepOnWrite(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewMemoryWithClock(time.Minute, func() time.Time { return now })

	c.Set(Key("o1", "a"), 1)
	c.Set(Key("o1", "b"), 2)
	now = now.Add(2 * time.Minute)
	c.Set(Key("o1", "c"), 3)

	assert.Equal(t, 1, c.Len())
}

// Package cache provides the short-lived read cache in front of document
// list and profile reads. Entries live until a fixed TTL elapses; every
// successful write to an owner's data invalidates all of that owner's keys.
//
// Values cross the cache boundary as JSON so the in-memory and Redis
// backends behave identically.
package cache

import (
	"strings"
	"time"
)

// DefaultTTL is used when no TTL is configured.
const DefaultTTL = 5 * time.Minute

const keySeparator = "|"

// Store is the read-through cache consumed by the services. Get decodes a
// fresh entry into dest and reports whether one was found; Set stores the
// JSON encoding of value; InvalidateOwner drops every key scoped to an
// owner. Implementations swallow their own failures: a broken cache
// degrades to a miss, never to an error.
type Store interface {
	Get(key string, dest any) bool
	Set(key string, value any)
	InvalidateOwner(ownerID string)
}

// Key derives a composite cache key scoped to an owner. The owner id is
// always the first segment so InvalidateOwner can match by prefix.
func Key(ownerID string, parts ...string) string {
	segs := append([]string{ownerID}, parts...)
	return strings.Join(segs, keySeparator)
}

func ownerPrefix(ownerID string) string {
	return ownerID + keySeparator
}

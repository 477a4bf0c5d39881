package handler

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ytharvest/harvester/internal/harvest"
)

// SnapshotCache holds uncommitted harvest snapshots between the harvest call
// and the explicit commit call. Snapshots expire after the TTL so an
// abandoned preview never lingers; a taken snapshot is removed so it cannot
// be committed twice.
type SnapshotCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[uuid.UUID]snapshotEntry
}

type snapshotEntry struct {
	snapshot *harvest.Snapshot
	expires  time.Time
}

// NewSnapshotCache creates a cache whose entries expire after ttl.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SnapshotCache{
		ttl:   ttl,
		items: make(map[uuid.UUID]snapshotEntry),
	}
}

// Put stores a snapshot under its own id.
func (c *SnapshotCache) Put(snapshot *harvest.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeLocked()
	c.items[snapshot.ID] = snapshotEntry{
		snapshot: snapshot,
		expires:  time.Now().Add(c.ttl),
	}
}

// Take removes and returns the snapshot with the given id, or false if it
// was never stored, already committed, or has expired.
func (c *SnapshotCache) Take(id uuid.UUID) (*harvest.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeLocked()
	entry, ok := c.items[id]
	if !ok {
		return nil, false
	}
	delete(c.items, id)
	return entry.snapshot, true
}

// Len reports the number of live entries.
func (c *SnapshotCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeLocked()
	return len(c.items)
}

func (c *SnapshotCache) purgeLocked() {
	now := time.Now()
	for id, entry := range c.items {
		if now.After(entry.expires) {
			delete(c.items, id)
		}
	}
}

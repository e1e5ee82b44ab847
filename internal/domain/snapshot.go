package domain

import (
	"sync/atomic"
	"time"
)

// SnapshotSource says where a snapshot's data came from.
type SnapshotSource string

const (
	SourceAPI       SnapshotSource = "api"
	SourceWarmStart SnapshotSource = "warm-start"
)

// SnapshotItem pairs a poster record with its resolved cache entry.
// Every item in a published snapshot has a downloaded image; posters
// whose download failed are simply absent until a later cycle.
type SnapshotItem struct {
	Record PosterRecord
	Entry  CacheEntry
}

// Snapshot is an immutable ordered poster list published atomically for
// the display loop. It must never be mutated once published; publishers
// build a fresh one and swap it in.
type Snapshot struct {
	Items       []SnapshotItem
	DisplayTime int // per-poster seconds dictated by the API, 0 = default
	FetchedAt   time.Time
	Source      SnapshotSource
}

// Len returns the number of displayable posters.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// Contains reports whether the snapshot references the given poster id.
func (s *Snapshot) Contains(id string) bool {
	if s == nil {
		return false
	}
	for _, it := range s.Items {
		if it.Record.ID == id {
			return true
		}
	}
	return false
}

// Find returns the item for id, if present.
func (s *Snapshot) Find(id string) (SnapshotItem, bool) {
	if s == nil {
		return SnapshotItem{}, false
	}
	for _, it := range s.Items {
		if it.Record.ID == id {
			return it, true
		}
	}
	return SnapshotItem{}, false
}

// SnapshotHandle is the single shared handle between the refresh
// scheduler (writer) and the display loop (reader). Publication is
// a pointer swap; readers never block and never observe a partially
// updated list.
type SnapshotHandle struct {
	ptr atomic.Pointer[Snapshot]
}

// Publish atomically replaces the current snapshot.
func (h *SnapshotHandle) Publish(s *Snapshot) {
	h.ptr.Store(s)
}

// Current returns the latest published snapshot, or nil if none yet.
func (h *SnapshotHandle) Current() *Snapshot {
	return h.ptr.Load()
}

// Package history keeps the most recent sent requests, newest first.
package history

import (
	"sync"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/vedsharma/apicli/internal/model"
)

// DefaultCapacity is the number of entries kept before the oldest is evicted
const DefaultCapacity = 50

// Ring is a bounded, newest-first list of history entries
type Ring struct {
	mu       sync.RWMutex
	capacity int
	entries  []model.HistoryEntry
}

// NewRing creates an empty ring. capacity <= 0 means DefaultCapacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{capacity: capacity}
}

// NewEntry snapshots d together with the outcome of sending it. The request
// is deep-copied so later edits to d never show up in history.
func NewEntry(d model.RequestDescriptor, env *model.ResponseEnvelope) (model.HistoryEntry, error) {
	var snapshot model.RequestDescriptor
	if err := copier.CopyWithOption(&snapshot, &d, copier.Option{DeepCopy: true}); err != nil {
		return model.HistoryEntry{}, errors.Wrap(err, "snapshot request")
	}

	entry := model.HistoryEntry{
		ID:        uuid.NewString(),
		Method:    d.Method,
		URL:       d.URL,
		Timestamp: time.Now(),
		Request:   snapshot,
	}
	if env != nil {
		entry.Status = env.Status
		entry.Duration = env.Timing.Duration
		entry.Error = env.Error
	}
	return entry, nil
}

// Push inserts entry at the front, evicting the oldest entry when full
func (r *Ring) Push(entry model.HistoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]model.HistoryEntry, 0, min(len(r.entries)+1, r.capacity))
	entries = append(entries, entry)
	for _, e := range r.entries {
		if len(entries) == r.capacity {
			break
		}
		entries = append(entries, e)
	}
	r.entries = entries
}

// Load replaces the contents with entries, which must be newest first.
// Anything beyond capacity is dropped.
func (r *Ring) Load(entries []model.HistoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(entries) > r.capacity {
		entries = entries[:r.capacity]
	}
	r.entries = append([]model.HistoryEntry(nil), entries...)
}

// Entries returns a copy of the entries, newest first
func (r *Ring) Entries() []model.HistoryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.HistoryEntry(nil), r.entries...)
}

// Len returns the number of stored entries
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Get finds an entry by id
func (r *Ring) Get(id string) (model.HistoryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.ID == id {
			return e, true
		}
	}
	return model.HistoryEntry{}, false
}

// Clear removes every entry
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

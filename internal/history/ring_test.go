package history

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedsharma/apicli/internal/model"
)

func entryFor(t *testing.T, url string) model.HistoryEntry {
	t.Helper()
	e, err := NewEntry(model.NewRequestDescriptor().WithURL(url), &model.ResponseEnvelope{Status: 200})
	require.NoError(t, err)
	return e
}

func TestRingEvictsOldest(t *testing.T) {
	ring := NewRing(DefaultCapacity)
	var first model.HistoryEntry
	for i := 0; i < DefaultCapacity+1; i++ {
		e := entryFor(t, fmt.Sprintf("https://x.com/%d", i))
		if i == 0 {
			first = e
		}
		ring.Push(e)
	}

	entries := ring.Entries()
	require.Len(t, entries, DefaultCapacity)
	assert.Equal(t, "https://x.com/50", entries[0].URL)
	assert.Equal(t, "https://x.com/1", entries[len(entries)-1].URL)

	_, ok := ring.Get(first.ID)
	assert.False(t, ok)
}

func TestNewEntrySnapshotIsIsolated(t *testing.T) {
	d := model.NewRequestDescriptor().
		WithURL("https://x.com").
		WithHeaders(model.Pairs("X-A", "1"))

	entry, err := NewEntry(d, &model.ResponseEnvelope{Status: 0, Error: "Network error", Timing: model.Timing{Duration: 12}})
	require.NoError(t, err)
	assert.Equal(t, "Network error", entry.Error)
	assert.EqualValues(t, 12, entry.Duration)
	assert.NotEmpty(t, entry.ID)

	// mutate the caller's backing array in place
	d.Headers[0].Value = "changed"
	assert.Equal(t, "1", entry.Request.Headers[0].Value)
}

func TestRingEntriesReturnsCopy(t *testing.T) {
	ring := NewRing(3)
	ring.Push(entryFor(t, "https://x.com/a"))

	entries := ring.Entries()
	entries[0].URL = "mutated"
	assert.Equal(t, "https://x.com/a", ring.Entries()[0].URL)
}

func TestRingLoadAndClear(t *testing.T) {
	ring := NewRing(2)
	ring.Load([]model.HistoryEntry{
		entryFor(t, "https://x.com/1"),
		entryFor(t, "https://x.com/2"),
		entryFor(t, "https://x.com/3"),
	})
	assert.Equal(t, 2, ring.Len())
	assert.Equal(t, "https://x.com/1", ring.Entries()[0].URL)

	ring.Clear()
	assert.Equal(t, 0, ring.Len())
	assert.Empty(t, ring.Entries())
}

func TestRingConcurrentPush(t *testing.T) {
	ring := NewRing(DefaultCapacity)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ring.Push(model.HistoryEntry{ID: fmt.Sprint(i)})
			_ = ring.Entries()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, DefaultCapacity, ring.Len())
}

package audit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/gridstate/internal/core"
)

// DefaultMemoryCapacity bounds a Memory store when no capacity is given.
const DefaultMemoryCapacity = 10000

// Memory is an in-process Store. When full, the oldest entry is dropped.
type Memory struct {
	capacity int

	mu      sync.RWMutex
	entries []core.AuditEntry
}

// NewMemory returns a Memory store holding at most capacity entries.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &Memory{capacity: capacity}
}

func (m *Memory) Record(_ context.Context, entry core.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= m.capacity {
		copy(m.entries, m.entries[1:])
		m.entries = m.entries[:len(m.entries)-1]
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *Memory) List(_ context.Context, opts ListOptions) (*ListResult, error) {
	opts = opts.normalize()

	m.mu.RLock()
	var matched []core.AuditEntry
	for _, e := range m.entries {
		if opts.matches(e) {
			matched = append(matched, e)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := min(opts.Offset, len(matched))
	end := min(start+opts.Limit, len(matched))
	return newResult(matched[start:end], total, opts), nil
}

func (m *Memory) Purge(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.entries[:0]
	for _, e := range m.entries {
		if !e.CreatedAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	purged := len(m.entries) - len(kept)
	m.entries = kept
	return purged, nil
}

package repository

import (
	"sync"

	"github.com/allisson/remediation/internal/remediation/domain"
)

// MemoryDeadLetterRepository is a bounded, append-only Dead-Letter Store. When full,
// pushing a new entry evicts the oldest one.
type MemoryDeadLetterRepository struct {
	mu       sync.Mutex
	entries  []domain.DeadLetterEntry
	capacity int
	evicted  int
}

// NewMemoryDeadLetterRepository creates a dead-letter store holding at most capacity
// entries. A non-positive capacity means unbounded.
func NewMemoryDeadLetterRepository(capacity int) *MemoryDeadLetterRepository {
	return &MemoryDeadLetterRepository{capacity: capacity}
}

// Push appends an entry and reports whether the oldest entry was evicted to make room.
func (r *MemoryDeadLetterRepository) Push(entry *domain.DeadLetterEntry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := *entry
	e.Payload = clonePayload(e.Payload)
	r.entries = append(r.entries, e)

	if r.capacity > 0 && len(r.entries) > r.capacity {
		r.entries[0] = domain.DeadLetterEntry{}
		r.entries = r.entries[1:]
		r.evicted++
		return true
	}
	return false
}

// List returns entries newest first.
func (r *MemoryDeadLetterRepository) List(offset, limit int) []*domain.DeadLetterEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offset < 0 || limit <= 0 {
		return []*domain.DeadLetterEntry{}
	}

	result := make([]*domain.DeadLetterEntry, 0, min(limit, len(r.entries)))
	for i := len(r.entries) - 1 - offset; i >= 0 && len(result) < limit; i-- {
		e := r.entries[i]
		e.Payload = clonePayload(e.Payload)
		result = append(result, &e)
	}
	return result
}

// Count returns the number of retained entries.
func (r *MemoryDeadLetterRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// EvictedCount returns how many entries were dropped because of the capacity bound.
func (r *MemoryDeadLetterRepository) EvictedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evicted
}

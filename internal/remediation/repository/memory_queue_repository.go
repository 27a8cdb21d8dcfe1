// Package repository implements the in-process stores backing the remediation queue.
// Every operation completes under a single mutex acquisition and never blocks on I/O,
// so a check-then-act sequence inside one method is atomic with respect to every
// other caller.
package repository

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/remediation/internal/remediation/domain"
)

type queueRecord struct {
	entry domain.QueueEntry
	// seq breaks created_at ties so FIFO order matches insertion order.
	seq uint64
}

// MemoryQueueRepository is the in-memory Queue Store keyed by entry id.
type MemoryQueueRepository struct {
	mu       sync.Mutex
	entries  map[uuid.UUID]*queueRecord
	seq      uint64
	enqueued int
	pruned   int
}

// NewMemoryQueueRepository creates an empty queue store.
func NewMemoryQueueRepository() *MemoryQueueRepository {
	return &MemoryQueueRepository{
		entries: make(map[uuid.UUID]*queueRecord),
	}
}

// Create inserts a new entry. Returns ErrDuplicateTrace when a live entry already
// uses the same trace id.
func (r *MemoryQueueRepository) Create(entry *domain.QueueEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.entries {
		if rec.entry.TraceID == entry.TraceID {
			return domain.ErrDuplicateTrace
		}
	}

	r.seq++
	r.entries[entry.ID] = &queueRecord{entry: cloneEntry(*entry), seq: r.seq}
	r.enqueued++
	return nil
}

// Get returns a snapshot of the entry.
func (r *MemoryQueueRepository) Get(id uuid.UUID) (*domain.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return snapshot(rec), nil
}

// NextPending returns the oldest entry whose status is pending or error.
func (r *MemoryQueueRepository) NextPending() (*domain.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.oldestProcessable()
	if rec == nil {
		return nil, domain.ErrJobNotFound
	}
	return snapshot(rec), nil
}

// MarkProcessing moves a pending or error entry to processing and increments its
// attempt count. Any other status yields ErrJobNotProcessable and leaves the entry
// untouched, so two concurrent claims of the same id cannot both succeed.
func (r *MemoryQueueRepository) MarkProcessing(id uuid.UUID, now time.Time) (*domain.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	if !rec.entry.Status.Processable() {
		return nil, domain.ErrJobNotProcessable
	}

	claim(rec, now)
	return snapshot(rec), nil
}

// ClaimNext selects the oldest processable entry and marks it processing in one step.
func (r *MemoryQueueRepository) ClaimNext(now time.Time) (*domain.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.oldestProcessable()
	if rec == nil {
		return nil, domain.ErrJobNotFound
	}

	claim(rec, now)
	return snapshot(rec), nil
}

// MarkDone sets the entry status to done and clears the last failure message.
func (r *MemoryQueueRepository) MarkDone(id uuid.UUID, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[id]
	if !ok {
		return domain.ErrJobNotFound
	}
	rec.entry.Status = domain.StatusDone
	rec.entry.LastError = ""
	rec.entry.UpdatedAt = now
	return nil
}

// MarkError records a failed attempt. Below maxAttempts the entry moves to error and
// stays eligible for another claim. Once the attempt count reaches maxAttempts the
// entry is removed instead, so no caller can claim it again, and exhausted is true.
// The returned snapshot carries the failure message in both cases.
func (r *MemoryQueueRepository) MarkError(
	id uuid.UUID,
	message string,
	now time.Time,
	maxAttempts int,
) (entry *domain.QueueEntry, exhausted bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.entries[id]
	if !ok {
		return nil, false, domain.ErrJobNotFound
	}
	rec.entry.Status = domain.StatusError
	rec.entry.LastError = message
	rec.entry.UpdatedAt = now

	if rec.entry.AttemptCount >= maxAttempts {
		delete(r.entries, id)
		return snapshot(rec), true, nil
	}
	return snapshot(rec), false, nil
}

// PruneDone removes done entries last updated before the cutoff and returns how
// many were removed.
func (r *MemoryQueueRepository) PruneDone(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, rec := range r.entries {
		if rec.entry.Status == domain.StatusDone && rec.entry.UpdatedAt.Before(before) {
			delete(r.entries, id)
			removed++
		}
	}
	r.pruned += removed
	return removed
}

// Counts returns the per-status breakdown and lifetime counters.
func (r *MemoryQueueRepository) Counts() domain.QueueCounts {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := domain.QueueCounts{Enqueued: r.enqueued, Pruned: r.pruned}
	for _, rec := range r.entries {
		switch rec.entry.Status {
		case domain.StatusPending:
			counts.Pending++
		case domain.StatusProcessing:
			counts.Processing++
		case domain.StatusError:
			counts.Error++
		case domain.StatusDone:
			counts.Done++
		}
	}
	return counts
}

func (r *MemoryQueueRepository) oldestProcessable() *queueRecord {
	var oldest *queueRecord
	for _, rec := range r.entries {
		if !rec.entry.Status.Processable() {
			continue
		}
		if oldest == nil || less(rec, oldest) {
			oldest = rec
		}
	}
	return oldest
}

func claim(rec *queueRecord, now time.Time) {
	rec.entry.Status = domain.StatusProcessing
	rec.entry.AttemptCount++
	rec.entry.UpdatedAt = now
}

func less(a, b *queueRecord) bool {
	if !a.entry.CreatedAt.Equal(b.entry.CreatedAt) {
		return a.entry.CreatedAt.Before(b.entry.CreatedAt)
	}
	return a.seq < b.seq
}

func snapshot(rec *queueRecord) *domain.QueueEntry {
	entry := cloneEntry(rec.entry)
	return &entry
}

// cloneEntry copies the entry so callers never share mutable state with the store.
// Payload maps are copied one level deep; nested values are treated as read-only.
func cloneEntry(entry domain.QueueEntry) domain.QueueEntry {
	entry.Payload = clonePayload(entry.Payload)
	return entry
}

func clonePayload(p domain.Payload) domain.Payload {
	p.Anomaly = maps.Clone(p.Anomaly)
	p.AIError = maps.Clone(p.AIError)
	p.Metadata = maps.Clone(p.Metadata)
	if p.ManualReference != nil {
		ref := *p.ManualReference
		ref.Tags = slices.Clone(ref.Tags)
		p.ManualReference = &ref
	}
	if p.Message != nil {
		msg := *p.Message
		p.Message = &msg
	}
	return p
}

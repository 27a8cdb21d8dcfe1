package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// jobNotifier is an unbounded FIFO of job ids. Push never blocks; Pop waits until an
// id is available or the context is done.
type jobNotifier struct {
	mu    sync.Mutex
	ids   []uuid.UUID
	ready chan struct{}
}

func newJobNotifier() *jobNotifier {
	return &jobNotifier{ready: make(chan struct{}, 1)}
}

// Push appends an id and wakes a waiting consumer.
func (n *jobNotifier) Push(id uuid.UUID) {
	n.mu.Lock()
	n.ids = append(n.ids, id)
	n.mu.Unlock()

	select {
	case n.ready <- struct{}{}:
	default:
	}
}

// Pop removes and returns the oldest id.
func (n *jobNotifier) Pop(ctx context.Context) (uuid.UUID, error) {
	for {
		n.mu.Lock()
		if len(n.ids) > 0 {
			id := n.ids[0]
			n.ids[0] = uuid.Nil
			n.ids = n.ids[1:]
			n.mu.Unlock()
			return id, nil
		}
		n.mu.Unlock()

		select {
		case <-ctx.Done():
			return uuid.Nil, ctx.Err()
		case <-n.ready:
		}
	}
}

// Len returns the number of ids waiting.
func (n *jobNotifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.ids)
}

package notify

import (
	"context"
	"sync"

	"github.com/instashot/backend/internal/models"
)

// InMemoryQueue is a process-local Queue used in tests and as a fallback
// when Redis is unavailable. Events do not survive a restart.
type InMemoryQueue struct {
	mu       sync.Mutex
	capacity int
	events   map[uint][]models.NotificationEvent
}

func NewInMemoryQueue(capacity int) *InMemoryQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryQueue{
		capacity: capacity,
		events:   make(map[uint][]models.NotificationEvent),
	}
}

func (q *InMemoryQueue) Push(_ context.Context, recipientID uint, event models.NotificationEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	queue := append([]models.NotificationEvent{event}, q.events[recipientID]...)
	if len(queue) > q.capacity {
		queue = queue[:q.capacity]
	}
	q.events[recipientID] = queue
	return nil
}

func (q *InMemoryQueue) List(_ context.Context, recipientID uint) ([]models.NotificationEvent, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	queue := q.events[recipientID]
	out := make([]models.NotificationEvent, len(queue))
	copy(out, queue)
	return out, nil
}

func (q *InMemoryQueue) Purge(_ context.Context, recipientID uint) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.events, recipientID)
	return nil
}

// Package notify fans events out to bounded per-recipient activity queues.
// The queue is a ring, not a log: the newest DefaultCapacity events survive,
// everything older is dropped. Push failures must never fail the mutation
// that produced the event; callers log and move on.
package notify

import (
	"context"

	"github.com/instashot/backend/internal/models"
)

// DefaultCapacity is how many events a recipient's queue retains.
const DefaultCapacity = 16

// Queue is a capped, newest-first event queue per recipient.
type Queue interface {
	Push(ctx context.Context, recipientID uint, event models.NotificationEvent) error
	List(ctx context.Context, recipientID uint) ([]models.NotificationEvent, error)
	Purge(ctx context.Context, recipientID uint) error
}

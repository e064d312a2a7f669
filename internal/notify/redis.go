package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/instashot/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisQueue keeps each recipient's events in a Redis list, trimmed to
// capacity on every push.
type RedisQueue struct {
	client   *redis.Client
	capacity int64
}

func NewRedisQueue(client *redis.Client, capacity int64) *RedisQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RedisQueue{client: client, capacity: capacity}
}

func queueKey(recipientID uint) string {
	return fmt.Sprintf("notifications:%d", recipientID)
}

func (q *RedisQueue) Push(ctx context.Context, recipientID uint, event models.NotificationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	key := queueKey(recipientID)
	if err := q.client.LPush(ctx, key, payload).Err(); err != nil {
		return err
	}
	return q.client.LTrim(ctx, key, 0, q.capacity-1).Err()
}

func (q *RedisQueue) List(ctx context.Context, recipientID uint) ([]models.NotificationEvent, error) {
	raw, err := q.client.LRange(ctx, queueKey(recipientID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	events := make([]models.NotificationEvent, 0, len(raw))
	for _, entry := range raw {
		var ev models.NotificationEvent
		if err := json.Unmarshal([]byte(entry), &ev); err != nil {
			continue // skip a corrupt entry rather than failing the whole list
		}
		events = append(events, ev)
	}
	return events, nil
}

func (q *RedisQueue) Purge(ctx context.Context, recipientID uint) error {
	return q.client.Del(ctx, queueKey(recipientID)).Err()
}

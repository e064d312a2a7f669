package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/instashot/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue_CapKeepsNewestSixteen(t *testing.T) {
	ctx := context.Background()
	q := NewInMemoryQueue(DefaultCapacity)

	for i := 0; i < 20; i++ {
		err := q.Push(ctx, 1, models.NotificationEvent{
			NotificationID: fmt.Sprintf("event-%d", i),
			Type:           models.NotificationPostLike,
			Timestamp:      int64(i),
		})
		require.NoError(t, err)
	}

	events, err := q.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 16)

	// Newest first: events 19 down to 4; 0-3 fell off the end.
	assert.Equal(t, "event-19", events[0].NotificationID)
	assert.Equal(t, "event-4", events[15].NotificationID)
}

func TestInMemoryQueue_RecipientsAreIsolated(t *testing.T) {
	ctx := context.Background()
	q := NewInMemoryQueue(0) // zero falls back to the default capacity

	require.NoError(t, q.Push(ctx, 1, models.NotificationEvent{NotificationID: "a"}))
	require.NoError(t, q.Push(ctx, 2, models.NotificationEvent{NotificationID: "b"}))

	one, err := q.List(ctx, 1)
	require.NoError(t, err)
	two, err := q.List(ctx, 2)
	require.NoError(t, err)

	require.Len(t, one, 1)
	require.Len(t, two, 1)
	assert.Equal(t, "a", one[0].NotificationID)
	assert.Equal(t, "b", two[0].NotificationID)
}

func TestInMemoryQueue_PurgeEmptiesQueue(t *testing.T) {
	ctx := context.Background()
	q := NewInMemoryQueue(4)

	require.NoError(t, q.Push(ctx, 7, models.NotificationEvent{NotificationID: "x"}))
	require.NoError(t, q.Purge(ctx, 7))

	events, err := q.List(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, events)
}

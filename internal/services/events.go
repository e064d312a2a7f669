// Package services holds the domain logic between the HTTP handlers and the
// repositories. Services own authorization, notification fan-out, and the
// enrichment of raw documents with per-viewer state.
package services

import (
	"context"
	"time"

	"github.com/instashot/backend/internal/models"
	"github.com/instashot/backend/internal/notify"
	"go.uber.org/zap"
)

// pushEvent delivers one event to a recipient's activity queue. Delivery is
// best-effort: the mutation that produced the event already committed, so a
// queue failure is logged and swallowed.
func pushEvent(ctx context.Context, queue notify.Queue, logger *zap.Logger, recipientID uint, ev models.NotificationEvent) {
	if err := queue.Push(ctx, recipientID, ev); err != nil {
		logger.Warn("notification push failed",
			zap.Uint("recipient_id", recipientID),
			zap.String("notification_id", ev.NotificationID),
			zap.Error(err))
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

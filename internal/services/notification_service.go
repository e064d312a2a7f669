package services

import (
	"context"

	"github.com/instashot/backend/internal/apperrors"
	"github.com/instashot/backend/internal/models"
	"github.com/instashot/backend/internal/notify"
)

// NotificationService reads a user's bounded activity queue.
type NotificationService struct {
	queue notify.Queue
}

func NewNotificationService(queue notify.Queue) *NotificationService {
	return &NotificationService{queue: queue}
}

// List returns the newest events first, at most the queue capacity.
func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.NotificationEvent, error) {
	events, err := s.queue.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load notifications", err)
	}
	if events == nil {
		events = []models.NotificationEvent{}
	}
	return events, nil
}

// Clear empties the user's queue.
func (s *NotificationService) Clear(ctx context.Context, userID uint) error {
	if err := s.queue.Purge(ctx, userID); err != nil {
		return apperrors.Wrap(apperrors.Internal, "Failed to clear notifications", err)
	}
	return nil
}

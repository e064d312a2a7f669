package services

import (
	"context"
	"errors"

	"github.com/instashot/backend/internal/apperrors"
	"github.com/instashot/backend/internal/models"
	"github.com/instashot/backend/internal/notify"
	"github.com/instashot/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GraphService manages the directed follow graph.
type GraphService struct {
	follows repositories.FollowRepository
	users   repositories.UserRepository
	queue   notify.Queue
	logger  *zap.Logger
}

func NewGraphService(follows repositories.FollowRepository, users repositories.UserRepository, queue notify.Queue, logger *zap.Logger) *GraphService {
	return &GraphService{follows: follows, users: users, queue: queue, logger: logger}
}

// ToggleFollow flips the follower -> target edge and reports the new state.
// A FOLLOW event reaches the target only on the follow transition; unfollow
// is silent.
func (s *GraphService) ToggleFollow(ctx context.Context, followerID, targetID uint) (bool, error) {
	if followerID == targetID {
		return false, apperrors.New(apperrors.SelfAction, "You cannot follow yourself")
	}

	actor, err := s.users.GetUserByID(followerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.New(apperrors.NotFound, "User not found")
		}
		return false, apperrors.Wrap(apperrors.Internal, "Failed to toggle follow", err)
	}
	if _, err := s.users.GetUserByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.New(apperrors.NotFound, "User not found")
		}
		return false, apperrors.Wrap(apperrors.Internal, "Failed to toggle follow", err)
	}

	nowFollowing, err := s.follows.ToggleFollow(followerID, targetID)
	if err != nil {
		return false, apperrors.Wrap(apperrors.Internal, "Failed to toggle follow", err)
	}

	if nowFollowing {
		pushEvent(ctx, s.queue, s.logger, targetID, models.NotificationEvent{
			NotificationID: models.FollowEventID(followerID, targetID),
			Type:           models.NotificationFollow,
			Message:        actor.Username + " started following you",
			FromUser:       actor.ToCompact(),
			Timestamp:      nowMillis(),
		})
	}
	return nowFollowing, nil
}

func (s *GraphService) IsFollowing(followerID, targetID uint) (bool, error) {
	following, err := s.follows.IsFollowing(followerID, targetID)
	if err != nil {
		return false, apperrors.Wrap(apperrors.Internal, "Failed to read follow state", err)
	}
	return following, nil
}

// Connections returns both sides of a user's graph as compact profiles.
func (s *GraphService) Connections(userID uint) (followers, following []models.UserCompact, err error) {
	if _, err := s.users.GetUserByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.New(apperrors.NotFound, "User not found")
		}
		return nil, nil, apperrors.Wrap(apperrors.Internal, "Failed to load connections", err)
	}

	followerUsers, err := s.follows.GetFollowers(userID)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.Internal, "Failed to load connections", err)
	}
	followingUsers, err := s.follows.GetFollowing(userID)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.Internal, "Failed to load connections", err)
	}
	return toCompacts(followerUsers), toCompacts(followingUsers), nil
}

// Suggestions recommends accounts to follow, ordered by graph proximity.
func (s *GraphService) Suggestions(userID uint, limit int) ([]models.UserCompact, error) {
	if limit <= 0 {
		limit = 5
	}
	users, err := s.follows.SuggestUsers(userID, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load suggestions", err)
	}
	return toCompacts(users), nil
}

func toCompacts(users []models.User) []models.UserCompact {
	compacts := make([]models.UserCompact, 0, len(users))
	for i := range users {
		compacts = append(compacts, users[i].ToCompact())
	}
	return compacts
}

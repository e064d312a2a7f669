package services

import (
	"context"
	"errors"
	"time"

	"github.com/instashot/backend/internal/apperrors"
	"github.com/instashot/backend/internal/media"
	"github.com/instashot/backend/internal/models"
	"github.com/instashot/backend/internal/notify"
	"github.com/instashot/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StoryService owns the ephemeral story lifecycle. Stories live 24 hours
// from creation; expiry is enforced at read time, never by a background job
// the read path would have to trust.
type StoryService struct {
	stories repositories.StoryRepository
	follows repositories.FollowRepository
	users   repositories.UserRepository
	media   media.Store
	queue   notify.Queue
	logger  *zap.Logger
}

func NewStoryService(
	stories repositories.StoryRepository,
	follows repositories.FollowRepository,
	users repositories.UserRepository,
	mediaStore media.Store,
	queue notify.Queue,
	logger *zap.Logger,
) *StoryService {
	return &StoryService{
		stories: stories,
		follows: follows,
		users:   users,
		media:   mediaStore,
		queue:   queue,
		logger:  logger,
	}
}

// Create uploads the media and inserts the story. Uploads that succeeded
// before a failure are deleted again.
func (s *StoryService) Create(ctx context.Context, userID uint, req models.CreateStoryRequest) (*models.Story, error) {
	assets := make([]models.MediaAsset, 0, len(req.Media))
	for _, payload := range req.Media {
		asset, err := s.media.Upload(ctx, payload, "stories")
		if err != nil {
			s.rollbackAssets(ctx, assets)
			return nil, apperrors.Wrap(apperrors.Internal, "Failed to upload media", err)
		}
		assets = append(assets, models.MediaAsset{URL: asset.URL, AssetID: asset.AssetID})
	}

	story := &models.Story{UserID: userID, Caption: req.Caption, Media: assets}
	if err := s.stories.CreateStory(ctx, story); err != nil {
		s.rollbackAssets(ctx, assets)
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to create story", err)
	}
	return story, nil
}

// RingEntry is one author bubble in the story ring.
type RingEntry struct {
	Author     models.UserCompact `json:"author"`
	StoryCount int                `json:"story_count"`
	Seen       bool               `json:"seen"`
	Preview    models.MediaAsset  `json:"preview"`
}

// ActiveRing returns one entry per author with live stories among the
// viewer's followed accounts and the viewer themselves. The viewer's own
// bubble comes first; the rest keep newest-story-first order. Seen flips
// only once every story of that author has been viewed.
func (s *StoryService) ActiveRing(ctx context.Context, viewerID uint) ([]RingEntry, error) {
	followedIDs, err := s.follows.GetFollowingIDs(viewerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load stories", err)
	}
	owners := append([]uint{viewerID}, followedIDs...)

	stories, err := s.stories.FindActiveByOwners(ctx, owners)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load stories", err)
	}
	if len(stories) == 0 {
		return []RingEntry{}, nil
	}

	type bucket struct {
		count   int
		allSeen bool
		preview models.MediaAsset
	}
	order := make([]uint, 0, len(stories))
	byOwner := make(map[uint]*bucket, len(stories))
	for i := range stories {
		st := &stories[i]
		b, ok := byOwner[st.UserID]
		if !ok {
			b = &bucket{allSeen: true}
			if len(st.Media) > 0 {
				// Stories arrive newest first, so the first one previews.
				b.preview = st.Media[0]
			}
			byOwner[st.UserID] = b
			order = append(order, st.UserID)
		}
		b.count++
		if !containsUint(st.Viewers, viewerID) && st.UserID != viewerID {
			b.allSeen = false
		}
	}

	authors, err := s.users.GetUsersByIDs(order)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load stories", err)
	}
	authorByID := make(map[uint]models.UserCompact, len(authors))
	for i := range authors {
		authorByID[authors[i].ID] = authors[i].ToCompact()
	}

	ring := make([]RingEntry, 0, len(order))
	appendEntry := func(ownerID uint) {
		b := byOwner[ownerID]
		ring = append(ring, RingEntry{
			Author:     authorByID[ownerID],
			StoryCount: b.count,
			Seen:       b.allSeen,
			Preview:    b.preview,
		})
	}
	if _, ok := byOwner[viewerID]; ok {
		appendEntry(viewerID)
	}
	for _, ownerID := range order {
		if ownerID != viewerID {
			appendEntry(ownerID)
		}
	}
	return ring, nil
}

// StoryView is a story enriched for one viewer. The viewer list stays
// owner-only.
type StoryView struct {
	models.Story
	Author  models.UserCompact `json:"author"`
	IsLiked bool               `json:"is_liked"`
}

// OwnerStories returns an author's live stories for the viewer and records
// the view on each story the viewer has not seen yet. The owner browsing
// their own stories never counts as a view. Private authors are visible
// only to themselves and their followers.
func (s *StoryService) OwnerStories(ctx context.Context, username string, viewerID uint) ([]StoryView, error) {
	owner, err := s.users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "User not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load stories", err)
	}

	if !owner.IsPublic && owner.ID != viewerID {
		following, err := s.follows.IsFollowing(viewerID, owner.ID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.Internal, "Failed to load stories", err)
		}
		if !following {
			return nil, apperrors.New(apperrors.Unauthorized, "This account is private")
		}
	}

	stories, err := s.stories.FindActiveByOwner(ctx, owner.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load stories", err)
	}

	compact := owner.ToCompact()
	views := make([]StoryView, 0, len(stories))
	for i := range stories {
		st := stories[i]
		if viewerID != owner.ID {
			recorded, err := s.stories.RecordView(ctx, st.ID.Hex(), viewerID)
			if err != nil {
				s.logger.Warn("story view not recorded", zap.String("story_id", st.ID.Hex()), zap.Error(err))
			} else if recorded {
				st.Viewers = append(st.Viewers, viewerID)
				st.ViewCount++
			}
			// Who watched is the owner's business only.
			st.Viewers = nil
		}
		views = append(views, StoryView{
			Story:   st,
			Author:  compact,
			IsLiked: containsUint(stories[i].LikedBy, viewerID),
		})
	}
	return views, nil
}

// ToggleLike flips the viewer's like on a live story. Liking notifies the
// owner; unliking and self-likes stay silent. Expired stories are gone as
// far as callers can tell.
func (s *StoryService) ToggleLike(ctx context.Context, storyID string, userID uint) (bool, error) {
	story, err := s.stories.GetStoryByID(ctx, storyID)
	if err != nil {
		if errors.Is(err, repositories.ErrStoryNotFound) {
			return false, apperrors.New(apperrors.NotFound, "Story not found")
		}
		return false, apperrors.Wrap(apperrors.Internal, "Failed to toggle story like", err)
	}
	if !story.Active(time.Now()) {
		return false, apperrors.New(apperrors.NotFound, "Story not found")
	}

	nowLiked, err := s.stories.ToggleLike(ctx, storyID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrStoryNotFound) {
			return false, apperrors.New(apperrors.NotFound, "Story not found")
		}
		return false, apperrors.Wrap(apperrors.Internal, "Failed to toggle story like", err)
	}

	if nowLiked && story.UserID != userID {
		actor, err := s.users.GetUserByID(userID)
		if err != nil {
			s.logger.Warn("story like notification skipped, actor lookup failed", zap.Uint("user_id", userID), zap.Error(err))
			return nowLiked, nil
		}
		pushEvent(ctx, s.queue, s.logger, story.UserID, models.NotificationEvent{
			NotificationID: models.StoryEventID(storyID, userID),
			Type:           models.NotificationStoryLike,
			Message:        actor.Username + " liked your story: " + story.Caption,
			FromUser:       actor.ToCompact(),
			Timestamp:      nowMillis(),
		})
	}
	return nowLiked, nil
}

// Delete removes a story and its media. Owner only. Asset cleanup failures
// are logged, not fatal.
func (s *StoryService) Delete(ctx context.Context, storyID string, userID uint) error {
	story, err := s.stories.GetStoryByID(ctx, storyID)
	if err != nil {
		if errors.Is(err, repositories.ErrStoryNotFound) {
			return apperrors.New(apperrors.NotFound, "Story not found")
		}
		return apperrors.Wrap(apperrors.Internal, "Failed to delete story", err)
	}
	if story.UserID != userID {
		return apperrors.New(apperrors.Unauthorized, "You can only delete your own stories")
	}

	if err := s.stories.DeleteStory(ctx, storyID); err != nil {
		return apperrors.Wrap(apperrors.Internal, "Failed to delete story", err)
	}
	s.rollbackAssets(ctx, story.Media)
	return nil
}

func (s *StoryService) rollbackAssets(ctx context.Context, assets []models.MediaAsset) {
	for _, asset := range assets {
		if asset.AssetID == "" {
			continue
		}
		if err := s.media.Delete(ctx, asset.AssetID); err != nil {
			s.logger.Warn("media cleanup failed", zap.String("asset_id", asset.AssetID), zap.Error(err))
		}
	}
}

func containsUint(list []uint, v uint) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

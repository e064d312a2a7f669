package services

import (
	"context"

	"github.com/instashot/backend/internal/apperrors"
	"github.com/instashot/backend/internal/repositories"
)

// ExploreService recommends posts by tag overlap with the viewer's
// engagement history.
type ExploreService struct {
	posts repositories.PostRepository
	users repositories.UserRepository
	likes repositories.LikeRepository
	saves repositories.SavedPostRepository
}

func NewExploreService(posts repositories.PostRepository, users repositories.UserRepository, likes repositories.LikeRepository, saves repositories.SavedPostRepository) *ExploreService {
	return &ExploreService{posts: posts, users: users, likes: likes, saves: saves}
}

// Explore returns posts by other users whose tags overlap the viewer's
// interest set: tags of posts the viewer liked or saved, plus tags used by
// public accounts. A viewer with no candidate tags gets an empty page
// without touching the post store.
func (s *ExploreService) Explore(ctx context.Context, viewerID uint, page, limit int) ([]FeedItem, Pagination, error) {
	page, limit = normalizePage(page, limit)

	tags, err := s.candidateTags(ctx, viewerID)
	if err != nil {
		return nil, Pagination{}, err
	}
	if len(tags) == 0 {
		return []FeedItem{}, NewPagination(page, limit, 0), nil
	}

	skip := int64(page-1) * int64(limit)
	posts, err := s.posts.FindByTags(ctx, tags, viewerID, skip, int64(limit))
	if err != nil {
		return nil, Pagination{}, apperrors.Wrap(apperrors.Internal, "Failed to load explore posts", err)
	}
	total, err := s.posts.CountByTags(ctx, tags, viewerID)
	if err != nil {
		return nil, Pagination{}, apperrors.Wrap(apperrors.Internal, "Failed to load explore posts", err)
	}

	items, err := enrichPosts(posts, viewerID, s.users, s.likes, s.saves)
	if err != nil {
		return nil, Pagination{}, err
	}
	return items, NewPagination(page, limit, total), nil
}

func (s *ExploreService) candidateTags(ctx context.Context, viewerID uint) ([]string, error) {
	likedIDs, err := s.likes.GetLikedPostIDs(viewerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load explore posts", err)
	}
	savedIDs, err := s.saves.GetSavedPostIDs(viewerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load explore posts", err)
	}

	engagedTags, err := s.posts.TagsOfPosts(ctx, append(likedIDs, savedIDs...))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load explore posts", err)
	}

	publicIDs, err := s.users.GetPublicUserIDs(viewerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load explore posts", err)
	}
	publicTags, err := s.posts.TagsByOwners(ctx, publicIDs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load explore posts", err)
	}

	seen := make(map[string]bool, len(engagedTags)+len(publicTags))
	tags := make([]string, 0, len(engagedTags)+len(publicTags))
	for _, tag := range append(engagedTags, publicTags...) {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags, nil
}

package services

import (
	"context"

	"github.com/instashot/backend/internal/apperrors"
	"github.com/instashot/backend/internal/models"
	"github.com/instashot/backend/internal/repositories"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// Pagination describes one page of an offset-paginated listing.
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

// NewPagination computes HasMore from the total: a further page exists only
// while page < ceil(total/limit).
func NewPagination(page, limit int, total int64) Pagination {
	pages := (total + int64(limit) - 1) / int64(limit)
	return Pagination{Page: page, Limit: limit, Total: total, HasMore: int64(page) < pages}
}

// normalizePage clamps page and limit to sane bounds.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// FeedItem is a post enriched with its author and the viewer's own state.
type FeedItem struct {
	models.Post
	Author  models.UserCompact `json:"author"`
	IsLiked bool               `json:"is_liked"`
	IsSaved bool               `json:"is_saved"`
}

// FeedService assembles the home and tag feeds.
type FeedService struct {
	posts   repositories.PostRepository
	users   repositories.UserRepository
	follows repositories.FollowRepository
	likes   repositories.LikeRepository
	saves   repositories.SavedPostRepository
}

func NewFeedService(posts repositories.PostRepository, users repositories.UserRepository, follows repositories.FollowRepository, likes repositories.LikeRepository, saves repositories.SavedPostRepository) *FeedService {
	return &FeedService{posts: posts, users: users, follows: follows, likes: likes, saves: saves}
}

// HomeFeed returns the viewer's global feed: every public post plus posts
// from followed accounts and the viewer's own, newest first.
func (s *FeedService) HomeFeed(ctx context.Context, viewerID uint, page, limit int) ([]FeedItem, Pagination, error) {
	page, limit = normalizePage(page, limit)

	followedIDs, err := s.follows.GetFollowingIDs(viewerID)
	if err != nil {
		return nil, Pagination{}, apperrors.Wrap(apperrors.Internal, "Failed to load feed", err)
	}

	skip := int64(page-1) * int64(limit)
	posts, err := s.posts.FindVisible(ctx, viewerID, followedIDs, skip, int64(limit))
	if err != nil {
		return nil, Pagination{}, apperrors.Wrap(apperrors.Internal, "Failed to load feed", err)
	}
	total, err := s.posts.CountVisible(ctx, viewerID, followedIDs)
	if err != nil {
		return nil, Pagination{}, apperrors.Wrap(apperrors.Internal, "Failed to load feed", err)
	}

	items, err := enrichPosts(posts, viewerID, s.users, s.likes, s.saves)
	if err != nil {
		return nil, Pagination{}, err
	}
	return items, NewPagination(page, limit, total), nil
}

// TagFeed returns the visible posts carrying the given tag, newest first.
func (s *FeedService) TagFeed(ctx context.Context, viewerID uint, tag string, page, limit int) ([]FeedItem, Pagination, error) {
	if tag == "" {
		return nil, Pagination{}, apperrors.New(apperrors.Validation, "Tag is required")
	}
	page, limit = normalizePage(page, limit)

	followedIDs, err := s.follows.GetFollowingIDs(viewerID)
	if err != nil {
		return nil, Pagination{}, apperrors.Wrap(apperrors.Internal, "Failed to load tag feed", err)
	}

	skip := int64(page-1) * int64(limit)
	posts, err := s.posts.FindVisibleByTag(ctx, tag, viewerID, followedIDs, skip, int64(limit))
	if err != nil {
		return nil, Pagination{}, apperrors.Wrap(apperrors.Internal, "Failed to load tag feed", err)
	}
	total, err := s.posts.CountVisibleByTag(ctx, tag, viewerID, followedIDs)
	if err != nil {
		return nil, Pagination{}, apperrors.Wrap(apperrors.Internal, "Failed to load tag feed", err)
	}

	items, err := enrichPosts(posts, viewerID, s.users, s.likes, s.saves)
	if err != nil {
		return nil, Pagination{}, err
	}
	return items, NewPagination(page, limit, total), nil
}

// enrichPosts decorates posts with their authors and the viewer's liked and
// saved flags. Authors, likes, and saves are each fetched in one batch.
func enrichPosts(posts []models.Post, viewerID uint, users repositories.UserRepository, likes repositories.LikeRepository, saves repositories.SavedPostRepository) ([]FeedItem, error) {
	items := make([]FeedItem, 0, len(posts))
	if len(posts) == 0 {
		return items, nil
	}

	authorIDs := make([]uint, 0, len(posts))
	seen := make(map[uint]bool, len(posts))
	postIDs := make([]string, 0, len(posts))
	for i := range posts {
		postIDs = append(postIDs, posts[i].ID.Hex())
		if !seen[posts[i].UserID] {
			seen[posts[i].UserID] = true
			authorIDs = append(authorIDs, posts[i].UserID)
		}
	}

	authors, err := users.GetUsersByIDs(authorIDs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load post authors", err)
	}
	authorByID := make(map[uint]models.UserCompact, len(authors))
	for i := range authors {
		authorByID[authors[i].ID] = authors[i].ToCompact()
	}

	likedMap, err := likes.GetLikedMap(viewerID, postIDs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load like state", err)
	}
	savedMap, err := saves.GetSavedMap(viewerID, postIDs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load save state", err)
	}

	for i := range posts {
		id := posts[i].ID.Hex()
		items = append(items, FeedItem{
			Post:    posts[i],
			Author:  authorByID[posts[i].UserID],
			IsLiked: likedMap[id],
			IsSaved: savedMap[id],
		})
	}
	return items, nil
}

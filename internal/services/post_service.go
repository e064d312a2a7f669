package services

import (
	"context"
	"errors"
	"strings"

	"github.com/instashot/backend/internal/apperrors"
	"github.com/instashot/backend/internal/media"
	"github.com/instashot/backend/internal/models"
	"github.com/instashot/backend/internal/repositories"
	"go.uber.org/zap"
)

// PostService owns the post lifecycle: create with media upload, read with
// visibility enforcement, owner-only update and delete.
type PostService struct {
	posts    repositories.PostRepository
	users    repositories.UserRepository
	follows  repositories.FollowRepository
	likes    repositories.LikeRepository
	saves    repositories.SavedPostRepository
	comments repositories.CommentRepository
	media    media.Store
	logger   *zap.Logger
}

func NewPostService(
	posts repositories.PostRepository,
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	likes repositories.LikeRepository,
	saves repositories.SavedPostRepository,
	comments repositories.CommentRepository,
	mediaStore media.Store,
	logger *zap.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		users:    users,
		follows:  follows,
		likes:    likes,
		saves:    saves,
		comments: comments,
		media:    mediaStore,
		logger:   logger,
	}
}

// Create uploads the media payloads and inserts the post. If any upload
// fails, the ones that already succeeded are deleted before returning.
func (s *PostService) Create(ctx context.Context, userID uint, req models.CreatePostRequest) (*models.Post, error) {
	assets := make([]models.MediaAsset, 0, len(req.Media))
	for _, payload := range req.Media {
		asset, err := s.media.Upload(ctx, payload, "posts")
		if err != nil {
			s.rollbackAssets(ctx, assets)
			return nil, apperrors.Wrap(apperrors.Internal, "Failed to upload media", err)
		}
		assets = append(assets, models.MediaAsset{URL: asset.URL, AssetID: asset.AssetID})
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	post := &models.Post{
		UserID:      userID,
		Caption:     req.Caption,
		Description: req.Description,
		Media:       assets,
		Tags:        normalizeTags(req.Tags),
		IsPublic:    isPublic,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		s.rollbackAssets(ctx, assets)
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to create post", err)
	}
	return post, nil
}

// Get returns one post enriched for the viewer. Private posts are visible
// only to their owner and the owner's followers; to anyone else the post
// does not exist.
func (s *PostService) Get(ctx context.Context, postID string, viewerID uint) (*FeedItem, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "Post not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load post", err)
	}

	if !post.IsPublic && post.UserID != viewerID {
		following, err := s.follows.IsFollowing(viewerID, post.UserID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.Internal, "Failed to load post", err)
		}
		if !following {
			return nil, apperrors.New(apperrors.NotFound, "Post not found")
		}
	}

	items, err := enrichPosts([]models.Post{*post}, viewerID, s.users, s.likes, s.saves)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Update edits caption, description, tags, or visibility. Owner only.
func (s *PostService) Update(ctx context.Context, postID string, userID uint, req models.UpdatePostRequest) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "Post not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to update post", err)
	}
	if post.UserID != userID {
		return nil, apperrors.New(apperrors.Unauthorized, "You can only edit your own posts")
	}

	if req.Caption != "" {
		post.Caption = req.Caption
	}
	if req.Description != "" {
		post.Description = req.Description
	}
	if req.Tags != nil {
		post.Tags = normalizeTags(req.Tags)
	}
	if req.IsPublic != nil {
		post.IsPublic = *req.IsPublic
	}

	if err := s.posts.UpdatePost(ctx, postID, post); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to update post", err)
	}
	return post, nil
}

// Delete removes the post, its engagement edges, and its media. Owner only.
// Edge and media cleanup is best-effort once the document is gone.
func (s *PostService) Delete(ctx context.Context, postID string, userID uint) error {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.New(apperrors.NotFound, "Post not found")
		}
		return apperrors.Wrap(apperrors.Internal, "Failed to delete post", err)
	}
	if post.UserID != userID {
		return apperrors.New(apperrors.Unauthorized, "You can only delete your own posts")
	}

	if err := s.posts.DeletePost(ctx, postID); err != nil {
		return apperrors.Wrap(apperrors.Internal, "Failed to delete post", err)
	}
	if err := s.likes.DeleteByPostID(postID); err != nil {
		s.logger.Warn("like cleanup failed", zap.String("post_id", postID), zap.Error(err))
	}
	if err := s.saves.DeleteByPostID(postID); err != nil {
		s.logger.Warn("save cleanup failed", zap.String("post_id", postID), zap.Error(err))
	}
	if err := s.comments.DeleteByPostID(postID); err != nil {
		s.logger.Warn("comment cleanup failed", zap.String("post_id", postID), zap.Error(err))
	}
	s.rollbackAssets(ctx, post.Media)
	return nil
}

// SavedPosts returns the viewer's saved posts, most recently saved first.
func (s *PostService) SavedPosts(ctx context.Context, viewerID uint) ([]FeedItem, error) {
	savedIDs, err := s.saves.GetSavedPostIDs(viewerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load saved posts", err)
	}

	items := make([]FeedItem, 0, len(savedIDs))
	for _, id := range savedIDs {
		post, err := s.posts.GetPostByID(ctx, id)
		if err != nil {
			// The post may have been deleted since it was saved.
			if errors.Is(err, repositories.ErrPostNotFound) {
				continue
			}
			return nil, apperrors.Wrap(apperrors.Internal, "Failed to load saved posts", err)
		}
		enriched, err := enrichPosts([]models.Post{*post}, viewerID, s.users, s.likes, s.saves)
		if err != nil {
			return nil, err
		}
		items = append(items, enriched[0])
	}
	return items, nil
}

func (s *PostService) rollbackAssets(ctx context.Context, assets []models.MediaAsset) {
	for _, asset := range assets {
		if asset.AssetID == "" {
			continue
		}
		if err := s.media.Delete(ctx, asset.AssetID); err != nil {
			s.logger.Warn("media cleanup failed", zap.String("asset_id", asset.AssetID), zap.Error(err))
		}
	}
}

// normalizeTags lowercases, trims, and dedupes while keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tag, "#")))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

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

// EngagementService owns likes, saves, and comments on posts. Only the
// transition into the positive state notifies the post owner, and never for
// the owner's own activity. Saves are private and never notify.
type EngagementService struct {
	likes        repositories.LikeRepository
	saves        repositories.SavedPostRepository
	comments     repositories.CommentRepository
	commentLikes repositories.CommentLikeRepository
	posts        repositories.PostRepository
	users        repositories.UserRepository
	queue        notify.Queue
	logger       *zap.Logger
}

func NewEngagementService(
	likes repositories.LikeRepository,
	saves repositories.SavedPostRepository,
	comments repositories.CommentRepository,
	commentLikes repositories.CommentLikeRepository,
	posts repositories.PostRepository,
	users repositories.UserRepository,
	queue notify.Queue,
	logger *zap.Logger,
) *EngagementService {
	return &EngagementService{
		likes:        likes,
		saves:        saves,
		comments:     comments,
		commentLikes: commentLikes,
		posts:        posts,
		users:        users,
		queue:        queue,
		logger:       logger,
	}
}

// TogglePostLike flips the viewer's like on a post and reports the new
// state. The denormalized likes_count on the post moves with the edge;
// a failed counter bump is logged, not surfaced, since the edge table is
// the source of truth.
func (s *EngagementService) TogglePostLike(ctx context.Context, postID string, userID uint) (bool, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return false, apperrors.New(apperrors.NotFound, "Post not found")
		}
		return false, apperrors.Wrap(apperrors.Internal, "Failed to toggle like", err)
	}

	nowLiked, err := s.likes.ToggleLike(postID, userID)
	if err != nil {
		return false, apperrors.Wrap(apperrors.Internal, "Failed to toggle like", err)
	}

	delta := -1
	if nowLiked {
		delta = 1
	}
	if err := s.posts.IncrementLikesCount(ctx, postID, delta); err != nil {
		s.logger.Warn("likes_count update failed", zap.String("post_id", postID), zap.Error(err))
	}

	if nowLiked && post.UserID != userID {
		actor, err := s.users.GetUserByID(userID)
		if err != nil {
			s.logger.Warn("like notification skipped, actor lookup failed", zap.Uint("user_id", userID), zap.Error(err))
			return nowLiked, nil
		}
		pushEvent(ctx, s.queue, s.logger, post.UserID, models.NotificationEvent{
			NotificationID: models.PostEventID(postID, userID),
			Type:           models.NotificationPostLike,
			Message:        actor.Username + " liked your post: " + post.Caption,
			PostID:         postID,
			FromUser:       actor.ToCompact(),
			Timestamp:      nowMillis(),
		})
	}
	return nowLiked, nil
}

// ToggleSave flips the viewer's private save on a post.
func (s *EngagementService) ToggleSave(ctx context.Context, postID string, userID uint) (bool, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return false, apperrors.New(apperrors.NotFound, "Post not found")
		}
		return false, apperrors.Wrap(apperrors.Internal, "Failed to toggle save", err)
	}

	nowSaved, err := s.saves.ToggleSave(userID, postID)
	if err != nil {
		return false, apperrors.Wrap(apperrors.Internal, "Failed to toggle save", err)
	}
	return nowSaved, nil
}

// ToggleCommentLike flips the viewer's like on a comment. Comment likes
// never notify.
func (s *EngagementService) ToggleCommentLike(ctx context.Context, commentID, userID uint) (bool, error) {
	if _, err := s.comments.GetCommentByID(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.New(apperrors.NotFound, "Comment not found")
		}
		return false, apperrors.Wrap(apperrors.Internal, "Failed to toggle comment like", err)
	}

	nowLiked, err := s.commentLikes.ToggleLike(commentID, userID)
	if err != nil {
		return false, apperrors.Wrap(apperrors.Internal, "Failed to toggle comment like", err)
	}
	return nowLiked, nil
}

// CommentView is a comment enriched with its author and like state.
type CommentView struct {
	models.Comment
	Author     models.UserCompact `json:"author"`
	LikesCount int64              `json:"likes_count"`
	IsLiked    bool               `json:"is_liked"`
}

// CreateComment adds a comment and notifies the post owner unless the
// commenter is the owner.
func (s *EngagementService) CreateComment(ctx context.Context, postID string, userID uint, content string) (*CommentView, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "Post not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to create comment", err)
	}
	actor, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to create comment", err)
	}

	comment := &models.Comment{PostID: postID, UserID: userID, Content: content}
	if err := s.comments.CreateComment(comment); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to create comment", err)
	}
	if err := s.posts.IncrementCommentsCount(ctx, postID, 1); err != nil {
		s.logger.Warn("comments_count update failed", zap.String("post_id", postID), zap.Error(err))
	}

	if post.UserID != userID {
		pushEvent(ctx, s.queue, s.logger, post.UserID, models.NotificationEvent{
			NotificationID: models.PostEventID(postID, userID),
			Type:           models.NotificationComment,
			Message:        actor.Username + " commented your post: " + post.Caption,
			PostID:         postID,
			FromUser:       actor.ToCompact(),
			Timestamp:      nowMillis(),
		})
	}

	return &CommentView{Comment: *comment, Author: actor.ToCompact()}, nil
}

// ListComments returns a post's comments, newest first, each with its author
// and the viewer's like state.
func (s *EngagementService) ListComments(ctx context.Context, postID string, viewerID uint) ([]CommentView, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "Post not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load comments", err)
	}

	comments, err := s.comments.GetCommentsByPostID(postID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load comments", err)
	}

	authorIDs := make([]uint, 0, len(comments))
	seen := make(map[uint]bool, len(comments))
	for i := range comments {
		if !seen[comments[i].UserID] {
			seen[comments[i].UserID] = true
			authorIDs = append(authorIDs, comments[i].UserID)
		}
	}
	authors, err := s.users.GetUsersByIDs(authorIDs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load comments", err)
	}
	authorByID := make(map[uint]models.UserCompact, len(authors))
	for i := range authors {
		authorByID[authors[i].ID] = authors[i].ToCompact()
	}

	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		likesCount, err := s.commentLikes.GetLikesCount(comments[i].ID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.Internal, "Failed to load comments", err)
		}
		isLiked, err := s.commentLikes.HasUserLikedComment(comments[i].ID, viewerID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.Internal, "Failed to load comments", err)
		}
		views = append(views, CommentView{
			Comment:    comments[i],
			Author:     authorByID[comments[i].UserID],
			LikesCount: likesCount,
			IsLiked:    isLiked,
		})
	}
	return views, nil
}

// DeleteComment removes a comment. Only its author may delete it.
func (s *EngagementService) DeleteComment(ctx context.Context, commentID, userID uint) error {
	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.NotFound, "Comment not found")
		}
		return apperrors.Wrap(apperrors.Internal, "Failed to delete comment", err)
	}
	if comment.UserID != userID {
		return apperrors.New(apperrors.Unauthorized, "You can only delete your own comments")
	}

	if err := s.comments.DeleteComment(commentID); err != nil {
		return apperrors.Wrap(apperrors.Internal, "Failed to delete comment", err)
	}
	if err := s.posts.IncrementCommentsCount(ctx, comment.PostID, -1); err != nil {
		s.logger.Warn("comments_count update failed", zap.String("post_id", comment.PostID), zap.Error(err))
	}
	return nil
}

// SeeWhoLiked returns the users who liked a post, most recent first.
func (s *EngagementService) SeeWhoLiked(ctx context.Context, postID string) ([]models.UserCompact, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "Post not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load likers", err)
	}

	likerIDs, err := s.likes.GetLikerIDs(postID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load likers", err)
	}
	users, err := s.users.GetUsersByIDs(likerIDs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load likers", err)
	}

	compactByID := make(map[uint]models.UserCompact, len(users))
	for i := range users {
		compactByID[users[i].ID] = users[i].ToCompact()
	}
	// GetUsersByIDs does not preserve order, so rebuild it from the edges.
	compacts := make([]models.UserCompact, 0, len(likerIDs))
	for _, id := range likerIDs {
		if c, ok := compactByID[id]; ok {
			compacts = append(compacts, c)
		}
	}
	return compacts, nil
}

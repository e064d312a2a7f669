package services

import (
	"context"
	"errors"
	"strings"

	"github.com/instashot/backend/internal/apperrors"
	"github.com/instashot/backend/internal/media"
	"github.com/instashot/backend/internal/models"
	"github.com/instashot/backend/internal/notify"
	"github.com/instashot/backend/internal/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService owns profiles, search, and full account deletion.
type UserService struct {
	users    repositories.UserRepository
	follows  repositories.FollowRepository
	posts    repositories.PostRepository
	stories  repositories.StoryRepository
	likes    repositories.LikeRepository
	saves    repositories.SavedPostRepository
	comments repositories.CommentRepository
	media    media.Store
	queue    notify.Queue
	logger   *zap.Logger
}

func NewUserService(
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	posts repositories.PostRepository,
	stories repositories.StoryRepository,
	likes repositories.LikeRepository,
	saves repositories.SavedPostRepository,
	comments repositories.CommentRepository,
	mediaStore media.Store,
	queue notify.Queue,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:    users,
		follows:  follows,
		posts:    posts,
		stories:  stories,
		likes:    likes,
		saves:    saves,
		comments: comments,
		media:    mediaStore,
		queue:    queue,
		logger:   logger,
	}
}

// Profile is a user page: the user, their graph counts, and their posts when
// the viewer is allowed to see them.
type Profile struct {
	User           models.User   `json:"user"`
	FollowersCount int64         `json:"followers_count"`
	FollowingCount int64         `json:"following_count"`
	PostsCount     int           `json:"posts_count"`
	IsFollowing    bool          `json:"is_following"`
	IsOwn          bool          `json:"is_own"`
	Posts          []models.Post `json:"posts"`
}

// Profile assembles a user page for the viewer. Private accounts show their
// counts to everyone but their posts only to the owner and followers.
func (s *UserService) Profile(ctx context.Context, username string, viewerID uint) (*Profile, error) {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "User not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load profile", err)
	}

	followers, err := s.follows.GetFollowersCount(user.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load profile", err)
	}
	following, err := s.follows.GetFollowingCount(user.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load profile", err)
	}
	isFollowing, err := s.follows.IsFollowing(viewerID, user.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load profile", err)
	}

	posts, err := s.posts.GetPostsByUserID(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to load profile", err)
	}

	profile := &Profile{
		User:           *user,
		FollowersCount: followers,
		FollowingCount: following,
		PostsCount:     len(posts),
		IsFollowing:    isFollowing,
		IsOwn:          user.ID == viewerID,
		Posts:          []models.Post{},
	}
	if user.IsPublic || profile.IsOwn || isFollowing {
		profile.Posts = posts
	}
	return profile, nil
}

// UpdateProfile edits the caller's own profile fields. Username and email
// stay unique.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "User not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to update profile", err)
	}

	if req.Username != "" && req.Username != user.Username {
		if _, err := s.users.GetUserByUsername(req.Username); err == nil {
			return nil, apperrors.New(apperrors.Conflict, "Username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.Internal, "Failed to update profile", err)
		}
		user.Username = req.Username
	}
	if req.Fullname != "" {
		user.Fullname = req.Fullname
	}
	if req.Email != "" {
		user.Email = strings.ToLower(req.Email)
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}

	if err := s.users.UpdateUser(user); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to update profile", err)
	}
	return user, nil
}

// UpdatePrivacy flips the caller's account between public and private.
func (s *UserService) UpdatePrivacy(ctx context.Context, userID uint, isPublic bool) (*models.User, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "User not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to update privacy", err)
	}

	user.IsPublic = isPublic
	if err := s.users.UpdateUser(user); err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to update privacy", err)
	}
	return user, nil
}

// UpdateProfilePhoto replaces the caller's avatar. The previous asset is
// deleted best-effort once the new one is in place.
func (s *UserService) UpdateProfilePhoto(ctx context.Context, userID uint, payload string) (*models.User, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "User not found")
		}
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to update profile photo", err)
	}

	asset, err := s.media.Upload(ctx, payload, "avatars")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to upload profile photo", err)
	}

	oldAssetID := user.ProfilePhotoID
	user.ProfilePicture = asset.URL
	user.ProfilePhotoID = asset.AssetID
	if err := s.users.UpdateUser(user); err != nil {
		if delErr := s.media.Delete(ctx, asset.AssetID); delErr != nil {
			s.logger.Warn("media cleanup failed", zap.String("asset_id", asset.AssetID), zap.Error(delErr))
		}
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to update profile photo", err)
	}

	if oldAssetID != "" {
		if err := s.media.Delete(ctx, oldAssetID); err != nil {
			s.logger.Warn("media cleanup failed", zap.String("asset_id", oldAssetID), zap.Error(err))
		}
	}
	return user, nil
}

// SearchResult pairs users matching a query with posts tagged by it.
type SearchResult struct {
	Users []models.UserCompact `json:"users"`
	Posts []FeedItem           `json:"posts"`
}

// Search finds users by username, full name, or bio, plus every post
// carrying the query as a tag.
func (s *UserService) Search(ctx context.Context, viewerID uint, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.New(apperrors.Validation, "Search query is required")
	}
	users, err := s.users.SearchUsers(query)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to search users", err)
	}

	// Tags are stored lowercase, so the lookup is case-insensitive.
	posts, err := s.posts.FindByTag(ctx, strings.ToLower(query))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Internal, "Failed to search posts", err)
	}
	items, err := enrichPosts(posts, viewerID, s.users, s.likes, s.saves)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Users: toCompacts(users), Posts: items}, nil
}

// DeleteAccount removes the user and everything they own. The relational
// cascade commits atomically; document, media, and queue cleanup follow
// best-effort, logged when they fail.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.NotFound, "User not found")
		}
		return apperrors.Wrap(apperrors.Internal, "Failed to delete account", err)
	}

	// Snapshot owned documents first so their assets and engagement edges
	// can still be found after the rows are gone.
	posts, err := s.posts.GetPostsByUserID(ctx, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "Failed to delete account", err)
	}
	stories, err := s.stories.GetStoriesByUserID(ctx, userID)
	if err != nil {
		return apperrors.Wrap(apperrors.Internal, "Failed to delete account", err)
	}

	if err := s.users.DeleteUserCascade(userID); err != nil {
		return apperrors.Wrap(apperrors.Internal, "Failed to delete account", err)
	}

	for i := range posts {
		postID := posts[i].ID.Hex()
		if err := s.likes.DeleteByPostID(postID); err != nil {
			s.logger.Warn("like cleanup failed", zap.String("post_id", postID), zap.Error(err))
		}
		if err := s.saves.DeleteByPostID(postID); err != nil {
			s.logger.Warn("save cleanup failed", zap.String("post_id", postID), zap.Error(err))
		}
		if err := s.comments.DeleteByPostID(postID); err != nil {
			s.logger.Warn("comment cleanup failed", zap.String("post_id", postID), zap.Error(err))
		}
		s.deleteAssets(ctx, posts[i].Media)
	}
	for i := range stories {
		s.deleteAssets(ctx, stories[i].Media)
	}
	if user.ProfilePhotoID != "" {
		s.deleteAssets(ctx, []models.MediaAsset{{AssetID: user.ProfilePhotoID}})
	}

	if err := s.posts.DeleteByUserID(ctx, userID); err != nil {
		s.logger.Warn("post cleanup failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	if err := s.stories.DeleteByUserID(ctx, userID); err != nil {
		s.logger.Warn("story cleanup failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	if err := s.queue.Purge(ctx, userID); err != nil {
		s.logger.Warn("notification cleanup failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	return nil
}

func (s *UserService) deleteAssets(ctx context.Context, assets []models.MediaAsset) {
	for _, asset := range assets {
		if asset.AssetID == "" {
			continue
		}
		if err := s.media.Delete(ctx, asset.AssetID); err != nil {
			s.logger.Warn("media cleanup failed", zap.String("asset_id", asset.AssetID), zap.Error(err))
		}
	}
}

package repositories

import (
	"github.com/instashot/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for post like operations
type LikeRepository interface {
	ToggleLike(postID string, userID uint) (bool, error)
	HasUserLikedPost(postID string, userID uint) (bool, error)
	GetLikerIDs(postID string) ([]uint, error)
	GetLikesCountByPostID(postID string) (int64, error)
	GetLikedPostIDs(userID uint) ([]string, error)
	GetLikedMap(userID uint, postIDs []string) (map[string]bool, error)
	DeleteByPostID(postID string) error
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// ToggleLike flips the like edge and reports whether the post is now liked.
// Check and write share a transaction; the unique (post_id, user_id) index
// stops a racing double insert.
func (r *PostgresLikeRepository) ToggleLike(postID string, userID uint) (bool, error) {
	var nowLiked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			nowLiked = false
			return tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{}).Error
		}
		nowLiked = true
		return tx.Create(&models.Like{PostID: postID, UserID: userID}).Error
	})
	if err != nil {
		return false, err
	}
	return nowLiked, nil
}

func (r *PostgresLikeRepository) HasUserLikedPost(postID string, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresLikeRepository) GetLikerIDs(postID string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Order("created_at DESC").Pluck("user_id", &ids).Error
	return ids, err
}

func (r *PostgresLikeRepository) GetLikesCountByPostID(postID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresLikeRepository) GetLikedPostIDs(userID uint) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.Like{}).Where("user_id = ?", userID).Pluck("post_id", &ids).Error
	return ids, err
}

// GetLikedMap reports, for each of postIDs, whether userID has liked it.
func (r *PostgresLikeRepository) GetLikedMap(userID uint, postIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var likes []models.Like
	if err := r.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, l := range likes {
		result[l.PostID] = true
	}
	return result, nil
}

func (r *PostgresLikeRepository) DeleteByPostID(postID string) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.Like{}).Error
}

package repositories

import (
	"github.com/instashot/backend/internal/models"
	"gorm.io/gorm"
)

// SavedPostRepository defines the interface for saved post operations
type SavedPostRepository interface {
	ToggleSave(userID uint, postID string) (bool, error)
	IsPostSaved(userID uint, postID string) (bool, error)
	GetSavedPostIDs(userID uint) ([]string, error)
	GetSavedMap(userID uint, postIDs []string) (map[string]bool, error)
	DeleteByPostID(postID string) error
}

// PostgresSavedPostRepository implements SavedPostRepository
type PostgresSavedPostRepository struct {
	db *gorm.DB
}

func NewPostgresSavedPostRepository(db *gorm.DB) *PostgresSavedPostRepository {
	return &PostgresSavedPostRepository{db: db}
}

// ToggleSave flips the save edge and reports whether the post is now saved.
func (r *PostgresSavedPostRepository) ToggleSave(userID uint, postID string) (bool, error) {
	var nowSaved bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.SavedPost{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			nowSaved = false
			return tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.SavedPost{}).Error
		}
		nowSaved = true
		return tx.Create(&models.SavedPost{UserID: userID, PostID: postID}).Error
	})
	if err != nil {
		return false, err
	}
	return nowSaved, nil
}

func (r *PostgresSavedPostRepository) IsPostSaved(userID uint, postID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.SavedPost{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresSavedPostRepository) GetSavedPostIDs(userID uint) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.SavedPost{}).Where("user_id = ?", userID).Order("created_at DESC").Pluck("post_id", &ids).Error
	return ids, err
}

func (r *PostgresSavedPostRepository) GetSavedMap(userID uint, postIDs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var saved []models.SavedPost
	err := r.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&saved).Error
	if err != nil {
		return nil, err
	}
	for _, s := range saved {
		result[s.PostID] = true
	}
	return result, nil
}

func (r *PostgresSavedPostRepository) DeleteByPostID(postID string) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.SavedPost{}).Error
}

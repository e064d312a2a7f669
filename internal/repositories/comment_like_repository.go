package repositories

import (
	"github.com/instashot/backend/internal/models"
	"gorm.io/gorm"
)

// CommentLikeRepository defines the interface for comment like operations
type CommentLikeRepository interface {
	ToggleLike(commentID, userID uint) (bool, error)
	HasUserLikedComment(commentID, userID uint) (bool, error)
	GetLikesCount(commentID uint) (int64, error)
}

type postgresCommentLikeRepository struct {
	db *gorm.DB
}

func NewPostgresCommentLikeRepository(db *gorm.DB) CommentLikeRepository {
	return &postgresCommentLikeRepository{db: db}
}

func (r *postgresCommentLikeRepository) ToggleLike(commentID, userID uint) (bool, error) {
	var nowLiked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.CommentLike{}).Where("comment_id = ? AND user_id = ?", commentID, userID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			nowLiked = false
			return tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{}).Error
		}
		nowLiked = true
		return tx.Create(&models.CommentLike{CommentID: commentID, UserID: userID}).Error
	})
	if err != nil {
		return false, err
	}
	return nowLiked, nil
}

func (r *postgresCommentLikeRepository) HasUserLikedComment(commentID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.CommentLike{}).Where("comment_id = ? AND user_id = ?", commentID, userID).Count(&count).Error
	return count > 0, err
}

func (r *postgresCommentLikeRepository) GetLikesCount(commentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}

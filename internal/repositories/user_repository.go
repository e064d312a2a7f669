package repositories

import (
	"github.com/instashot/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUsersByIDs(ids []uint) ([]models.User, error)
	GetPublicUserIDs(excludeID uint) ([]uint, error)
	UpdateUser(user *models.User) error
	SearchUsers(query string) ([]models.User, error)
	DeleteUserCascade(id uint) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUsersByIDs(ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetPublicUserIDs returns the ids of all public profiles except excludeID.
func (r *PostgresUserRepository) GetPublicUserIDs(excludeID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.User{}).
		Where("is_public = ? AND id <> ?", true, excludeID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// SearchUsers searches for users by username, fullname or bio (case-insensitive)
func (r *PostgresUserRepository) SearchUsers(query string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := r.db.
		Where("LOWER(username) LIKE LOWER(?) OR LOWER(fullname) LIKE LOWER(?) OR LOWER(bio) LIKE LOWER(?)",
			pattern, pattern, pattern).
		Find(&users).Error
	return users, err
}

// DeleteUserCascade removes the user row together with every relational fact
// that points at it: own comments (with their likes), likes, saves, comment
// likes, and follow edges in both directions. All of it commits or none of
// it does. Document-store cleanup (posts, stories, media) is the caller's
// follow-up.
func (r *PostgresUserRepository) DeleteUserCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		commentSub := tx.Model(&models.Comment{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentSub).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.SavedPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

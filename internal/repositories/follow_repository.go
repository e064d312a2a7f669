package repositories

import (
	"github.com/instashot/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow graph operations
type FollowRepository interface {
	ToggleFollow(followerID, followingID uint) (bool, error)
	IsFollowing(followerID, followingID uint) (bool, error)
	GetFollowers(userID uint) ([]models.User, error)
	GetFollowing(userID uint) ([]models.User, error)
	GetFollowersCount(userID uint) (int64, error)
	GetFollowingCount(userID uint) (int64, error)
	GetFollowingIDs(userID uint) ([]uint, error)
	GetFollowerIDs(userID uint) ([]uint, error)
	SuggestUsers(userID uint, limit int) ([]models.User, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// ToggleFollow flips the edge followerID -> followingID and reports the new
// state. The existence check and the write run in one transaction, and the
// unique (follower_id, following_id) index rejects a racing duplicate
// insert, so the edge is never applied twice.
func (r *PostgresFollowRepository) ToggleFollow(followerID, followingID uint) (bool, error) {
	var nowFollowing bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Follow{}).
			Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			nowFollowing = false
			return tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
				Delete(&models.Follow{}).Error
		}
		nowFollowing = true
		return tx.Create(&models.Follow{FollowerID: followerID, FollowingID: followingID}).Error
	})
	if err != nil {
		return false, err
	}
	return nowFollowing, nil
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", followerID, followingID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowers(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)",
		r.db.Table("follows").Select("follower_id").Where("following_id = ?", userID),
	).Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowing(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)",
		r.db.Table("follows").Select("following_id").Where("follower_id = ?", userID),
	).Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowersCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Pluck("following_id", &ids).Error
	return ids, err
}

func (r *PostgresFollowRepository) GetFollowerIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Pluck("follower_id", &ids).Error
	return ids, err
}

// SuggestUsers returns users followed by the user's followers, excluding the
// user and anyone already followed. With no followers it falls back to the
// newest unfollowed accounts.
func (r *PostgresFollowRepository) SuggestUsers(userID uint, limit int) ([]models.User, error) {
	followerSub := r.db.Table("follows").Select("follower_id").Where("following_id = ?", userID)
	followingSub := r.db.Table("follows").Select("following_id").Where("follower_id = ?", userID)

	var users []models.User
	err := r.db.
		Where("id IN (?)", r.db.Table("follows").Select("following_id").Where("follower_id IN (?)", followerSub)).
		Where("id <> ?", userID).
		Where("id NOT IN (?)", followingSub).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	if len(users) > 0 {
		return users, nil
	}

	err = r.db.
		Where("id <> ?", userID).
		Where("id NOT IN (?)", followingSub).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

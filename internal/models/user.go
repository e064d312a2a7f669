package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is the identity row stored in PostgreSQL. The follow relation lives
// in the follows edge table, not on this row, so concurrent follow toggles
// never rewrite user rows.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"uniqueIndex;size:30"`
	Fullname       string    `json:"fullname"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	ProfilePhotoID string    `json:"-"` // asset id in the media store
	IsPublic       bool      `json:"is_public" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserCompact is the projection embedded in feed items and notifications.
type UserCompact struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:             u.ID,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

// UpdateProfileRequest defines the request body for editing a profile
type UpdateProfileRequest struct {
	Fullname string `json:"fullname,omitempty" validate:"omitempty,min=2,max=50"`
	Username string `json:"username,omitempty" validate:"omitempty,min=2,max=30"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Bio      string `json:"bio,omitempty" validate:"omitempty,max=150"`
}

// UpdatePrivacyRequest toggles profile visibility
type UpdatePrivacyRequest struct {
	IsPublic *bool `json:"is_public" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

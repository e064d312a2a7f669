package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Story is an ephemeral post stored in MongoDB. Rows outlive their expiry;
// readers filter on expires_at instead of waiting for a reaper. Viewers and
// likes are embedded so dedup and view_count stay consistent under a single
// document update.
type Story struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    uint               `json:"user_id" bson:"user_id"`
	Caption   string             `json:"caption,omitempty" bson:"caption,omitempty"`
	Media     []MediaAsset       `json:"media" bson:"media"`
	LikedBy   []uint             `json:"liked_by" bson:"liked_by"`
	Viewers   []uint             `json:"viewers" bson:"viewers"`
	ViewCount int                `json:"view_count" bson:"view_count"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time          `json:"expires_at" bson:"expires_at"`
}

// Active reports whether the story is still visible at the given instant.
func (s *Story) Active(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// CreateStoryRequest defines the request body for creating a story
type CreateStoryRequest struct {
	Media   []string `json:"media" validate:"required,min=1,dive,required"`
	Caption string   `json:"caption,omitempty" validate:"omitempty,max=2200"`
}

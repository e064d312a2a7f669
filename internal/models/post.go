package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaAsset is one uploaded media file: the public URL plus the asset id
// needed to delete it from the media store later.
type MediaAsset struct {
	URL     string `json:"url" bson:"url"`
	AssetID string `json:"-" bson:"asset_id"`
}

// Post represents a social media post stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        uint               `json:"user_id" bson:"user_id"`
	Caption       string             `json:"caption" bson:"caption"`
	Description   string             `json:"description,omitempty" bson:"description,omitempty"`
	Media         []MediaAsset       `json:"media" bson:"media"`
	Tags          []string           `json:"tags" bson:"tags"`
	IsPublic      bool               `json:"is_public" bson:"is_public"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post.
// Media entries arrive as already-validated data URLs or remote URLs.
type CreatePostRequest struct {
	Caption     string   `json:"caption" validate:"required,min=1,max=2200"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=2200"`
	Media       []string `json:"media" validate:"required,min=1,dive,required"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	IsPublic    *bool    `json:"is_public,omitempty"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Caption     string   `json:"caption,omitempty" validate:"omitempty,min=1,max=2200"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=2200"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	IsPublic    *bool    `json:"is_public,omitempty"`
}

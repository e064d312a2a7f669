package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/instashot/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrStoryNotFound is returned when a story id resolves to no document.
var ErrStoryNotFound = fmt.Errorf("story not found")

// StoryRepository defines the interface for story operations
type StoryRepository interface {
	CreateStory(ctx context.Context, story *models.Story) error
	GetStoryByID(ctx context.Context, id string) (*models.Story, error)
	FindActiveByOwners(ctx context.Context, ownerIDs []uint) ([]models.Story, error)
	FindActiveByOwner(ctx context.Context, ownerID uint) ([]models.Story, error)
	RecordView(ctx context.Context, storyID string, viewerID uint) (bool, error)
	ToggleLike(ctx context.Context, storyID string, userID uint) (bool, error)
	DeleteStory(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID uint) error
	GetStoriesByUserID(ctx context.Context, userID uint) ([]models.Story, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type mongoStoryRepository struct {
	collection *mongo.Collection
}

func NewMongoStoryRepository(db *mongo.Database) StoryRepository {
	return &mongoStoryRepository{collection: db.Collection("stories")}
}

func (r *mongoStoryRepository) CreateStory(ctx context.Context, story *models.Story) error {
	story.ID = primitive.NewObjectID()
	story.CreatedAt = time.Now()
	story.ExpiresAt = story.CreatedAt.Add(24 * time.Hour)
	if story.LikedBy == nil {
		story.LikedBy = []uint{}
	}
	if story.Viewers == nil {
		story.Viewers = []uint{}
	}
	_, err := r.collection.InsertOne(ctx, story)
	return err
}

func (r *mongoStoryRepository) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrStoryNotFound
	}
	var story models.Story
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&story)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	return &story, nil
}

func (r *mongoStoryRepository) FindActiveByOwners(ctx context.Context, ownerIDs []uint) ([]models.Story, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	filter := bson.M{
		"user_id":    bson.M{"$in": ownerIDs},
		"expires_at": bson.M{"$gt": time.Now()},
	}
	return r.find(ctx, filter)
}

func (r *mongoStoryRepository) FindActiveByOwner(ctx context.Context, ownerID uint) ([]models.Story, error) {
	filter := bson.M{
		"user_id":    ownerID,
		"expires_at": bson.M{"$gt": time.Now()},
	}
	return r.find(ctx, filter)
}

// RecordView adds viewerID to the story's viewer set and bumps view_count in
// one conditional update. The filter excludes stories already viewed by this
// viewer and stories past expiry, so a repeated call matches nothing and the
// count moves by exactly one per distinct viewer.
func (r *mongoStoryRepository) RecordView(ctx context.Context, storyID string, viewerID uint) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(storyID)
	if err != nil {
		return false, ErrStoryNotFound
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":        objID,
			"expires_at": bson.M{"$gt": time.Now()},
			"viewers":    bson.M{"$ne": viewerID},
		},
		bson.M{
			"$addToSet": bson.M{"viewers": viewerID},
			"$inc":      bson.M{"view_count": 1},
		})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// ToggleLike flips userID's membership in liked_by and reports the new
// state. Each branch is a single conditional document update, so two racing
// toggles can interleave but never corrupt the set. Both filters require the
// story to still be live, like RecordView, so a story expiring between the
// caller's read and this write rejects the like.
func (r *mongoStoryRepository) ToggleLike(ctx context.Context, storyID string, userID uint) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(storyID)
	if err != nil {
		return false, ErrStoryNotFound
	}
	now := time.Now()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":        objID,
			"expires_at": bson.M{"$gt": now},
			"liked_by":   bson.M{"$ne": userID},
		},
		bson.M{"$addToSet": bson.M{"liked_by": userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return true, nil
	}
	res, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "expires_at": bson.M{"$gt": now}},
		bson.M{"$pull": bson.M{"liked_by": userID}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrStoryNotFound
	}
	return false, nil
}

func (r *mongoStoryRepository) DeleteStory(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrStoryNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrStoryNotFound
	}
	return nil
}

func (r *mongoStoryRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

func (r *mongoStoryRepository) GetStoriesByUserID(ctx context.Context, userID uint) ([]models.Story, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// DeleteExpired removes rows past their expiry. Read paths never depend on
// it; the server's background loop calls it to reclaim storage.
func (r *mongoStoryRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *mongoStoryRepository) find(ctx context.Context, filter bson.M) ([]models.Story, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stories []models.Story
	if err = cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

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

// ErrPostNotFound is returned when a post id resolves to no document.
var ErrPostNotFound = fmt.Errorf("post not found")

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error)
	UpdatePost(ctx context.Context, id string, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID uint) error

	FindVisible(ctx context.Context, viewerID uint, followedIDs []uint, skip, limit int64) ([]models.Post, error)
	CountVisible(ctx context.Context, viewerID uint, followedIDs []uint) (int64, error)
	FindVisibleByTag(ctx context.Context, tag string, viewerID uint, followedIDs []uint, skip, limit int64) ([]models.Post, error)
	CountVisibleByTag(ctx context.Context, tag string, viewerID uint, followedIDs []uint) (int64, error)
	FindByTags(ctx context.Context, tags []string, excludeUserID uint, skip, limit int64) ([]models.Post, error)
	CountByTags(ctx context.Context, tags []string, excludeUserID uint) (int64, error)
	FindByTag(ctx context.Context, tag string) ([]models.Post, error)
	TagsOfPosts(ctx context.Context, postIDs []string) ([]string, error)
	TagsByOwners(ctx context.Context, ownerIDs []uint) ([]string, error)

	IncrementLikesCount(ctx context.Context, postID string, delta int) error
	IncrementCommentsCount(ctx context.Context, postID string, delta int) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// newestFirst sorts by created_at with _id as a stable tie-break, so offset
// pagination never reorders posts created in the same instant.
func newestFirst() bson.D {
	return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
}

// visibleFilter matches posts the viewer may see: public ones, plus anything
// authored by the viewer or an account the viewer follows.
func visibleFilter(viewerID uint, followedIDs []uint) bson.M {
	owners := append([]uint{viewerID}, followedIDs...)
	return bson.M{"$or": bson.A{
		bson.M{"is_public": true},
		bson.M{"user_id": bson.M{"$in": owners}},
	}}
}

func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *MongoPostRepository) GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error) {
	return r.find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(newestFirst()))
}

func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}

	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"caption":     post.Caption,
			"description": post.Description,
			"tags":        post.Tags,
			"is_public":   post.IsPublic,
			"updated_at":  post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *MongoPostRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

func (r *MongoPostRepository) FindVisible(ctx context.Context, viewerID uint, followedIDs []uint, skip, limit int64) ([]models.Post, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(newestFirst())
	return r.find(ctx, visibleFilter(viewerID, followedIDs), opts)
}

func (r *MongoPostRepository) CountVisible(ctx context.Context, viewerID uint, followedIDs []uint) (int64, error) {
	return r.collection.CountDocuments(ctx, visibleFilter(viewerID, followedIDs))
}

func (r *MongoPostRepository) FindVisibleByTag(ctx context.Context, tag string, viewerID uint, followedIDs []uint, skip, limit int64) ([]models.Post, error) {
	filter := visibleFilter(viewerID, followedIDs)
	filter["tags"] = tag
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(newestFirst())
	return r.find(ctx, filter, opts)
}

func (r *MongoPostRepository) CountVisibleByTag(ctx context.Context, tag string, viewerID uint, followedIDs []uint) (int64, error) {
	filter := visibleFilter(viewerID, followedIDs)
	filter["tags"] = tag
	return r.collection.CountDocuments(ctx, filter)
}

func (r *MongoPostRepository) FindByTags(ctx context.Context, tags []string, excludeUserID uint, skip, limit int64) ([]models.Post, error) {
	filter := bson.M{
		"tags":    bson.M{"$in": tags},
		"user_id": bson.M{"$ne": excludeUserID},
	}
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(newestFirst())
	return r.find(ctx, filter, opts)
}

func (r *MongoPostRepository) CountByTags(ctx context.Context, tags []string, excludeUserID uint) (int64, error) {
	filter := bson.M{
		"tags":    bson.M{"$in": tags},
		"user_id": bson.M{"$ne": excludeUserID},
	}
	return r.collection.CountDocuments(ctx, filter)
}

// FindByTag returns every post carrying the tag, newest first. Used by
// search, which matches posts by exact tag regardless of author.
func (r *MongoPostRepository) FindByTag(ctx context.Context, tag string) ([]models.Post, error) {
	return r.find(ctx, bson.M{"tags": tag}, options.Find().SetSort(newestFirst()))
}

// TagsOfPosts returns the distinct tags across the given posts.
func (r *MongoPostRepository) TagsOfPosts(ctx context.Context, postIDs []string) ([]string, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	objIDs := make([]primitive.ObjectID, 0, len(postIDs))
	for _, id := range postIDs {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objIDs = append(objIDs, objID)
	}
	return r.distinctTags(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
}

// TagsByOwners returns the distinct tags across all posts by the given owners.
func (r *MongoPostRepository) TagsByOwners(ctx context.Context, ownerIDs []uint) ([]string, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	return r.distinctTags(ctx, bson.M{"user_id": bson.M{"$in": ownerIDs}})
}

func (r *MongoPostRepository) IncrementLikesCount(ctx context.Context, postID string, delta int) error {
	return r.increment(ctx, postID, "likes_count", delta)
}

func (r *MongoPostRepository) IncrementCommentsCount(ctx context.Context, postID string, delta int) error {
	return r.increment(ctx, postID, "comments_count", delta)
}

func (r *MongoPostRepository) increment(ctx context.Context, postID, field string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrPostNotFound
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{field: delta}})
	return err
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *MongoPostRepository) distinctTags(ctx context.Context, filter bson.M) ([]string, error) {
	raw, err := r.collection.Distinct(ctx, "tags", filter)
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(raw))
	for _, v := range raw {
		if tag, ok := v.(string); ok {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

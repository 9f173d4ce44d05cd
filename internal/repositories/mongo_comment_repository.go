package repositories

import (
	"context"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCommentRepository implements CommentRepository for MongoDB.
// Likes are stored inline as an array of user ids.
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection(commentsCollection)}
}

func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	now := time.Now().UTC()
	comment.ID = primitive.NewObjectID().Hex()
	comment.Likes = []string{}
	comment.NumberOfLikes = 0
	comment.CreatedAt = now
	comment.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, comment)
	return translateMongoError(err)
}

func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, translateMongoError(err)
	}
	return normalizeLikes(&comment), nil
}

func (r *MongoCommentRepository) ListCommentsByPost(ctx context.Context, postID string, opts models.ListOptions) ([]models.Comment, error) {
	return r.list(ctx, bson.M{"postId": postID}, opts)
}

func (r *MongoCommentRepository) ListComments(ctx context.Context, opts models.ListOptions) ([]models.Comment, error) {
	return r.list(ctx, bson.M{}, opts)
}

func (r *MongoCommentRepository) list(ctx context.Context, filter bson.M, opts models.ListOptions) ([]models.Comment, error) {
	comments, err := findAll[models.Comment](ctx, r.collection, filter, findOptions("createdAt", opts))
	if err != nil {
		return nil, translateMongoError(err)
	}
	for i := range comments {
		normalizeLikes(&comments[i])
	}
	return comments, nil
}

func (r *MongoCommentRepository) CountComments(ctx context.Context, since time.Time) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, sinceFilter(since))
	return count, translateMongoError(err)
}

func (r *MongoCommentRepository) UpdateCommentContent(ctx context.Context, id, content string) (*models.Comment, error) {
	update := bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now().UTC()}}

	var comment models.Comment
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, returnAfter()).Decode(&comment); err != nil {
		return nil, translateMongoError(err)
	}
	return normalizeLikes(&comment), nil
}

// ToggleLike flips membership of userID in likes with a single pipeline
// update, so the server never holds a stale copy of the array.
func (r *MongoCommentRepository) ToggleLike(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	var comment models.Comment
	update := toggleLikePipeline(userID, time.Now().UTC())
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": commentID}, update, returnAfter()).Decode(&comment); err != nil {
		return nil, translateMongoError(err)
	}
	return normalizeLikes(&comment), nil
}

// toggleLikePipeline removes userID from likes when present and appends it
// otherwise, then recounts numberOfLikes, as one server-side update.
func toggleLikePipeline(userID string, now time.Time) mongo.Pipeline {
	uid := bson.D{{Key: "$literal", Value: userID}}
	likes := bson.D{{Key: "$ifNull", Value: bson.A{"$likes", bson.A{}}}}

	toggled := bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$in", Value: bson.A{uid, likes}}},
		bson.D{{Key: "$filter", Value: bson.D{
			{Key: "input", Value: likes},
			{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", uid}}}},
		}}},
		bson.D{{Key: "$concatArrays", Value: bson.A{likes, bson.A{uid}}}},
	}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "likes", Value: toggled}}}},
		{{Key: "$set", Value: bson.D{
			{Key: "numberOfLikes", Value: bson.D{{Key: "$size", Value: "$likes"}}},
			{Key: "updatedAt", Value: now},
		}}},
	}
}

func (r *MongoCommentRepository) DeleteComment(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}

// normalizeLikes keeps likes a JSON array even for documents written without one
func normalizeLikes(c *models.Comment) *models.Comment {
	if c.Likes == nil {
		c.Likes = []string{}
	}
	return c
}

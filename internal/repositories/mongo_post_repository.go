package repositories

import (
	"context"
	"regexp"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection(postsCollection)}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	now := time.Now().UTC()
	post.ID = primitive.NewObjectID().Hex()
	post.CreatedAt = now
	post.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, post)
	return translateMongoError(err)
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, translateMongoError(err)
	}
	return &post, nil
}

// ListPosts retrieves a filtered page of posts
func (r *MongoPostRepository) ListPosts(ctx context.Context, filter models.PostFilter, opts models.ListOptions) ([]models.Post, error) {
	posts, err := findAll[models.Post](ctx, r.collection, postQuery(filter), findOptions("updatedAt", opts))
	return posts, translateMongoError(err)
}

func postQuery(filter models.PostFilter) bson.M {
	q := bson.M{}
	if filter.UserID != "" {
		q["userId"] = filter.UserID
	}
	if filter.Category != "" {
		q["category"] = filter.Category
	}
	if filter.Slug != "" {
		q["slug"] = filter.Slug
	}
	if filter.PostID != "" {
		q["_id"] = filter.PostID
	}
	if filter.SearchTerm != "" {
		// Substring match: the term is quoted so it never acts as a pattern.
		term := primitive.Regex{Pattern: regexp.QuoteMeta(filter.SearchTerm), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"title": term},
			bson.M{"content": term},
			bson.M{"description": term},
		}
	}
	return q
}

func (r *MongoPostRepository) CountPosts(ctx context.Context, since time.Time) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, sinceFilter(since))
	return count, translateMongoError(err)
}

// UpdatePost replaces the editable fields of a post
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, update models.PostUpdate) (*models.Post, error) {
	set := bson.M{
		"title":       update.Title,
		"description": update.Description,
		"content":     update.Content,
		"category":    update.Category,
		"slug":        update.Slug,
		"updatedAt":   time.Now().UTC(),
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}

	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, returnAfter()).Decode(&post)
	if err != nil {
		return nil, translateMongoError(err)
	}
	return &post, nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}

package repositories

import (
	"context"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoContactRepository implements ContactRepository for MongoDB
type MongoContactRepository struct {
	collection *mongo.Collection
}

// NewMongoContactRepository creates a new MongoContactRepository
func NewMongoContactRepository(db *mongo.Database) *MongoContactRepository {
	return &MongoContactRepository{collection: db.Collection(contactsCollection)}
}

func (r *MongoContactRepository) CreateContact(ctx context.Context, msg *models.ContactMessage) error {
	now := time.Now().UTC()
	msg.ID = primitive.NewObjectID().Hex()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, msg)
	return translateMongoError(err)
}

func (r *MongoContactRepository) ListContacts(ctx context.Context, opts models.ListOptions) ([]models.ContactMessage, error) {
	msgs, err := findAll[models.ContactMessage](ctx, r.collection, bson.M{}, findOptions("createdAt", opts))
	return msgs, translateMongoError(err)
}

func (r *MongoContactRepository) DeleteContact(ctx context.Context, id string) error {
	return deleteByID(ctx, r.collection, id)
}

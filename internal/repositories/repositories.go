package repositories

import (
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Repositories bundles one implementation of every repository
type Repositories struct {
	Users    UserRepository
	Posts    PostRepository
	Comments CommentRepository
	Contacts ContactRepository
}

// NewGormRepositories builds the SQL-backed set for postgres and sqlite
func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:    NewGormUserRepository(db),
		Posts:    NewGormPostRepository(db),
		Comments: NewGormCommentRepository(db),
		Contacts: NewGormContactRepository(db),
	}
}

// NewMongoRepositories builds the document-store set
func NewMongoRepositories(db *mongo.Database) Repositories {
	return Repositories{
		Users:    NewMongoUserRepository(db),
		Posts:    NewMongoPostRepository(db),
		Comments: NewMongoCommentRepository(db),
		Contacts: NewMongoContactRepository(db),
	}
}

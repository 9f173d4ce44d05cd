package models

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
)

const (
	// DefaultCategory is stored when a post is created without one
	DefaultCategory = "Uncategorized"
	// DefaultPostImage is the placeholder cover image
	DefaultPostImage = "https://t4.ftcdn.net/jpg/02/07/53/83/360_F_207538366_r6yerLIhPIU5uRkk66T1QUzTcpI9rtzZ.jpg"
)

// Post represents a blog article
type Post struct {
	ID          string    `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	UserID      string    `json:"userId" bson:"userId" gorm:"index;size:36;not null"`
	Title       string    `json:"title" bson:"title" gorm:"uniqueIndex;size:100;not null"`
	Description string    `json:"description" bson:"description" gorm:"size:300"`
	Content     string    `json:"content" bson:"content" gorm:"type:text;not null"`
	Category    string    `json:"category" bson:"category" gorm:"index"`
	Image       string    `json:"image" bson:"image"`
	Slug        string    `json:"slug" bson:"slug" gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt" gorm:"index"`
}

// PostRequest is shared by create and update; both require the full set of text fields.
type PostRequest struct {
	Title       string `json:"title" validate:"required,min=5,max=100" errmsg:"min:Title must be between 5 and 100 characters long|max:Title must be between 5 and 100 characters long"`
	Description string `json:"description" validate:"required,min=10,max=300" errmsg:"min:Description must be between 10 and 300 characters long|max:Description must be between 10 and 300 characters long"`
	Content     string `json:"content" validate:"required,min=50" errmsg:"min:Content must be at least 50 characters long"`
	Category    string `json:"category" validate:"required"`
	Image       string `json:"image"`
}

// PostUpdate is the storage-level patch for a post. Image is only written when non-nil.
type PostUpdate struct {
	Title       string
	Description string
	Content     string
	Category    string
	Slug        string
	Image       *string
}

// PostFilter holds the optional get-posts filters. Empty fields are ignored;
// the rest are ANDed, SearchTerm matches title, content or description.
type PostFilter struct {
	UserID     string
	Category   string
	Slug       string
	PostID     string
	SearchTerm string
}

// PostsPage is the get-posts response
type PostsPage struct {
	Posts          []Post `json:"posts"`
	TotalPosts     int64  `json:"totalPosts"`
	LastMonthPosts int64  `json:"lastMonthPosts"`
}

// Slugify derives the URL slug of a title: lowercase with runs of
// non-alphanumerics collapsed to a single hyphen. slug.Make keeps
// underscores, so they are folded into the hyphen runs here.
func Slugify(title string) string {
	parts := strings.FieldsFunc(slug.Make(title), func(r rune) bool {
		return r == '-' || r == '_'
	})
	return strings.Join(parts, "-")
}

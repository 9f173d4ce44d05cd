package models

import "time"

// Comment represents a comment on a post. NumberOfLikes always equals len(Likes).
type Comment struct {
	ID            string    `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	PostID        string    `json:"postId" bson:"postId" gorm:"index;size:36;not null"`
	UserID        string    `json:"userId" bson:"userId" gorm:"index;size:36;not null"`
	Content       string    `json:"content" bson:"content" gorm:"type:text;not null"`
	Likes         []string  `json:"likes" bson:"likes" gorm:"-"`
	NumberOfLikes int       `json:"numberOfLikes" bson:"numberOfLikes" gorm:"default:0"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	PostID  string `json:"postId" validate:"required"`
	UserID  string `json:"userId"`
	Content string `json:"content" validate:"required"`
}

// UpdateCommentRequest defines the request body for editing a comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// CommentsPage is the admin comment listing response
type CommentsPage struct {
	Comments          []Comment `json:"comments"`
	TotalComments     int64     `json:"totalComments"`
	LastMonthComments int64     `json:"lastMonthComments"`
}

package models

import "time"

// CommentLike is the relational form of one entry in Comment.Likes.
// Only the SQL repositories use it; the document store keeps likes inline.
type CommentLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CommentID string    `json:"commentId" gorm:"size:36;index;uniqueIndex:idx_comment_user_like"`
	UserID    string    `json:"userId" gorm:"size:36;index;uniqueIndex:idx_comment_user_like"`
	CreatedAt time.Time `json:"createdAt"`
}

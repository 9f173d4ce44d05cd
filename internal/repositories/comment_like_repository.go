package repositories

import (
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The SQL stores keep Comment.Likes as rows of comment_likes, one per
// (comment, user) pair, guarded by the idx_comment_user_like unique index.
// Comment.NumberOfLikes is a denormalized count of those rows.

// toggleCommentLike removes the caller's like row if present and inserts it
// otherwise, then recounts. It must run inside a transaction.
func toggleCommentLike(tx *gorm.DB, commentID, userID string) error {
	res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if err := addCommentLike(tx, commentID, userID); err != nil {
			return err
		}
	}

	// Recount instead of +/-1 so the counter cannot drift from the rows.
	likeCount := tx.Model(&models.CommentLike{}).Select("COUNT(*)").Where("comment_id = ?", commentID)
	return tx.Model(&models.Comment{}).Where("id = ?", commentID).
		Updates(map[string]interface{}{"number_of_likes": likeCount, "updated_at": time.Now().UTC()}).Error
}

// addCommentLike inserts the like row unless a concurrent toggle by the same
// user already did; the unique index turns that race into a no-op.
func addCommentLike(tx *gorm.DB, commentID, userID string) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.CommentLike{CommentID: commentID, UserID: userID}).Error
}

// loadCommentLikes fills Likes for every comment in place, in like order
func loadCommentLikes(db *gorm.DB, comments []models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	ids := make([]string, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
		comments[i].Likes = []string{}
	}

	var likes []models.CommentLike
	if err := db.Where("comment_id IN ?", ids).Order("id ASC").Find(&likes).Error; err != nil {
		return translateGormError(err)
	}

	byComment := make(map[string][]string, len(comments))
	for _, like := range likes {
		byComment[like.CommentID] = append(byComment[like.CommentID], like.UserID)
	}
	for i := range comments {
		if userIDs, ok := byComment[comments[i].ID]; ok {
			comments[i].Likes = userIDs
		}
	}
	return nil
}

func deleteCommentLikes(tx *gorm.DB, commentID string) error {
	return tx.Where("comment_id = ?", commentID).Delete(&models.CommentLike{}).Error
}

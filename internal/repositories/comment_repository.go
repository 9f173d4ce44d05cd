package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	ListCommentsByPost(ctx context.Context, postID string, opts models.ListOptions) ([]models.Comment, error)
	ListComments(ctx context.Context, opts models.ListOptions) ([]models.Comment, error)
	CountComments(ctx context.Context, since time.Time) (int64, error)
	UpdateCommentContent(ctx context.Context, id, content string) (*models.Comment, error)
	// ToggleLike adds userID to the comment's likes if absent and removes it
	// otherwise, keeping numberOfLikes equal to len(likes), in one atomic step.
	ToggleLike(ctx context.Context, commentID, userID string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// GormCommentRepository implements CommentRepository for PostgreSQL and SQLite.
// Likes live in the comment_likes table with a unique (comment_id, user_id) index.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.Likes = []string{}
	comment.NumberOfLikes = 0
	return translateGormError(r.db.WithContext(ctx).Create(comment).Error)
}

func (r *GormCommentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, translateGormError(err)
	}
	comments := []models.Comment{comment}
	if err := loadCommentLikes(r.db.WithContext(ctx), comments); err != nil {
		return nil, err
	}
	return &comments[0], nil
}

func (r *GormCommentRepository) ListCommentsByPost(ctx context.Context, postID string, opts models.ListOptions) ([]models.Comment, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("post_id = ?", postID), opts)
}

func (r *GormCommentRepository) ListComments(ctx context.Context, opts models.ListOptions) ([]models.Comment, error) {
	return r.list(ctx, r.db.WithContext(ctx), opts)
}

func (r *GormCommentRepository) list(ctx context.Context, q *gorm.DB, opts models.ListOptions) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := q.Order(orderBy("created_at", opts.Ascending)).
		Offset(int(opts.Skip)).
		Limit(int(opts.Limit)).
		Find(&comments).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	if err := loadCommentLikes(r.db.WithContext(ctx), comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *GormCommentRepository) CountComments(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := sinceScope(r.db.WithContext(ctx).Model(&models.Comment{}), since).Count(&count).Error
	return count, translateGormError(err)
}

func (r *GormCommentRepository) UpdateCommentContent(ctx context.Context, id, content string) (*models.Comment, error) {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).
		Updates(map[string]interface{}{"content": content, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetCommentByID(ctx, id)
}

func (r *GormCommentRepository) ToggleLike(ctx context.Context, commentID, userID string) (*models.Comment, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}

		return toggleCommentLike(tx, commentID, userID)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, translateGormError(err)
	}
	return r.GetCommentByID(ctx, commentID)
}

// DeleteComment removes the comment together with its own like rows
func (r *GormCommentRepository) DeleteComment(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Comment{})
		if res.Error != nil {
			return translateGormError(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return translateGormError(deleteCommentLikes(tx, id))
	})
}

package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	// ListPosts sorts on updatedAt, newest first unless opts.Ascending.
	ListPosts(ctx context.Context, filter models.PostFilter, opts models.ListOptions) ([]models.Post, error)
	CountPosts(ctx context.Context, since time.Time) (int64, error)
	UpdatePost(ctx context.Context, id string, update models.PostUpdate) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// GormPostRepository implements PostRepository for PostgreSQL and SQLite
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

func (r *GormPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	return translateGormError(r.db.WithContext(ctx).Create(post).Error)
}

func (r *GormPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &post, nil
}

func (r *GormPostRepository) ListPosts(ctx context.Context, filter models.PostFilter, opts models.ListOptions) ([]models.Post, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Slug != "" {
		q = q.Where("slug = ?", filter.Slug)
	}
	if filter.PostID != "" {
		q = q.Where("id = ?", filter.PostID)
	}
	if filter.SearchTerm != "" {
		like := "%" + escapeLike(strings.ToLower(filter.SearchTerm)) + "%"
		q = q.Where(
			"(LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(content) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\')",
			like, like, like,
		)
	}

	posts := []models.Post{}
	err := q.Order(orderBy("updated_at", opts.Ascending)).
		Offset(int(opts.Skip)).
		Limit(int(opts.Limit)).
		Find(&posts).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return posts, nil
}

func (r *GormPostRepository) CountPosts(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := sinceScope(r.db.WithContext(ctx).Model(&models.Post{}), since).Count(&count).Error
	return count, translateGormError(err)
}

func (r *GormPostRepository) UpdatePost(ctx context.Context, id string, update models.PostUpdate) (*models.Post, error) {
	fields := map[string]interface{}{
		"title":       update.Title,
		"description": update.Description,
		"content":     update.Content,
		"category":    update.Category,
		"slug":        update.Slug,
		"updated_at":  time.Now().UTC(),
	}
	if update.Image != nil {
		fields["image"] = *update.Image
	}

	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetPostByID(ctx, id)
}

func (r *GormPostRepository) DeletePost(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		return translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

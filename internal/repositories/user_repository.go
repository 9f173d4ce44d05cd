package repositories

import (
	"context"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context, opts models.ListOptions) ([]models.User, error)
	// CountUsers counts users created at or after since; a zero since counts all.
	CountUsers(ctx context.Context, since time.Time) (int64, error)
}

// GormUserRepository implements UserRepository for PostgreSQL and SQLite
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return translateGormError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *GormUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *GormUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *GormUserRepository) first(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &user, nil
}

// UpdateUser writes only the non-nil fields of update
func (r *GormUserRepository) UpdateUser(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	fields := map[string]interface{}{"updated_at": time.Now().UTC()}
	if update.Username != nil {
		fields["username"] = *update.Username
	}
	if update.Email != nil {
		fields["email"] = *update.Email
	}
	if update.Password != nil {
		fields["password"] = *update.Password
	}
	if update.ProfilePic != nil {
		fields["profile_pic"] = *update.ProfilePic
	}

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetUserByID(ctx, id)
}

func (r *GormUserRepository) DeleteUser(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) ListUsers(ctx context.Context, opts models.ListOptions) ([]models.User, error) {
	users := []models.User{}
	err := r.db.WithContext(ctx).
		Order(orderBy("created_at", opts.Ascending)).
		Offset(int(opts.Skip)).
		Limit(int(opts.Limit)).
		Find(&users).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return users, nil
}

func (r *GormUserRepository) CountUsers(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := sinceScope(r.db.WithContext(ctx).Model(&models.User{}), since).Count(&count).Error
	return count, translateGormError(err)
}

// orderBy sorts on column with the id as tie-breaker so offset pages never overlap.
func orderBy(column string, ascending bool) string {
	if ascending {
		return column + " ASC, id ASC"
	}
	return column + " DESC, id DESC"
}

func sinceScope(db *gorm.DB, since time.Time) *gorm.DB {
	if since.IsZero() {
		return db
	}
	return db.Where("created_at >= ?", since)
}

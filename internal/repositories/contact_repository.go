package repositories

import (
	"context"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactRepository defines the interface for contact form submissions
type ContactRepository interface {
	CreateContact(ctx context.Context, msg *models.ContactMessage) error
	ListContacts(ctx context.Context, opts models.ListOptions) ([]models.ContactMessage, error)
	DeleteContact(ctx context.Context, id string) error
}

// GormContactRepository implements ContactRepository for PostgreSQL and SQLite
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

func (r *GormContactRepository) CreateContact(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	return translateGormError(r.db.WithContext(ctx).Create(msg).Error)
}

func (r *GormContactRepository) ListContacts(ctx context.Context, opts models.ListOptions) ([]models.ContactMessage, error) {
	msgs := []models.ContactMessage{}
	err := r.db.WithContext(ctx).
		Order(orderBy("created_at", opts.Ascending)).
		Offset(int(opts.Skip)).
		Limit(int(opts.Limit)).
		Find(&msgs).Error
	if err != nil {
		return nil, translateGormError(err)
	}
	return msgs, nil
}

func (r *GormContactRepository) DeleteContact(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ContactMessage{})
	if res.Error != nil {
		return translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package contact

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"portfolio/models"
)

// Repository stores accepted contact messages.
type Repository interface {
	Save(ctx context.Context, msg *models.ContactMessage) error
	// List returns messages newest first.
	List(ctx context.Context, limit, offset int) ([]models.ContactMessage, error)
	Count(ctx context.Context) (int64, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Save(ctx context.Context, msg *models.ContactMessage) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("failed to save contact message: %w", err)
	}
	return nil
}

func (r *GormRepository) List(ctx context.Context, limit, offset int) ([]models.ContactMessage, error) {
	var msgs []models.ContactMessage
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return msgs, nil
}

func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count contact messages: %w", err)
	}
	return n, nil
}

package repository

import (
	"context"

	"epunch/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MerchantRepository interface {
	Create(ctx context.Context, m *model.Merchant) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Merchant, error)
	FindBySlug(ctx context.Context, slug string) (*model.Merchant, error)
}

type merchantRepo struct{ db *gorm.DB }

func NewMerchantRepository(db *gorm.DB) MerchantRepository { return &merchantRepo{db: db} }

func (r *merchantRepo) Create(ctx context.Context, m *model.Merchant) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *merchantRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Merchant, error) {
	var m model.Merchant
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *merchantRepo) FindBySlug(ctx context.Context, slug string) (*model.Merchant, error) {
	var m model.Merchant
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error
	return &m, err
}

package repository

import (
	"context"

	"epunch/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProgramRepository interface {
	Create(ctx context.Context, p *model.LoyaltyProgram) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LoyaltyProgram, error)
	// FindByIDWithMerchant preloads the owning merchant for card snapshots.
	FindByIDWithMerchant(ctx context.Context, id uuid.UUID) (*model.LoyaltyProgram, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]model.LoyaltyProgram, error)
	Update(ctx context.Context, p *model.LoyaltyProgram) error
}

type programRepo struct{ db *gorm.DB }

func NewProgramRepository(db *gorm.DB) ProgramRepository { return &programRepo{db: db} }

func (r *programRepo) Create(ctx context.Context, p *model.LoyaltyProgram) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *programRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.LoyaltyProgram, error) {
	var p model.LoyaltyProgram
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *programRepo) FindByIDWithMerchant(ctx context.Context, id uuid.UUID) (*model.LoyaltyProgram, error) {
	var p model.LoyaltyProgram
	err := r.db.WithContext(ctx).Preload("Merchant").First(&p, id).Error
	return &p, err
}

func (r *programRepo) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]model.LoyaltyProgram, error) {
	var programs []model.LoyaltyProgram
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND active = true", merchantID).
		Order("created_at").
		Find(&programs).Error
	return programs, err
}

func (r *programRepo) Update(ctx context.Context, p *model.LoyaltyProgram) error {
	return r.db.WithContext(ctx).Save(p).Error
}

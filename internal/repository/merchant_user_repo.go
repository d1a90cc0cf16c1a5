package repository

import (
	"context"

	"epunch/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MerchantUserRepository interface {
	Create(ctx context.Context, u *model.MerchantUser) error
	FindByLogin(ctx context.Context, merchantID uuid.UUID, login string) (*model.MerchantUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.MerchantUser, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]model.MerchantUser, error)
	Update(ctx context.Context, u *model.MerchantUser) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type merchantUserRepo struct{ db *gorm.DB }

func NewMerchantUserRepository(db *gorm.DB) MerchantUserRepository {
	return &merchantUserRepo{db: db}
}

func (r *merchantUserRepo) Create(ctx context.Context, u *model.MerchantUser) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *merchantUserRepo) FindByLogin(ctx context.Context, merchantID uuid.UUID, login string) (*model.MerchantUser, error) {
	var u model.MerchantUser
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND login = ?", merchantID, login).
		First(&u).Error
	return &u, err
}

func (r *merchantUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MerchantUser, error) {
	var u model.MerchantUser
	err := r.db.WithContext(ctx).First(&u, id).Error
	return &u, err
}

func (r *merchantUserRepo) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]model.MerchantUser, error) {
	var users []model.MerchantUser
	err := r.db.WithContext(ctx).Where("merchant_id = ?", merchantID).Order("login").Find(&users).Error
	return users, err
}

func (r *merchantUserRepo) Update(ctx context.Context, u *model.MerchantUser) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *merchantUserRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.MerchantUser{}).Where("id = ?", id).Update("active", false).Error
}

func (r *merchantUserRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.MerchantUser{}).Where("id = ?", id).Update("active", true).Error
}

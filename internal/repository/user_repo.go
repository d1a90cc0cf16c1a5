package repository

import (
	"context"

	"epunch/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetOrCreateBySubject resolves the customer for a Google subject id,
	// creating the row on first login. Concurrent first logins for the same
	// subject must not produce duplicates.
	GetOrCreateBySubject(ctx context.Context, subject string) (*model.User, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	return &u, err
}

func (r *userRepo) GetOrCreateBySubject(ctx context.Context, subject string) (*model.User, error) {
	u := &model.User{GoogleSubject: subject}
	// Races on the unique google_subject index resolve to DO NOTHING; the
	// re-fetch below then sees the winner's row.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "google_subject"}}, DoNothing: true}).
		Create(u).Error
	if err != nil {
		return nil, err
	}

	var out model.User
	if err := r.db.WithContext(ctx).Where("google_subject = ?", subject).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

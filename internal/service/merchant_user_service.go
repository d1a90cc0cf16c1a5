package service

import (
	"context"
	"errors"

	"epunch/internal/apperr"
	"epunch/internal/dto"
	"epunch/internal/model"
	"epunch/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MerchantUserService manages a merchant's staff accounts. Accounts are
// soft-deleted: deactivated logins are refused by the token issuer but the
// rows (and their audit trail) remain.
type MerchantUserService interface {
	Create(ctx context.Context, merchantID uuid.UUID, req dto.CreateMerchantUserRequest) (*dto.MerchantUserResponse, error)
	List(ctx context.Context, merchantID uuid.UUID) ([]dto.MerchantUserResponse, error)
	Update(ctx context.Context, merchantID, id uuid.UUID, req dto.UpdateMerchantUserRequest) (*dto.MerchantUserResponse, error)
	Deactivate(ctx context.Context, merchantID, id uuid.UUID) error
	Reactivate(ctx context.Context, merchantID, id uuid.UUID) error
}

type merchantUserService struct {
	repo repository.MerchantUserRepository
}

func NewMerchantUserService(repo repository.MerchantUserRepository) MerchantUserService {
	return &merchantUserService{repo: repo}
}

func (s *merchantUserService) Create(ctx context.Context, merchantID uuid.UUID, req dto.CreateMerchantUserRequest) (*dto.MerchantUserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	staff := &model.MerchantUser{
		MerchantID:   merchantID,
		Login:        req.Login,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, err
	}
	return merchantUserToResponse(staff), nil
}

func (s *merchantUserService) List(ctx context.Context, merchantID uuid.UUID) ([]dto.MerchantUserResponse, error) {
	users, err := s.repo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MerchantUserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, *merchantUserToResponse(&users[i]))
	}
	return resp, nil
}

func (s *merchantUserService) Update(ctx context.Context, merchantID, id uuid.UUID, req dto.UpdateMerchantUserRequest) (*dto.MerchantUserResponse, error) {
	staff, err := s.findOwned(ctx, merchantID, id)
	if err != nil {
		return nil, err
	}
	if req.Role != "" {
		staff.Role = req.Role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			return nil, err
		}
		staff.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, staff); err != nil {
		return nil, err
	}
	return merchantUserToResponse(staff), nil
}

func (s *merchantUserService) Deactivate(ctx context.Context, merchantID, id uuid.UUID) error {
	if _, err := s.findOwned(ctx, merchantID, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *merchantUserService) Reactivate(ctx context.Context, merchantID, id uuid.UUID) error {
	if _, err := s.findOwned(ctx, merchantID, id); err != nil {
		return err
	}
	return s.repo.Reactivate(ctx, id)
}

func (s *merchantUserService) findOwned(ctx context.Context, merchantID, id uuid.UUID) (*model.MerchantUser, error) {
	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrMerchantUserNotFound
		}
		return nil, err
	}
	if staff.MerchantID != merchantID {
		return nil, apperr.ErrForbidden
	}
	return staff, nil
}

func merchantUserToResponse(u *model.MerchantUser) *dto.MerchantUserResponse {
	return &dto.MerchantUserResponse{
		ID:         u.ID.String(),
		MerchantID: u.MerchantID.String(),
		Login:      u.Login,
		Role:       u.Role,
		Active:     u.Active,
	}
}

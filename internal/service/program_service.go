package service

import (
	"context"
	"errors"

	"epunch/internal/apperr"
	"epunch/internal/dto"
	"epunch/internal/model"
	"epunch/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgramService backs the admin console's program management. RequiredPunches
// is immutable after creation: outstanding cards were earned against it.
type ProgramService interface {
	Create(ctx context.Context, merchantID uuid.UUID, req dto.CreateProgramRequest) (*dto.ProgramResponse, error)
	List(ctx context.Context, merchantID uuid.UUID) ([]dto.ProgramResponse, error)
	Update(ctx context.Context, merchantID, programID uuid.UUID, req dto.UpdateProgramRequest) (*dto.ProgramResponse, error)
	Deactivate(ctx context.Context, merchantID, programID uuid.UUID) error
}

type programService struct {
	repo repository.ProgramRepository
}

func NewProgramService(repo repository.ProgramRepository) ProgramService {
	return &programService{repo: repo}
}

func (s *programService) Create(ctx context.Context, merchantID uuid.UUID, req dto.CreateProgramRequest) (*dto.ProgramResponse, error) {
	program := &model.LoyaltyProgram{
		MerchantID:        merchantID,
		Name:              req.Name,
		Description:       req.Description,
		RequiredPunches:   req.RequiredPunches,
		RewardDescription: req.RewardDescription,
		RewardValue:       req.RewardValue,
		Active:            true,
	}
	if err := s.repo.Create(ctx, program); err != nil {
		return nil, err
	}
	return programToResponse(program), nil
}

func (s *programService) List(ctx context.Context, merchantID uuid.UUID) ([]dto.ProgramResponse, error) {
	programs, err := s.repo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProgramResponse, 0, len(programs))
	for i := range programs {
		resp = append(resp, *programToResponse(&programs[i]))
	}
	return resp, nil
}

func (s *programService) Update(ctx context.Context, merchantID, programID uuid.UUID, req dto.UpdateProgramRequest) (*dto.ProgramResponse, error) {
	program, err := s.findOwned(ctx, merchantID, programID)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		program.Name = req.Name
	}
	if req.Description != nil {
		program.Description = req.Description
	}
	if req.RewardDescription != "" {
		program.RewardDescription = req.RewardDescription
	}
	if !req.RewardValue.IsZero() {
		program.RewardValue = req.RewardValue
	}
	if err := s.repo.Update(ctx, program); err != nil {
		return nil, err
	}
	return programToResponse(program), nil
}

func (s *programService) Deactivate(ctx context.Context, merchantID, programID uuid.UUID) error {
	program, err := s.findOwned(ctx, merchantID, programID)
	if err != nil {
		return err
	}
	program.Active = false
	return s.repo.Update(ctx, program)
}

func (s *programService) findOwned(ctx context.Context, merchantID, programID uuid.UUID) (*model.LoyaltyProgram, error) {
	program, err := s.repo.FindByID(ctx, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrProgramNotFound
		}
		return nil, err
	}
	if program.MerchantID != merchantID {
		return nil, apperr.ErrForbidden
	}
	return program, nil
}

func programToResponse(p *model.LoyaltyProgram) *dto.ProgramResponse {
	return &dto.ProgramResponse{
		ID:                p.ID.String(),
		MerchantID:        p.MerchantID.String(),
		Name:              p.Name,
		Description:       p.Description,
		RequiredPunches:   p.RequiredPunches,
		RewardDescription: p.RewardDescription,
		RewardValue:       p.RewardValue,
		Active:            p.Active,
	}
}

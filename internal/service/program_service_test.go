package service

import (
	"context"
	"testing"

	"epunch/internal/apperr"
	"epunch/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramCreateAndList(t *testing.T) {
	programs := newMemPrograms()
	svc := NewProgramService(programs)
	ctx := context.Background()
	merchantID := uuid.New()

	created, err := svc.Create(ctx, merchantID, dto.CreateProgramRequest{
		Name:              "Coffee card",
		RequiredPunches:   10,
		RewardDescription: "Free espresso",
		RewardValue:       decimal.NewFromFloat(4.50),
	})
	require.NoError(t, err)
	assert.True(t, created.Active)
	assert.Equal(t, merchantID.String(), created.MerchantID)
	assert.Equal(t, 10, created.RequiredPunches)

	list, err := svc.List(ctx, merchantID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	// other tenants see nothing
	other, err := svc.List(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestProgramUpdateKeepsThreshold(t *testing.T) {
	programs := newMemPrograms()
	svc := NewProgramService(programs)
	ctx := context.Background()
	merchantID := uuid.New()

	created, err := svc.Create(ctx, merchantID, dto.CreateProgramRequest{
		Name:              "Coffee card",
		RequiredPunches:   10,
		RewardDescription: "Free espresso",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, merchantID, uuid.MustParse(created.ID), dto.UpdateProgramRequest{
		Name:              "Coffee card v2",
		RewardDescription: "Free flat white",
	})
	require.NoError(t, err)
	assert.Equal(t, "Coffee card v2", updated.Name)
	assert.Equal(t, "Free flat white", updated.RewardDescription)
	// required_punches has no update path: cards in flight were earned against it
	assert.Equal(t, 10, updated.RequiredPunches)
}

func TestProgramTenantScoping(t *testing.T) {
	programs := newMemPrograms()
	svc := NewProgramService(programs)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, dto.CreateProgramRequest{
		Name:              "Coffee card",
		RequiredPunches:   5,
		RewardDescription: "Free espresso",
	})
	require.NoError(t, err)
	programID := uuid.MustParse(created.ID)

	intruder := uuid.New()
	_, err = svc.Update(ctx, intruder, programID, dto.UpdateProgramRequest{Name: "Hijacked"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	err = svc.Deactivate(ctx, intruder, programID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Update(ctx, owner, uuid.New(), dto.UpdateProgramRequest{Name: "Ghost"})
	assert.ErrorIs(t, err, apperr.ErrProgramNotFound)
}

func TestProgramDeactivateHidesFromListing(t *testing.T) {
	programs := newMemPrograms()
	svc := NewProgramService(programs)
	ctx := context.Background()
	merchantID := uuid.New()

	created, err := svc.Create(ctx, merchantID, dto.CreateProgramRequest{
		Name:              "Coffee card",
		RequiredPunches:   5,
		RewardDescription: "Free espresso",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, merchantID, uuid.MustParse(created.ID)))

	list, err := svc.List(ctx, merchantID)
	require.NoError(t, err)
	assert.Empty(t, list)

	// existing cards still resolve the program: deactivation is not deletion
	policy := NewProgramPolicy(programs, nil, 0)
	req, err := policy.GetRequirements(ctx, uuid.MustParse(created.ID))
	require.NoError(t, err)
	assert.Equal(t, 5, req.RequiredPunches)
}

func TestPolicyUnknownProgram(t *testing.T) {
	policy := NewProgramPolicy(newMemPrograms(), nil, 0)

	_, err := policy.GetRequirements(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrProgramNotFound)
}

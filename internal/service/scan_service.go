package service

import (
	"context"
	"fmt"

	"epunch/internal/apperr"
	"epunch/internal/authz"
	"epunch/internal/dto"
	"epunch/internal/qr"

	"github.com/google/uuid"
)

// ScanService interprets a scanned QR payload and dispatches to the punch
// engine: identity scans punch the customer's card, redemption scans consume
// a completed one.
type ScanService interface {
	Scan(ctx context.Context, caller *authz.Principal, req dto.ScanRequest) (*dto.PunchOperationResult, error)
}

type scanService struct {
	engine PunchCardService
}

func NewScanService(engine PunchCardService) ScanService {
	return &scanService{engine: engine}
}

func (s *scanService) Scan(ctx context.Context, caller *authz.Principal, req dto.ScanRequest) (*dto.PunchOperationResult, error) {
	value, err := qr.Decode(req.QRPayload)
	if err != nil {
		return nil, err
	}

	switch value.Type {
	case qr.TypeUserID:
		return s.scanIdentity(ctx, caller, value, req.LoyaltyProgramID)
	case qr.TypeRedemptionPunchCard:
		return s.scanRedemption(ctx, caller, value)
	}
	// qr.Decode admits only the two variants above.
	return nil, apperr.ErrInvalidQRPayload
}

func (s *scanService) scanIdentity(ctx context.Context, caller *authz.Principal, value qr.Value, programID string) (*dto.PunchOperationResult, error) {
	// Any authenticated principal may punch: the merchant's scanner device,
	// or the customer themselves.
	if err := authz.Authorize(caller); err != nil {
		return nil, err
	}
	// A customer can only punch their own card.
	if caller.Role == "" && caller.UserID != value.UserID {
		return nil, apperr.ErrForbidden
	}

	userID, err := uuid.Parse(value.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: user_id is not a uuid", apperr.ErrInvalidQRPayload)
	}
	if programID == "" {
		return nil, fmt.Errorf("%w: identity scan requires loyalty_program_id", apperr.ErrInvalidQRPayload)
	}
	pid, err := uuid.Parse(programID)
	if err != nil {
		return nil, fmt.Errorf("%w: loyalty_program_id is not a uuid", apperr.ErrInvalidQRPayload)
	}

	return s.engine.ApplyPunch(ctx, pid, userID)
}

func (s *scanService) scanRedemption(ctx context.Context, caller *authz.Principal, value qr.Value) (*dto.PunchOperationResult, error) {
	if err := authz.Authorize(caller, authz.RoleStaff, authz.RoleAdmin); err != nil {
		return nil, err
	}
	cardID, err := uuid.Parse(value.PunchCardID)
	if err != nil {
		return nil, fmt.Errorf("%w: punch_card_id is not a uuid", apperr.ErrInvalidQRPayload)
	}
	return s.engine.Redeem(ctx, cardID, caller)
}

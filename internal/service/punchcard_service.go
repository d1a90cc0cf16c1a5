package service

import (
	"context"
	"errors"
	"time"

	"epunch/internal/apperr"
	"epunch/internal/authz"
	"epunch/internal/dto"
	"epunch/internal/lock"
	"epunch/internal/model"
	"epunch/internal/repository"
	"epunch/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PunchCardService is the punch/redemption state machine. All mutation of a
// given card is serialized: a per-card lock from the registry plus a row lock
// inside the storage transaction. Committed states of one card are therefore
// totally ordered — two concurrent punches can never both pass the threshold
// guard.
type PunchCardService interface {
	// ApplyPunch resolves or creates the card for (user, program) and applies
	// one punch. A card sitting at the threshold rejects further punches with
	// ErrRewardAlreadyReady; it never overflows and never wraps.
	ApplyPunch(ctx context.Context, programID, userID uuid.UUID) (*dto.PunchOperationResult, error)
	// Redeem consumes a completed card and resets it in place for a new
	// cycle. Staff or admin only; customers may never call this directly.
	Redeem(ctx context.Context, cardID uuid.UUID, caller *authz.Principal) (*dto.PunchOperationResult, error)

	ListForUser(ctx context.Context, userID uuid.UUID) ([]dto.PunchCardResponse, error)
	GetCard(ctx context.Context, caller *authz.Principal, cardID uuid.UUID) (*dto.PunchCardResponse, error)
}

type punchCardService struct {
	cards      repository.PunchCardRepository
	programs   repository.ProgramRepository
	policy     ProgramPolicy
	locks      *lock.Registry
	dispatcher *worker.Dispatcher // nil = notifications disabled
}

func NewPunchCardService(
	cards repository.PunchCardRepository,
	programs repository.ProgramRepository,
	policy ProgramPolicy,
	locks *lock.Registry,
	dispatcher *worker.Dispatcher,
) PunchCardService {
	return &punchCardService{
		cards:      cards,
		programs:   programs,
		policy:     policy,
		locks:      locks,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// mutate commits fn with one internal retry on transient storage failure.
// Domain rejections (threshold guards etc.) are never retried.
func (s *punchCardService) mutate(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := runTx(ctx, s.cards.DB(), fn)
	if err == nil {
		return nil
	}
	var domain *apperr.Error
	if errors.As(err, &domain) || errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	log.Warn().Err(err).Msg("punch engine: transaction failed — retrying once")
	return runTx(ctx, s.cards.DB(), fn)
}

func (s *punchCardService) ApplyPunch(ctx context.Context, programID, userID uuid.UUID) (*dto.PunchOperationResult, error) {
	// Program must exist before a card is created for it.
	if _, err := s.policy.GetRequirements(ctx, programID); err != nil {
		return nil, err
	}

	card, err := s.cards.GetOrCreate(ctx, userID, programID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(card.ID.String())
	defer unlock()

	var fresh *model.PunchCard
	var req Requirements
	err = s.mutate(ctx, func(tx *gorm.DB) error {
		var err error
		fresh, err = s.cards.FindByIDForUpdateTx(ctx, tx, card.ID)
		if err != nil {
			return err
		}
		// Threshold is re-read inside the critical section: the card never
		// embeds program data.
		req, err = s.policy.GetRequirements(ctx, fresh.LoyaltyProgramID)
		if err != nil {
			return err
		}
		if fresh.CurrentPunches >= req.RequiredPunches {
			return apperr.ErrRewardAlreadyReady
		}
		if err := s.cards.AppendPunchTx(tx, &model.Punch{PunchCardID: fresh.ID}); err != nil {
			return err
		}
		fresh.CurrentPunches++
		return s.cards.SaveTx(tx, fresh)
	})
	if err != nil {
		return nil, err
	}

	achieved := fresh.CurrentPunches == req.RequiredPunches

	program, err := s.programs.FindByIDWithMerchant(ctx, fresh.LoyaltyProgramID)
	if err != nil {
		return nil, err
	}

	if achieved {
		s.notifyRewardAchieved(ctx, fresh, program, req)
	}

	status := model.StatusActive
	if achieved {
		status = model.StatusRewardReady
	}
	return buildResult(fresh, program, req, achieved, status), nil
}

func (s *punchCardService) Redeem(ctx context.Context, cardID uuid.UUID, caller *authz.Principal) (*dto.PunchOperationResult, error) {
	if err := authz.Authorize(caller, authz.RoleStaff, authz.RoleAdmin); err != nil {
		return nil, err
	}

	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCardNotFound
		}
		return nil, err
	}

	program, err := s.programs.FindByIDWithMerchant(ctx, card.LoyaltyProgramID)
	if err != nil {
		return nil, err
	}
	// Staff may only redeem cards of their own merchant.
	if caller.MerchantID != program.MerchantID.String() {
		return nil, apperr.ErrForbidden
	}

	unlock := s.locks.Lock(cardID.String())
	defer unlock()

	var fresh *model.PunchCard
	var req Requirements
	err = s.mutate(ctx, func(tx *gorm.DB) error {
		var err error
		fresh, err = s.cards.FindByIDForUpdateTx(ctx, tx, cardID)
		if err != nil {
			return err
		}
		req, err = s.policy.GetRequirements(ctx, fresh.LoyaltyProgramID)
		if err != nil {
			return err
		}
		if fresh.CurrentPunches != req.RequiredPunches {
			return apperr.ErrRewardNotReady
		}

		s.auditLedger(ctx, fresh)

		now := time.Now()
		fresh.CurrentPunches = 0
		fresh.LastResetAt = &now
		return s.cards.SaveTx(tx, fresh)
	})
	if err != nil {
		return nil, err
	}

	// The reward was just consumed: rewardAchieved is false and the card is
	// back at the start of a cycle. REWARD_REDEEMED labels this result only —
	// it is never a resting state.
	return buildResult(fresh, program, req, false, model.StatusRewardRedeemed), nil
}

// auditLedger cross-checks the append-only punch ledger against the counter
// before a reset discards the cycle. A mismatch means a bug or manual DB
// surgery; redemption proceeds either way.
func (s *punchCardService) auditLedger(ctx context.Context, card *model.PunchCard) {
	n, err := s.cards.CountPunchesSince(ctx, card.ID, card.LastResetAt)
	if err != nil {
		return
	}
	if int(n) != card.CurrentPunches {
		log.Warn().
			Str("card_id", card.ID.String()).
			Int64("ledger", n).
			Int("counter", card.CurrentPunches).
			Msg("punch ledger out of sync with card counter")
	}
}

func (s *punchCardService) notifyRewardAchieved(ctx context.Context, card *model.PunchCard, program *model.LoyaltyProgram, req Requirements) {
	if s.dispatcher == nil || program.Merchant == nil || program.Merchant.NotifyEmail == nil {
		return
	}
	payload := worker.RewardNotifyPayload{
		MerchantEmail:     *program.Merchant.NotifyEmail,
		MerchantName:      program.Merchant.Name,
		ProgramName:       program.Name,
		RewardDescription: req.RewardDescription,
		PunchCardID:       card.ID.String(),
	}
	// Best-effort — the scan result does not depend on the notification.
	if err := s.dispatcher.EnqueueRewardNotify(ctx, payload); err != nil {
		log.Error().Err(err).Str("card_id", card.ID.String()).Msg("failed to enqueue reward notification")
	}
}

func (s *punchCardService) ListForUser(ctx context.Context, userID uuid.UUID) ([]dto.PunchCardResponse, error) {
	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PunchCardResponse, 0, len(cards))
	for i := range cards {
		resp = append(resp, cardToResponse(&cards[i]))
	}
	return resp, nil
}

func (s *punchCardService) GetCard(ctx context.Context, caller *authz.Principal, cardID uuid.UUID) (*dto.PunchCardResponse, error) {
	if err := authz.Authorize(caller); err != nil {
		return nil, err
	}

	card, err := s.cards.FindByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCardNotFound
		}
		return nil, err
	}
	program, err := s.programs.FindByIDWithMerchant(ctx, card.LoyaltyProgramID)
	if err != nil {
		return nil, err
	}

	// Owner, or staff of the owning merchant.
	isOwner := caller.Role == "" && caller.UserID == card.UserID.String()
	isMerchant := caller.Role != "" && caller.MerchantID == program.MerchantID.String()
	if !isOwner && !isMerchant {
		return nil, apperr.ErrForbidden
	}

	card.LoyaltyProgram = program
	resp := cardToResponse(card)
	return &resp, nil
}

func buildResult(card *model.PunchCard, program *model.LoyaltyProgram, req Requirements, achieved bool, status string) *dto.PunchOperationResult {
	shopName, shopAddress := merchantInfo(program)
	return &dto.PunchOperationResult{
		RewardAchieved: achieved,
		NewPunchCard: &dto.PunchCardSnapshot{
			ID:             card.ID.String(),
			ShopName:       shopName,
			ShopAddress:    shopAddress,
			CurrentPunches: card.CurrentPunches,
			TotalPunches:   req.RequiredPunches,
			Status:         status,
		},
		RequiredPunches: req.RequiredPunches,
		CurrentPunches:  card.CurrentPunches,
	}
}

func cardToResponse(card *model.PunchCard) dto.PunchCardResponse {
	resp := dto.PunchCardResponse{
		ID:               card.ID.String(),
		LoyaltyProgramID: card.LoyaltyProgramID.String(),
		CurrentPunches:   card.CurrentPunches,
	}
	if p := card.LoyaltyProgram; p != nil {
		resp.ProgramName = p.Name
		resp.TotalPunches = p.RequiredPunches
		resp.Status = card.Status(p.RequiredPunches)
		resp.ShopName, resp.ShopAddress = merchantInfo(p)
	}
	return resp
}

func merchantInfo(program *model.LoyaltyProgram) (name, address string) {
	if program == nil || program.Merchant == nil {
		return "", ""
	}
	name = program.Merchant.Name
	if program.Merchant.Address != nil {
		address = *program.Merchant.Address
	}
	return name, address
}

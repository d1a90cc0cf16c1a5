package repository

import (
	"context"
	"time"

	"epunch/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PunchCardRepository owns the card rows and their append-only punch ledger.
// Tx-suffixed methods run inside a transaction opened by the service layer;
// they accept a nil tx in unit-test mode (in-memory stubs).
type PunchCardRepository interface {
	// GetOrCreate resolves the card for (user, program), creating it on first
	// scan. Concurrent creates for the same pair collapse onto one row via
	// the unique (user_id, loyalty_program_id) index.
	GetOrCreate(ctx context.Context, userID, programID uuid.UUID) (*model.PunchCard, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.PunchCard, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.PunchCard, error)

	// FindByIDForUpdateTx re-reads the card with a row lock so the increment /
	// reset is serialized across processes, not just within this one.
	FindByIDForUpdateTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.PunchCard, error)
	SaveTx(tx *gorm.DB, card *model.PunchCard) error
	AppendPunchTx(tx *gorm.DB, punch *model.Punch) error

	// CountPunchesSince counts ledger rows for a card created after the given
	// instant (the card's last reset). Audit invariant: equals CurrentPunches.
	CountPunchesSince(ctx context.Context, cardID uuid.UUID, since *time.Time) (int64, error)

	DB() *gorm.DB
}

type punchCardRepo struct{ db *gorm.DB }

func NewPunchCardRepository(db *gorm.DB) PunchCardRepository { return &punchCardRepo{db: db} }

func (r *punchCardRepo) GetOrCreate(ctx context.Context, userID, programID uuid.UUID) (*model.PunchCard, error) {
	card := &model.PunchCard{UserID: userID, LoyaltyProgramID: programID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "loyalty_program_id"}},
			DoNothing: true,
		}).
		Create(card).Error
	if err != nil {
		return nil, err
	}

	var out model.PunchCard
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND loyalty_program_id = ?", userID, programID).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *punchCardRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PunchCard, error) {
	var card model.PunchCard
	if err := r.db.WithContext(ctx).First(&card, id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *punchCardRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.PunchCard, error) {
	var cards []model.PunchCard
	err := r.db.WithContext(ctx).
		Preload("LoyaltyProgram").
		Preload("LoyaltyProgram.Merchant").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&cards).Error
	return cards, err
}

func (r *punchCardRepo) FindByIDForUpdateTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.PunchCard, error) {
	var card model.PunchCard
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&card, id).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *punchCardRepo) SaveTx(tx *gorm.DB, card *model.PunchCard) error {
	return tx.Save(card).Error
}

func (r *punchCardRepo) AppendPunchTx(tx *gorm.DB, punch *model.Punch) error {
	return tx.Create(punch).Error
}

func (r *punchCardRepo) CountPunchesSince(ctx context.Context, cardID uuid.UUID, since *time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Punch{}).Where("punch_card_id = ?", cardID)
	if since != nil {
		q = q.Where("created_at > ?", *since)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *punchCardRepo) DB() *gorm.DB { return r.db }

package model

import (
	"time"

	"github.com/google/uuid"
)

// PunchCard is the mutable progress record for one (user, program) pair.
// Created lazily on first punch, never deleted: redemption resets it in place
// for a new earning cycle. CurrentPunches never exceeds the program threshold.
type PunchCard struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_program"`
	LoyaltyProgramID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_program"`
	CurrentPunches   int       `gorm:"not null;default:0"`
	// LastResetAt marks the most recent redemption; ledger rows after this
	// instant must count up to CurrentPunches
	LastResetAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	LoyaltyProgram *LoyaltyProgram `gorm:"foreignKey:LoyaltyProgramID"`
}

// Card status derived from CurrentPunches vs the program threshold.
// StatusRewardRedeemed is transient: it labels the result of a redemption
// call only, never a stored card.
const (
	StatusActive         = "ACTIVE"
	StatusRewardReady    = "REWARD_READY"
	StatusRewardRedeemed = "REWARD_REDEEMED"
)

// Status computes the resting status of the card against required punches.
func (c *PunchCard) Status(requiredPunches int) string {
	if c.CurrentPunches >= requiredPunches {
		return StatusRewardReady
	}
	return StatusActive
}

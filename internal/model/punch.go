package model

import (
	"time"

	"github.com/google/uuid"
)

// Punch is an append-only audit ledger entry: one row per applied punch.
// Rows created after the card's LastResetAt always count up to the card's
// CurrentPunches.
type Punch struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PunchCardID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time
}

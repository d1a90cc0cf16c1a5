package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoyaltyProgram is a merchant-defined reward rule: punches required and the
// reward granted. The punch engine treats it as read-only.
type LoyaltyProgram struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MerchantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Description *string
	// RequiredPunches is the reward threshold; always positive
	RequiredPunches   int    `gorm:"not null"`
	RewardDescription string `gorm:"not null"`
	// RewardValue is the optional monetary value shown in the admin console
	RewardValue decimal.Decimal `gorm:"type:decimal(12,2);default:0"`
	Active      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Merchant *Merchant `gorm:"foreignKey:MerchantID"`
}

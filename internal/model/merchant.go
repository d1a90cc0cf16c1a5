package model

import (
	"time"

	"github.com/google/uuid"
)

// Merchant is a business running one or more loyalty programs.
type Merchant struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"not null"`
	// Slug identifies the merchant in staff login URLs
	Slug    string `gorm:"uniqueIndex;not null"`
	Address *string
	// NotifyEmail receives reward-achieved notifications; nil = no emails
	NotifyEmail *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

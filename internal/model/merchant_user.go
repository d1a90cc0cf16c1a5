package model

import (
	"time"

	"github.com/google/uuid"
)

// MerchantUser is a staff or admin account of a merchant.
// Role: "staff" | "admin"
type MerchantUser struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MerchantID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_merchant_login"`
	Login        string    `gorm:"not null;uniqueIndex:idx_merchant_login"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Merchant *Merchant `gorm:"foreignKey:MerchantID"`
}

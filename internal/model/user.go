package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an end customer. Identity only — the platform stores no PII beyond
// the identity provider's opaque subject id.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GoogleSubject string    `gorm:"uniqueIndex;not null"`
	CreatedAt     time.Time
}

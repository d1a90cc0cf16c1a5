// Package qr encodes and decodes the scan payload carried inside a QR code.
// The payload is a tagged union: a customer identity or a redemption request
// for a specific punch card. Nothing here touches storage.
package qr

import (
	"encoding/json"
	"fmt"

	"epunch/internal/apperr"
)

type ValueType string

const (
	TypeUserID              ValueType = "user_id"
	TypeRedemptionPunchCard ValueType = "redemption_punch_card_id"
)

// Value is the decoded intent of a scanned code. Exactly one of UserID /
// PunchCardID is set, matching Type.
type Value struct {
	Type        ValueType `json:"type"`
	UserID      string    `json:"user_id,omitempty"`
	PunchCardID string    `json:"punch_card_id,omitempty"`
}

// Decode parses a raw QR payload. Unknown types and empty ids are rejected
// with apperr.ErrInvalidQRPayload so the scan endpoint can answer 400 without
// inspecting the cause.
func Decode(raw string) (Value, error) {
	var v Value
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return Value{}, fmt.Errorf("%w: %s", apperr.ErrInvalidQRPayload, "malformed JSON")
	}

	switch v.Type {
	case TypeUserID:
		if v.UserID == "" {
			return Value{}, fmt.Errorf("%w: %s", apperr.ErrInvalidQRPayload, "empty user_id")
		}
		if v.PunchCardID != "" {
			return Value{}, fmt.Errorf("%w: %s", apperr.ErrInvalidQRPayload, "unexpected punch_card_id")
		}
	case TypeRedemptionPunchCard:
		if v.PunchCardID == "" {
			return Value{}, fmt.Errorf("%w: %s", apperr.ErrInvalidQRPayload, "empty punch_card_id")
		}
		if v.UserID != "" {
			return Value{}, fmt.Errorf("%w: %s", apperr.ErrInvalidQRPayload, "unexpected user_id")
		}
	default:
		return Value{}, fmt.Errorf("%w: unknown type %q", apperr.ErrInvalidQRPayload, v.Type)
	}
	return v, nil
}

// Encode is the structural inverse of Decode: Decode(Encode(v)) == v for any
// valid Value.
func Encode(v Value) (string, error) {
	switch v.Type {
	case TypeUserID:
		if v.UserID == "" {
			return "", fmt.Errorf("%w: %s", apperr.ErrInvalidQRPayload, "empty user_id")
		}
	case TypeRedemptionPunchCard:
		if v.PunchCardID == "" {
			return "", fmt.Errorf("%w: %s", apperr.ErrInvalidQRPayload, "empty punch_card_id")
		}
	default:
		return "", fmt.Errorf("%w: unknown type %q", apperr.ErrInvalidQRPayload, v.Type)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UserValue builds an identity payload for a customer's QR code.
func UserValue(userID string) Value {
	return Value{Type: TypeUserID, UserID: userID}
}

// RedemptionValue builds a redemption payload for a completed punch card.
func RedemptionValue(punchCardID string) Value {
	return Value{Type: TypeRedemptionPunchCard, PunchCardID: punchCardID}
}

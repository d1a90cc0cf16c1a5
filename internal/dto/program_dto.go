package dto

import "github.com/shopspring/decimal"

type CreateProgramRequest struct {
	Name              string          `json:"name"               validate:"required,min=1,max=150"`
	Description       *string         `json:"description"        validate:"omitempty,max=500"`
	RequiredPunches   int             `json:"required_punches"   validate:"required,gt=0,lte=1000"`
	RewardDescription string          `json:"reward_description" validate:"required,min=1,max=500"`
	RewardValue       decimal.Decimal `json:"reward_value"       validate:"omitempty,min=0"`
}

type UpdateProgramRequest struct {
	Name              string          `json:"name"               validate:"omitempty,min=1,max=150"`
	Description       *string         `json:"description"        validate:"omitempty,max=500"`
	RewardDescription string          `json:"reward_description" validate:"omitempty,min=1,max=500"`
	RewardValue       decimal.Decimal `json:"reward_value"       validate:"omitempty,min=0"`
}

type ProgramResponse struct {
	ID                string          `json:"id"`
	MerchantID        string          `json:"merchant_id"`
	Name              string          `json:"name"`
	Description       *string         `json:"description"`
	RequiredPunches   int             `json:"required_punches"`
	RewardDescription string          `json:"reward_description"`
	RewardValue       decimal.Decimal `json:"reward_value"`
	Active            bool            `json:"active"`
}

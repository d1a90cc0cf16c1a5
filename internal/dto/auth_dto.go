package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type GoogleLoginRequest struct {
	GoogleCode string `json:"google_code" validate:"required"`
}

type MerchantLoginRequest struct {
	MerchantSlug string `json:"merchant_slug" validate:"required,min=1,max=100"`
	Login        string `json:"login"         validate:"required,min=1,max=150"`
	Password     string `json:"password"      validate:"required,min=4"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID         string `json:"id"`
	MerchantID string `json:"merchant_id,omitempty"`
	Login      string `json:"login,omitempty"`
	Role       string `json:"role,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

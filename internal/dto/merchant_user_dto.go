package dto

type CreateMerchantUserRequest struct {
	Login    string `json:"login"    validate:"required,min=1,max=150"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required,oneof=staff admin"`
}

type UpdateMerchantUserRequest struct {
	Password string `json:"password" validate:"omitempty,min=8"`
	Role     string `json:"role"     validate:"omitempty,oneof=staff admin"`
}

type MerchantUserResponse struct {
	ID         string `json:"id"`
	MerchantID string `json:"merchant_id"`
	Login      string `json:"login"`
	Role       string `json:"role"`
	Active     bool   `json:"active"`
}

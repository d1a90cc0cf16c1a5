package handler

import (
	"epunch/internal/dto"
	"epunch/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ tokens service.TokenService }

func NewAuthHandler(tokens service.TokenService) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// GoogleLogin godoc
// @Summary Customer login via Google authorization code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.GoogleLoginRequest true "Authorization code"
// @Success 200 {object} apierror.Envelope
// @Failure 401 {object} apierror.Envelope
// @Router /v1/auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tokens.IssueForCustomer(c.Request.Context(), req.GoogleCode)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// MerchantLogin godoc
// @Summary Merchant staff login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.MerchantLoginRequest true "Credentials"
// @Success 200 {object} apierror.Envelope
// @Failure 401 {object} apierror.Envelope
// @Router /v1/merchant-users/login [post]
func (h *AuthHandler) MerchantLogin(c *gin.Context) {
	var req dto.MerchantLoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.tokens.IssueForMerchantUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

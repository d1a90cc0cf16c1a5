package handler

import (
	"epunch/internal/dto"
	"epunch/internal/service"

	"github.com/gin-gonic/gin"
)

type MerchantUsersHandler struct{ svc service.MerchantUserService }

func NewMerchantUsersHandler(svc service.MerchantUserService) *MerchantUsersHandler {
	return &MerchantUsersHandler{svc: svc}
}

func (h *MerchantUsersHandler) Create(c *gin.Context) {
	merchantID, ok := callerMerchantID(c)
	if !ok {
		return
	}
	var req dto.CreateMerchantUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), merchantID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

func (h *MerchantUsersHandler) List(c *gin.Context) {
	merchantID, ok := callerMerchantID(c)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), merchantID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

func (h *MerchantUsersHandler) Update(c *gin.Context) {
	merchantID, ok := callerMerchantID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateMerchantUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), merchantID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

func (h *MerchantUsersHandler) Deactivate(c *gin.Context) {
	merchantID, ok := callerMerchantID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), merchantID, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deactivated": true})
}

func (h *MerchantUsersHandler) Reactivate(c *gin.Context) {
	merchantID, ok := callerMerchantID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), merchantID, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"reactivated": true})
}

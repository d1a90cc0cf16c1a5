package handler

import (
	"net/http"

	"epunch/internal/apierror"
	"epunch/internal/dto"
	"epunch/internal/middleware"
	"epunch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProgramsHandler struct{ svc service.ProgramService }

func NewProgramsHandler(svc service.ProgramService) *ProgramsHandler {
	return &ProgramsHandler{svc: svc}
}

// callerMerchantID extracts the merchant scope from the verified principal.
// Routes using it sit behind RequireRole, so a missing merchant id means a
// customer token slipped through — reject.
func callerMerchantID(c *gin.Context) (uuid.UUID, bool) {
	p := middleware.GetPrincipal(c)
	if p == nil || p.MerchantID == "" {
		c.JSON(http.StatusForbidden, apierror.New("merchant account required"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(p.MerchantID)
	if err != nil {
		c.JSON(http.StatusForbidden, apierror.New("merchant account required"))
		return uuid.Nil, false
	}
	return id, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *ProgramsHandler) Create(c *gin.Context) {
	merchantID, ok := callerMerchantID(c)
	if !ok {
		return
	}
	var req dto.CreateProgramRequest
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

func (h *ProgramsHandler) List(c *gin.Context) {
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

func (h *ProgramsHandler) Update(c *gin.Context) {
	merchantID, ok := callerMerchantID(c)
	if !ok {
		return
	}
	programID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProgramRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), merchantID, programID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

func (h *ProgramsHandler) Deactivate(c *gin.Context) {
	merchantID, ok := callerMerchantID(c)
	if !ok {
		return
	}
	programID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), merchantID, programID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"deactivated": true})
}

package handler

import (
	"epunch/internal/dto"
	"epunch/internal/middleware"
	"epunch/internal/service"

	"github.com/gin-gonic/gin"
)

type ScanHandler struct{ scans service.ScanService }

func NewScanHandler(scans service.ScanService) *ScanHandler {
	return &ScanHandler{scans: scans}
}

// Scan godoc
// @Summary Process a scanned QR code
// @Tags scan
// @Accept json
// @Produce json
// @Param body body dto.ScanRequest true "Scan payload"
// @Success 200 {object} apierror.Envelope
// @Failure 400 {object} apierror.Envelope
// @Failure 403 {object} apierror.Envelope
// @Failure 409 {object} apierror.Envelope
// @Router /v1/scan [post]
func (h *ScanHandler) Scan(c *gin.Context) {
	var req dto.ScanRequest
	if !bindAndValidate(c, &req) {
		return
	}
	result, err := h.scans.Scan(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

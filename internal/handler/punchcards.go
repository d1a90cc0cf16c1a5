package handler

import (
	"net/http"

	"epunch/internal/apierror"
	"epunch/internal/middleware"
	"epunch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PunchCardsHandler struct{ svc service.PunchCardService }

func NewPunchCardsHandler(svc service.PunchCardService) *PunchCardsHandler {
	return &PunchCardsHandler{svc: svc}
}

// ListMine returns the caller's own punch cards across all merchants.
func (h *PunchCardsHandler) ListMine(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if p == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return
	}
	userID, err := uuid.Parse(p.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return
	}
	resp, err := h.svc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Get returns one card for its owner or the owning merchant's staff.
func (h *PunchCardsHandler) Get(c *gin.Context) {
	cardID, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetCard(c.Request.Context(), middleware.GetPrincipal(c), cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

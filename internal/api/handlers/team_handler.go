package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/gin-gonic/gin"
)

type TeamReader interface {
	Burn(ctx context.Context, scope string) (domain.TeamBurn, error)
	CFOOverview(ctx context.Context, scope string) (domain.CFOOverview, error)
}

type TeamHandler struct {
	service TeamReader
}

func NewTeamHandler(service TeamReader) *TeamHandler {
	return &TeamHandler{service: service}
}

func (h *TeamHandler) GetBurn(c *gin.Context) {
	burn, err := h.service.Burn(c.Request.Context(), scope(c))
	if err != nil {
		respondError(c, err, "failed to fetch team burn")
		return
	}

	c.JSON(http.StatusOK, burn)
}

func (h *TeamHandler) GetCFOOverview(c *gin.Context) {
	overview, err := h.service.CFOOverview(c.Request.Context(), scope(c))
	if err != nil {
		respondError(c, err, "failed to fetch cfo overview")
		return
	}

	c.JSON(http.StatusOK, overview)
}

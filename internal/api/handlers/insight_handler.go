package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/gin-gonic/gin"
)

type InsightGenerator interface {
	Latest(ctx context.Context) (domain.DailyInsight, error)
	Generate(ctx context.Context) (domain.WeeklyBriefing, error)
}

type InsightHandler struct {
	service InsightGenerator
}

func NewInsightHandler(service InsightGenerator) *InsightHandler {
	return &InsightHandler{service: service}
}

func (h *InsightHandler) GetLatest(c *gin.Context) {
	insight, err := h.service.Latest(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to fetch latest insight")
		return
	}

	c.JSON(http.StatusOK, insight)
}

func (h *InsightHandler) Generate(c *gin.Context) {
	briefing, err := h.service.Generate(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to generate insight")
		return
	}

	c.JSON(http.StatusCreated, briefing)
}

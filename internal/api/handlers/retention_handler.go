package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/gin-gonic/gin"
)

type RetentionReader interface {
	Churn(ctx context.Context, scope string) (domain.ChurnSummary, error)
	Cohorts(ctx context.Context, scope string) (domain.CohortSummary, error)
}

type RetentionHandler struct {
	service RetentionReader
}

func NewRetentionHandler(service RetentionReader) *RetentionHandler {
	return &RetentionHandler{service: service}
}

func (h *RetentionHandler) GetChurn(c *gin.Context) {
	summary, err := h.service.Churn(c.Request.Context(), scope(c))
	if err != nil {
		respondError(c, err, "failed to fetch churn")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *RetentionHandler) GetCohorts(c *gin.Context) {
	summary, err := h.service.Cohorts(c.Request.Context(), scope(c))
	if err != nil {
		respondError(c, err, "failed to fetch cohorts")
		return
	}

	c.JSON(http.StatusOK, summary)
}

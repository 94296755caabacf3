package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/andresuchdata/hypnoscale/internal/storage"
	"github.com/gin-gonic/gin"
)

type FinanceReader interface {
	Today() time.Time
	Dashboard(ctx context.Context, scope string, r domain.DateRange) (domain.FinanceDashboard, error)
	Daily(ctx context.Context, scope string, r domain.DateRange) ([]domain.DailyMetric, error)
}

type SnapshotExporter interface {
	ExportFinance(ctx context.Context, r domain.DateRange) (string, domain.FinanceDashboard, error)
	List(ctx context.Context) ([]storage.ObjectInfo, error)
}

type FinanceHandler struct {
	service   FinanceReader
	snapshots SnapshotExporter
}

// NewFinanceHandler creates the handler. snapshots may be nil when no bucket is configured.
func NewFinanceHandler(service FinanceReader, snapshots SnapshotExporter) *FinanceHandler {
	return &FinanceHandler{service: service, snapshots: snapshots}
}

func (h *FinanceHandler) parseRange(c *gin.Context) (domain.DateRange, error) {
	return domain.ParseDateRange(c.Query("start"), c.Query("end"), h.service.Today())
}

func (h *FinanceHandler) GetDashboard(c *gin.Context) {
	r, err := h.parseRange(c)
	if err != nil {
		respondError(c, err, "invalid date range")
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), scope(c), r)
	if err != nil {
		respondError(c, err, "failed to fetch finance dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *FinanceHandler) GetDaily(c *gin.Context) {
	r, err := h.parseRange(c)
	if err != nil {
		respondError(c, err, "invalid date range")
		return
	}

	daily, err := h.service.Daily(c.Request.Context(), scope(c), r)
	if err != nil {
		respondError(c, err, "failed to fetch daily metrics")
		return
	}

	c.JSON(http.StatusOK, gin.H{"range": r, "daily": daily})
}

func (h *FinanceHandler) ExportSnapshot(c *gin.Context) {
	if h.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot storage is not configured"})
		return
	}

	r, err := h.parseRange(c)
	if err != nil {
		respondError(c, err, "invalid date range")
		return
	}

	key, dashboard, err := h.snapshots.ExportFinance(c.Request.Context(), r)
	if err != nil {
		respondError(c, err, "failed to export snapshot")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key, "generated_at": dashboard.GeneratedAt})
}

func (h *FinanceHandler) ListSnapshots(c *gin.Context) {
	if h.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot storage is not configured"})
		return
	}

	objects, err := h.snapshots.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list snapshots")
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshots": objects})
}

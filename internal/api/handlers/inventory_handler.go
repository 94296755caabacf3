package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/hypnoscale/internal/domain"
	"github.com/gin-gonic/gin"
)

type InventoryManager interface {
	Dashboard(ctx context.Context, scope string) (domain.InventoryDashboard, error)
	Restock(ctx context.Context, batch domain.NewBatch) (domain.InventoryBatch, error)
	VerifyMapping(ctx context.Context, productID string, edits domain.PendingEdits) (domain.ProductMapping, error)
}

type InventoryHandler struct {
	service InventoryManager
}

func NewInventoryHandler(service InventoryManager) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func (h *InventoryHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.Dashboard(c.Request.Context(), scope(c))
	if err != nil {
		respondError(c, err, "failed to fetch inventory dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *InventoryHandler) CreateBatch(c *gin.Context) {
	var batch domain.NewBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch payload", "details": err.Error()})
		return
	}

	created, err := h.service.Restock(c.Request.Context(), batch)
	if err != nil {
		respondError(c, err, "failed to add inventory batch")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// VerifyMapping takes the reviewer's pending edits keyed by product id and applies the one for the path id.
func (h *InventoryHandler) VerifyMapping(c *gin.Context) {
	var edits domain.PendingEdits
	if err := c.ShouldBindJSON(&edits); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pending edits", "details": err.Error()})
		return
	}

	mapping, err := h.service.VerifyMapping(c.Request.Context(), c.Param("product_id"), edits)
	if err != nil {
		respondError(c, err, "failed to verify product mapping")
		return
	}

	c.JSON(http.StatusOK, mapping)
}

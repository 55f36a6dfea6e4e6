package handlers

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"backend/internal/cache"
	"backend/internal/inventory"
)

type StockChangeRequest struct {
	Quantity  int      `json:"quantity" binding:"required"`
	VariantID string   `json:"variantId"`
	CostPrice *float64 `json:"costPrice"`
	Date      string   `json:"date"`
	Source    string   `json:"source"`
}

func parseMovementDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse("2006-01-02", trimmed); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, trimmed)
}

func stockChangeFromRequest(c *gin.Context, req StockChangeRequest) (inventory.StockChange, bool) {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return inventory.StockChange{}, false
	}

	date, err := parseMovementDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return inventory.StockChange{}, false
	}

	if req.CostPrice != nil && *req.CostPrice < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "costPrice must be zero or greater"})
		return inventory.StockChange{}, false
	}

	return inventory.StockChange{
		ProductID: productID,
		VariantID: strings.TrimSpace(req.VariantID),
		Quantity:  req.Quantity,
		CostPrice: req.CostPrice,
		Date:      date,
		Source:    strings.TrimSpace(req.Source),
	}, true
}

func respondStockError(c *gin.Context, log *zap.SugaredLogger, err error) {
	switch {
	case errors.Is(err, inventory.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, inventory.ErrVariantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "variant not found"})
	case errors.Is(err, inventory.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be greater than zero"})
	default:
		log.Errorw("stock change failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
	}
}

// AddStock records a stock-in movement and bumps the on-hand quantity.
func AddStock(svc *inventory.Service, dashboards cache.DashboardCache, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StockChangeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		change, ok := stockChangeFromRequest(c, req)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := svc.AddStock(ctx, change)
		if err != nil {
			respondStockError(c, log, err)
			return
		}

		if err := dashboards.Invalidate(ctx); err != nil {
			log.Warnw("dashboard cache invalidation failed", "error", err)
		}

		c.JSON(http.StatusOK, product)
	}
}

// WithdrawStock records a stock-out movement, flooring the quantity at zero.
func WithdrawStock(svc *inventory.Service, dashboards cache.DashboardCache, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req StockChangeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		change, ok := stockChangeFromRequest(c, req)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := svc.RemoveStock(ctx, change)
		if err != nil {
			respondStockError(c, log, err)
			return
		}

		if err := dashboards.Invalidate(ctx); err != nil {
			log.Warnw("dashboard cache invalidation failed", "error", err)
		}

		c.JSON(http.StatusOK, product)
	}
}

// GetMovements returns one page of a product's ledger, newest first.
func GetMovements(svc *inventory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		movements, total, err := svc.Movements(ctx, productID, page, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		totalPages := int64(0)
		if total > 0 {
			totalPages = int64(math.Ceil(float64(total) / float64(limit)))
		}

		c.JSON(http.StatusOK, gin.H{
			"data": movements,
			"pagination": gin.H{
				"page":       clampPage(page, totalPages),
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
				"window":     pageWindow(page, totalPages),
			},
		})
	}
}

package handlers

import (
	"context"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"backend/internal/cache"
	"backend/internal/inventory"
	"backend/internal/models"
	"backend/internal/reports"
)

func parseWindow(raw string) (reports.Window, bool) {
	switch raw {
	case "", string(reports.Weekly):
		return reports.Weekly, true
	case string(reports.Monthly):
		return reports.Monthly, true
	default:
		return "", false
	}
}

func windowStart(window reports.Window, now time.Time) time.Time {
	if window == reports.Monthly {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first.AddDate(0, -5, 0)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -6)
}

// GetDashboardSummary aggregates revenue buckets, ledger totals and the
// low-stock count for one window, serving from cache when a fresh copy exists.
func GetDashboardSummary(db *mongo.Database, dashboards cache.DashboardCache, lowStockThreshold int, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		window, ok := parseWindow(c.Query("window"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window must be weekly or monthly"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if cached, hit, err := dashboards.GetSummary(ctx, window); err != nil {
			log.Warnw("dashboard cache read failed", "window", window, "error", err)
		} else if hit {
			c.JSON(http.StatusOK, cached)
			return
		}

		now := time.Now()
		since := windowStart(window, now)

		orderCursor, err := db.Collection("orders").Find(ctx, bson.M{
			"createdAt": bson.M{"$gte": since},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		orders := make([]models.Order, 0)
		if err := orderCursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		movementCursor, err := db.Collection("inventory_movements").Find(ctx, bson.M{
			"createdAt": bson.M{"$gte": since},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		movements := make([]models.InventoryMovement, 0)
		if err := movementCursor.All(ctx, &movements); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		products, err := activeProducts(ctx, db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		lowStockCount := 0
		for _, p := range products {
			if inventory.IsLowStock(p, lowStockThreshold) {
				lowStockCount++
			}
		}

		buckets := reports.RevenueBuckets(orders, window, now)
		totalRevenue := 0.0
		for _, b := range buckets {
			totalRevenue += b.Total
		}
		totalIn, totalOut := reports.MovementTotals(movements)

		summary := &reports.DashboardSummary{
			Window:        window,
			Revenue:       buckets,
			TotalRevenue:  totalRevenue,
			OrderCount:    len(orders),
			TotalIn:       totalIn,
			TotalOut:      totalOut,
			LowStockCount: lowStockCount,
		}

		if err := dashboards.SetSummary(ctx, summary); err != nil {
			log.Warnw("dashboard cache write failed", "window", window, "error", err)
		}

		c.JSON(http.StatusOK, summary)
	}
}

type lowStockAlert struct {
	ProductID string             `json:"productId"`
	Name      string             `json:"name"`
	Quantity  int                `json:"quantity"`
	Severity  inventory.Severity `json:"severity"`
	VariantID string             `json:"variantId,omitempty"`
	Size      string             `json:"size,omitempty"`
	Color     string             `json:"color,omitempty"`
}

// GetLowStockAlerts lists every product or variant at or below the threshold,
// most depleted first.
func GetLowStockAlerts(db *mongo.Database, lowStockThreshold int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		products, err := activeProducts(ctx, db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		alerts := make([]lowStockAlert, 0)
		for _, p := range products {
			if p.HasVariants {
				for _, low := range inventory.LowStockVariants(p, lowStockThreshold) {
					alerts = append(alerts, lowStockAlert{
						ProductID: p.ID.Hex(),
						Name:      p.Name,
						Quantity:  low.Available,
						Severity:  inventory.Classify(low.Available, lowStockThreshold),
						VariantID: low.Variant.ID,
						Size:      low.Variant.Size,
						Color:     low.Variant.Color,
					})
				}
				continue
			}
			if inventory.IsLowStock(p, lowStockThreshold) {
				alerts = append(alerts, lowStockAlert{
					ProductID: p.ID.Hex(),
					Name:      p.Name,
					Quantity:  p.Quantity,
					Severity:  inventory.Classify(p.Quantity, lowStockThreshold),
				})
			}
		}

		sort.SliceStable(alerts, func(i, j int) bool {
			return alerts[i].Quantity < alerts[j].Quantity
		})

		total := int64(len(alerts))
		totalPages := int64(0)
		if total > 0 {
			totalPages = int64(math.Ceil(float64(total) / float64(limit)))
		}
		page = clampPage(page, totalPages)

		start := (page - 1) * limit
		end := start + limit
		if start > total {
			start = total
		}
		if end > total {
			end = total
		}

		c.JSON(http.StatusOK, gin.H{
			"data": alerts[start:end],
			"pagination": gin.H{
				"page":       page,
				"limit":      limit,
				"total":      total,
				"totalPages": totalPages,
				"window":     pageWindow(page, totalPages),
			},
		})
	}
}

func activeProducts(ctx context.Context, db *mongo.Database) ([]models.Product, error) {
	cursor, err := db.Collection("products").Find(ctx, bson.M{
		"isDeleted": bson.M{"$ne": true},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

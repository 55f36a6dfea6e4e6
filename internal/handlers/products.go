package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"backend/internal/cache"
	"backend/internal/inventory"
	"backend/internal/models"
)

/* =======================
   REQUEST MODELS
======================= */

type VariantRequest struct {
	Size      string  `json:"size" binding:"required"`
	Color     string  `json:"color" binding:"required"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"costPrice"`
	SellPrice float64 `json:"sellPrice"`
}

type ProductCreateRequest struct {
	Name             string           `json:"name" binding:"required"`
	Description      string           `json:"description"`
	Unit             string           `json:"unit"`
	Category         string           `json:"category"`
	PurchaseLocation string           `json:"purchaseLocation"`
	HasVariants      bool             `json:"hasVariants"`
	Quantity         *int             `json:"quantity"`
	CostPrice        *float64         `json:"costPrice"`
	SellPrice        *float64         `json:"sellPrice"`
	Variants         []VariantRequest `json:"variants"`
}

type ProductUpdateRequest struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	Unit             *string  `json:"unit"`
	Category         *string  `json:"category"`
	PurchaseLocation *string  `json:"purchaseLocation"`
	CostPrice        *float64 `json:"costPrice"`
	SellPrice        *float64 `json:"sellPrice"`
}

/* =======================
   HELPERS
======================= */

// buildVariants validates a variant list and assigns ids. The (size, color)
// pair must be unique; a duplicate rejects the whole request.
func buildVariants(input []VariantRequest) ([]models.Variant, error) {
	seen := map[string]struct{}{}
	variants := make([]models.Variant, 0, len(input))

	for _, v := range input {
		size := strings.TrimSpace(v.Size)
		color := strings.TrimSpace(v.Color)
		if size == "" || color == "" {
			return nil, fmt.Errorf("variant size and color are required")
		}
		key := strings.ToLower(size) + "|" + strings.ToLower(color)
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("duplicate variant: %s / %s", size, color)
		}
		seen[key] = struct{}{}

		if v.Quantity < 0 {
			return nil, fmt.Errorf("variant quantity must be zero or greater")
		}
		if v.CostPrice < 0 || v.SellPrice < 0 {
			return nil, fmt.Errorf("variant prices must be zero or greater")
		}

		variants = append(variants, models.Variant{
			ID:        uuid.NewString(),
			Size:      size,
			Color:     color,
			Quantity:  v.Quantity,
			CostPrice: v.CostPrice,
			SellPrice: v.SellPrice,
		})
	}

	if len(variants) == 0 {
		return nil, fmt.Errorf("at least one variant is required")
	}
	return variants, nil
}

/* =======================
   LIST
======================= */

func GetProducts(db *mongo.Database, lowStockThreshold int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		filter := bson.M{"isDeleted": bson.M{"$ne": true}}

		if category := strings.TrimSpace(c.Query("category")); category != "" {
			filter["category"] = category
		}
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			filter["$or"] = []bson.M{
				{"name": bson.M{"$regex": search, "$options": "i"}},
				{"description": bson.M{"$regex": search, "$options": "i"}},
			}
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		coll := db.Collection("products")
		total, err := coll.CountDocuments(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		totalPages := int64(0)
		if total > 0 {
			totalPages = int64(math.Ceil(float64(total) / float64(limit)))
		}
		page = clampPage(page, totalPages)

		opts := options.Find().
			SetSkip((page - 1) * limit).
			SetLimit(limit).
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		cursor, err := coll.Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		items := make([]gin.H, 0, len(products))
		for _, p := range products {
			items = append(items, gin.H{
				"product":  p,
				"lowStock": inventory.IsLowStock(p, lowStockThreshold),
				"severity": inventory.Classify(p.TotalQuantity(), lowStockThreshold),
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"data": items,
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

func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":       id,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

/* =======================
   CREATE
======================= */

func CreateProduct(db *mongo.Database, dashboards cache.DashboardCache, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}

		now := time.Now()
		product := models.Product{
			Name:             name,
			Description:      strings.TrimSpace(req.Description),
			Unit:             strings.TrimSpace(req.Unit),
			Category:         strings.TrimSpace(req.Category),
			PurchaseLocation: strings.TrimSpace(req.PurchaseLocation),
			HasVariants:      req.HasVariants,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		// A product is either flat (mandatory quantity and prices) or
		// variant-backed (each variant carries its own), never both.
		if req.HasVariants {
			variants, err := buildVariants(req.Variants)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			product.Variants = variants
			product.Quantity = product.TotalQuantity()
		} else {
			if req.Quantity == nil || req.CostPrice == nil || req.SellPrice == nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "quantity, costPrice and sellPrice are required"})
				return
			}
			if *req.Quantity < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be zero or greater"})
				return
			}
			if *req.CostPrice < 0 || *req.SellPrice < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "prices must be zero or greater"})
				return
			}
			product.Quantity = *req.Quantity
			product.CostPrice = *req.CostPrice
			product.SellPrice = *req.SellPrice
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection("products").InsertOne(ctx, product)
		if err != nil {
			log.Errorw("product insert failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		product.ID = res.InsertedID.(primitive.ObjectID)

		// Seed the ledger so the opening stock reconciles with history.
		if product.TotalQuantity() > 0 {
			movements := openingMovements(product)
			if _, err := db.Collection("inventory_movements").InsertMany(ctx, movements); err != nil {
				log.Errorw("opening movement write failed", "productId", product.ID.Hex(), "error", err)
			}
		}

		// Opening stock feeds the ledger totals and the low-stock count.
		if err := dashboards.Invalidate(ctx); err != nil {
			log.Warnw("dashboard cache invalidation failed", "error", err)
		}

		log.Infow("product created", "productId", product.ID.Hex(), "name", product.Name)
		c.JSON(http.StatusCreated, product)
	}
}

// openingMovements builds "in" records for a product's initial stock.
func openingMovements(product models.Product) []interface{} {
	now := time.Now()
	movements := make([]interface{}, 0)

	if product.HasVariants {
		for _, v := range product.Variants {
			if v.Quantity <= 0 {
				continue
			}
			cost := v.CostPrice
			movements = append(movements, models.InventoryMovement{
				ProductID: product.ID,
				VariantID: v.ID,
				Date:      now,
				Type:      models.MovementIn,
				Quantity:  v.Quantity,
				CostPrice: &cost,
				Source:    "initial",
				CreatedAt: now,
			})
		}
		return movements
	}

	cost := product.CostPrice
	movements = append(movements, models.InventoryMovement{
		ProductID: product.ID,
		Date:      now,
		Type:      models.MovementIn,
		Quantity:  product.Quantity,
		CostPrice: &cost,
		Source:    "initial",
		CreatedAt: now,
	})
	return movements
}

/* =======================
   UPDATE
======================= */

// UpdateProduct applies a partial update to descriptive and pricing fields.
// Quantity is never mutated here; stock moves only through the inventory
// endpoints so the ledger stays consistent.
func UpdateProduct(db *mongo.Database, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{}
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
				return
			}
			update["name"] = name
		}
		if req.Description != nil {
			update["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Unit != nil {
			update["unit"] = strings.TrimSpace(*req.Unit)
		}
		if req.Category != nil {
			update["category"] = strings.TrimSpace(*req.Category)
		}
		if req.PurchaseLocation != nil {
			update["purchaseLocation"] = strings.TrimSpace(*req.PurchaseLocation)
		}
		if req.CostPrice != nil {
			if *req.CostPrice < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "costPrice must be zero or greater"})
				return
			}
			update["costPrice"] = *req.CostPrice
		}
		if req.SellPrice != nil {
			if *req.SellPrice < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "sellPrice must be zero or greater"})
				return
			}
			update["sellPrice"] = *req.SellPrice
		}

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		update["updatedAt"] = time.Now()

		ctx, cancel := requestContext(c)
		defer cancel()

		var updated models.Product
		err = db.Collection("products").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			log.Errorw("product update failed", "productId", id.Hex(), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

/* =======================
   VARIANTS
======================= */

// AddVariant appends a new size/color variant. Duplicate pairs are rejected
// and the variant list is left unchanged.
func AddVariant(db *mongo.Database, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req VariantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{
			"_id":       id,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if !product.HasVariants {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product does not use variants"})
			return
		}

		size := strings.TrimSpace(req.Size)
		color := strings.TrimSpace(req.Color)
		for _, v := range product.Variants {
			if strings.EqualFold(v.Size, size) && strings.EqualFold(v.Color, color) {
				c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("duplicate variant: %s / %s", size, color)})
				return
			}
		}

		if req.Quantity < 0 || req.CostPrice < 0 || req.SellPrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "variant values must be zero or greater"})
			return
		}

		variant := models.Variant{
			ID:        uuid.NewString(),
			Size:      size,
			Color:     color,
			Quantity:  req.Quantity,
			CostPrice: req.CostPrice,
			SellPrice: req.SellPrice,
		}
		product.Variants = append(product.Variants, variant)

		_, err = db.Collection("products").UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
			"variants":  product.Variants,
			"quantity":  product.TotalQuantity(),
			"updatedAt": time.Now(),
		}})
		if err != nil {
			log.Errorw("variant add failed", "productId", id.Hex(), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusCreated, variant)
	}
}

/* =======================
   DELETE (SOFT)
======================= */

// DeleteProduct soft-deletes the product document. Ledger records are kept
// for audit; they reference the product id and survive the delete.
func DeleteProduct(db *mongo.Database, dashboards cache.DashboardCache, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection("products").UpdateOne(
			ctx,
			bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
			bson.M{"$set": bson.M{
				"isDeleted": true,
				"deletedAt": time.Now(),
			}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		// The product leaves the low-stock population.
		if err := dashboards.Invalidate(ctx); err != nil {
			log.Warnw("dashboard cache invalidation failed", "error", err)
		}

		log.Infow("product deleted", "productId", id.Hex())
		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}

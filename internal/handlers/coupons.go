package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"backend/internal/models"
)

type CouponCreateRequest struct {
	Code        string  `json:"code" binding:"required"`
	Type        string  `json:"type" binding:"required,oneof=fixed percentage"`
	Value       float64 `json:"value" binding:"required"`
	MaxDiscount float64 `json:"maxDiscount"`
	MinPurchase float64 `json:"minPurchase"`
	StartDate   string  `json:"startDate" binding:"required"`
	EndDate     string  `json:"endDate" binding:"required"`
	UsageLimit  int     `json:"usageLimit"`
	IsActive    *bool   `json:"isActive"`
	Description string  `json:"description"`
}

type CouponUpdateRequest struct {
	Value       *float64 `json:"value"`
	MaxDiscount *float64 `json:"maxDiscount"`
	MinPurchase *float64 `json:"minPurchase"`
	StartDate   *string  `json:"startDate"`
	EndDate     *string  `json:"endDate"`
	UsageLimit  *int     `json:"usageLimit"`
	IsActive    *bool    `json:"isActive"`
	Description *string  `json:"description"`
}

type CouponValidateRequest struct {
	Code   string  `json:"code" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

func parseCouponDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if ts, err := time.Parse("2006-01-02", trimmed); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, trimmed)
}

func GetCoupons(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{}
		if v := strings.TrimSpace(c.Query("isActive")); v != "" {
			filter["isActive"] = strings.EqualFold(v, "true")
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("coupons").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		coupons := make([]models.Coupon, 0)
		if err := cursor.All(ctx, &coupons); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": coupons})
	}
}

func CreateCoupon(db *mongo.Database, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CouponCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		code := strings.ToUpper(strings.TrimSpace(req.Code))
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code required"})
			return
		}
		if req.Value <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "value must be greater than zero"})
			return
		}
		if req.Type == models.DiscountPercentage && req.Value > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "percentage value cannot exceed 100"})
			return
		}

		startDate, err := parseCouponDate(req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
			return
		}
		endDate, err := parseCouponDate(req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
			return
		}
		if endDate.Before(startDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must not be before startDate"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		count, err := db.Collection("coupons").CountDocuments(ctx, bson.M{"code": code})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "coupon code already exists"})
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		now := time.Now()
		coupon := models.Coupon{
			Code:        code,
			Type:        req.Type,
			Value:       req.Value,
			MaxDiscount: req.MaxDiscount,
			MinPurchase: req.MinPurchase,
			StartDate:   startDate,
			EndDate:     endDate,
			UsageLimit:  req.UsageLimit,
			UsedCount:   0,
			IsActive:    isActive,
			Description: strings.TrimSpace(req.Description),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		res, err := db.Collection("coupons").InsertOne(ctx, coupon)
		if err != nil {
			log.Errorw("coupon insert failed", "code", code, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		coupon.ID = res.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, coupon)
	}
}

func UpdateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req CouponUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{}
		if req.Value != nil {
			if *req.Value <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "value must be greater than zero"})
				return
			}
			update["value"] = *req.Value
		}
		if req.MaxDiscount != nil {
			update["maxDiscount"] = *req.MaxDiscount
		}
		if req.MinPurchase != nil {
			update["minPurchase"] = *req.MinPurchase
		}
		if req.StartDate != nil {
			ts, err := parseCouponDate(*req.StartDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid startDate"})
				return
			}
			update["startDate"] = ts
		}
		if req.EndDate != nil {
			ts, err := parseCouponDate(*req.EndDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid endDate"})
				return
			}
			update["endDate"] = ts
		}
		if req.UsageLimit != nil {
			if *req.UsageLimit < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "usageLimit must be zero or greater"})
				return
			}
			update["usageLimit"] = *req.UsageLimit
		}
		if req.IsActive != nil {
			update["isActive"] = *req.IsActive
		}
		if req.Description != nil {
			update["description"] = strings.TrimSpace(*req.Description)
		}

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}
		update["updatedAt"] = time.Now()

		ctx, cancel := requestContext(c)
		defer cancel()

		var updated models.Coupon
		err = db.Collection("coupons").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection("coupons").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// ValidateCoupon computes the discount a coupon would grant for a purchase
// amount without redeeming it.
func ValidateCoupon(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CouponValidateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		code := strings.ToUpper(strings.TrimSpace(req.Code))

		ctx, cancel := requestContext(c)
		defer cancel()

		var coupon models.Coupon
		err := db.Collection("coupons").FindOne(ctx, bson.M{"code": code}).Decode(&coupon)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if err := validateCouponUse(coupon, req.Amount, time.Now()); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		discount := computeDiscount(coupon, req.Amount)
		c.JSON(http.StatusOK, gin.H{
			"code":     coupon.Code,
			"discount": discount,
			"total":    req.Amount - discount,
		})
	}
}

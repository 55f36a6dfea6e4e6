package handlers

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"backend/internal/cache"
	"backend/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type createOrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	RequesterName  string                   `json:"requesterName" binding:"required"`
	Address        string                   `json:"address"`
	Recipient      string                   `json:"recipient"`
	DeliveryMethod string                   `json:"deliveryMethod" binding:"required,oneof=shipping pickup"`
	Items          []createOrderItemRequest `json:"items" binding:"required"`
	CouponCode     string                   `json:"couponCode"`
}

type updateShippingRequest struct {
	Carrier        *string `json:"carrier"`
	TrackingNumber *string `json:"trackingNumber"`
	Status         *string `json:"status"`
	PaymentStatus  *string `json:"paymentStatus"`
}

/* =========================
   TYPED ERRORS
========================= */

type outOfStockError struct {
	ProductID primitive.ObjectID
	Available int
	Requested int
}

func (e outOfStockError) Error() string {
	return "product out of stock"
}

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

type couponError struct {
	reason error
}

func (e couponError) Error() string {
	return e.reason.Error()
}

/* =========================
   CREATE ORDER / WITHDRAWAL
========================= */

// CreateOrder captures a checkout. Staff callers produce withdrawals: same
// document, different source tag. Stock decrement, out-movement ledger
// writes, coupon redemption and the order insert all run in one transaction.
func CreateOrder(db *mongo.Database, dashboards cache.DashboardCache, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, log, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, log, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one item is required"})
			return
		}

		source := models.SourceCustomer
		if role, _ := c.Get("role"); role == models.RoleStaff || role == models.RoleAdmin {
			source = models.SourceStaff
		}

		var userID *primitive.ObjectID
		if v, ok := c.Get("userId"); ok {
			if id, ok := v.(primitive.ObjectID); ok {
				userID = &id
			}
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, log, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		order := models.Order{
			RequesterName:  strings.TrimSpace(req.RequesterName),
			Address:        strings.TrimSpace(req.Address),
			Recipient:      strings.TrimSpace(req.Recipient),
			DeliveryMethod: req.DeliveryMethod,
			ShippingStatus: models.ShippingPending,
			PaymentStatus:  models.PaymentUnpaid,
			Source:         source,
			UserID:         userID,
			CreatedAt:      time.Now(),
		}

		var orderID primitive.ObjectID
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			items := make([]models.OrderItem, 0, len(req.Items))
			total := 0.0
			now := time.Now()

			for _, item := range req.Items {
				productID, err := primitive.ObjectIDFromHex(item.ProductID)
				if err != nil {
					return nil, errors.New("invalid productId")
				}
				if item.Quantity <= 0 {
					return nil, errors.New("quantity must be greater than zero")
				}

				var product models.Product
				err = db.Collection("products").FindOne(
					sessCtx,
					bson.M{"_id": productID, "isDeleted": bson.M{"$ne": true}},
				).Decode(&product)
				if err == mongo.ErrNoDocuments {
					return nil, productNotFoundError{ProductID: productID}
				}
				if err != nil {
					return nil, err
				}

				unitPrice := product.SellPrice
				variantID := strings.TrimSpace(item.VariantID)
				itemName := product.Name

				if product.HasVariants {
					variant := product.FindVariant(variantID)
					if variant == nil {
						return nil, productNotFoundError{ProductID: productID}
					}
					if variant.Quantity < item.Quantity {
						return nil, outOfStockError{ProductID: productID, Available: variant.Quantity, Requested: item.Quantity}
					}
					variant.Quantity -= item.Quantity
					unitPrice = variant.SellPrice
					itemName = product.Name + " (" + variant.Size + "/" + variant.Color + ")"

					res, err := db.Collection("products").UpdateOne(
						sessCtx,
						bson.M{"_id": productID, "isDeleted": bson.M{"$ne": true}},
						bson.M{"$set": bson.M{
							"variants":  product.Variants,
							"quantity":  product.TotalQuantity(),
							"updatedAt": now,
						}},
					)
					if err != nil {
						return nil, err
					}
					if res.MatchedCount == 0 {
						return nil, productNotFoundError{ProductID: productID}
					}
				} else {
					if product.Quantity < item.Quantity {
						return nil, outOfStockError{ProductID: productID, Available: product.Quantity, Requested: item.Quantity}
					}

					// Guarded decrement: the quantity filter makes
					// concurrent checkouts fail instead of going negative.
					res, err := db.Collection("products").UpdateOne(
						sessCtx,
						bson.M{
							"_id":       productID,
							"isDeleted": bson.M{"$ne": true},
							"quantity":  bson.M{"$gte": item.Quantity},
						},
						bson.M{
							"$inc": bson.M{"quantity": -item.Quantity},
							"$set": bson.M{"updatedAt": now},
						},
					)
					if err != nil {
						return nil, err
					}
					if res.MatchedCount == 0 {
						return nil, outOfStockError{ProductID: productID, Available: product.Quantity, Requested: item.Quantity}
					}
				}

				movement := models.InventoryMovement{
					ProductID: productID,
					VariantID: variantID,
					Date:      now,
					Type:      models.MovementOut,
					Quantity:  item.Quantity,
					Source:    "order",
					CreatedAt: now,
				}
				if _, err := db.Collection("inventory_movements").InsertOne(sessCtx, movement); err != nil {
					return nil, err
				}

				subtotal := unitPrice * float64(item.Quantity)
				items = append(items, models.OrderItem{
					ProductID: productID,
					VariantID: variantID,
					Name:      itemName,
					Quantity:  item.Quantity,
					UnitPrice: unitPrice,
					Subtotal:  subtotal,
				})
				total += subtotal
			}

			order.Items = items
			order.Total = total

			if code := strings.ToUpper(strings.TrimSpace(req.CouponCode)); code != "" {
				discount, err := redeemCoupon(sessCtx, db, code, total)
				if err != nil {
					return nil, err
				}
				order.CouponCode = code
				order.Discount = discount
				order.Total = total - discount
			}

			// Freeze the primary payment account so later settings edits do
			// not rewrite this order.
			var settings models.PaymentSettings
			err := db.Collection("settings").FindOne(sessCtx, bson.M{"_id": paymentSettingsID}).Decode(&settings)
			if err == nil {
				order.PaymentAccount = &models.PaymentAccountSnapshot{
					BankName:      settings.BankName,
					AccountName:   settings.AccountName,
					AccountNumber: settings.AccountNumber,
				}
			} else if err != mongo.ErrNoDocuments {
				return nil, err
			}

			res, err := db.Collection("orders").InsertOne(sessCtx, order)
			if err != nil {
				return nil, err
			}
			if id, ok := res.InsertedID.(primitive.ObjectID); ok {
				orderID = id
			}
			return nil, nil
		})
		if err != nil {
			var stockErr outOfStockError
			if errors.As(err, &stockErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "insufficient stock",
					"productId": stockErr.ProductID.Hex(),
					"available": stockErr.Available,
					"requested": stockErr.Requested,
				})
				return
			}
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "product not found",
					"productId": notFoundErr.ProductID.Hex(),
				})
				return
			}
			var cErr couponError
			if errors.As(err, &cErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": cErr.Error()})
				return
			}
			respondWithError(c, log, http.StatusInternalServerError, route, "db error")
			return
		}

		order.ID = orderID

		if err := dashboards.Invalidate(ctx); err != nil {
			log.Warnw("dashboard cache invalidation failed", "error", err)
		}

		log.Infow("order created", "orderId", orderID.Hex(), "source", source, "total", order.Total)
		c.JSON(http.StatusCreated, order)
	}
}

// redeemCoupon validates the coupon against the purchase amount and bumps its
// usage counter inside the checkout transaction. The guarded update keeps the
// counter at or below the usage limit under concurrency.
func redeemCoupon(sessCtx mongo.SessionContext, db *mongo.Database, code string, amount float64) (float64, error) {
	var coupon models.Coupon
	err := db.Collection("coupons").FindOne(sessCtx, bson.M{"code": code}).Decode(&coupon)
	if err == mongo.ErrNoDocuments {
		return 0, couponError{reason: errors.New("coupon not found")}
	}
	if err != nil {
		return 0, err
	}

	if err := validateCouponUse(coupon, amount, time.Now()); err != nil {
		return 0, couponError{reason: err}
	}

	filter := bson.M{"_id": coupon.ID}
	if coupon.UsageLimit > 0 {
		filter["usedCount"] = bson.M{"$lt": coupon.UsageLimit}
	}
	res, err := db.Collection("coupons").UpdateOne(sessCtx, filter, bson.M{"$inc": bson.M{"usedCount": 1}})
	if err != nil {
		return 0, err
	}
	if res.MatchedCount == 0 {
		return 0, couponError{reason: errCouponExhausted}
	}

	return computeDiscount(coupon, amount), nil
}

/* =========================
   LIST / GET
========================= */

// canAccessOrder reports whether a caller may read an order or attach files
// to it. Staff and admin see every order; customers only their own.
func canAccessOrder(role string, callerID *primitive.ObjectID, order models.Order) bool {
	if role == models.RoleStaff || role == models.RoleAdmin {
		return true
	}
	return order.UserID != nil && callerID != nil && *order.UserID == *callerID
}

// callerIdentity pulls the role and user id the auth middleware stored on
// the request context.
func callerIdentity(c *gin.Context) (string, *primitive.ObjectID) {
	role, _ := c.Get("role")
	roleStr, _ := role.(string)

	if v, ok := c.Get("userId"); ok {
		if id, ok := v.(primitive.ObjectID); ok {
			return roleStr, &id
		}
	}
	return roleStr, nil
}

// matchesOrderFilter is the client-side predicate over search text, shipping
// status, source tag and delivery method.
func matchesOrderFilter(order models.Order, search, status, source, method string) bool {
	if status != "" && order.ShippingStatus != status {
		return false
	}
	if source != "" && order.Source != source {
		return false
	}
	if method != "" && order.DeliveryMethod != method {
		return false
	}
	if search != "" {
		needle := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(order.RequesterName), needle) &&
			!strings.Contains(strings.ToLower(order.Recipient), needle) &&
			!strings.Contains(strings.ToLower(order.TrackingNumber), needle) &&
			!strings.Contains(strings.ToLower(order.ID.Hex()), needle) {
			return false
		}
	}
	return true
}

// GetOrders lists orders and withdrawals newest first, filtered client-side
// over the base ordering.
func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		search := strings.TrimSpace(c.Query("search"))
		status := strings.TrimSpace(c.Query("status"))
		source := strings.TrimSpace(c.Query("source"))
		method := strings.TrimSpace(c.Query("deliveryMethod"))

		ctx, cancel := requestContext(c)
		defer cancel()

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		cursor, err := db.Collection("orders").Find(ctx, bson.M{}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		filtered := make([]models.Order, 0, len(orders))
		for _, order := range orders {
			if matchesOrderFilter(order, search, status, source, method) {
				filtered = append(filtered, order)
			}
		}

		total := int64(len(filtered))
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
			"data": filtered[start:end],
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

func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": id}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		// Other customers' orders stay invisible.
		if role, callerID := callerIdentity(c); !canAccessOrder(role, callerID, order) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

/* =========================
   SHIPPING UPDATE
========================= */

// UpdateShipping partially updates carrier, tracking number and statuses.
// The status must belong to the enumeration for the order's delivery method;
// transitions are otherwise unrestricted.
func UpdateShipping(db *mongo.Database, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req updateShippingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": id}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		update := bson.M{}
		if req.Carrier != nil {
			update["carrier"] = strings.TrimSpace(*req.Carrier)
		}
		if req.TrackingNumber != nil {
			update["trackingNumber"] = strings.TrimSpace(*req.TrackingNumber)
		}
		if req.Status != nil {
			status := strings.TrimSpace(*req.Status)
			if !models.IsValidShippingStatus(order.DeliveryMethod, status) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "invalid status for delivery method",
					"allowed": models.AllowedShippingStatuses(order.DeliveryMethod),
				})
				return
			}
			update["shippingStatus"] = status
		}
		if req.PaymentStatus != nil {
			status := strings.TrimSpace(*req.PaymentStatus)
			if status != models.PaymentUnpaid && status != models.PaymentPaid && status != models.PaymentVerified {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment status"})
				return
			}
			update["paymentStatus"] = status
		}

		if len(update) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		var updated models.Order
		err = db.Collection("orders").FindOneAndUpdate(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			log.Errorw("shipping update failed", "orderId", id.Hex(), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

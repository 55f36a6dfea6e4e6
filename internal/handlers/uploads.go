package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"backend/internal/models"
	"backend/internal/storage"
)

const (
	maxUploadSize = 10 << 20 // 10 MiB
	uploadURLTTL  = time.Hour
)

var allowedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

func uploadKey(prefix, filename string) (key, contentType string, err error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedImageExtensions[ext]
	if !ok {
		return "", "", fmt.Errorf("unsupported file type %q", ext)
	}
	return prefix + "/" + uuid.NewString() + ext, contentType, nil
}

func saveUpload(c *gin.Context, store storage.ObjectStorage, prefix string) (string, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return "", false
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the 10MB limit"})
		return "", false
	}

	key, contentType, err := uploadKey(prefix, file.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read upload"})
		return "", false
	}
	defer src.Close()

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := store.Upload(ctx, key, src, file.Size, contentType); err != nil {
		if errors.Is(err, storage.ErrStorageDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads are disabled"})
			return "", false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return "", false
	}
	return key, true
}

// UploadProductImage stores a new image for a product, replacing and deleting
// the previous one.
func UploadProductImage(db *mongo.Database, store storage.ObjectStorage, log *zap.SugaredLogger) gin.HandlerFunc {
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

		key, ok := saveUpload(c, store, "products")
		if !ok {
			return
		}

		_, err = db.Collection("products").UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{"imagePath": key, "updatedAt": time.Now()}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if product.ImagePath != "" && product.ImagePath != key {
			if err := store.Delete(ctx, product.ImagePath); err != nil {
				log.Warnw("old product image delete failed", "key", product.ImagePath, "error", err)
			}
		}

		url, err := store.URL(ctx, key, uploadURLTTL)
		if err != nil {
			log.Warnw("image url signing failed", "key", key, "error", err)
		}

		c.JSON(http.StatusOK, gin.H{"imagePath": key, "url": url})
	}
}

// UploadPaymentSlip attaches a transfer slip to an order and marks the
// payment as awaiting verification.
func UploadPaymentSlip(db *mongo.Database, store storage.ObjectStorage, log *zap.SugaredLogger) gin.HandlerFunc {
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

		// Customers may only attach slips to their own orders.
		if role, callerID := callerIdentity(c); !canAccessOrder(role, callerID, order) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		key, ok := saveUpload(c, store, "slips")
		if !ok {
			return
		}

		_, err = db.Collection("orders").UpdateOne(ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{
				"paymentSlipPath": key,
				"paymentStatus":   models.PaymentPaid,
				"updatedAt":       time.Now(),
			}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if order.PaymentSlipPath != "" && order.PaymentSlipPath != key {
			if err := store.Delete(ctx, order.PaymentSlipPath); err != nil {
				log.Warnw("old payment slip delete failed", "key", order.PaymentSlipPath, "error", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"paymentSlipPath": key, "paymentStatus": models.PaymentPaid})
	}
}

// UploadPaymentQR stores the QR image for one payment account in settings.
func UploadPaymentQR(db *mongo.Database, store storage.ObjectStorage, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := strings.TrimSpace(c.Param("accountId"))
		if accountID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "accountId required"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var settings models.PaymentSettings
		err := db.Collection("settings").FindOne(ctx, bson.M{"_id": paymentSettingsID}).Decode(&settings)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment settings not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		var account *models.PaymentAccount
		for i := range settings.Accounts {
			if settings.Accounts[i].ID == accountID {
				account = &settings.Accounts[i]
				break
			}
		}
		if account == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment account not found"})
			return
		}

		key, ok := saveUpload(c, store, "qr")
		if !ok {
			return
		}

		oldKey := account.QRPath
		update := bson.M{"accounts.$.qrPath": key, "updatedAt": time.Now()}
		if account.IsPrimary {
			update["qrPath"] = key
		}
		_, err = db.Collection("settings").UpdateOne(ctx,
			bson.M{"_id": paymentSettingsID, "accounts.id": accountID},
			bson.M{"$set": update},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if oldKey != "" && oldKey != key {
			if err := store.Delete(ctx, oldKey); err != nil {
				log.Warnw("old qr image delete failed", "key", oldKey, "error", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{"qrPath": key})
	}
}

// GetUploadURL signs a short-lived download link for a stored object.
func GetUploadURL(store storage.ObjectStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.Query("key"))
		if key == "" || strings.Contains(key, "..") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid key"})
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		url, err := store.URL(ctx, key, uploadURLTTL)
		if err != nil {
			if errors.Is(err, storage.ErrStorageDisabled) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads are disabled"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "url signing failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"url": url})
	}
}

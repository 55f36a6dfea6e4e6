package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"backend/internal/models"
)

// paymentSettingsID keys the single settings document so repeated saves
// upsert in place.
const paymentSettingsID = "payment"

type PaymentAccountRequest struct {
	ID            string `json:"id"`
	Label         string `json:"label"`
	BankName      string `json:"bankName" binding:"required"`
	AccountName   string `json:"accountName" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`
	Note          string `json:"note"`
	QRPath        string `json:"qrPath"`
	IsPrimary     bool   `json:"isPrimary"`
}

type PaymentSettingsRequest struct {
	Accounts []PaymentAccountRequest `json:"accounts" binding:"required,min=1,dive"`
}

// normalizeAccounts trims the payload, assigns ids to new accounts, and
// enforces the single-primary rule: if none or several accounts are flagged,
// the first flagged one (or simply the first) wins.
func normalizeAccounts(reqs []PaymentAccountRequest) []models.PaymentAccount {
	accounts := make([]models.PaymentAccount, 0, len(reqs))
	primaryIdx := -1
	for i, r := range reqs {
		acc := models.PaymentAccount{
			ID:            strings.TrimSpace(r.ID),
			Label:         strings.TrimSpace(r.Label),
			BankName:      strings.TrimSpace(r.BankName),
			AccountName:   strings.TrimSpace(r.AccountName),
			AccountNumber: strings.TrimSpace(r.AccountNumber),
			Note:          strings.TrimSpace(r.Note),
			QRPath:        strings.TrimSpace(r.QRPath),
		}
		if acc.ID == "" {
			acc.ID = uuid.NewString()
		}
		if r.IsPrimary && primaryIdx == -1 {
			primaryIdx = i
		}
		accounts = append(accounts, acc)
	}
	if primaryIdx == -1 {
		primaryIdx = 0
	}
	accounts[primaryIdx].IsPrimary = true
	return accounts
}

func settingsFromAccounts(accounts []models.PaymentAccount) models.PaymentSettings {
	settings := models.PaymentSettings{
		Accounts:  accounts,
		UpdatedAt: time.Now(),
	}
	if primary := settings.Primary(); primary != nil {
		settings.BankName = primary.BankName
		settings.AccountName = primary.AccountName
		settings.AccountNumber = primary.AccountNumber
		settings.Note = primary.Note
		settings.QRPath = primary.QRPath
	}
	return settings
}

func GetPaymentSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var settings models.PaymentSettings
		err := db.Collection("settings").FindOne(ctx, bson.M{"_id": paymentSettingsID}).Decode(&settings)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusOK, gin.H{"accounts": []models.PaymentAccount{}})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, settings)
	}
}

func UpdatePaymentSettings(db *mongo.Database, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PaymentSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		accounts := normalizeAccounts(req.Accounts)
		settings := settingsFromAccounts(accounts)

		ctx, cancel := requestContext(c)
		defer cancel()

		update := bson.M{"$set": bson.M{
			"bankName":      settings.BankName,
			"accountName":   settings.AccountName,
			"accountNumber": settings.AccountNumber,
			"note":          settings.Note,
			"qrPath":        settings.QRPath,
			"accounts":      settings.Accounts,
			"updatedAt":     settings.UpdatedAt,
		}}
		_, err := db.Collection("settings").UpdateOne(
			ctx,
			bson.M{"_id": paymentSettingsID},
			update,
			options.Update().SetUpsert(true),
		)
		if err != nil {
			log.Errorw("payment settings save failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, settings)
	}
}

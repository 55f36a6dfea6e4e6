// Package inventory implements stock bookkeeping: quantity updates, the
// append-only movement ledger, and low-stock classification.
package inventory

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"backend/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

type Service struct {
	db  *mongo.Database
	log *zap.SugaredLogger
}

func NewService(db *mongo.Database, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// StockChange describes a single add or withdraw request.
type StockChange struct {
	ProductID primitive.ObjectID
	VariantID string
	Quantity  int
	CostPrice *float64
	Date      time.Time
	Source    string
}

// applyDelta floors the resulting quantity at zero: stock never goes negative.
func applyDelta(current, delta int) int {
	next := current + delta
	if next < 0 {
		return 0
	}
	return next
}

// AddStock increments on-hand quantity and appends an "in" movement in one
// transaction, so the counter and the ledger cannot diverge. When no cost
// price is supplied the product's (or variant's) standing cost price is
// recorded.
func (s *Service) AddStock(ctx context.Context, change StockChange) (*models.Product, error) {
	if change.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.applyChange(ctx, change, models.MovementIn)
}

// RemoveStock decrements on-hand quantity, flooring at zero, and appends an
// "out" movement for the effective decrement. Out movements carry no cost
// price.
func (s *Service) RemoveStock(ctx context.Context, change StockChange) (*models.Product, error) {
	if change.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	change.CostPrice = nil
	return s.applyChange(ctx, change, models.MovementOut)
}

func (s *Service) applyChange(ctx context.Context, change StockChange, movementType models.MovementType) (*models.Product, error) {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	var updated models.Product

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		var product models.Product
		err := s.db.Collection("products").FindOne(
			sessCtx,
			bson.M{"_id": change.ProductID, "isDeleted": bson.M{"$ne": true}},
		).Decode(&product)
		if err == mongo.ErrNoDocuments {
			return nil, ErrProductNotFound
		}
		if err != nil {
			return nil, err
		}

		delta := change.Quantity
		if movementType == models.MovementOut {
			delta = -delta
		}

		update := bson.M{"updatedAt": time.Now()}
		effective := change.Quantity
		costPrice := change.CostPrice

		if product.HasVariants {
			if change.VariantID == "" {
				return nil, ErrVariantNotFound
			}
			variant := product.FindVariant(change.VariantID)
			if variant == nil {
				return nil, ErrVariantNotFound
			}
			next := applyDelta(variant.Quantity, delta)
			effective = abs(next - variant.Quantity)
			variant.Quantity = next
			update["variants"] = product.Variants
			update["quantity"] = product.TotalQuantity()
			if movementType == models.MovementIn && costPrice == nil {
				costPrice = &variant.CostPrice
			}
		} else {
			next := applyDelta(product.Quantity, delta)
			effective = abs(next - product.Quantity)
			update["quantity"] = next
			product.Quantity = next
			if movementType == models.MovementIn && costPrice == nil {
				costPrice = &product.CostPrice
			}
		}

		res, err := s.db.Collection("products").UpdateOne(
			sessCtx,
			bson.M{"_id": change.ProductID, "isDeleted": bson.M{"$ne": true}},
			bson.M{"$set": update},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrProductNotFound
		}

		date := change.Date
		if date.IsZero() {
			date = time.Now()
		}

		movement := models.InventoryMovement{
			ProductID: change.ProductID,
			VariantID: change.VariantID,
			Date:      date,
			Type:      movementType,
			Quantity:  effective,
			CostPrice: costPrice,
			Source:    change.Source,
			CreatedAt: time.Now(),
		}
		if _, err := s.db.Collection("inventory_movements").InsertOne(sessCtx, movement); err != nil {
			return nil, err
		}

		err = s.db.Collection("products").FindOne(
			sessCtx,
			bson.M{"_id": change.ProductID},
		).Decode(&updated)
		return nil, err
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("stock changed",
		"productId", change.ProductID.Hex(),
		"type", movementType,
		"quantity", change.Quantity,
	)
	return &updated, nil
}

// clampMovementPage pins page to [1, ceil(total/limit)] so an out-of-range
// request serves the last page instead of an empty one.
func clampMovementPage(page, total, limit int64) int64 {
	if page < 1 {
		return 1
	}
	if total == 0 {
		return 1
	}
	totalPages := (total + limit - 1) / limit
	if page > totalPages {
		return totalPages
	}
	return page
}

// Movements returns one page of a product's ledger, newest first, with the
// total record count for pagination. The page is clamped to the available
// range before fetching.
func (s *Service) Movements(ctx context.Context, productID primitive.ObjectID, page, limit int64) ([]models.InventoryMovement, int64, error) {
	filter := bson.M{"productId": productID}

	coll := s.db.Collection("inventory_movements")
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	page = clampMovementPage(page, total, limit)

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	movements := make([]models.InventoryMovement, 0)
	if err := cursor.All(ctx, &movements); err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MovementType tags a ledger record as stock added or removed.
type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// InventoryMovement is one immutable entry in a product's stock ledger.
// CostPrice is only tracked for "in" movements; "out" movements carry nil.
type InventoryMovement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	VariantID string             `bson:"variantId,omitempty" json:"variantId,omitempty"`
	Date      time.Time          `bson:"date" json:"date"`
	Type      MovementType       `bson:"type" json:"type"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	CostPrice *float64           `bson:"costPrice,omitempty" json:"costPrice,omitempty"`
	Source    string             `bson:"source,omitempty" json:"source,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

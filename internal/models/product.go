package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variant is a size/color specific sub-unit of a product carrying its own
// quantity and pricing. The (size, color) pair is unique within a product.
type Variant struct {
	ID        string  `bson:"id" json:"id"`
	Size      string  `bson:"size" json:"size"`
	Color     string  `bson:"color" json:"color"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	CostPrice float64 `bson:"costPrice" json:"costPrice"`
	SellPrice float64 `bson:"sellPrice" json:"sellPrice"`
}

type Product struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	Unit             string             `bson:"unit,omitempty" json:"unit,omitempty"`
	Category         string             `bson:"category,omitempty" json:"category,omitempty"`
	ImagePath        string             `bson:"imagePath,omitempty" json:"imagePath,omitempty"`
	Quantity         int                `bson:"quantity" json:"quantity"`
	CostPrice        float64            `bson:"costPrice" json:"costPrice"`
	SellPrice        float64            `bson:"sellPrice" json:"sellPrice"`
	PurchaseLocation string             `bson:"purchaseLocation,omitempty" json:"purchaseLocation,omitempty"`
	HasVariants      bool               `bson:"hasVariants" json:"hasVariants"`
	Variants         []Variant          `bson:"variants,omitempty" json:"variants,omitempty"`
	IsDeleted        bool               `bson:"isDeleted" json:"isDeleted,omitempty"`
	DeletedAt        *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TotalQuantity returns the on-hand quantity: for variant products the sum of
// variant quantities, otherwise the flat product quantity.
func (p Product) TotalQuantity() int {
	if !p.HasVariants {
		return p.Quantity
	}
	total := 0
	for _, v := range p.Variants {
		total += v.Quantity
	}
	return total
}

// FindVariant returns a pointer into the product's variant slice, or nil.
func (p *Product) FindVariant(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

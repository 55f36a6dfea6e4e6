package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon discount types.
const (
	DiscountFixed      = "fixed"
	DiscountPercentage = "percentage"
)

// Coupon codes are stored uppercase. UsageLimit of 0 means unlimited.
type Coupon struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code        string             `bson:"code" json:"code"`
	Type        string             `bson:"type" json:"type"`
	Value       float64            `bson:"value" json:"value"`
	MaxDiscount float64            `bson:"maxDiscount,omitempty" json:"maxDiscount,omitempty"`
	MinPurchase float64            `bson:"minPurchase,omitempty" json:"minPurchase,omitempty"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     time.Time          `bson:"endDate" json:"endDate"`
	UsageLimit  int                `bson:"usageLimit" json:"usageLimit"`
	UsedCount   int                `bson:"usedCount" json:"usedCount"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

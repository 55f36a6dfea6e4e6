package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Delivery methods.
const (
	DeliveryShipping = "shipping"
	DeliveryPickup   = "pickup"
)

// Shipping statuses. Shipping deliveries move pending -> in_transit ->
// delivered; pickup deliveries only know pending -> picked_up.
const (
	ShippingPending   = "pending"
	ShippingInTransit = "in_transit"
	ShippingDelivered = "delivered"
	ShippingPickedUp  = "picked_up"
)

// Payment statuses.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentVerified = "verified"
)

// Order sources. A withdrawal is a staff-initiated stock removal modeled
// identically to a customer order, tagged with a different source.
const (
	SourceCustomer = "customer"
	SourceStaff    = "staff"
)

// AllowedShippingStatuses returns the status vocabulary legal for a delivery
// method. Any member may be written at any time; transitions are not ordered.
func AllowedShippingStatuses(deliveryMethod string) []string {
	if deliveryMethod == DeliveryPickup {
		return []string{ShippingPending, ShippingPickedUp}
	}
	return []string{ShippingPending, ShippingInTransit, ShippingDelivered}
}

// IsValidShippingStatus reports whether status is legal for the method.
func IsValidShippingStatus(deliveryMethod, status string) bool {
	for _, s := range AllowedShippingStatuses(deliveryMethod) {
		if s == status {
			return true
		}
	}
	return false
}

// OrderItem snapshots a product line at checkout time.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	VariantID string             `bson:"variantId,omitempty" json:"variantId,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	UnitPrice float64            `bson:"unitPrice" json:"unitPrice"`
	Subtotal  float64            `bson:"subtotal" json:"subtotal"`
}

// PaymentAccountSnapshot freezes the account details shown to the buyer at
// checkout, so settings edits never rewrite past orders.
type PaymentAccountSnapshot struct {
	BankName      string `bson:"bankName,omitempty" json:"bankName,omitempty"`
	AccountName   string `bson:"accountName,omitempty" json:"accountName,omitempty"`
	AccountNumber string `bson:"accountNumber,omitempty" json:"accountNumber,omitempty"`
}

type Order struct {
	ID              primitive.ObjectID      `bson:"_id,omitempty" json:"id"`
	RequesterName   string                  `bson:"requesterName" json:"requesterName"`
	Address         string                  `bson:"address,omitempty" json:"address,omitempty"`
	Recipient       string                  `bson:"recipient,omitempty" json:"recipient,omitempty"`
	DeliveryMethod  string                  `bson:"deliveryMethod" json:"deliveryMethod"`
	Items           []OrderItem             `bson:"items" json:"items"`
	Total           float64                 `bson:"total" json:"total"`
	CouponCode      string                  `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	Discount        float64                 `bson:"discount,omitempty" json:"discount,omitempty"`
	Carrier         string                  `bson:"carrier,omitempty" json:"carrier,omitempty"`
	TrackingNumber  string                  `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
	ShippingStatus  string                  `bson:"shippingStatus" json:"shippingStatus"`
	PaymentStatus   string                  `bson:"paymentStatus" json:"paymentStatus"`
	PaymentAccount  *PaymentAccountSnapshot `bson:"paymentAccount,omitempty" json:"paymentAccount,omitempty"`
	PaymentSlipPath string                  `bson:"paymentSlipPath,omitempty" json:"paymentSlipPath,omitempty"`
	Source          string                  `bson:"source" json:"source"`
	UserID          *primitive.ObjectID     `bson:"userId,omitempty" json:"userId,omitempty"`
	CreatedAt       time.Time               `bson:"createdAt" json:"createdAt"`
}

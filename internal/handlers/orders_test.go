package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

func TestShippingStatusVocabulary(t *testing.T) {
	shippingAllowed := []string{"pending", "in_transit", "delivered"}
	for _, status := range shippingAllowed {
		if !models.IsValidShippingStatus(models.DeliveryShipping, status) {
			t.Fatalf("expected %q legal for shipping", status)
		}
	}
	if models.IsValidShippingStatus(models.DeliveryShipping, "picked_up") {
		t.Fatal("picked_up must not be legal for shipping deliveries")
	}

	pickupAllowed := []string{"pending", "picked_up"}
	for _, status := range pickupAllowed {
		if !models.IsValidShippingStatus(models.DeliveryPickup, status) {
			t.Fatalf("expected %q legal for pickup", status)
		}
	}
	for _, status := range []string{"in_transit", "delivered"} {
		if models.IsValidShippingStatus(models.DeliveryPickup, status) {
			t.Fatalf("%q must not be legal for pickup deliveries", status)
		}
	}
}

func TestCanAccessOrderOwnership(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	order := models.Order{ID: primitive.NewObjectID(), UserID: &owner}

	if !canAccessOrder(models.RoleCustomer, &owner, order) {
		t.Fatal("owner must access their own order")
	}
	if canAccessOrder(models.RoleCustomer, &stranger, order) {
		t.Fatal("another customer must not access the order")
	}
	if canAccessOrder(models.RoleCustomer, nil, order) {
		t.Fatal("a caller without an id must not access the order")
	}
	if !canAccessOrder(models.RoleStaff, &stranger, order) {
		t.Fatal("staff must access any order")
	}
	if !canAccessOrder(models.RoleAdmin, nil, order) {
		t.Fatal("admin must access any order")
	}
}

func TestCanAccessOrderWithoutOwner(t *testing.T) {
	// Orders captured by staff have no user id; customers never match them.
	caller := primitive.NewObjectID()
	order := models.Order{ID: primitive.NewObjectID(), Source: models.SourceStaff}

	if canAccessOrder(models.RoleCustomer, &caller, order) {
		t.Fatal("customers must not access ownerless orders")
	}
	if !canAccessOrder(models.RoleStaff, &caller, order) {
		t.Fatal("staff must access ownerless orders")
	}
}

func TestMatchesOrderFilter(t *testing.T) {
	order := models.Order{
		ID:             primitive.NewObjectID(),
		RequesterName:  "Alice Example",
		Recipient:      "Bob",
		TrackingNumber: "TRACK-123",
		ShippingStatus: models.ShippingInTransit,
		DeliveryMethod: models.DeliveryShipping,
		Source:         models.SourceCustomer,
	}

	if !matchesOrderFilter(order, "", "", "", "") {
		t.Fatal("empty filter must match")
	}
	if !matchesOrderFilter(order, "alice", "", "", "") {
		t.Fatal("case-insensitive name search must match")
	}
	if !matchesOrderFilter(order, "track-123", "", "", "") {
		t.Fatal("tracking number search must match")
	}
	if matchesOrderFilter(order, "charlie", "", "", "") {
		t.Fatal("unrelated search must not match")
	}
	if !matchesOrderFilter(order, "", models.ShippingInTransit, "", "") {
		t.Fatal("status filter must match")
	}
	if matchesOrderFilter(order, "", models.ShippingDelivered, "", "") {
		t.Fatal("wrong status must not match")
	}
	if matchesOrderFilter(order, "", "", models.SourceStaff, "") {
		t.Fatal("wrong source must not match")
	}
	if !matchesOrderFilter(order, "bob", models.ShippingInTransit, models.SourceCustomer, models.DeliveryShipping) {
		t.Fatal("combined filters must match")
	}
}

package handlers

import (
	"errors"
	"testing"
	"time"

	"backend/internal/models"
)

func TestComputeDiscountPercentageWithCap(t *testing.T) {
	coupon := models.Coupon{
		Type:        models.DiscountPercentage,
		Value:       20,
		MaxDiscount: 100,
	}

	if got := computeDiscount(coupon, 1000); got != 100 {
		t.Fatalf("expected cap of 100, got %v", got)
	}
	if got := computeDiscount(coupon, 200); got != 40 {
		t.Fatalf("expected 40, got %v", got)
	}
}

func TestComputeDiscountFixed(t *testing.T) {
	coupon := models.Coupon{Type: models.DiscountFixed, Value: 50}

	if got := computeDiscount(coupon, 1000); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
	if got := computeDiscount(coupon, 500); got != 50 {
		t.Fatalf("fixed discount must not depend on amount, got %v", got)
	}
	if got := computeDiscount(coupon, 30); got != 30 {
		t.Fatalf("discount must not exceed purchase amount, got %v", got)
	}
}

func TestValidateCouponUse(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	base := models.Coupon{
		IsActive:  true,
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   now.AddDate(0, 1, 0),
	}

	if err := validateCouponUse(base, 100, now); err != nil {
		t.Fatalf("expected valid coupon, got %v", err)
	}

	inactive := base
	inactive.IsActive = false
	if err := validateCouponUse(inactive, 100, now); !errors.Is(err, errCouponInactive) {
		t.Fatalf("expected errCouponInactive, got %v", err)
	}

	expired := base
	expired.EndDate = now.AddDate(0, 0, -1)
	if err := validateCouponUse(expired, 100, now); !errors.Is(err, errCouponExpired) {
		t.Fatalf("expected errCouponExpired, got %v", err)
	}

	exhausted := base
	exhausted.UsageLimit = 3
	exhausted.UsedCount = 3
	if err := validateCouponUse(exhausted, 100, now); !errors.Is(err, errCouponExhausted) {
		t.Fatalf("expected errCouponExhausted, got %v", err)
	}

	unlimited := base
	unlimited.UsageLimit = 0
	unlimited.UsedCount = 9999
	if err := validateCouponUse(unlimited, 100, now); err != nil {
		t.Fatalf("usageLimit 0 means unlimited, got %v", err)
	}

	belowMin := base
	belowMin.MinPurchase = 500
	if err := validateCouponUse(belowMin, 100, now); !errors.Is(err, errCouponMinPurchase) {
		t.Fatalf("expected errCouponMinPurchase, got %v", err)
	}
}

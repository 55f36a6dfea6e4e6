package handlers

import (
	"errors"
	"time"

	"backend/internal/models"
)

var (
	errCouponInactive    = errors.New("coupon is not active")
	errCouponNotStarted  = errors.New("coupon is not yet valid")
	errCouponExpired     = errors.New("coupon has expired")
	errCouponExhausted   = errors.New("coupon usage limit reached")
	errCouponMinPurchase = errors.New("purchase amount below coupon minimum")
)

// computeDiscount returns the discount for a purchase amount. Percentage
// coupons are capped by MaxDiscount when set; fixed coupons never exceed the
// purchase amount.
func computeDiscount(coupon models.Coupon, amount float64) float64 {
	var discount float64
	switch coupon.Type {
	case models.DiscountPercentage:
		discount = amount * coupon.Value / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
	case models.DiscountFixed:
		discount = coupon.Value
	}
	if discount > amount {
		discount = amount
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// validateCouponUse checks activation, validity window, usage limit and
// minimum purchase at a point in time.
func validateCouponUse(coupon models.Coupon, amount float64, now time.Time) error {
	if !coupon.IsActive {
		return errCouponInactive
	}
	if !coupon.StartDate.IsZero() && now.Before(coupon.StartDate) {
		return errCouponNotStarted
	}
	if !coupon.EndDate.IsZero() && now.After(coupon.EndDate) {
		return errCouponExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return errCouponExhausted
	}
	if coupon.MinPurchase > 0 && amount < coupon.MinPurchase {
		return errCouponMinPurchase
	}
	return nil
}

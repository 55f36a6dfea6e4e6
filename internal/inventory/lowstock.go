package inventory

import "backend/internal/models"

// DefaultLowStockThreshold matches the alert level the dashboard ships with.
const DefaultLowStockThreshold = 10

// Severity bands stock levels for presentation: the predicate itself is
// binary (low / not low), the band only drives coloring.
type Severity string

const (
	SeverityOut     Severity = "out"
	SeverityLow     Severity = "low"
	SeverityWarning Severity = "warning"
	SeverityOK      Severity = "ok"
)

// LowStockVariant annotates a variant at or below threshold with its
// available quantity.
type LowStockVariant struct {
	Variant   models.Variant `json:"variant"`
	Available int            `json:"available"`
}

// IsLowStock reports whether a product's on-hand quantity is at or below
// threshold. Zero is always low. For variant products any variant at or
// below threshold makes the product low.
func IsLowStock(p models.Product, threshold int) bool {
	if p.HasVariants {
		for _, v := range p.Variants {
			if v.Quantity <= threshold {
				return true
			}
		}
		return false
	}
	return p.Quantity <= threshold
}

// LowStockVariants returns the subset of variants at or below threshold.
func LowStockVariants(p models.Product, threshold int) []LowStockVariant {
	out := make([]LowStockVariant, 0)
	for _, v := range p.Variants {
		if v.Quantity <= threshold {
			out = append(out, LowStockVariant{Variant: v, Available: v.Quantity})
		}
	}
	return out
}

// Classify bands a quantity: zero is out, at or below half the threshold is
// low, at or below the threshold is a warning.
func Classify(quantity, threshold int) Severity {
	switch {
	case quantity <= 0:
		return SeverityOut
	case quantity <= threshold/2:
		return SeverityLow
	case quantity <= threshold:
		return SeverityWarning
	default:
		return SeverityOK
	}
}

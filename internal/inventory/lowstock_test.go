package inventory

import (
	"testing"

	"backend/internal/models"
)

func TestIsLowStockBoundary(t *testing.T) {
	tests := []struct {
		quantity int
		want     bool
	}{
		{0, true},
		{1, true},
		{10, true},
		{11, false},
		{100, false},
	}

	for _, tt := range tests {
		p := models.Product{Quantity: tt.quantity}
		if got := IsLowStock(p, 10); got != tt.want {
			t.Fatalf("IsLowStock(quantity=%d, threshold=10) = %v, want %v", tt.quantity, got, tt.want)
		}
	}
}

func TestIsLowStockVariantProduct(t *testing.T) {
	p := models.Product{
		HasVariants: true,
		Variants: []models.Variant{
			{ID: "a", Size: "M", Color: "red", Quantity: 50},
			{ID: "b", Size: "L", Color: "red", Quantity: 3},
		},
	}

	if !IsLowStock(p, 10) {
		t.Fatal("expected product low when one variant is at or below threshold")
	}

	low := LowStockVariants(p, 10)
	if len(low) != 1 {
		t.Fatalf("expected 1 low variant, got %d", len(low))
	}
	if low[0].Variant.ID != "b" || low[0].Available != 3 {
		t.Fatalf("unexpected low variant: %+v", low[0])
	}
}

func TestClassifyBands(t *testing.T) {
	if got := Classify(0, 10); got != SeverityOut {
		t.Fatalf("quantity 0: got %s", got)
	}
	if got := Classify(4, 10); got != SeverityLow {
		t.Fatalf("quantity 4: got %s", got)
	}
	if got := Classify(9, 10); got != SeverityWarning {
		t.Fatalf("quantity 9: got %s", got)
	}
	if got := Classify(11, 10); got != SeverityOK {
		t.Fatalf("quantity 11: got %s", got)
	}
}

func TestApplyDeltaFloorsAtZero(t *testing.T) {
	if got := applyDelta(5, -10); got != 0 {
		t.Fatalf("expected floor at zero, got %d", got)
	}
	if got := applyDelta(5, -3); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if got := applyDelta(5, 7); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
}

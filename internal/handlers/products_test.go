package handlers

import (
	"testing"
)

func TestBuildVariantsRejectsDuplicatePair(t *testing.T) {
	_, err := buildVariants([]VariantRequest{
		{Size: "M", Color: "red", Quantity: 5},
		{Size: "L", Color: "red", Quantity: 3},
		{Size: "m", Color: "RED", Quantity: 1},
	})
	if err == nil {
		t.Fatal("expected duplicate (size, color) pair to be rejected")
	}
}

func TestBuildVariantsAssignsIDs(t *testing.T) {
	variants, err := buildVariants([]VariantRequest{
		{Size: "M", Color: "red", Quantity: 5, CostPrice: 10, SellPrice: 20},
		{Size: "L", Color: "blue", Quantity: 3, CostPrice: 12, SellPrice: 22},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(variants))
	}
	if variants[0].ID == "" || variants[1].ID == "" {
		t.Fatal("expected generated variant ids")
	}
	if variants[0].ID == variants[1].ID {
		t.Fatal("variant ids must be unique")
	}
}

func TestBuildVariantsRequiresSizeAndColor(t *testing.T) {
	if _, err := buildVariants([]VariantRequest{{Size: " ", Color: "red"}}); err == nil {
		t.Fatal("expected error for blank size")
	}
	if _, err := buildVariants(nil); err == nil {
		t.Fatal("expected error for empty variant list")
	}
}

func TestBuildVariantsRejectsNegativeValues(t *testing.T) {
	if _, err := buildVariants([]VariantRequest{{Size: "M", Color: "red", Quantity: -1}}); err == nil {
		t.Fatal("expected error for negative quantity")
	}
	if _, err := buildVariants([]VariantRequest{{Size: "M", Color: "red", CostPrice: -5}}); err == nil {
		t.Fatal("expected error for negative cost price")
	}
}

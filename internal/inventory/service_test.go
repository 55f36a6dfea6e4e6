package inventory

import "testing"

func TestClampMovementPageBeyondLastPage(t *testing.T) {
	// 30 records at 20 per page is 2 pages; page 99 must serve page 2.
	if got := clampMovementPage(99, 30, 20); got != 2 {
		t.Fatalf("expected page 2, got %d", got)
	}
}

func TestClampMovementPageWithinRange(t *testing.T) {
	if got := clampMovementPage(1, 30, 20); got != 1 {
		t.Fatalf("expected page 1, got %d", got)
	}
	if got := clampMovementPage(2, 30, 20); got != 2 {
		t.Fatalf("expected page 2, got %d", got)
	}
}

func TestClampMovementPageEmptyLedger(t *testing.T) {
	if got := clampMovementPage(5, 0, 20); got != 1 {
		t.Fatalf("expected page 1 for an empty ledger, got %d", got)
	}
}

func TestClampMovementPageBelowOne(t *testing.T) {
	if got := clampMovementPage(0, 30, 20); got != 1 {
		t.Fatalf("expected page 1, got %d", got)
	}
}

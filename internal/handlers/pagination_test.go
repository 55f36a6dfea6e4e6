package handlers

import (
	"reflect"
	"testing"
)

func TestPageWindowCenteredOnCurrentPage(t *testing.T) {
	got := pageWindow(7, 12)
	want := []int64{5, 6, 7, 8, 9}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pageWindow(7, 12) = %v, want %v", got, want)
	}
}

func TestPageWindowClampedAtStart(t *testing.T) {
	got := pageWindow(1, 12)
	want := []int64{1, 2, 3, 4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pageWindow(1, 12) = %v, want %v", got, want)
	}
}

func TestPageWindowClampedAtEnd(t *testing.T) {
	got := pageWindow(12, 12)
	want := []int64{8, 9, 10, 11, 12}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pageWindow(12, 12) = %v, want %v", got, want)
	}
}

func TestPageWindowFewerPagesThanWindow(t *testing.T) {
	got := pageWindow(2, 3)
	want := []int64{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pageWindow(2, 3) = %v, want %v", got, want)
	}
}

func TestClampPage(t *testing.T) {
	if got := clampPage(20, 12); got != 12 {
		t.Fatalf("clampPage(20, 12) = %d, want 12", got)
	}
	if got := clampPage(0, 12); got != 1 {
		t.Fatalf("clampPage(0, 12) = %d, want 1", got)
	}
	if got := clampPage(5, 0); got != 1 {
		t.Fatalf("clampPage(5, 0) = %d, want 1", got)
	}
}

func TestParsePaginationParamsDefaults(t *testing.T) {
	page, limit, err := parsePaginationParams("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page != 1 || limit != 20 {
		t.Fatalf("expected defaults 1/20, got %d/%d", page, limit)
	}
}

func TestParsePaginationParamsRejectsBadInput(t *testing.T) {
	if _, _, err := parsePaginationParams("0", ""); err == nil {
		t.Fatal("expected error for page 0")
	}
	if _, _, err := parsePaginationParams("abc", ""); err == nil {
		t.Fatal("expected error for non-numeric page")
	}
	if _, _, err := parsePaginationParams("1", "-5"); err == nil {
		t.Fatal("expected error for negative limit")
	}
}

// Package reports buckets orders and stock movements into fixed time windows
// for dashboard charting.
package reports

import (
	"time"

	"backend/internal/models"
)

// Window selects the bucketing granularity.
type Window string

const (
	// Weekly covers the last 7 calendar days including today.
	Weekly Window = "weekly"
	// Monthly covers the last 6 calendar months including the current one.
	Monthly Window = "monthly"
)

const (
	weeklyDays    = 7
	monthlyMonths = 6

	dayKeyFormat   = "2006-01-02"
	monthKeyFormat = "2006-01"
)

// Bucket is one point in a chart series. Buckets are always present even when
// empty, so the series has a fixed length.
type Bucket struct {
	Key   string    `json:"key"`
	Start time.Time `json:"start"`
	Total float64   `json:"total"`
}

// emptyBuckets builds the zero-filled series, oldest first.
func emptyBuckets(window Window, now time.Time) []Bucket {
	if window == Monthly {
		buckets := make([]Bucket, 0, monthlyMonths)
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		for i := monthlyMonths - 1; i >= 0; i-- {
			start := first.AddDate(0, -i, 0)
			buckets = append(buckets, Bucket{Key: start.Format(monthKeyFormat), Start: start})
		}
		return buckets
	}

	buckets := make([]Bucket, 0, weeklyDays)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := weeklyDays - 1; i >= 0; i-- {
		start := today.AddDate(0, 0, -i)
		buckets = append(buckets, Bucket{Key: start.Format(dayKeyFormat), Start: start})
	}
	return buckets
}

func bucketKey(window Window, ts time.Time) string {
	if window == Monthly {
		return ts.Format(monthKeyFormat)
	}
	return ts.Format(dayKeyFormat)
}

// RevenueBuckets accumulates each order's total into the bucket matching its
// creation date. Orders without a timestamp are excluded.
func RevenueBuckets(orders []models.Order, window Window, now time.Time) []Bucket {
	buckets := emptyBuckets(window, now)

	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		index[b.Key] = i
	}

	for _, order := range orders {
		if order.CreatedAt.IsZero() {
			continue
		}
		if i, ok := index[bucketKey(window, order.CreatedAt.In(now.Location()))]; ok {
			buckets[i].Total += order.Total
		}
	}

	return buckets
}

// MovementTotals sums quantity × cost price over a ledger slice, split by
// movement type. Records without a cost price contribute zero.
func MovementTotals(movements []models.InventoryMovement) (totalIn, totalOut float64) {
	for _, m := range movements {
		if m.CostPrice == nil {
			continue
		}
		value := float64(m.Quantity) * *m.CostPrice
		switch m.Type {
		case models.MovementIn:
			totalIn += value
		case models.MovementOut:
			totalOut += value
		}
	}
	return totalIn, totalOut
}

package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/models"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return ts
}

func TestRevenueBucketsWeekly(t *testing.T) {
	now := day(t, "2024-05-10")

	orders := []models.Order{
		{Total: 100, CreatedAt: day(t, "2024-05-10")},
		{Total: 50, CreatedAt: day(t, "2024-05-10")},
		{Total: 30, CreatedAt: day(t, "2024-05-04")},
		{Total: 999, CreatedAt: day(t, "2024-04-01")}, // outside window
		{Total: 999},                                  // no timestamp
	}

	buckets := RevenueBuckets(orders, Weekly, now)
	require.Len(t, buckets, 7)

	assert.Equal(t, "2024-05-04", buckets[0].Key, "oldest bucket first")
	assert.Equal(t, "2024-05-10", buckets[6].Key)

	assert.Equal(t, 30.0, buckets[0].Total)
	assert.Equal(t, 150.0, buckets[6].Total)

	for _, b := range buckets[1:6] {
		assert.Zero(t, b.Total, "empty bucket %s must be zero-filled", b.Key)
	}
}

func TestRevenueBucketsMonthly(t *testing.T) {
	now := day(t, "2024-06-15")

	orders := []models.Order{
		{Total: 200, CreatedAt: day(t, "2024-06-01")},
		{Total: 75, CreatedAt: day(t, "2024-01-20")},
		{Total: 999, CreatedAt: day(t, "2023-12-31")}, // outside window
	}

	buckets := RevenueBuckets(orders, Monthly, now)
	require.Len(t, buckets, 6)

	assert.Equal(t, "2024-01", buckets[0].Key)
	assert.Equal(t, "2024-06", buckets[5].Key)
	assert.Equal(t, 75.0, buckets[0].Total)
	assert.Equal(t, 200.0, buckets[5].Total)
}

func TestMovementTotals(t *testing.T) {
	cost := func(v float64) *float64 { return &v }

	movements := []models.InventoryMovement{
		{Type: models.MovementIn, Quantity: 10, CostPrice: cost(5)},
		{Type: models.MovementIn, Quantity: 2, CostPrice: cost(25)},
		{Type: models.MovementOut, Quantity: 4, CostPrice: cost(5)},
		{Type: models.MovementOut, Quantity: 3}, // no cost tracked
	}

	totalIn, totalOut := MovementTotals(movements)
	assert.Equal(t, 100.0, totalIn)
	assert.Equal(t, 20.0, totalOut)
}

// Package cache keeps dashboard summaries in redis so every page load does
// not re-aggregate the order and ledger collections.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"backend/internal/reports"
)

const (
	summaryKeyPrefix  = "dashboard:summary:"
	defaultSummaryTTL = time.Minute
)

// DashboardCache reads and writes precomputed dashboard summaries.
type DashboardCache interface {
	GetSummary(ctx context.Context, window reports.Window) (*reports.DashboardSummary, bool, error)
	SetSummary(ctx context.Context, summary *reports.DashboardSummary) error
	Invalidate(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

// Config holds redis connection settings. An empty Addr disables caching.
type Config struct {
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
}

func NewDashboardCache(cfg Config) (DashboardCache, error) {
	if cfg.Addr == "" {
		return noopDashboardCache{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultSummaryTTL
	}

	return &redisDashboardCache{client: client, ttl: ttl}, nil
}

func summaryKey(window reports.Window) string {
	return summaryKeyPrefix + string(window)
}

func (c *redisDashboardCache) GetSummary(ctx context.Context, window reports.Window) (*reports.DashboardSummary, bool, error) {
	payload, err := c.client.Get(ctx, summaryKey(window)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary reports.DashboardSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode dashboard summary: %w", err)
	}
	return &summary, true, nil
}

func (c *redisDashboardCache) SetSummary(ctx context.Context, summary *reports.DashboardSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode dashboard summary: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey(summary.Window), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) Invalidate(ctx context.Context) error {
	keys := []string{summaryKey(reports.Weekly), summaryKey(reports.Monthly)}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func (noopDashboardCache) GetSummary(ctx context.Context, window reports.Window) (*reports.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (noopDashboardCache) SetSummary(ctx context.Context, summary *reports.DashboardSummary) error {
	return nil
}

func (noopDashboardCache) Invalidate(ctx context.Context) error {
	return nil
}

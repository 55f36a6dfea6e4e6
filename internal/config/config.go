package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port            string `env:"PORT" envDefault:"8080"`
	MongoURI        string `env:"MONGO_URI,required"`
	DBName          string `env:"DB_NAME" envDefault:"stockroom"`
	JWTSecret       string `env:"JWT_SECRET,required"`
	AccessTokenTTL  int    `env:"ACCESS_TOKEN_TTL" envDefault:"20"`  // minutes
	RefreshTokenTTL int    `env:"REFRESH_TOKEN_TTL" envDefault:"7"`  // days
	LowStockLimit   int    `env:"LOW_STOCK_THRESHOLD" envDefault:"10"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	DashboardTTL  int    `env:"DASHBOARD_CACHE_TTL" envDefault:"60"` // seconds

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET" envDefault:"uploads"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
}

// Load reads .env when present and parses the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenTTL) * time.Minute
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenTTL) * 24 * time.Hour
}

func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) StorageEnabled() bool {
	return c.MinioEndpoint != ""
}

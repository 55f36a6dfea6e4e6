// Package logger builds the application-wide zap logger.
package logger

import "go.uber.org/zap"

// New returns a production zap logger. Callers own Sync.
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

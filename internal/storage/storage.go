// Package storage abstracts the object store holding product images and
// payment QR / slip uploads.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrStorageDisabled is returned when no object store is configured.
var ErrStorageDisabled = errors.New("object storage is not configured")

// ObjectStorage captures the upload-by-path / URL / delete-by-path contract
// the handlers need.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	URL(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Disabled is the stand-in used when storage is not configured; every call
// fails with ErrStorageDisabled.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	return ErrStorageDisabled
}

func (Disabled) URL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "", ErrStorageDisabled
}

func (Disabled) Delete(ctx context.Context, key string) error {
	return ErrStorageDisabled
}

// Package storage hands out short-lived URLs for objects kept in a bucket.
package storage

import (
	"context"
	"time"

	"staysphere/internal/pkg/apperr"
)

// ObjectStore is the bucket surface the media service needs.
type ObjectStore interface {
	PresignPut(ctx context.Context, key, contentType string, size int64, ttl time.Duration) (string, error)
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

var ErrDisabled = apperr.New(apperr.KindInvalidState, "STORAGE_DISABLED", "object storage is not configured")

// Disabled is used when no bucket is configured.
type Disabled struct{}

func (Disabled) PresignPut(context.Context, string, string, int64, time.Duration) (string, error) {
	return "", ErrDisabled
}

func (Disabled) PresignGet(context.Context, string, time.Duration) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Delete(context.Context, string) error {
	return ErrDisabled
}

// Package kvstore is the TTL key-value store behind OTP codes and rate limits.
package kvstore

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX stores value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, keys ...string) error
	// Incr bumps a counter. The window starts on the first increment and the
	// remaining time of that window is returned alongside the count.
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

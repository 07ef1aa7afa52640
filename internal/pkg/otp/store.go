package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// ErrNotFound is returned when no unexpired code exists for a key
var ErrNotFound = errors.New("otp not found or expired")

// Store keeps one-time codes with a per-entry time to live
type Store interface {
	Set(ctx context.Context, key, code string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Generate returns a random numeric code of the given length
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid otp length %d", length)
	}

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate otp: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// NormalizeKey folds an email address into the key used by the stores
func NormalizeKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

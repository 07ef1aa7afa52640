package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestRedisStore_SetGetDelete(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "jane@example.com", "123456", 5*time.Minute))
	assert.True(t, mr.Exists("otp:jane@example.com"))

	code, err := store.Get(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", code)

	require.NoError(t, store.Delete(ctx, "jane@example.com"))
	_, err = store.Get(ctx, "jane@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "111111", time.Minute))
	mr.FastForward(time.Minute + time.Second)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "654321", 5*time.Minute))

	now = now.Add(4 * time.Minute)
	code, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "654321", code)

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SetOverwritesAndSweeps(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "old", "1", time.Second))
	require.NoError(t, store.Set(ctx, "k", "1", time.Hour))
	require.NoError(t, store.Set(ctx, "k", "2", time.Hour))

	now = now.Add(2 * time.Second)
	require.NoError(t, store.Set(ctx, "other", "3", time.Hour))

	assert.Len(t, store.entries, 2)
	code, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "2", code)
}

func TestGenerate(t *testing.T) {
	code, err := Generate(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}

	_, err = Generate(0)
	assert.Error(t, err)
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeKey("  Jane@Example.COM "))
}

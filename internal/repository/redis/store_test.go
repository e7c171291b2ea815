package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rasulshaikhdev/techgear-hub/pkg/errors"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, ttl), mr
}

func TestStore_Get_Success(t *testing.T) {
	s, mr := setupTestRedis(t, 0)
	require.NoError(t, mr.Set("storefront:cart", `[{"id":3}]`))

	got, err := s.Get(context.Background(), "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":3}]`, got)
}

func TestStore_Get_NotFound(t *testing.T) {
	s, _ := setupTestRedis(t, 0)

	_, err := s.Get(context.Background(), "cart")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_Set_WritesPrefixedKey(t *testing.T) {
	s, mr := setupTestRedis(t, 0)

	require.NoError(t, s.Set(context.Background(), "wishlist", "[]"))

	got, err := mr.Get("storefront:wishlist")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
	assert.Equal(t, time.Duration(0), mr.TTL("storefront:wishlist"))
}

func TestStore_Set_AppliesTTL(t *testing.T) {
	s, mr := setupTestRedis(t, 24*time.Hour)

	require.NoError(t, s.Set(context.Background(), "cart", "[]"))
	assert.Equal(t, 24*time.Hour, mr.TTL("storefront:cart"))

	mr.FastForward(25 * time.Hour)
	_, err := s.Get(context.Background(), "cart")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	s, mr := setupTestRedis(t, 0)
	require.NoError(t, mr.Set("storefront:cart", "[]"))

	require.NoError(t, s.Delete(context.Background(), "cart"))
	assert.False(t, mr.Exists("storefront:cart"))
}

func TestStore_ConnectionError(t *testing.T) {
	s, mr := setupTestRedis(t, 0)
	mr.Close()

	_, err := s.Get(context.Background(), "cart")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "redis get cart")
	assert.Error(t, s.Ping(context.Background()))
}

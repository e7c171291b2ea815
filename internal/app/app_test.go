package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasulshaikhdev/techgear-hub/internal/config"
	"github.com/rasulshaikhdev/techgear-hub/internal/service"
	"github.com/rasulshaikhdev/techgear-hub/pkg/logger"
)

func loadConfig(t *testing.T, vars map[string]string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(vars)
	require.NoError(t, err)
	return cfg
}

func TestNewApp_MemoryDriver(t *testing.T) {
	ctx := context.Background()
	a, err := NewApp(ctx, loadConfig(t, map[string]string{"STORE_DRIVER": "memory"}), logger.Discard())
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"store"}, a.Health().Names())

	rec := httptest.NewRecorder()
	a.Handler(ctx).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewApp_SQLitePersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := loadConfig(t, map[string]string{
		"STORE_DRIVER": "sqlite",
		"SQLITE_PATH":  filepath.Join(t.TempDir(), "data", "storefront.db"),
	})

	first, err := NewApp(ctx, cfg, logger.Discard())
	require.NoError(t, err)
	first.Sessions().Get(ctx, service.DefaultSession).Storefront.AddToCart(ctx, 4, 2)
	first.Close()

	second, err := NewApp(ctx, cfg, logger.Discard())
	require.NoError(t, err)
	defer second.Close()

	totals := second.Sessions().Get(ctx, service.DefaultSession).Storefront.Totals()
	assert.Equal(t, 2, totals.ItemCount)
	assert.Equal(t, "$599.98", "$"+totals.Total.StringFixed(2))
}

func TestNewApp_RedisUnreachableFallsBackToMemory(t *testing.T) {
	ctx := context.Background()
	cfg := loadConfig(t, map[string]string{"STORE_DRIVER": "redis", "REDIS_ADDR": "127.0.0.1:1"})

	a, err := NewApp(ctx, cfg, logger.Discard())
	require.NoError(t, err)
	defer a.Close()

	totals := a.Sessions().Get(ctx, service.DefaultSession).Storefront.AddToCart(ctx, 3, 1)
	assert.Equal(t, 1, totals.ItemCount, "the storefront keeps working on the fallback store")

	rec := httptest.NewRecorder()
	a.Handler(ctx).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis store unavailable")
}

func TestNewApp_SQLiteUnopenableFallsBackToMemory(t *testing.T) {
	ctx := context.Background()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	cfg := loadConfig(t, map[string]string{
		"STORE_DRIVER": "sqlite",
		"SQLITE_PATH":  filepath.Join(blocker, "data", "storefront.db"),
	})

	a, err := NewApp(ctx, cfg, logger.Discard())
	require.NoError(t, err)
	defer a.Close()

	assert.Error(t, a.pingStore(ctx))
	assert.Equal(t, 0, a.Sessions().Get(ctx, service.DefaultSession).Storefront.Totals().ItemCount)
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := loadConfig(t, map[string]string{"STORE_DRIVER": "memory", "HTTP_PORT": "18089"})
	a, err := NewApp(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, a.Serve(ctx))
}

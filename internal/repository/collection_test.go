package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasulshaikhdev/techgear-hub/internal/repository"
	"github.com/rasulshaikhdev/techgear-hub/internal/repository/memory"
	"github.com/rasulshaikhdev/techgear-hub/pkg/logger"
)

type line struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func TestCollection_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	c := repository.NewCollection[line](kv, repository.KeyCart, logger.Discard())

	want := []line{{ID: 3, Name: "Gaming Keyboard", Quantity: 3}, {ID: 5, Name: "Portable Charger", Quantity: 1}}
	require.NoError(t, c.Save(ctx, want))

	assert.Equal(t, want, c.Load(ctx))

	raw, err := kv.Get(ctx, repository.KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":3,"name":"Gaming Keyboard","quantity":3},{"id":5,"name":"Portable Charger","quantity":1}]`, raw)
}

func TestCollection_AbsentKeyIsEmpty(t *testing.T) {
	c := repository.NewCollection[line](memory.New(), repository.KeyWishlist, logger.Discard())

	got := c.Load(context.Background())
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollection_CorruptValueIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Set(ctx, "corrupt-test", "{not json"))
	c := repository.NewCollection[line](kv, "corrupt-test", logger.Discard())

	got := c.Load(ctx)

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollection_NullValueIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Set(ctx, repository.KeyCart, "null"))

	got := repository.NewCollection[line](kv, repository.KeyCart, logger.Discard()).Load(ctx)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollection_SaveNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	c := repository.NewCollection[line](kv, repository.KeyCart, logger.Discard())

	require.NoError(t, c.Save(ctx, nil))

	raw, err := kv.Get(ctx, repository.KeyCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

type failingKV struct{ memory.Store }

var errBackend = errors.New("connection refused")

func (f *failingKV) Get(context.Context, string) (string, error) { return "", errBackend }
func (f *failingKV) Set(context.Context, string, string) error  { return errBackend }

func TestCollection_BackendFailure(t *testing.T) {
	ctx := context.Background()
	c := repository.NewCollection[line](&failingKV{}, repository.KeyCart, logger.Discard())

	assert.Empty(t, c.Load(ctx))

	err := c.Save(ctx, []line{{ID: 1, Quantity: 1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errBackend)
	assert.Contains(t, err.Error(), "save cart")
}

func TestCollection_CorruptLoadIsCounted(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Set(ctx, "counted", "[{]"))
	c := repository.NewCollection[line](kv, "counted", logger.Discard())

	before := testutil.ToFloat64(repository.CorruptLoads().WithLabelValues("counted"))
	c.Load(ctx)
	after := testutil.ToFloat64(repository.CorruptLoads().WithLabelValues("counted"))

	assert.Equal(t, before+1, after)
}

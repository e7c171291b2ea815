package postgres

import (
	"context"
	"errors"
	"io/fs"
	"regexp"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasulshaikhdev/techgear-hub/pkg/database"
	apperrors "github.com/rasulshaikhdev/techgear-hub/pkg/errors"
	"github.com/rasulshaikhdev/techgear-hub/pkg/logger"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestStore_Get(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
		WithArgs("cart").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(`[{"id":3}]`))

	got, err := New(mock).Get(context.Background(), "cart")

	require.NoError(t, err)
	assert.Equal(t, `[{"id":3}]`, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Get_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
		WithArgs("wishlist").
		WillReturnRows(pgxmock.NewRows([]string{"value"}))

	_, err := New(mock).Get(context.Background(), "wishlist")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Get_QueryError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
		WithArgs("cart").
		WillReturnError(errors.New("connection reset by peer"))

	_, err := New(mock).Get(context.Background(), "cart")

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "select storefront_kv cart")
}

func TestStore_Set(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(setQuery)).
		WithArgs("cart", "[]").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, New(mock).Set(context.Background(), "cart", "[]"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Delete(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
		WithArgs("cart").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, New(mock).Delete(context.Background(), "cart"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrations_Embedded(t *testing.T) {
	entries, err := fs.ReadDir(Migrations(), ".")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "001_create_storefront_kv.up.sql", entries[0].Name())
}

func TestMigrate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)")).
		WithArgs("001_create_storefront_kv.up.sql").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS storefront_kv").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("001_create_storefront_kv.up.sql").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, Migrate(context.Background(), mock, logger.Discard()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

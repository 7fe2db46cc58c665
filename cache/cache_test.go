package cache

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCache(t *testing.T) {
	qc, err := NewQueryCache(2)
	require.NoError(t, err)

	_, ok := qc.Get(1)
	assert.False(t, ok)

	qc.Set(1, "SELECT 1", []any{})
	qc.Set(2, "SELECT 2", []any{int64(2)})

	cached, ok := qc.Get(1)
	require.True(t, ok)
	assert.Equal(t, "SELECT 1", cached.SQL)

	// LRU evicts the least recently used fingerprint.
	qc.Set(3, "SELECT 3", nil)
	assert.Equal(t, 2, qc.Len())
	_, ok = qc.Get(2)
	assert.False(t, ok)
}

func TestStatementCacheSharesStatements(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sc, err := NewStatementCache(4)
	require.NoError(t, err)

	mock.ExpectPrepare("SELECT 1")

	prepares := 0
	prepare := func(ctx context.Context, query string) (*sql.Stmt, error) {
		prepares++
		return db.PrepareContext(ctx, query)
	}

	ctx := context.Background()
	first, err := sc.GetOrPrepare(ctx, "SELECT 1", prepare)
	require.NoError(t, err)
	second, err := sc.GetOrPrepare(ctx, "SELECT 1", prepare)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, prepares)
	assert.Equal(t, 1, sc.Len())
}

func TestStatementCacheEvictionCloses(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sc, err := NewStatementCache(1)
	require.NoError(t, err)

	mock.ExpectPrepare("SELECT 1")
	mock.ExpectPrepare("SELECT 2")

	ctx := context.Background()
	_, err = sc.GetOrPrepare(ctx, "SELECT 1", db.PrepareContext)
	require.NoError(t, err)
	_, err = sc.GetOrPrepare(ctx, "SELECT 2", db.PrepareContext)
	require.NoError(t, err)

	assert.Equal(t, 1, sc.Len())
}

package cache

import (
	"context"
	"database/sql"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// StatementCache keeps prepared statements keyed by SQL text. Evicted
// statements are closed so the driver can release server-side resources.
type StatementCache struct {
	mu    sync.Mutex
	stmts *lru.Cache[string, *sql.Stmt]
}

func NewStatementCache(size int) (*StatementCache, error) {
	stmts, err := lru.NewWithEvict[string, *sql.Stmt](size, func(_ string, stmt *sql.Stmt) {
		_ = stmt.Close()
	})
	if err != nil {
		return nil, err
	}
	return &StatementCache{stmts: stmts}, nil
}

// GetOrPrepare returns the cached statement for query, preparing it via
// prepare on a miss. Concurrent callers racing on the same query end up
// sharing a single cached statement.
func (c *StatementCache) GetOrPrepare(ctx context.Context, query string, prepare func(context.Context, string) (*sql.Stmt, error)) (*sql.Stmt, error) {
	if stmt, ok := c.stmts.Get(query); ok {
		return stmt, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if stmt, ok := c.stmts.Get(query); ok {
		return stmt, nil
	}

	stmt, err := prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	c.stmts.Add(query, stmt)
	return stmt, nil
}

func (c *StatementCache) Len() int {
	return c.stmts.Len()
}

// Purge closes every cached statement.
func (c *StatementCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stmts.Purge()
}

package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedQuery holds the rendered SQL for a statement fingerprint along
// with the argument slots collected during the render.
type CachedQuery struct {
	SQL  string
	Args []any
}

// QueryCache maps AST fingerprints to rendered SQL so structurally
// identical statements skip the visitor walk.
type QueryCache interface {
	Get(fingerprint uint64) (*CachedQuery, bool)
	Set(fingerprint uint64, sql string, args []any)
	Len() int
}

type lruQueryCache struct {
	entries *lru.Cache[uint64, *CachedQuery]
}

func NewQueryCache(size int) (QueryCache, error) {
	entries, err := lru.New[uint64, *CachedQuery](size)
	if err != nil {
		return nil, err
	}
	return &lruQueryCache{entries: entries}, nil
}

func (c *lruQueryCache) Get(fingerprint uint64) (*CachedQuery, bool) {
	return c.entries.Get(fingerprint)
}

func (c *lruQueryCache) Set(fingerprint uint64, sql string, args []any) {
	c.entries.Add(fingerprint, &CachedQuery{SQL: sql, Args: args})
}

func (c *lruQueryCache) Len() int {
	return c.entries.Len()
}

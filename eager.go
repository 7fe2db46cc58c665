// Package eager batch-loads polymorphic references and many-to-many
// collections over plain SQL result sets. A result set of N rows costs
// one query to materialize, one query per attached collection and one
// query per distinct referenced type, independent of N.
package eager

import (
	"context"

	"github.com/Konsultn-Engineering/eager/connector"
	"github.com/Konsultn-Engineering/eager/engine"
)

// Connection configuration, re-exported for callers that only import
// the root package.
type (
	Config      = connector.Config
	PoolConfig  = connector.PoolConfig
	RetryConfig = connector.RetryConfig
)

// Query surface re-exports.
type (
	Engine  = engine.Engine
	Session = engine.Session
	Batch   = engine.Batch
	Order   = engine.Order
	Option  = engine.Option
)

var (
	OrderAsc  = engine.OrderAsc
	OrderDesc = engine.OrderDesc

	WithFetchRelations     = engine.WithFetchRelations
	WithNativePrefetch     = engine.WithNativePrefetch
	WithPreparedStatements = engine.WithPreparedStatements
	WithSchema             = engine.WithSchema
	WithTypes              = engine.WithTypes

	ErrUnknownRelation   = engine.ErrUnknownRelation
	ErrUnknownTypeTag    = engine.ErrUnknownTypeTag
	ErrDanglingReference = engine.ErrDanglingReference
)

// Connect establishes a connection through a registered provider and
// wraps it in an engine.
func Connect(provider string, cfg Config, opts ...Option) (*Engine, error) {
	conn, err := connector.New(provider, cfg)
	if err != nil {
		return nil, err
	}
	c, err := conn.Connect(context.Background())
	if err != nil {
		return nil, err
	}
	return engine.New(c, opts...), nil
}

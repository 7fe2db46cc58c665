package engine

import (
	"context"

	"github.com/Konsultn-Engineering/eager/ast"
	"github.com/Konsultn-Engineering/eager/cache"
	"github.com/Konsultn-Engineering/eager/connector"
	"github.com/Konsultn-Engineering/eager/database"
	"github.com/Konsultn-Engineering/eager/dialect"
	"github.com/Konsultn-Engineering/eager/schema"
	"github.com/Konsultn-Engineering/eager/visitor"
)

const (
	defaultQueryCacheSize = 512
	defaultStmtCacheSize  = 128
)

// Engine coordinates query building, execution and relation fetching
// for one database connection.
type Engine struct {
	db      database.Database
	dialect dialect.Dialect
	schema  *schema.Context
	types   *schema.TypeRegistry
	qcache  cache.QueryCache
	stmts   *cache.StatementCache

	fetchRelations bool
	nativePrefetch bool
	prepareStmts   bool
}

type Option func(*Engine)

// WithFetchRelations controls whether Find resolves generic reference
// slots after materializing rows. Enabled by default; batch specs
// attached explicitly are unaffected.
func WithFetchRelations(enabled bool) Option {
	return func(e *Engine) { e.fetchRelations = enabled }
}

// WithNativePrefetch delegates generic resolution to bulk loaders
// registered per type tag instead of the built-in fetch.
func WithNativePrefetch(enabled bool) Option {
	return func(e *Engine) { e.nativePrefetch = enabled }
}

// WithPreparedStatements routes queries through an LRU of prepared
// statements. Only effective on drivers that support explicit
// preparation; pgx pools prepare implicitly and fall back.
func WithPreparedStatements(enabled bool) Option {
	return func(e *Engine) { e.prepareStmts = enabled }
}

// WithSchema replaces the default schema context.
func WithSchema(ctx *schema.Context) Option {
	return func(e *Engine) { e.schema = ctx }
}

// WithTypes replaces the default type registry.
func WithTypes(reg *schema.TypeRegistry) Option {
	return func(e *Engine) { e.types = reg }
}

// New creates an engine on top of an established connection.
func New(conn connector.Connection, opts ...Option) *Engine {
	return NewWithDatabase(conn.Database(), conn.Dialect(), opts...)
}

// NewWithDatabase creates an engine from a raw database handle, used
// in tests and for non-pgx drivers.
func NewWithDatabase(db database.Database, d dialect.Dialect, opts ...Option) *Engine {
	e := &Engine{
		db:             db,
		dialect:        d,
		schema:         schema.New(),
		types:          schema.NewTypeRegistry(),
		fetchRelations: true,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.qcache, _ = cache.NewQueryCache(defaultQueryCacheSize)
	if e.prepareStmts {
		e.stmts, _ = cache.NewStatementCache(defaultStmtCacheSize)
	}
	return e
}

// RegisterType binds a type tag to a model for generic resolution.
func (e *Engine) RegisterType(tag string, model any) error {
	return e.types.Register(tag, model)
}

// RegisterLoader installs a bulk loader for a type tag, used when
// native prefetching is enabled.
func (e *Engine) RegisterLoader(tag string, loader schema.BulkLoader) {
	e.types.RegisterLoader(tag, loader)
}

// Schema exposes the engine's schema context.
func (e *Engine) Schema() *schema.Context {
	return e.schema
}

// Close releases cached statements and the underlying connection.
func (e *Engine) Close() error {
	if e.stmts != nil {
		e.stmts.Purge()
	}
	return e.db.Close()
}

// buildSQL renders a statement through the pooled visitor, consulting
// the fingerprint cache, and releases the AST.
func (e *Engine) buildSQL(stmt *ast.SelectStmt) (string, []any, error) {
	v := visitor.NewSQLVisitor(e.dialect, e.qcache)
	defer v.Release()
	defer stmt.Release()
	return v.Build(stmt)
}

// queryContext executes a query, going through the statement cache
// when prepared statements are enabled and the driver supports them.
func (e *Engine) queryContext(ctx context.Context, query string, args ...any) (database.Rows, error) {
	if e.stmts != nil {
		stmt, err := e.stmts.GetOrPrepare(ctx, query, e.db.PrepareContext)
		if err == nil {
			rows, err := stmt.QueryContext(ctx, args...)
			if err != nil {
				return nil, err
			}
			return database.NewSqlRows(rows), nil
		}
		// Driver cannot prepare explicitly; run the query directly.
	}
	return e.db.QueryContext(ctx, query, args...)
}

package schema

import (
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Context holds schema configuration and the metadata cache. One
// Context is shared per engine; the zero configuration uses snake_case
// naming, the db tag and a 256-entry LRU.
type Context struct {
	namingStrategy NamingStrategy
	tagName        string
	cacheSize      int
	onEvict        func(reflect.Type, *EntityMeta)

	entityCache *lru.Cache[reflect.Type, *EntityMeta]
	parser      *TagParser
}

type Option func(*Context)

// WithNamingStrategy sets the naming strategy for table and column mapping.
func WithNamingStrategy(strategy NamingStrategy) Option {
	return func(ctx *Context) { ctx.namingStrategy = strategy }
}

// WithTagName sets the struct tag name to use for database field mapping.
func WithTagName(tagName string) Option {
	return func(ctx *Context) { ctx.tagName = tagName }
}

// WithCacheSize sets the LRU cache size for struct metadata.
func WithCacheSize(size int) Option {
	return func(ctx *Context) { ctx.cacheSize = size }
}

// WithEvictionCallback sets a callback invoked on metadata cache eviction.
func WithEvictionCallback(onEvict func(reflect.Type, *EntityMeta)) Option {
	return func(ctx *Context) { ctx.onEvict = onEvict }
}

// New creates a schema context with the given configuration.
func New(options ...Option) *Context {
	ctx := &Context{
		namingStrategy: DefaultNamingStrategy(),
		tagName:        "db",
		cacheSize:      256,
	}
	for _, opt := range options {
		opt(ctx)
	}

	ctx.parser = NewTagParser(ctx.namingStrategy, ctx.tagName)

	cache, err := lru.NewWithEvict[reflect.Type, *EntityMeta](ctx.cacheSize, func(t reflect.Type, meta *EntityMeta) {
		if ctx.onEvict != nil {
			ctx.onEvict(t, meta)
		}
	})
	if err != nil {
		// Only fails for non-positive sizes.
		panic(fmt.Sprintf("schema: invalid cache size %d: %v", ctx.cacheSize, err))
	}
	ctx.entityCache = cache

	return ctx
}

// Introspect returns cached metadata for a struct type, building it on
// first use.
func (c *Context) Introspect(t reflect.Type) (*EntityMeta, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("invalid model type: %s", t.Kind())
	}
	if meta, ok := c.entityCache.Get(t); ok {
		return meta, nil
	}

	meta, err := c.buildMeta(t)
	if err != nil {
		return nil, err
	}
	c.entityCache.Add(t, meta)
	return meta, nil
}

var defaultContext = New()

// Introspect returns metadata from the default schema context.
func Introspect(t reflect.Type) (*EntityMeta, error) {
	return defaultContext.Introspect(t)
}

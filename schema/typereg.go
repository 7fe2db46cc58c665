package schema

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// BulkLoader fetches all objects for a set of ids in one shot. The
// result map is keyed by the string form of each id (fmt.Sprint). Ids
// absent from the map are treated as dangling references.
type BulkLoader func(ctx context.Context, ids []any) (map[string]any, error)

// TypeRegistry maps type tags to Go model types for polymorphic
// reference resolution. Tags are explicit; a type is only resolvable
// after registration.
type TypeRegistry struct {
	mu      sync.RWMutex
	types   map[string]reflect.Type
	loaders map[string]BulkLoader
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types:   make(map[string]reflect.Type),
		loaders: make(map[string]BulkLoader),
	}
}

// Register binds a type tag to a model struct type.
func (r *TypeRegistry) Register(tag string, model any) error {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("type tag %q: model must be a struct, got %s", tag, t.Kind())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[tag] = t
	return nil
}

// RegisterLoader installs a custom bulk loader for a type tag, used
// when native prefetching is enabled.
func (r *TypeRegistry) RegisterLoader(tag string, loader BulkLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[tag] = loader
}

// Resolve returns the model type registered under tag.
func (r *TypeRegistry) Resolve(tag string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[tag]
	return t, ok
}

// Loader returns the bulk loader registered under tag.
func (r *TypeRegistry) Loader(tag string) (BulkLoader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loader, ok := r.loaders[tag]
	return loader, ok
}

// Tags returns all registered type tags in sorted order.
func (r *TypeRegistry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.types))
	for tag := range r.types {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

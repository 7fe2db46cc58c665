package engine

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/Konsultn-Engineering/eager/ast"
	"github.com/Konsultn-Engineering/eager/schema"
)

// resolveGenericRefs populates the generic reference slots of the
// materialized entities. All (tag, id) pairs are collected first, then
// each distinct tag costs exactly one fetch no matter how many rows or
// slots point at it. Null references are skipped; non-null references
// to missing rows are an error.
func (s *Session) resolveGenericRefs(ctx context.Context, entities []reflect.Value) error {
	refs := s.selectedGenericRefs()
	if len(refs) == 0 || len(entities) == 0 {
		return nil
	}

	// Distinct ids per tag, first-seen order.
	tags := make([]string, 0, 4)
	idsByTag := make(map[string][]any)
	seen := make(map[string]map[string]struct{})

	for _, ref := range refs {
		for _, ev := range entities {
			tag, id, ok := ref.ReadPair(ev)
			if !ok {
				continue
			}
			if _, have := seen[tag]; !have {
				seen[tag] = make(map[string]struct{})
				tags = append(tags, tag)
			}
			key := groupKey(id)
			if _, dup := seen[tag][key]; !dup {
				seen[tag][key] = struct{}{}
				idsByTag[tag] = append(idsByTag[tag], id)
			}
		}
	}

	resolved := make(map[string]map[string]any, len(tags))
	for _, tag := range tags {
		objects, err := s.fetchTypeObjects(ctx, tag, idsByTag[tag])
		if err != nil {
			return err
		}
		resolved[tag] = objects
	}

	for _, ref := range refs {
		for _, ev := range entities {
			tag, id, ok := ref.ReadPair(ev)
			if !ok {
				continue
			}
			obj, found := resolved[tag][groupKey(id)]
			if !found {
				return fmt.Errorf("generic ref %s: %w: %s id %v", ref.Name, ErrDanglingReference, tag, id)
			}
			ref.SetSlot(ev, obj)
		}
	}
	return nil
}

// selectedGenericRefs returns the slots to resolve in deterministic
// order. An explicit selection keeps its given order and silently
// drops names that match no declared slot.
func (s *Session) selectedGenericRefs() []*schema.GenericRefMeta {
	if s.genericSet {
		refs := make([]*schema.GenericRefMeta, 0, len(s.genericNames))
		added := make(map[string]struct{}, len(s.genericNames))
		for _, name := range s.genericNames {
			ref, ok := s.meta.GenericRefs[name]
			if !ok {
				continue
			}
			if _, dup := added[name]; dup {
				continue
			}
			added[name] = struct{}{}
			refs = append(refs, ref)
		}
		return refs
	}

	names := make([]string, 0, len(s.meta.GenericRefs))
	for name := range s.meta.GenericRefs {
		names = append(names, name)
	}
	sort.Strings(names)

	refs := make([]*schema.GenericRefMeta, len(names))
	for i, name := range names {
		refs[i] = s.meta.GenericRefs[name]
	}
	return refs
}

// fetchTypeObjects loads all objects of one type tag, keyed by the
// string form of their primary key. Delegates to a registered bulk
// loader when native prefetching is enabled.
func (s *Session) fetchTypeObjects(ctx context.Context, tag string, ids []any) (map[string]any, error) {
	e := s.engine

	if e.nativePrefetch {
		if loader, ok := e.types.Loader(tag); ok {
			objects, err := loader(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("bulk loader %s: %w", tag, err)
			}
			return objects, nil
		}
	}

	t, ok := e.types.Resolve(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTypeTag, tag)
	}
	tmeta, err := e.schema.Introspect(t)
	if err != nil {
		return nil, err
	}
	if tmeta.Primary == nil {
		return nil, fmt.Errorf("model %s has no primary key", tmeta.Name)
	}

	cols := tmeta.Columns()

	stmt := ast.NewSelectStmt()
	stmt.Columns = append(stmt.Columns, ast.Columns(tmeta.TableName, cols...)...)
	stmt.From = ast.NewTable("", tmeta.TableName, "")
	stmt.AddWhereCondition(ast.NewBinaryExpr(
		ast.NewColumn(tmeta.TableName, tmeta.Primary.DBName, ""),
		ast.OpIn,
		ast.NewArray(ids),
	), "")

	query, args, err := e.buildSQL(stmt)
	if err != nil {
		return nil, err
	}

	rows, err := e.queryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", tag, err)
	}
	defer rows.Close()

	bufs := getScanBuffers(len(cols))
	defer putScanBuffers(bufs)

	objects := make(map[string]any, len(ids))
	for rows.Next() {
		if err := rows.Scan(bufs.ptrs...); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", tag, err)
		}
		obj := reflect.New(t)
		if err := tmeta.ScanAndSet(obj.Interface(), cols, bufs.vals); err != nil {
			return nil, err
		}
		pk := obj.Elem().FieldByIndex(tmeta.Primary.Index).Interface()
		objects[groupKey(pk)] = obj.Interface()
	}
	return objects, nil
}

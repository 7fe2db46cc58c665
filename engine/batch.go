package engine

import (
	"context"
	"fmt"
	"reflect"

	"github.com/Konsultn-Engineering/eager/ast"
	"github.com/Konsultn-Engineering/eager/schema"
)

// Batch describes one collection prefetch: which declared relation to
// fetch and where to store the groups. Target defaults to the
// relation's own slot; Order sorts each group on target columns.
type Batch struct {
	Relation string
	Target   string
	Order    []Order
}

// Order is a sort directive for batch results.
type Order struct {
	Column string
	Desc   bool
}

// OrderAsc sorts batch groups ascending by a target column.
func OrderAsc(column string) Order {
	return Order{Column: column}
}

// OrderDesc sorts batch groups descending by a target column.
func OrderDesc(column string) Order {
	return Order{Column: column, Desc: true}
}

// resolveBatchTarget returns the field index of the slot a batch
// stores into, verifying the slot can hold the relation's slice type.
func resolveBatchTarget(meta *schema.EntityMeta, rel *schema.RelationMeta, target string) ([]int, error) {
	if target == rel.Name {
		return rel.Index, nil
	}
	f, ok := meta.Type.FieldByName(target)
	if !ok {
		return nil, fmt.Errorf("batch target %s not found on model %s", target, meta.Name)
	}
	if f.Type != rel.SliceType {
		return nil, fmt.Errorf("batch target %s must be %s, got %s", target, rel.SliceType, f.Type)
	}
	return f.Index, nil
}

// fetchBatch runs one collection prefetch: a single join query over
// the distinct owner keys, grouped by owner and spliced back. Owners
// with no linked rows get an empty, non-nil slice.
func (s *Session) fetchBatch(ctx context.Context, entities []reflect.Value, b Batch) error {
	rel := s.meta.Relations[b.Relation]
	targetIndex, err := resolveBatchTarget(s.meta, rel, b.Target)
	if err != nil {
		return err
	}
	targetMeta, err := s.engine.schema.Introspect(rel.Target)
	if err != nil {
		return err
	}
	if s.meta.Primary == nil {
		return fmt.Errorf("model %s has no primary key", s.meta.Name)
	}
	if targetMeta.Primary == nil {
		return fmt.Errorf("model %s has no primary key", targetMeta.Name)
	}

	// Distinct owner keys in first-seen order, so generated SQL is
	// stable for a given result set.
	keys := make([]any, 0, len(entities))
	seen := make(map[string]struct{}, len(entities))
	entityKeys := make([]string, len(entities))
	for i, ev := range entities {
		v := ev.FieldByIndex(s.meta.Primary.Index).Interface()
		k := groupKey(v)
		entityKeys[i] = k
		if _, dup := seen[k]; !dup {
			seen[k] = struct{}{}
			keys = append(keys, v)
		}
	}
	if len(keys) == 0 {
		return nil
	}

	targetCols := targetMeta.Columns()

	stmt := ast.NewSelectStmt()
	stmt.Columns = append(stmt.Columns, ast.NewColumn(rel.JoinTable, rel.ForeignKey, ""))
	stmt.Columns = append(stmt.Columns, ast.Columns(targetMeta.TableName, targetCols...)...)
	stmt.From = ast.NewTable("", rel.JoinTable, "")

	join := stmt.AddJoinClause(ast.JoinInner, "", targetMeta.TableName, "")
	join.Conditions = ast.NewJoinCondition()
	join.Conditions.Append("", ast.NewBinaryExpr(
		ast.NewColumn(rel.JoinTable, rel.References, ""),
		ast.OpEqual,
		ast.NewColumn(targetMeta.TableName, targetMeta.Primary.DBName, ""),
	))

	stmt.AddWhereCondition(ast.NewBinaryExpr(
		ast.NewColumn(rel.JoinTable, rel.ForeignKey, ""),
		ast.OpIn,
		ast.NewArray(keys),
	), "")

	for _, o := range b.Order {
		col, err := s.resolveColumn(targetMeta, o.Column)
		if err != nil {
			return err
		}
		stmt.AddOrderByClause(targetMeta.TableName, o.Desc, col)
	}

	query, args, err := s.engine.buildSQL(stmt)
	if err != nil {
		return err
	}

	rows, err := s.engine.queryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("batch %s: %w", b.Relation, err)
	}
	defer rows.Close()

	bufs := getScanBuffers(1 + len(targetCols))
	defer putScanBuffers(bufs)

	groups := make(map[string][]reflect.Value, len(keys))
	for rows.Next() {
		if err := rows.Scan(bufs.ptrs...); err != nil {
			return fmt.Errorf("batch %s: %w", b.Relation, err)
		}
		ownerKey := groupKey(bufs.vals[0])

		obj := reflect.New(rel.Target)
		if err := targetMeta.ScanAndSet(obj.Interface(), targetCols, bufs.vals[1:]); err != nil {
			return err
		}
		groups[ownerKey] = append(groups[ownerKey], obj.Elem())
	}

	for i, ev := range entities {
		group := groups[entityKeys[i]]
		slice := rel.EmptySlice()
		for _, member := range group {
			slice = reflect.Append(slice, member)
		}
		ev.FieldByIndex(targetIndex).Set(slice)
	}
	return nil
}

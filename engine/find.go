package engine

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/Konsultn-Engineering/eager/ast"
)

// Find materializes the session's query into dest, a pointer to a
// slice of the session's model, then runs attached batch prefetches in
// attach order and resolves generic reference slots. Returns the
// number of rows materialized.
func (s *Session) Find(dest any) (int, error) {
	return s.FindContext(context.Background(), dest)
}

// FindContext is Find with an explicit context.
func (s *Session) FindContext(ctx context.Context, dest any) (int, error) {
	if len(s.errs) > 0 {
		return 0, errors.Join(s.errs...)
	}
	if s.meta == nil {
		return 0, fmt.Errorf("session has no model")
	}

	destVal := reflect.ValueOf(dest)
	if destVal.Kind() != reflect.Ptr || destVal.Elem().Kind() != reflect.Slice {
		return 0, fmt.Errorf("find destination must be a pointer to slice, got %T", dest)
	}
	sliceVal := destVal.Elem()
	if sliceVal.Type().Elem() != s.meta.Type {
		return 0, fmt.Errorf("find destination element must be %s, got %s", s.meta.Type, sliceVal.Type().Elem())
	}

	query, args, err := s.buildSelect()
	if err != nil {
		return 0, err
	}

	rows, err := s.engine.queryContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	cols := s.meta.Columns()
	bufs := getScanBuffers(len(cols))
	defer putScanBuffers(bufs)

	result := reflect.MakeSlice(sliceVal.Type(), 0, 16)
	for rows.Next() {
		if err := rows.Scan(bufs.ptrs...); err != nil {
			return 0, err
		}
		obj := reflect.New(s.meta.Type)
		if err := s.meta.ScanAndSet(obj.Interface(), cols, bufs.vals); err != nil {
			return 0, err
		}
		result = reflect.Append(result, obj.Elem())
	}
	sliceVal.Set(result)

	n := result.Len()
	entities := make([]reflect.Value, n)
	for i := 0; i < n; i++ {
		entities[i] = sliceVal.Index(i)
	}

	// Each distinct (relation, target) pair runs once, in attach order.
	done := make(map[string]struct{}, len(s.batches))
	for _, b := range s.batches {
		key := b.Relation + "\x00" + b.Target
		if _, dup := done[key]; dup {
			continue
		}
		done[key] = struct{}{}
		if err := s.fetchBatch(ctx, entities, b); err != nil {
			return 0, err
		}
	}

	if s.engine.fetchRelations {
		if err := s.resolveGenericRefs(ctx, entities); err != nil {
			return 0, err
		}
	}

	return n, nil
}

func (s *Session) buildSelect() (string, []any, error) {
	table := s.meta.TableName

	stmt := ast.NewSelectStmt()
	stmt.Columns = append(stmt.Columns, ast.Columns(table, s.meta.Columns()...)...)
	stmt.From = ast.NewTable("", table, "")

	for _, c := range s.conds {
		var expr ast.Node
		if c.isIn {
			expr = ast.NewBinaryExpr(ast.NewColumn(table, c.column, ""), ast.OpIn, ast.NewArray(c.values))
		} else {
			expr = ast.NewBinaryExpr(ast.NewColumn(table, c.column, ""), c.op, ast.NewValue(c.value))
		}
		stmt.AddWhereCondition(expr, ast.OpAnd)
	}

	for _, o := range s.orders {
		stmt.AddOrderByClause(table, o.desc, o.column)
	}

	if s.limit != nil {
		stmt.Limit = ast.NewLimitClause(*s.limit, s.offset)
	}

	return s.engine.buildSQL(stmt)
}

package engine

import (
	"fmt"
	"reflect"

	"github.com/Konsultn-Engineering/eager/ast"
	"github.com/Konsultn-Engineering/eager/schema"
)

type condition struct {
	column string
	op     string
	value  any
	values []any
	isIn   bool
}

type orderSpec struct {
	column string
	desc   bool
}

// Session is an immutable query over one model. Configuration methods
// return a modified copy, so a session can be shared and branched
// safely. Configuration errors accumulate and surface from Find before
// any query runs.
type Session struct {
	engine *Engine
	meta   *schema.EntityMeta

	conds  []condition
	orders []orderSpec
	limit  *int
	offset *int

	batches      []Batch
	genericNames []string
	genericSet   bool

	errs []error
}

// Model starts a session over the given model type.
func (e *Engine) Model(model any) *Session {
	s := &Session{engine: e}
	meta, err := e.schema.Introspect(reflect.TypeOf(model))
	if err != nil {
		s.errs = append(s.errs, err)
		return s
	}
	s.meta = meta
	return s
}

func (s *Session) clone() *Session {
	dup := &Session{
		engine:     s.engine,
		meta:       s.meta,
		limit:      s.limit,
		offset:     s.offset,
		genericSet: s.genericSet,
	}
	dup.conds = append([]condition(nil), s.conds...)
	dup.orders = append([]orderSpec(nil), s.orders...)
	dup.batches = append([]Batch(nil), s.batches...)
	dup.genericNames = append([]string(nil), s.genericNames...)
	dup.errs = append([]error(nil), s.errs...)
	return dup
}

// resolveColumn maps a Go field name or raw column name to the column.
func (s *Session) resolveColumn(meta *schema.EntityMeta, field string) (string, error) {
	if fm, ok := meta.FieldMap[field]; ok {
		return fm.DBName, nil
	}
	if _, ok := meta.ColumnMap[field]; ok {
		return field, nil
	}
	return "", fmt.Errorf("unknown field %s for model %s", field, meta.Name)
}

// Where adds a comparison condition. The field may be a Go field name
// or a database column name.
func (s *Session) Where(field, op string, value any) *Session {
	dup := s.clone()
	if dup.meta == nil {
		return dup
	}
	col, err := dup.resolveColumn(dup.meta, field)
	if err != nil {
		dup.errs = append(dup.errs, err)
		return dup
	}
	dup.conds = append(dup.conds, condition{column: col, op: op, value: value})
	return dup
}

// WhereEqual adds an equality condition.
func (s *Session) WhereEqual(field string, value any) *Session {
	return s.Where(field, ast.OpEqual, value)
}

// WhereIn adds a set membership condition.
func (s *Session) WhereIn(field string, values ...any) *Session {
	dup := s.clone()
	if dup.meta == nil {
		return dup
	}
	col, err := dup.resolveColumn(dup.meta, field)
	if err != nil {
		dup.errs = append(dup.errs, err)
		return dup
	}
	dup.conds = append(dup.conds, condition{column: col, values: values, isIn: true})
	return dup
}

// OrderByAsc sorts results by a field in ascending order.
func (s *Session) OrderByAsc(field string) *Session {
	return s.orderBy(field, false)
}

// OrderByDesc sorts results by a field in descending order.
func (s *Session) OrderByDesc(field string) *Session {
	return s.orderBy(field, true)
}

func (s *Session) orderBy(field string, desc bool) *Session {
	dup := s.clone()
	if dup.meta == nil {
		return dup
	}
	col, err := dup.resolveColumn(dup.meta, field)
	if err != nil {
		dup.errs = append(dup.errs, err)
		return dup
	}
	dup.orders = append(dup.orders, orderSpec{column: col, desc: desc})
	return dup
}

// Limit caps the number of returned rows.
func (s *Session) Limit(n int) *Session {
	dup := s.clone()
	dup.limit = &n
	return dup
}

// Offset skips the first n rows.
func (s *Session) Offset(n int) *Session {
	dup := s.clone()
	dup.offset = &n
	return dup
}

// BatchSelect attaches collection prefetches to the session. A spec is
// either a relation name (string) or a Batch for renamed targets and
// ordering. Each distinct (relation, target) pair is fetched once per
// Find, in one query, regardless of how often it is attached.
func (s *Session) BatchSelect(specs ...any) *Session {
	dup := s.clone()
	if dup.meta == nil {
		return dup
	}

	for _, spec := range specs {
		var b Batch
		switch v := spec.(type) {
		case string:
			b = Batch{Relation: v}
		case Batch:
			b = v
		default:
			dup.errs = append(dup.errs, fmt.Errorf("invalid batch spec type %T", spec))
			continue
		}
		if b.Target == "" {
			b.Target = b.Relation
		}

		rel, ok := dup.meta.Relations[b.Relation]
		if !ok {
			dup.errs = append(dup.errs, fmt.Errorf("%w: %s on model %s", ErrUnknownRelation, b.Relation, dup.meta.Name))
			continue
		}
		if _, err := resolveBatchTarget(dup.meta, rel, b.Target); err != nil {
			dup.errs = append(dup.errs, err)
			continue
		}
		dup.batches = append(dup.batches, b)
	}
	return dup
}

// BatchAs attaches a prefetch of relation stored under a different
// target field, leaving the relation's own slot untouched.
func (s *Session) BatchAs(target, relation string) *Session {
	return s.BatchSelect(Batch{Relation: relation, Target: target})
}

// FetchGenericRelations restricts generic resolution to the named
// slots. Names that match no declared slot are ignored. Calling with
// no arguments resolves every declared slot, replacing any earlier
// restriction. Resolution as a whole is switched off with the
// WithFetchRelations engine option.
func (s *Session) FetchGenericRelations(names ...string) *Session {
	dup := s.clone()
	dup.genericSet = len(names) > 0
	dup.genericNames = append([]string(nil), names...)
	return dup
}

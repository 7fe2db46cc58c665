package visitor

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Konsultn-Engineering/eager/ast"
	"github.com/Konsultn-Engineering/eager/cache"
	"github.com/Konsultn-Engineering/eager/dialect"
)

// SQLVisitor renders an AST into dialect-specific SQL with positional
// placeholders. Instances are pooled; callers must Release when done.
type SQLVisitor struct {
	sb      strings.Builder
	args    []any
	dialect dialect.Dialect
	qcache  cache.QueryCache
}

var visitorPool = sync.Pool{
	New: func() any {
		return &SQLVisitor{
			args: make([]any, 0, 16),
		}
	},
}

func NewSQLVisitor(d dialect.Dialect, q cache.QueryCache) *SQLVisitor {
	v := visitorPool.Get().(*SQLVisitor)
	v.dialect = d
	v.qcache = q
	return v
}

func (v *SQLVisitor) Release() {
	v.sb.Reset()
	v.args = v.args[:0]
	v.dialect = nil
	v.qcache = nil
	visitorPool.Put(v)
}

// Build renders root to SQL. Fingerprints cover literal values, so a
// cache hit returns both the SQL text and the argument list verbatim.
func (v *SQLVisitor) Build(root ast.Node) (string, []any, error) {
	var fp uint64
	if v.qcache != nil {
		fp = root.Fingerprint()
		if cached, ok := v.qcache.Get(fp); ok {
			return cached.SQL, cached.Args, nil
		}
	}

	v.sb.Reset()
	v.args = v.args[:0]

	if err := root.Accept(v); err != nil {
		return "", nil, err
	}

	sql := v.sb.String()
	args := make([]any, len(v.args))
	copy(args, v.args)

	if v.qcache != nil {
		v.qcache.Set(fp, sql, args)
	}
	return sql, args, nil
}

// Arg registers a bind argument and returns its placeholder.
func (v *SQLVisitor) Arg(val any) string {
	v.args = append(v.args, val)
	return v.dialect.Placeholder(len(v.args))
}

func (v *SQLVisitor) VisitSelect(s *ast.SelectStmt) error {
	v.sb.WriteString("SELECT ")

	if len(s.Columns) == 0 {
		v.sb.WriteString("*")
	}
	for i, col := range s.Columns {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := col.Accept(v); err != nil {
			return err
		}
	}

	if s.From != nil {
		v.sb.WriteString(" FROM ")
		if err := s.From.Accept(v); err != nil {
			return err
		}
	}

	for _, join := range s.Joins {
		if err := join.Accept(v); err != nil {
			return err
		}
	}

	if s.Where != nil && s.Where.First != nil {
		v.sb.WriteString(" WHERE ")
		if err := s.Where.Accept(v); err != nil {
			return err
		}
	}

	if len(s.OrderBy) > 0 {
		v.sb.WriteString(" ORDER BY ")
		for i, clause := range s.OrderBy {
			if i > 0 {
				v.sb.WriteString(", ")
			}
			if err := clause.Accept(v); err != nil {
				return err
			}
		}
	}

	if s.Limit != nil {
		if err := s.Limit.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) VisitColumn(c *ast.Column) error {
	if c.Table != "" {
		v.sb.WriteString(v.dialect.QuoteIdentifier(c.Table))
		v.sb.WriteString(".")
	}
	if c.Name == "*" {
		v.sb.WriteString("*")
	} else {
		v.sb.WriteString(v.dialect.QuoteIdentifier(c.Name))
	}
	if c.Alias != "" {
		v.sb.WriteString(" AS ")
		v.sb.WriteString(v.dialect.QuoteIdentifier(c.Alias))
	}
	return nil
}

func (v *SQLVisitor) VisitTable(t *ast.Table) error {
	if t.Schema != "" {
		v.sb.WriteString(v.dialect.QuoteIdentifier(t.Schema))
		v.sb.WriteString(".")
	}
	v.sb.WriteString(v.dialect.QuoteIdentifier(t.Name))
	if t.Alias != "" {
		v.sb.WriteString(" AS ")
		v.sb.WriteString(v.dialect.QuoteIdentifier(t.Alias))
	}
	return nil
}

func (v *SQLVisitor) VisitValue(val *ast.Value) error {
	v.sb.WriteString(v.Arg(val.Val))
	return nil
}

func (v *SQLVisitor) VisitArray(a *ast.Array) error {
	v.sb.WriteString("(")
	for i := range a.Values {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.sb.WriteString(v.Arg(a.Values[i].Val))
	}
	v.sb.WriteString(")")
	return nil
}

func (v *SQLVisitor) VisitBinaryExpr(b *ast.BinaryExpr) error {
	if err := b.Left.Accept(v); err != nil {
		return err
	}
	v.sb.WriteString(" ")
	v.sb.WriteString(b.Operator)
	v.sb.WriteString(" ")
	return b.Right.Accept(v)
}

func (v *SQLVisitor) VisitUnaryExpr(u *ast.UnaryExpr) error {
	if u.IsPrefix {
		v.sb.WriteString(u.Operator)
		v.sb.WriteString(" ")
		return u.Operand.Accept(v)
	}
	if err := u.Operand.Accept(v); err != nil {
		return err
	}
	v.sb.WriteString(" ")
	v.sb.WriteString(u.Operator)
	return nil
}

func (v *SQLVisitor) VisitWhereClause(w *ast.WhereClause) error {
	for cond := w.First; cond != nil; cond = cond.Next {
		if cond != w.First {
			v.sb.WriteString(" ")
			v.sb.WriteString(cond.Operator)
			v.sb.WriteString(" ")
		}
		if err := cond.Condition.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) VisitJoinClause(j *ast.JoinClause) error {
	v.sb.WriteString(" ")
	v.sb.WriteString(joinKeyword(j.JoinType))
	v.sb.WriteString(" ")
	if err := j.Table.Accept(v); err != nil {
		return err
	}
	if j.Conditions == nil || j.Conditions.First == nil {
		return nil
	}
	v.sb.WriteString(" ON ")
	for n := j.Conditions.First; n != nil; n = n.Next {
		if n != j.Conditions.First {
			v.sb.WriteString(" ")
			v.sb.WriteString(n.Operator)
			v.sb.WriteString(" ")
		}
		if err := n.Condition.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) VisitOrderByClause(o *ast.OrderByClause) error {
	if err := o.Expr.Accept(v); err != nil {
		return err
	}
	if o.Desc {
		v.sb.WriteString(" DESC")
	} else {
		v.sb.WriteString(" ASC")
	}
	return nil
}

func (v *SQLVisitor) VisitLimitClause(l *ast.LimitClause) error {
	v.sb.WriteString(" LIMIT ")
	v.sb.WriteString(strconv.Itoa(l.Count))
	if l.Offset != nil {
		v.sb.WriteString(" OFFSET ")
		v.sb.WriteString(strconv.Itoa(*l.Offset))
	}
	return nil
}

func joinKeyword(t ast.JoinType) string {
	switch t {
	case ast.JoinInner:
		return "JOIN"
	case ast.JoinLeft:
		return "LEFT JOIN"
	case ast.JoinRight:
		return "RIGHT JOIN"
	case ast.JoinFull:
		return "FULL JOIN"
	case ast.JoinCross:
		return "CROSS JOIN"
	default:
		return fmt.Sprintf("JOIN /* %d */", t)
	}
}

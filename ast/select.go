package ast

import (
	"hash/fnv"

	"github.com/Konsultn-Engineering/eager/utils"
)

type SelectStmt struct {
	Columns []Node
	From    *Table
	Joins   []*JoinClause
	Where   *WhereClause
	OrderBy []*OrderByClause
	Limit   *LimitClause
}

func NewSelectStmt() *SelectStmt {
	s := selectStmtPool.Get().(*SelectStmt)
	s.Columns = s.Columns[:0]
	s.Joins = s.Joins[:0]
	s.OrderBy = s.OrderBy[:0]
	s.From = nil
	s.Where = nil
	s.Limit = nil
	return s
}

func (s *SelectStmt) Type() NodeType         { return NodeSelect }
func (s *SelectStmt) Accept(v Visitor) error { return v.VisitSelect(s) }

// AddWhereCondition appends a condition joined by the given logical operator.
func (s *SelectStmt) AddWhereCondition(condition Node, logicalOp string) {
	if s.Where == nil {
		s.Where = &WhereClause{}
	}
	s.Where.Append(logicalOp, condition)
}

func (s *SelectStmt) AddOrderByClause(table string, desc bool, columns ...string) {
	for _, col := range columns {
		s.OrderBy = append(s.OrderBy, NewOrderByClause(NewColumn(table, col, ""), desc))
	}
}

func (s *SelectStmt) AddJoinClause(joinType JoinType, schema, table, alias string) *JoinClause {
	j := NewJoinClause(joinType, schema, table, alias)
	s.Joins = append(s.Joins, j)
	return j
}

func (s *SelectStmt) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("select:"))
	if s.From != nil {
		h.Write(utils.U64ToBytes(s.From.Fingerprint()))
	}
	for _, col := range s.Columns {
		h.Write(utils.U64ToBytes(col.Fingerprint()))
	}
	for _, j := range s.Joins {
		h.Write(utils.U64ToBytes(j.Fingerprint()))
	}
	if s.Where != nil {
		h.Write(utils.U64ToBytes(s.Where.Fingerprint()))
	}
	for _, o := range s.OrderBy {
		h.Write(utils.U64ToBytes(o.Fingerprint()))
	}
	if s.Limit != nil {
		h.Write(utils.U64ToBytes(s.Limit.Fingerprint()))
	}
	return h.Sum64()
}

func (s *SelectStmt) Release() {
	for _, col := range s.Columns {
		releaseNode(col)
	}
	s.Columns = s.Columns[:0]

	if s.From != nil {
		s.From.Release()
		s.From = nil
	}
	for _, j := range s.Joins {
		j.Release()
	}
	s.Joins = s.Joins[:0]

	if s.Where != nil {
		s.Where.Release()
		s.Where = nil
	}
	for _, o := range s.OrderBy {
		o.Release()
	}
	s.OrderBy = s.OrderBy[:0]

	if s.Limit != nil {
		s.Limit.Release()
		s.Limit = nil
	}
	selectStmtPool.Put(s)
}

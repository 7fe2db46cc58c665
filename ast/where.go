package ast

import (
	"hash/fnv"

	"github.com/Konsultn-Engineering/eager/utils"
)

// WhereCondition is one node in a WHERE chain. Operator is the logical
// operator joining this condition to the previous one.
type WhereCondition struct {
	Condition Node
	Operator  string
	Next      *WhereCondition
}

type WhereClause struct {
	First *WhereCondition
	Tail  *WhereCondition
}

func (w *WhereClause) Type() NodeType         { return NodeWhere }
func (w *WhereClause) Accept(v Visitor) error { return v.VisitWhereClause(w) }

func (w *WhereClause) Append(operator string, condition Node) {
	n := whereConditionPool.Get().(*WhereCondition)
	n.Condition = condition
	n.Operator = operator
	n.Next = nil

	if w.First == nil {
		w.First, w.Tail = n, n
		return
	}
	w.Tail.Next = n
	w.Tail = n
}

func (w *WhereClause) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("where:"))
	for cond := w.First; cond != nil; cond = cond.Next {
		h.Write([]byte(cond.Operator))
		if cond.Condition != nil {
			h.Write(utils.U64ToBytes(cond.Condition.Fingerprint()))
		}
	}
	return h.Sum64()
}

func (w *WhereClause) Release() {
	for cond := w.First; cond != nil; {
		next := cond.Next
		releaseNode(cond.Condition)
		cond.Condition = nil
		cond.Operator = ""
		cond.Next = nil
		whereConditionPool.Put(cond)
		cond = next
	}
	w.First, w.Tail = nil, nil
}

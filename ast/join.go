package ast

import (
	"hash/fnv"
	"strconv"

	"github.com/Konsultn-Engineering/eager/utils"
)

type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
)

type JoinConditionNode struct {
	Condition Node
	Operator  string
	Next      *JoinConditionNode
}

type JoinCondition struct {
	First *JoinConditionNode
	Tail  *JoinConditionNode
}

func NewJoinCondition() *JoinCondition {
	return joinConditionPool.Get().(*JoinCondition)
}

func (c *JoinCondition) Append(op string, cond Node) {
	n := joinConditionNodePool.Get().(*JoinConditionNode)
	n.Operator, n.Condition, n.Next = op, cond, nil

	if c.First == nil {
		c.First, c.Tail = n, n
		return
	}
	c.Tail.Next = n
	c.Tail = n
}

func (c *JoinCondition) Fingerprint() uint64 {
	if c == nil || c.First == nil {
		return 0
	}
	h := fnv.New64a()
	for n := c.First; n != nil; n = n.Next {
		h.Write([]byte(n.Operator))
		if n.Condition != nil {
			h.Write(utils.U64ToBytes(n.Condition.Fingerprint()))
		}
	}
	return h.Sum64()
}

func (c *JoinCondition) Release() {
	if c == nil {
		return
	}
	for cur := c.First; cur != nil; {
		next := cur.Next
		releaseNode(cur.Condition)
		cur.Condition = nil
		cur.Operator = ""
		cur.Next = nil
		joinConditionNodePool.Put(cur)
		cur = next
	}
	c.First, c.Tail = nil, nil
	joinConditionPool.Put(c)
}

type JoinClause struct {
	JoinType   JoinType
	Table      *Table
	Conditions *JoinCondition
}

func NewJoinClause(joinType JoinType, schema, name, alias string) *JoinClause {
	j := joinClausePool.Get().(*JoinClause)
	j.JoinType = joinType
	j.Table = NewTable(schema, name, alias)
	j.Conditions = nil
	return j
}

func (j *JoinClause) Type() NodeType         { return NodeJoin }
func (j *JoinClause) Accept(v Visitor) error { return v.VisitJoinClause(j) }

func (j *JoinClause) Fingerprint() uint64 {
	fp := utils.U64("join:" + strconv.Itoa(int(j.JoinType)))
	if j.Table != nil {
		fp = utils.Mix64(fp, j.Table.Fingerprint())
	}
	if j.Conditions != nil {
		fp = utils.Mix64(fp, j.Conditions.Fingerprint())
	}
	return fp
}

func (j *JoinClause) Release() {
	if j == nil {
		return
	}
	if j.Table != nil {
		j.Table.Release()
		j.Table = nil
	}
	if j.Conditions != nil {
		j.Conditions.Release()
		j.Conditions = nil
	}
	j.JoinType = 0
	joinClausePool.Put(j)
}

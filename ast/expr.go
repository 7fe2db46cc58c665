package ast

import (
	"hash/fnv"

	"github.com/Konsultn-Engineering/eager/utils"
)

type BinaryExpr struct {
	Left     Node
	Operator string
	Right    Node
}

func NewBinaryExpr(left Node, operator string, right Node) *BinaryExpr {
	e := binaryExprPool.Get().(*BinaryExpr)
	e.Left = left
	e.Operator = operator
	e.Right = right
	return e
}

func (b *BinaryExpr) Type() NodeType         { return NodeBinaryExpr }
func (b *BinaryExpr) Accept(v Visitor) error { return v.VisitBinaryExpr(b) }

func (b *BinaryExpr) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("bin:" + b.Operator))
	if b.Left != nil {
		h.Write(utils.U64ToBytes(b.Left.Fingerprint()))
	}
	if b.Right != nil {
		h.Write(utils.U64ToBytes(b.Right.Fingerprint()))
	}
	return h.Sum64()
}

func (b *BinaryExpr) Release() {
	releaseNode(b.Left)
	releaseNode(b.Right)
	b.Left, b.Right = nil, nil
	b.Operator = ""
	binaryExprPool.Put(b)
}

// UnaryExpr renders postfix by default (e.g. "col IS NULL");
// set IsPrefix for operators like NOT.
type UnaryExpr struct {
	Operator string
	Operand  Node
	IsPrefix bool
}

func NewUnaryExpr(operand Node, operator string, isPrefix bool) *UnaryExpr {
	e := unaryExprPool.Get().(*UnaryExpr)
	e.Operand = operand
	e.Operator = operator
	e.IsPrefix = isPrefix
	return e
}

func (u *UnaryExpr) Type() NodeType         { return NodeUnaryExpr }
func (u *UnaryExpr) Accept(v Visitor) error { return v.VisitUnaryExpr(u) }

func (u *UnaryExpr) Fingerprint() uint64 {
	h := fnv.New64a()
	h.Write([]byte("unary:" + u.Operator))
	if u.Operand != nil {
		h.Write(utils.U64ToBytes(u.Operand.Fingerprint()))
	}
	return h.Sum64()
}

func (u *UnaryExpr) Release() {
	releaseNode(u.Operand)
	u.Operand = nil
	u.Operator = ""
	u.IsPrefix = false
	unaryExprPool.Put(u)
}

func releaseNode(n Node) {
	if r, ok := n.(interface{ Release() }); ok && n != nil {
		r.Release()
	}
}

package ast

type NodeType int

const (
	NodeSelect NodeType = iota
	NodeColumn
	NodeTable
	NodeValue
	NodeArray
	NodeBinaryExpr
	NodeUnaryExpr
	NodeWhere
	NodeJoin
	NodeOrderBy
	NodeLimit
)

type Node interface {
	Type() NodeType
	Accept(v Visitor) error
	Fingerprint() uint64
}

package ast

type Visitor interface {
	VisitSelect(*SelectStmt) error

	VisitColumn(*Column) error
	VisitTable(*Table) error
	VisitValue(*Value) error
	VisitArray(*Array) error
	VisitBinaryExpr(*BinaryExpr) error
	VisitUnaryExpr(*UnaryExpr) error

	VisitWhereClause(*WhereClause) error
	VisitJoinClause(*JoinClause) error
	VisitOrderByClause(*OrderByClause) error
	VisitLimitClause(*LimitClause) error

	Build(root Node) (string, []any, error)
	Release()
}

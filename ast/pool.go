package ast

import "sync"

var (
	selectStmtPool = sync.Pool{
		New: func() any {
			return &SelectStmt{
				Columns: make([]Node, 0, 16),
				Joins:   make([]*JoinClause, 0, 4),
				OrderBy: make([]*OrderByClause, 0, 4),
			}
		},
	}

	whereConditionPool = sync.Pool{
		New: func() any { return &WhereCondition{} },
	}

	columnPool = sync.Pool{
		New: func() any { return &Column{} },
	}

	tablePool = sync.Pool{
		New: func() any { return &Table{} },
	}

	valuePool = sync.Pool{
		New: func() any { return &Value{} },
	}

	arrayPool = sync.Pool{
		New: func() any {
			return &Array{Values: make([]Value, 0, 32)}
		},
	}

	binaryExprPool = sync.Pool{
		New: func() any { return &BinaryExpr{} },
	}

	unaryExprPool = sync.Pool{
		New: func() any { return &UnaryExpr{} },
	}

	orderByClausePool = sync.Pool{
		New: func() any { return &OrderByClause{} },
	}

	limitClausePool = sync.Pool{
		New: func() any { return &LimitClause{} },
	}

	joinClausePool = sync.Pool{
		New: func() any { return &JoinClause{} },
	}

	joinConditionPool = sync.Pool{
		New: func() any { return &JoinCondition{} },
	}

	joinConditionNodePool = sync.Pool{
		New: func() any { return &JoinConditionNode{} },
	}
)

package ast

// Comparison operators
const (
	OpEqual              = "="
	OpNotEqual           = "!="
	OpLessThan           = "<"
	OpLessThanOrEqual    = "<="
	OpGreaterThan        = ">"
	OpGreaterThanOrEqual = ">="
)

// Logical operators
const (
	OpAnd = "AND"
	OpOr  = "OR"
	OpNot = "NOT"
)

// Pattern matching
const (
	OpLike     = "LIKE"
	OpNotLike  = "NOT LIKE"
	OpILike    = "ILIKE"
	OpNotILike = "NOT ILIKE"
)

// Set operations
const (
	OpIn    = "IN"
	OpNotIn = "NOT IN"
)

// Null operations
const (
	OpIsNull    = "IS NULL"
	OpIsNotNull = "IS NOT NULL"
)

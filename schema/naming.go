package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

var pluralizeClient = pluralizer.NewClient()

// NamingStrategy defines how Go identifiers map to database names.
type NamingStrategy interface {
	ColumnNamingStrategy
	TableNamingStrategy
}

// ColumnNamingStrategy defines how Go field names are converted to column names.
type ColumnNamingStrategy interface {
	ColumnName(fieldName string) string
}

// TableNamingStrategy defines how Go struct names are converted to table names.
type TableNamingStrategy interface {
	TableName(structName string) string
}

type snakeCaseStrategy struct {
	pluralTables bool
}

// DefaultNamingStrategy returns snake_case columns with plural
// snake_case table names.
func DefaultNamingStrategy() NamingStrategy {
	return &snakeCaseStrategy{pluralTables: true}
}

// SingularTableStrategy returns snake_case columns with singular table names.
func SingularTableStrategy() NamingStrategy {
	return &snakeCaseStrategy{pluralTables: false}
}

func (s *snakeCaseStrategy) ColumnName(fieldName string) string {
	return toSnakeCase(fieldName)
}

func (s *snakeCaseStrategy) TableName(structName string) string {
	snake := toSnakeCase(structName)
	if s.pluralTables {
		return pluralize(snake)
	}
	return snake
}

// toSnakeCase converts any naming convention to snake_case, keeping
// acronym runs together (UserID -> user_id, HTTPServer -> http_server).
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}

	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return strings.ToLower(name)
	}

	var result strings.Builder
	result.Grow(len(name) + 8)

	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteByte('_')
			} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}
	return result.String()
}

func pluralize(name string) string {
	if name == "" {
		return ""
	}
	return pluralizeClient.Pluralize(name, 2, false)
}

func singularize(name string) string {
	if name == "" {
		return ""
	}
	return pluralizeClient.Pluralize(name, 1, false)
}

func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

package dialect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPostgresDialect(t *testing.T) {
	d := NewPostgresDialect()

	assert.Equal(t, `"users"`, d.QuoteIdentifier("users"))
	assert.Equal(t, "$1", d.Placeholder(1))
	assert.Equal(t, "$12", d.Placeholder(12))
	assert.True(t, d.SupportsReturning())

	assert.Equal(t, "NULL", d.RenderValue(nil))
	assert.Equal(t, "'it''s'", d.RenderValue("it's"))
	assert.Equal(t, "TRUE", d.RenderValue(true))
	assert.Equal(t, "42", d.RenderValue(42))
	assert.Equal(t, "3.5", d.RenderValue(3.5))
}

func TestMySQLDialect(t *testing.T) {
	d := NewMySQLDialect()

	assert.Equal(t, "`users`", d.QuoteIdentifier("users"))
	assert.Equal(t, "?", d.Placeholder(1))
	assert.Equal(t, "?", d.Placeholder(9))
	assert.False(t, d.SupportsReturning())

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "'2024-03-01 12:00:00.000000'", d.RenderValue(ts))
}

func TestTiDBDialectEmbedsMySQL(t *testing.T) {
	d := NewTiDBDialect()

	assert.Equal(t, "`users`", d.QuoteIdentifier("users"))
	assert.Equal(t, "?", d.Placeholder(3))
	assert.False(t, d.SupportsReturning())
}

package schema

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeRegistry(t *testing.T) {
	reg := NewTypeRegistry()

	require.NoError(t, reg.Register("user", User{}))
	require.NoError(t, reg.Register("tag", &Tag{}))

	typ, ok := reg.Resolve("user")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(User{}), typ)

	// Pointer models normalize to the struct type.
	typ, ok = reg.Resolve("tag")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(Tag{}), typ)

	_, ok = reg.Resolve("ghost")
	assert.False(t, ok)

	assert.Equal(t, []string{"tag", "user"}, reg.Tags())
}

func TestTypeRegistryRejectsNonStruct(t *testing.T) {
	reg := NewTypeRegistry()
	err := reg.Register("num", 42)
	require.Error(t, err)
}

func TestTypeRegistryLoader(t *testing.T) {
	reg := NewTypeRegistry()

	reg.RegisterLoader("user", func(ctx context.Context, ids []any) (map[string]any, error) {
		return map[string]any{"1": &User{ID: 1}}, nil
	})

	loader, ok := reg.Loader("user")
	require.True(t, ok)
	objects, err := loader(context.Background(), []any{int64(1)})
	require.NoError(t, err)
	assert.Contains(t, objects, "1")

	_, ok = reg.Loader("tag")
	assert.False(t, ok)
}

package schema

import (
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =========================================================================
// Test Data Structures
// =========================================================================

type User struct {
	ID        uint64    `db:"id;primary"`
	FirstName string    `db:"first_name"`
	Email     string    `db:"email"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at;auto_now_add"`
	Internal  string    `db:"-"`
}

type Tag struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type Note struct {
	ID         int64         `db:"id;primary"`
	Body       string        `db:"body"`
	AuthorType string        `db:"author_type"`
	AuthorID   sql.NullInt64 `db:"author_id"`
	Author     any           `eager:"generic;type:AuthorType;id:AuthorID"`
	Tags       []Tag         `eager:"many2many;join:note_tags;fk:note_id;ref:tag_id"`
}

type CustomTable struct {
	ID int64 `db:"id"`
}

func (CustomTable) TableName() string { return "legacy_custom" }

type BadGeneric struct {
	ID         int64  `db:"id"`
	AuthorType string `db:"author_type"`
	AuthorID   int64  `db:"author_id"` // not nullable
	Author     any    `eager:"generic;type:AuthorType;id:AuthorID"`
}

type BadRelation struct {
	ID   int64 `db:"id"`
	Tags Tag   `eager:"many2many;join:x;fk:a;ref:b"` // not a slice
}

// =========================================================================
// Introspection
// =========================================================================

func TestIntrospectBasics(t *testing.T) {
	meta, err := Introspect(reflect.TypeOf(User{}))
	require.NoError(t, err)

	assert.Equal(t, "User", meta.Name)
	assert.Equal(t, "users", meta.TableName)
	assert.Len(t, meta.Fields, 5)
	assert.Equal(t, []string{"id", "first_name", "email", "active", "created_at"}, meta.Columns())

	require.NotNil(t, meta.Primary)
	assert.Equal(t, "id", meta.Primary.DBName)

	_, skipped := meta.FieldMap["Internal"]
	assert.False(t, skipped)
}

func TestIntrospectPointerAndCaching(t *testing.T) {
	first, err := Introspect(reflect.TypeOf(&User{}))
	require.NoError(t, err)
	second, err := Introspect(reflect.TypeOf(User{}))
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestIntrospectRejectsNonStruct(t *testing.T) {
	_, err := Introspect(reflect.TypeOf(42))
	require.Error(t, err)
}

func TestIntrospectPrimaryFallsBackToID(t *testing.T) {
	meta, err := Introspect(reflect.TypeOf(Tag{}))
	require.NoError(t, err)
	require.NotNil(t, meta.Primary)
	assert.Equal(t, "id", meta.Primary.DBName)
}

func TestIntrospectCustomTableName(t *testing.T) {
	meta, err := Introspect(reflect.TypeOf(CustomTable{}))
	require.NoError(t, err)
	assert.Equal(t, "legacy_custom", meta.TableName)
}

// =========================================================================
// Relation and generic slots
// =========================================================================

func TestIntrospectRelationSlots(t *testing.T) {
	meta, err := Introspect(reflect.TypeOf(Note{}))
	require.NoError(t, err)

	// Slots are not scannable columns.
	assert.Equal(t, []string{"id", "body", "author_type", "author_id"}, meta.Columns())

	rel, ok := meta.Relations["Tags"]
	require.True(t, ok)
	assert.Equal(t, "note_tags", rel.JoinTable)
	assert.Equal(t, "note_id", rel.ForeignKey)
	assert.Equal(t, "tag_id", rel.References)
	assert.Equal(t, reflect.TypeOf(Tag{}), rel.Target)

	ref, ok := meta.GenericRefs["Author"]
	require.True(t, ok)
	assert.Equal(t, "AuthorType", ref.TypeField.Name)
	assert.Equal(t, "AuthorID", ref.IDField.Name)
}

func TestIntrospectRejectsNonNullableGenericID(t *testing.T) {
	_, err := New().Introspect(reflect.TypeOf(BadGeneric{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pointer or sql.Null")
}

func TestIntrospectRejectsNonSliceRelation(t *testing.T) {
	_, err := New().Introspect(reflect.TypeOf(BadRelation{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slice of structs")
}

func TestGenericRefReadPair(t *testing.T) {
	meta, err := Introspect(reflect.TypeOf(Note{}))
	require.NoError(t, err)
	ref := meta.GenericRefs["Author"]

	note := Note{AuthorType: "user", AuthorID: sql.NullInt64{Int64: 9, Valid: true}}
	tag, id, ok := ref.ReadPair(reflect.ValueOf(&note).Elem())
	require.True(t, ok)
	assert.Equal(t, "user", tag)
	assert.Equal(t, int64(9), id)

	// Invalid id means the slot stays empty.
	null := Note{AuthorType: "user"}
	_, _, ok = ref.ReadPair(reflect.ValueOf(&null).Elem())
	assert.False(t, ok)

	// Empty tag means the slot stays empty too.
	untagged := Note{AuthorID: sql.NullInt64{Int64: 9, Valid: true}}
	_, _, ok = ref.ReadPair(reflect.ValueOf(&untagged).Elem())
	assert.False(t, ok)
}

func TestGenericRefSetSlot(t *testing.T) {
	meta, err := Introspect(reflect.TypeOf(Note{}))
	require.NoError(t, err)
	ref := meta.GenericRefs["Author"]

	var note Note
	user := &User{ID: 1, FirstName: "alice"}
	ref.SetSlot(reflect.ValueOf(&note).Elem(), user)
	assert.Same(t, user, note.Author)
}

// =========================================================================
// Scanning
// =========================================================================

func TestScanAndSet(t *testing.T) {
	meta, err := Introspect(reflect.TypeOf(User{}))
	require.NoError(t, err)

	now := time.Now()
	var user User
	cols := []string{"id", "first_name", "email", "active", "created_at", "unmapped"}
	vals := []any{int64(7), "alice", "a@example.com", true, now, "ignored"}
	require.NoError(t, meta.ScanAndSet(&user, cols, vals))

	assert.Equal(t, uint64(7), user.ID)
	assert.Equal(t, "alice", user.FirstName)
	assert.True(t, user.Active)
	assert.Equal(t, now, user.CreatedAt)
}

func TestScanAndSetNullValues(t *testing.T) {
	meta, err := Introspect(reflect.TypeOf(Note{}))
	require.NoError(t, err)

	var note Note
	cols := []string{"id", "body", "author_type", "author_id"}
	vals := []any{int64(1), "hi", "", nil}
	require.NoError(t, meta.ScanAndSet(&note, cols, vals))

	assert.Equal(t, int64(1), note.ID)
	assert.False(t, note.AuthorID.Valid)
}

// =========================================================================
// Tag parsing
// =========================================================================

func TestParseEagerTag(t *testing.T) {
	typ := reflect.TypeOf(Note{})

	tagsField, _ := typ.FieldByName("Tags")
	parsed, err := ParseEagerTag("Tags", tagsField.Tag)
	require.NoError(t, err)
	assert.Equal(t, "many2many", parsed.Kind)
	assert.Equal(t, "note_tags", parsed.JoinTable)

	authorField, _ := typ.FieldByName("Author")
	parsed, err = ParseEagerTag("Author", authorField.Tag)
	require.NoError(t, err)
	assert.Equal(t, "generic", parsed.Kind)
	assert.Equal(t, "AuthorType", parsed.TypeField)

	_, err = ParseEagerTag("X", reflect.StructTag(`eager:"many2many;join:t"`))
	require.Error(t, err)

	_, err = ParseEagerTag("X", reflect.StructTag(`eager:"sideways"`))
	require.Error(t, err)

	none, err := ParseEagerTag("X", reflect.StructTag(`db:"x"`))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestParsedTagOptions(t *testing.T) {
	parser := NewTagParser(DefaultNamingStrategy(), "db")

	parsed, err := parser.ParseTag("CreatedAt", reflect.StructTag(`db:"created_at;auto_now_add"`))
	require.NoError(t, err)
	assert.Equal(t, "created_at", parsed.ColumnName)
	assert.True(t, parsed.AutoNowAdd)

	parsed, err = parser.ParseTag("ID", reflect.StructTag(`db:"id;primary;generator:ulid"`))
	require.NoError(t, err)
	assert.True(t, parsed.Primary)
	assert.True(t, parsed.ShouldAutoGenerate())
	require.NotNil(t, parsed.GetGenerator())
	assert.Equal(t, "ulid", parsed.GetGenerator().Type())

	parsed, err = parser.ParseTag("Whatever", reflect.StructTag(``))
	require.NoError(t, err)
	assert.Equal(t, "whatever", parsed.ColumnName)
}

// =========================================================================
// Naming
// =========================================================================

func TestSnakeCaseConversion(t *testing.T) {
	cases := map[string]string{
		"ID":          "id",
		"UserID":      "user_id",
		"FirstName":   "first_name",
		"HTTPServer":  "http_server",
		"already_low": "already_low",
		"A":           "a",
	}
	for in, want := range cases {
		assert.Equal(t, want, toSnakeCase(in), in)
	}
}

func TestTableNaming(t *testing.T) {
	plural := DefaultNamingStrategy()
	assert.Equal(t, "users", plural.TableName("User"))
	assert.Equal(t, "blog_posts", plural.TableName("BlogPost"))
	assert.Equal(t, "people", plural.TableName("Person"))

	singular := SingularTableStrategy()
	assert.Equal(t, "user", singular.TableName("User"))
}

package engine

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/eager/database"
	"github.com/Konsultn-Engineering/eager/dialect"
)

// =========================================================================
// Test Data Structures
// =========================================================================

type User struct {
	ID   int64  `db:"id;primary"`
	Name string `db:"name"`
}

type Photo struct {
	ID      int64  `db:"id;primary"`
	Caption string `db:"caption"`
}

type Tag struct {
	ID   int64  `db:"id;primary"`
	Name string `db:"name"`
}

type Activity struct {
	ID         int64  `db:"id;primary"`
	Verb       string `db:"verb"`
	ActorType  string `db:"actor_type"`
	ActorID    *int64 `db:"actor_id"`
	Actor      any    `eager:"generic;type:ActorType;id:ActorID"`
	TargetType string `db:"target_type"`
	TargetID   *int64 `db:"target_id"`
	Target     any    `eager:"generic;type:TargetType;id:TargetID"`
	Tags       []Tag  `eager:"many2many;join:activity_tags;fk:activity_id;ref:tag_id"`
	Labels     []Tag  `db:"-"`
}

var activityColumns = []string{"id", "verb", "actor_type", "actor_id", "target_type", "target_id"}

const activitySelect = `SELECT "activities"."id", "activities"."verb", "activities"."actor_type", ` +
	`"activities"."actor_id", "activities"."target_type", "activities"."target_id" FROM "activities"`

const tagBatchSelect = `SELECT "activity_tags"."activity_id", "tags"."id", "tags"."name" ` +
	`FROM "activity_tags" JOIN "tags" ON "activity_tags"."tag_id" = "tags"."id" ` +
	`WHERE "activity_tags"."activity_id" IN `

const userFetchSelect = `SELECT "users"."id", "users"."name" FROM "users" WHERE "users"."id" IN `

const photoFetchSelect = `SELECT "photos"."id", "photos"."caption" FROM "photos" WHERE "photos"."id" IN `

func newTestEngine(t *testing.T, opts ...Option) (*Engine, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	e := NewWithDatabase(database.NewSqlDatabase(db), dialect.NewPostgresDialect(), opts...)
	require.NoError(t, e.RegisterType("user", User{}))
	require.NoError(t, e.RegisterType("photo", Photo{}))
	return e, mock
}

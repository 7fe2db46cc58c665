package engine

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindResolvesGenericRefs(t *testing.T) {
	e, mock := newTestEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta(activitySelect)).
		WillReturnRows(sqlmock.NewRows(activityColumns).
			AddRow(int64(1), "follow", "user", int64(7), "photo", int64(3)).
			AddRow(int64(2), "like", "user", int64(8), "photo", int64(3)).
			AddRow(int64(3), "share", "user", int64(7), "", nil))

	// One fetch per distinct type; shared ids appear once.
	mock.ExpectQuery(regexp.QuoteMeta(userFetchSelect)).
		WithArgs(int64(7), int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(7), "alice").
			AddRow(int64(8), "bob"))
	mock.ExpectQuery(regexp.QuoteMeta(photoFetchSelect)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "caption"}).
			AddRow(int64(3), "sunset"))

	var activities []Activity
	n, err := e.Model(Activity{}).Find(&activities)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	alice, ok := activities[0].Actor.(*User)
	require.True(t, ok)
	assert.Equal(t, "alice", alice.Name)

	bob, ok := activities[1].Actor.(*User)
	require.True(t, ok)
	assert.Equal(t, "bob", bob.Name)

	// Rows referencing the same (tag, id) share one object.
	assert.Same(t, activities[0].Actor, activities[2].Actor)
	assert.Same(t, activities[0].Target, activities[1].Target)

	// Null target stays empty.
	assert.Nil(t, activities[2].Target)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindSkipsNullReferences(t *testing.T) {
	e, mock := newTestEngine(t)

	// All references null: no secondary fetch at all.
	mock.ExpectQuery(regexp.QuoteMeta(activitySelect)).
		WillReturnRows(sqlmock.NewRows(activityColumns).
			AddRow(int64(1), "ping", "", nil, "", nil).
			AddRow(int64(2), "pong", "", nil, "", nil))

	var activities []Activity
	n, err := e.Model(Activity{}).Find(&activities)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	assert.Nil(t, activities[0].Actor)
	assert.Nil(t, activities[1].Target)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindDanglingReference(t *testing.T) {
	e, mock := newTestEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta(activitySelect)).
		WillReturnRows(sqlmock.NewRows(activityColumns).
			AddRow(int64(1), "follow", "user", int64(99), "", nil))

	mock.ExpectQuery(regexp.QuoteMeta(userFetchSelect)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	var activities []Activity
	_, err := e.Model(Activity{}).Find(&activities)
	require.ErrorIs(t, err, ErrDanglingReference)
}

func TestFindUnknownTypeTag(t *testing.T) {
	e, mock := newTestEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta(activitySelect)).
		WillReturnRows(sqlmock.NewRows(activityColumns).
			AddRow(int64(1), "follow", "ghost", int64(1), "", nil))

	var activities []Activity
	_, err := e.Model(Activity{}).Find(&activities)
	require.ErrorIs(t, err, ErrUnknownTypeTag)
}

func TestFetchRelationsDisabled(t *testing.T) {
	e, mock := newTestEngine(t, WithFetchRelations(false))

	mock.ExpectQuery(regexp.QuoteMeta(activitySelect)).
		WillReturnRows(sqlmock.NewRows(activityColumns).
			AddRow(int64(1), "follow", "user", int64(7), "photo", int64(3)))

	var activities []Activity
	n, err := e.Model(Activity{}).Find(&activities)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// Tag and id columns are still scanned, slots stay empty.
	assert.Equal(t, "user", activities[0].ActorType)
	require.NotNil(t, activities[0].ActorID)
	assert.Equal(t, int64(7), *activities[0].ActorID)
	assert.Nil(t, activities[0].Actor)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchGenericRelationsSubset(t *testing.T) {
	e, mock := newTestEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta(activitySelect)).
		WillReturnRows(sqlmock.NewRows(activityColumns).
			AddRow(int64(1), "follow", "user", int64(7), "photo", int64(3)))

	// Only the actor slot is selected; no photo fetch happens.
	mock.ExpectQuery(regexp.QuoteMeta(userFetchSelect)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(7), "alice"))

	var activities []Activity
	_, err := e.Model(Activity{}).FetchGenericRelations("Actor").Find(&activities)
	require.NoError(t, err)

	assert.NotNil(t, activities[0].Actor)
	assert.Nil(t, activities[0].Target)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchGenericRelationsNoArgsResolvesAll(t *testing.T) {
	e, mock := newTestEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta(activitySelect)).
		WillReturnRows(sqlmock.NewRows(activityColumns).
			AddRow(int64(1), "follow", "user", int64(7), "photo", int64(3)))

	// No arguments widens back to every declared slot, clearing the
	// earlier restriction.
	mock.ExpectQuery(regexp.QuoteMeta(userFetchSelect)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(7), "alice"))
	mock.ExpectQuery(regexp.QuoteMeta(photoFetchSelect)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "caption"}).
			AddRow(int64(3), "sunset"))

	var activities []Activity
	_, err := e.Model(Activity{}).
		FetchGenericRelations("Actor").
		FetchGenericRelations().
		Find(&activities)
	require.NoError(t, err)

	assert.NotNil(t, activities[0].Actor)
	assert.NotNil(t, activities[0].Target)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchGenericRelationsIgnoresUnknownNames(t *testing.T) {
	e, mock := newTestEngine(t)

	mock.ExpectQuery(regexp.QuoteMeta(activitySelect)).
		WillReturnRows(sqlmock.NewRows(activityColumns).
			AddRow(int64(1), "follow", "user", int64(7), "", nil))

	var activities []Activity
	_, err := e.Model(Activity{}).FetchGenericRelations("Bogus").Find(&activities)
	require.NoError(t, err)
	assert.Nil(t, activities[0].Actor)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNativePrefetchLoader(t *testing.T) {
	e, mock := newTestEngine(t, WithNativePrefetch(true))

	var loaderIDs []any
	e.RegisterLoader("user", func(ctx context.Context, ids []any) (map[string]any, error) {
		loaderIDs = ids
		return map[string]any{
			"7": &User{ID: 7, Name: "alice"},
		}, nil
	})

	mock.ExpectQuery(regexp.QuoteMeta(activitySelect)).
		WillReturnRows(sqlmock.NewRows(activityColumns).
			AddRow(int64(1), "follow", "user", int64(7), "", nil))

	var activities []Activity
	_, err := e.Model(Activity{}).Find(&activities)
	require.NoError(t, err)

	require.Equal(t, []any{int64(7)}, loaderIDs)
	alice, ok := activities[0].Actor.(*User)
	require.True(t, ok)
	assert.Equal(t, "alice", alice.Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

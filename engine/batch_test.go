package engine

import (
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectActivities(mock sqlmock.Sqlmock, rows *sqlmock.Rows) {
	mock.ExpectQuery(regexp.QuoteMeta(activitySelect)).WillReturnRows(rows)
}

func plainActivities(ids ...int64) *sqlmock.Rows {
	rows := sqlmock.NewRows(activityColumns)
	for _, id := range ids {
		rows.AddRow(id, "post", "", nil, "", nil)
	}
	return rows
}

func TestBatchSelectGroupsByOwner(t *testing.T) {
	e, mock := newTestEngine(t)

	expectActivities(mock, plainActivities(1, 2, 3))

	// One join query for all owners; owner 3 has no links.
	mock.ExpectQuery(regexp.QuoteMeta(tagBatchSelect)).
		WithArgs(int64(1), int64(2), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"activity_id", "id", "name"}).
			AddRow(int64(1), int64(10), "go").
			AddRow(int64(1), int64(11), "sql").
			AddRow(int64(2), int64(10), "go"))

	var activities []Activity
	n, err := e.Model(Activity{}).BatchSelect("Tags").Find(&activities)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	require.Len(t, activities[0].Tags, 2)
	assert.Equal(t, "go", activities[0].Tags[0].Name)
	assert.Equal(t, "sql", activities[0].Tags[1].Name)

	require.Len(t, activities[1].Tags, 1)
	assert.Equal(t, int64(10), activities[1].Tags[0].ID)

	// Owner without links gets an empty group, not nil.
	require.NotNil(t, activities[2].Tags)
	assert.Len(t, activities[2].Tags, 0)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchSelectByteOwnerKeys(t *testing.T) {
	e, mock := newTestEngine(t)

	expectActivities(mock, plainActivities(1, 2))

	// MySQL's text protocol hands integer columns back as []byte; the
	// scanned fk must still group against the typed primary keys.
	mock.ExpectQuery(regexp.QuoteMeta(tagBatchSelect)).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"activity_id", "id", "name"}).
			AddRow([]byte("1"), int64(10), "go").
			AddRow([]byte("2"), int64(11), "sql"))

	var activities []Activity
	_, err := e.Model(Activity{}).BatchSelect("Tags").Find(&activities)
	require.NoError(t, err)

	require.Len(t, activities[0].Tags, 1)
	assert.Equal(t, "go", activities[0].Tags[0].Name)
	require.Len(t, activities[1].Tags, 1)
	assert.Equal(t, "sql", activities[1].Tags[0].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchSelectIdempotent(t *testing.T) {
	e, mock := newTestEngine(t)

	expectActivities(mock, plainActivities(1))

	// Attached twice, fetched once.
	mock.ExpectQuery(regexp.QuoteMeta(tagBatchSelect)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"activity_id", "id", "name"}).
			AddRow(int64(1), int64(10), "go"))

	var activities []Activity
	_, err := e.Model(Activity{}).BatchSelect("Tags").BatchSelect("Tags").Find(&activities)
	require.NoError(t, err)
	require.Len(t, activities[0].Tags, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchSelectDistinctOwners(t *testing.T) {
	e, mock := newTestEngine(t)

	// Duplicate owner rows in the result set collapse to one key.
	expectActivities(mock, plainActivities(1, 1))

	mock.ExpectQuery(regexp.QuoteMeta(tagBatchSelect)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"activity_id", "id", "name"}).
			AddRow(int64(1), int64(10), "go"))

	var activities []Activity
	_, err := e.Model(Activity{}).BatchSelect("Tags").Find(&activities)
	require.NoError(t, err)

	// Both rows get their own copy of the group.
	require.Len(t, activities[0].Tags, 1)
	require.Len(t, activities[1].Tags, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchAsRenamedTarget(t *testing.T) {
	e, mock := newTestEngine(t)

	expectActivities(mock, plainActivities(1))

	mock.ExpectQuery(regexp.QuoteMeta(tagBatchSelect)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"activity_id", "id", "name"}).
			AddRow(int64(1), int64(10), "go"))

	var activities []Activity
	_, err := e.Model(Activity{}).BatchAs("Labels", "Tags").Find(&activities)
	require.NoError(t, err)

	require.Len(t, activities[0].Labels, 1)
	assert.Equal(t, "go", activities[0].Labels[0].Name)

	// The relation's own slot is untouched.
	assert.Nil(t, activities[0].Tags)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchSelectOrder(t *testing.T) {
	e, mock := newTestEngine(t)

	expectActivities(mock, plainActivities(1))

	mock.ExpectQuery(regexp.QuoteMeta(tagBatchSelect) + `.*ORDER BY "tags"\."name" DESC`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"activity_id", "id", "name"}).
			AddRow(int64(1), int64(11), "sql").
			AddRow(int64(1), int64(10), "go"))

	var activities []Activity
	_, err := e.Model(Activity{}).
		BatchSelect(Batch{Relation: "Tags", Order: []Order{OrderDesc("Name")}}).
		Find(&activities)
	require.NoError(t, err)

	require.Len(t, activities[0].Tags, 2)
	assert.Equal(t, "sql", activities[0].Tags[0].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchSelectUnknownRelation(t *testing.T) {
	e, mock := newTestEngine(t)

	// Config errors surface before any query runs.
	var activities []Activity
	_, err := e.Model(Activity{}).BatchSelect("Comments").Find(&activities)
	require.ErrorIs(t, err, ErrUnknownRelation)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchSelectEmptyResultSet(t *testing.T) {
	e, mock := newTestEngine(t)

	// No owners, no batch query.
	expectActivities(mock, sqlmock.NewRows(activityColumns))

	var activities []Activity
	n, err := e.Model(Activity{}).BatchSelect("Tags").Find(&activities)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, mock.ExpectationsWereMet())
}

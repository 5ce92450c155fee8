package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationRepo_Create(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocationRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO location")).
		WithArgs(uint64(1), "Downtown", nil, strPtr("101"), true).
		WillReturnResult(sqlmock.NewResult(4, 1))

	l := &Location{FranchiseID: 1, Name: "Downtown", RoomNumber: strPtr("101"), IsActive: true}
	require.NoError(t, repo.Create(context.Background(), l))
	assert.Equal(t, uint64(4), l.ID)
}

func TestLocationRepo_List(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocationRepo(db)

	cols := []string{"location_id", "name", "franchise_name", "address", "room_number", "is_active"}
	mock.ExpectQuery(regexp.QuoteMeta("JOIN franchise f ON l.franchise_id = f.franchise_id")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "Downtown", "Acme", "12 Main St", "101", true))

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme", rows[0].FranchiseName)
	assert.Equal(t, "101", *rows[0].RoomNumber)
}

func TestLocationRepo_ActiveOptions_FilteredByFranchise(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocationRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE is_active = TRUE AND franchise_id = ? ORDER BY name")).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"location_id", "name"}).AddRow(5, "Depot"))

	opts, err := repo.ActiveOptions(context.Background(), u64Ptr(2))
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.Equal(t, uint64(5), opts[0].ID)
}

func TestLocationRepo_ActiveOptions_Unfiltered(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocationRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE is_active = TRUE ORDER BY name")).
		WillReturnRows(sqlmock.NewRows([]string{"location_id", "name"}).
			AddRow(5, "Depot").AddRow(6, "Warehouse"))

	opts, err := repo.ActiveOptions(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, opts, 2)
}

func TestLocationRepo_Delete_BlockedByDevices(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocationRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM device WHERE location_id = ?")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 1)
	blocked, ok := AsBlocked(err)
	require.True(t, ok)
	assert.Equal(t, DepDevices, blocked.Dependency)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocationRepo_Delete_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewLocationRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM device WHERE location_id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM location WHERE location_id = ?")).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

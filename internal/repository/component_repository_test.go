package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentRepo_List_NoFilter(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewComponentRepo(db)

	cols := []string{"component_id", "device_name", "type_name", "model", "installed_date", "notes"}
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY c.component_id")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "Treadmill A", "Motor", "MX-200", "2024-03-01", nil).
			AddRow(2, nil, "Belt", nil, nil, "spare"))

	out, err := repo.List(context.Background(), ComponentFilter{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.NotNil(t, out[0].DeviceName)
	assert.Equal(t, "Treadmill A", *out[0].DeviceName)
	assert.Nil(t, out[1].DeviceName)
	assert.Equal(t, "Belt", out[1].TypeName)
}

func TestComponentRepo_List_BothFilters(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewComponentRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.device_id = ? AND c.component_type_id = ? ORDER BY c.component_id")).
		WithArgs(uint64(11), uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"component_id", "device_name", "type_name", "model", "installed_date", "notes"}))

	out, err := repo.List(context.Background(), ComponentFilter{DeviceID: u64Ptr(11), ComponentTypeID: u64Ptr(4)})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestComponentRepo_List_TypeFilterOnly(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewComponentRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.component_type_id = ? ORDER BY c.component_id")).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"component_id", "device_name", "type_name", "model", "installed_date", "notes"}))

	_, err := repo.List(context.Background(), ComponentFilter{ComponentTypeID: u64Ptr(4)})
	require.NoError(t, err)
}

func TestComponentRepo_Create(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewComponentRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO component (component_type_id, device_id, model, installed_date, notes)")).
		WithArgs(uint64(4), uint64(11), strPtr("MX-200"), strPtr("2024-03-01"), nil).
		WillReturnResult(sqlmock.NewResult(6, 1))

	c := &Component{ComponentTypeID: 4, DeviceID: 11, Model: strPtr("MX-200"), InstalledDate: strPtr("2024-03-01")}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, uint64(6), c.ID)
}

func TestComponentRepo_Update_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewComponentRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE component")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &Component{ID: 99, ComponentTypeID: 4, DeviceID: 11})
	assert.ErrorIs(t, err, ErrComponentNotFound)
}

func TestComponentRepo_Delete(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewComponentRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM component WHERE component_id = ?")).
		WithArgs(uint64(6)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 6))
}

func TestComponentRepo_Delete_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewComponentRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM component WHERE component_id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 99), ErrComponentNotFound)
}

package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var historyCols = []string{"history_id", "changed_at", "device_name", "franchise_name",
	"location_name", "status", "notes", "changed_by"}

func TestDeviceHistoryRepo_List_NoFilter(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewDeviceHistoryRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY h.changed_at DESC")).
		WillReturnRows(sqlmock.NewRows(historyCols).
			AddRow(2, "2024-03-05 10:00:00", "Treadmill A", "Downtown", nil, StatusInRepair, "device record updated", "system").
			AddRow(1, "2024-02-10 09:00:00", nil, "Downtown", "Hall 1", StatusActive, "initial device registration", "system"))

	out, err := repo.List(context.Background(), DeviceHistoryFilter{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, uint64(2), out[0].ID)
	assert.Nil(t, out[0].LocationName)
	// Deleted devices leave their history behind with a nil name.
	assert.Nil(t, out[1].DeviceName)
	assert.Equal(t, "system", out[1].ChangedBy)
}

func TestDeviceHistoryRepo_List_DeviceFilter(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewDeviceHistoryRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE h.device_id = ? ORDER BY h.changed_at DESC")).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows(historyCols))

	out, err := repo.List(context.Background(), DeviceHistoryFilter{DeviceID: u64Ptr(11)})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDeviceHistoryRepo_List_BothFilters(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewDeviceHistoryRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE h.device_id = ? AND h.status = ? ORDER BY h.changed_at DESC")).
		WithArgs(uint64(11), StatusLost).
		WillReturnRows(sqlmock.NewRows(historyCols))

	_, err := repo.List(context.Background(), DeviceHistoryFilter{DeviceID: u64Ptr(11), Status: strPtr(StatusLost)})
	require.NoError(t, err)
}

func TestDeviceHistoryRepo_List_StatusFilterOnly(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewDeviceHistoryRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE h.status = ? ORDER BY h.changed_at DESC")).
		WithArgs(StatusDecommissioned).
		WillReturnRows(sqlmock.NewRows(historyCols))

	_, err := repo.List(context.Background(), DeviceHistoryFilter{Status: strPtr(StatusDecommissioned)})
	require.NoError(t, err)
}

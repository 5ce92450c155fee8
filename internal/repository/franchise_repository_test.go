package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB creates a mock database connection for repository tests.
func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func strPtr(s string) *string   { return &s }
func u64Ptr(n uint64) *uint64   { return &n }
func f64Ptr(f float64) *float64 { return &f }

func TestFranchiseRepo_Create(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewFranchiseRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO franchise")).
		WithArgs(nil, "Acme", nil, nil, nil, true).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM franchise WHERE franchise_id = ?")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
			AddRow("2025-03-01 10:00:00", "2025-03-01 10:00:00"))

	f := &Franchise{Name: "Acme", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), f))
	assert.Equal(t, uint64(7), f.ID)
	assert.Equal(t, "2025-03-01 10:00:00", f.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFranchiseRepo_GetByID_RoundTrip(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewFranchiseRepo(db)

	cols := []string{"franchise_id", "parent_id", "name", "address", "contact_phone", "email",
		"is_active", "created_at", "updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM franchise WHERE franchise_id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(3, 1, "Acme East", "12 Main St", "555-0101", "east@acme.test", true,
				"2025-03-01 10:00:00", "2025-03-02 11:30:00"))

	f, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), f.ID)
	require.NotNil(t, f.ParentID)
	assert.Equal(t, uint64(1), *f.ParentID)
	assert.Equal(t, "Acme East", f.Name)
	assert.Equal(t, "12 Main St", *f.Address)
	assert.Equal(t, "555-0101", *f.Phone)
	assert.Equal(t, "east@acme.test", *f.Email)
	assert.True(t, f.IsActive)
}

func TestFranchiseRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewFranchiseRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM franchise WHERE franchise_id = ?")).
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrFranchiseNotFound)
}

func TestFranchiseRepo_List(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewFranchiseRepo(db)

	cols := []string{"franchise_id", "name", "parent_name", "contact_phone", "is_active"}
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN franchise p ON f.parent_id = p.franchise_id")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "Acme", nil, "555-0100", true).
			AddRow(2, "Acme East", "Acme", nil, false))

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].ParentName)
	require.NotNil(t, rows[1].ParentName)
	assert.Equal(t, "Acme", *rows[1].ParentName)
	assert.False(t, rows[1].IsActive)
}

func TestFranchiseRepo_Update_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewFranchiseRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE franchise")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &Franchise{ID: 42, Name: "Ghost"})
	assert.ErrorIs(t, err, ErrFranchiseNotFound)
}

// The dependency checks have a pinned order: child franchises are checked
// before locations, and the first non-zero count wins. A franchise with both
// children and locations must therefore report children, never locations.
func TestFranchiseRepo_Delete_BlockedByChildrenFirst(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewFranchiseRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM franchise WHERE parent_id = ?")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 1)
	blocked, ok := AsBlocked(err)
	require.True(t, ok, "expected BlockedDeleteError, got %v", err)
	assert.Equal(t, DepChildFranchises, blocked.Dependency)
	// The location check must not have run.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFranchiseRepo_Delete_BlockedByLocations(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewFranchiseRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM franchise WHERE parent_id = ?")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM location WHERE franchise_id = ?")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 1)
	blocked, ok := AsBlocked(err)
	require.True(t, ok)
	assert.Equal(t, DepLocations, blocked.Dependency)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFranchiseRepo_Delete_Success(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewFranchiseRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM franchise WHERE parent_id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM location WHERE franchise_id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM franchise WHERE franchise_id = ?")).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFranchiseRepo_Delete_NotFound(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewFranchiseRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM franchise WHERE parent_id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM location WHERE franchise_id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM franchise WHERE franchise_id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, ErrFranchiseNotFound)
}

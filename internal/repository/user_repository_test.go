package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_Create_PinsAdminRole(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)")).
		WithArgs("admin@fcas.test", sqlmock.AnyArg(), RoleAdmin).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.Create(context.Background(), "admin@fcas.test", "s3cret", 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := repo.Create(context.Background(), "admin@fcas.test", "s3cret", 4)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestTokenRepo_ValidateRefresh(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTokenRepo(db)

	cols := []string{"user_id", "expires_at", "revoked_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens")).
		WithArgs("hash-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(7, time.Now().UTC().Add(time.Hour), nil))

	uid, err := repo.ValidateRefresh(context.Background(), "hash-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), uid)
}

func TestTokenRepo_ValidateRefresh_Revoked(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTokenRepo(db)

	cols := []string{"user_id", "expires_at", "revoked_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(7, time.Now().UTC().Add(time.Hour), time.Now().UTC()))

	_, err := repo.ValidateRefresh(context.Background(), "hash-1")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenRepo_ValidateRefresh_Expired(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTokenRepo(db)

	cols := []string{"user_id", "expires_at", "revoked_at"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens")).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(7, time.Now().UTC().Add(-time.Minute), nil))

	_, err := repo.ValidateRefresh(context.Background(), "hash-1")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenRepo_RevokeAllForUser(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTokenRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("WHERE user_id = ? AND revoked_at IS NULL")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.RevokeAllForUser(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

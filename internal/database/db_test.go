package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	got := dsn("app", "s3cret", "db.local", "3306", "fcas")
	assert.Equal(t,
		"app:s3cret@tcp(db.local:3306)/fcas?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		got)
}

func TestDSN_EmptyPassword(t *testing.T) {
	got := dsn("app", "", "localhost", "3306", "fcas")
	assert.Equal(t,
		"app@tcp(localhost:3306)/fcas?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		got)
}

// An update that re-submits the stored values matches a row but changes
// nothing. Without clientFoundRows the driver reports 0 affected rows and the
// repositories would misreport an existing record as not found, so the flag
// must stay in the DSN.
func TestDSN_ReportsMatchedRows(t *testing.T) {
	assert.Contains(t, dsn("u", "p", "h", "3306", "d"), "clientFoundRows=true")
}

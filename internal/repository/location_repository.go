// This file defines the Location model and repository methods. A Location is
// a physical site belonging to exactly one franchise; devices may reference
// it, which blocks deletion.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Location represents a row in the location table.
type Location struct {
	ID          uint64  `json:"id"`
	FranchiseID uint64  `json:"franchise_id"`
	Name        string  `json:"name"`
	Address     *string `json:"address"`
	RoomNumber  *string `json:"room_number"`
	IsActive    bool    `json:"is_active"`
}

// LocationRow is one denormalized list entry with the franchise name resolved.
type LocationRow struct {
	ID            uint64  `json:"id"`
	Name          string  `json:"name"`
	FranchiseName string  `json:"franchise_name"`
	Address       *string `json:"address"`
	RoomNumber    *string `json:"room_number"`
	IsActive      bool    `json:"is_active"`
}

// LocationRepo encapsulates all database queries related to locations.
type LocationRepo struct {
	db *sql.DB
}

// NewLocationRepo constructs a LocationRepo with the provided DB handle.
func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

// List returns all locations joined to their franchise name, ordered by id.
func (r *LocationRepo) List(ctx context.Context) ([]*LocationRow, error) {
	const q = `SELECT l.location_id, l.name, f.name, l.address, l.room_number, l.is_active
	           FROM location l
	           JOIN franchise f ON l.franchise_id = f.franchise_id
	           ORDER BY l.location_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*LocationRow
	for rows.Next() {
		row := new(LocationRow)
		if err := rows.Scan(&row.ID, &row.Name, &row.FranchiseName, &row.Address, &row.RoomNumber, &row.IsActive); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveOptions returns active locations as id/name pairs ordered by name.
// When franchiseID is non-nil only locations of that franchise are returned,
// which drives the dependent dropdown on the device form.
func (r *LocationRepo) ActiveOptions(ctx context.Context, franchiseID *uint64) ([]*Option, error) {
	q := `SELECT location_id, name FROM location WHERE is_active = TRUE`
	args := []any{}
	if franchiseID != nil {
		q += ` AND franchise_id = ?`
		args = append(args, *franchiseID)
	}
	q += ` ORDER BY name`
	return scanOptions(ctx, r.db, q, args...)
}

// GetByID fetches a location by its ID. It returns ErrLocationNotFound if no
// row is found.
func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (*Location, error) {
	const q = `SELECT location_id, franchise_id, name, address, room_number, is_active
	           FROM location WHERE location_id = ?`
	var l Location
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&l.ID, &l.FranchiseID, &l.Name, &l.Address, &l.RoomNumber, &l.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Create inserts a new location and populates its generated ID.
func (r *LocationRepo) Create(ctx context.Context, l *Location) error {
	const q = `INSERT INTO location (franchise_id, name, address, room_number, is_active)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, l.FranchiseID, l.Name, l.Address, l.RoomNumber, l.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// Update overwrites all mutable fields of a location. It returns
// ErrLocationNotFound when no row is affected.
func (r *LocationRepo) Update(ctx context.Context, l *Location) error {
	const q = `UPDATE location
	           SET franchise_id = ?, name = ?, address = ?, room_number = ?, is_active = ?
	           WHERE location_id = ?`
	res, err := r.db.ExecContext(ctx, q, l.FranchiseID, l.Name, l.Address, l.RoomNumber, l.IsActive, l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// Delete removes a location unless devices still reference it. The check and
// the delete share one transaction.
func (r *LocationRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var n int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM device WHERE location_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return &BlockedDeleteError{Dependency: DepDevices}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM location WHERE location_id = ?`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrLocationNotFound
	}
	return nil
}

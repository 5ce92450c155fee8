// Package repository contains data access logic separated from HTTP handlers.
// This file defines the Franchise model and repository methods for CRUD and
// lookup operations. Franchises form a tree via the optional parent reference
// and own locations and devices; both relationships guard deletion.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Franchise represents a franchise entity persisted in the database. ParentID
// is nil for root franchises. CreatedAt and UpdatedAt carry the DB timestamps
// as strings in the connection timezone (UTC).
type Franchise struct {
	ID        uint64  `json:"id"`
	ParentID  *uint64 `json:"parent_id"`
	Name      string  `json:"name"`
	Address   *string `json:"address"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// FranchiseRow is one denormalized list entry: the parent reference is
// resolved to its name for display.
type FranchiseRow struct {
	ID         uint64  `json:"id"`
	Name       string  `json:"name"`
	ParentName *string `json:"parent_name"`
	Phone      *string `json:"phone"`
	IsActive   bool    `json:"is_active"`
}

// Option is a minimal id/name pair used to populate selection lists.
type Option struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// FranchiseRepo encapsulates all database queries related to franchises. It
// depends on a sql.DB connection which should be configured elsewhere.
type FranchiseRepo struct {
	db *sql.DB
}

// NewFranchiseRepo constructs a FranchiseRepo with the provided DB handle.
func NewFranchiseRepo(db *sql.DB) *FranchiseRepo {
	return &FranchiseRepo{db: db}
}

// List returns all franchises with their parent name resolved, ordered by id.
func (r *FranchiseRepo) List(ctx context.Context) ([]*FranchiseRow, error) {
	const q = `SELECT f.franchise_id, f.name, p.name, f.contact_phone, f.is_active
	           FROM franchise f
	           LEFT JOIN franchise p ON f.parent_id = p.franchise_id
	           ORDER BY f.franchise_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*FranchiseRow
	for rows.Next() {
		row := new(FranchiseRow)
		if err := rows.Scan(&row.ID, &row.Name, &row.ParentName, &row.Phone, &row.IsActive); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Options returns all franchises as id/name pairs ordered by name, used to
// populate the parent selection list.
func (r *FranchiseRepo) Options(ctx context.Context) ([]*Option, error) {
	const q = `SELECT franchise_id, name FROM franchise ORDER BY name`
	return scanOptions(ctx, r.db, q)
}

// ActiveOptions returns only active franchises ordered by name. Locations and
// devices may only be attached to active franchises.
func (r *FranchiseRepo) ActiveOptions(ctx context.Context) ([]*Option, error) {
	const q = `SELECT franchise_id, name FROM franchise WHERE is_active = TRUE ORDER BY name`
	return scanOptions(ctx, r.db, q)
}

// GetByID fetches a franchise by its ID. It returns ErrFranchiseNotFound if
// no row is found.
func (r *FranchiseRepo) GetByID(ctx context.Context, id uint64) (*Franchise, error) {
	const q = `SELECT franchise_id, parent_id, name, address, contact_phone, email, is_active,
	                  DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'),
	                  DATE_FORMAT(updated_at, '%Y-%m-%d %H:%i:%s')
	           FROM franchise WHERE franchise_id = ?`
	var f Franchise
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&f.ID, &f.ParentID, &f.Name, &f.Address, &f.Phone, &f.Email, &f.IsActive,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFranchiseNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Create inserts a new franchise. On success the ID field is populated with
// the auto-generated value and the DB-default timestamps are read back so the
// caller receives a fully populated record.
func (r *FranchiseRepo) Create(ctx context.Context, f *Franchise) error {
	const q = `INSERT INTO franchise (parent_id, name, address, contact_phone, email, is_active)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, f.ParentID, f.Name, f.Address, f.Phone, f.Email, f.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)

	const qSel = `SELECT DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'),
	                     DATE_FORMAT(updated_at, '%Y-%m-%d %H:%i:%s')
	              FROM franchise WHERE franchise_id = ?`
	return r.db.QueryRowContext(ctx, qSel, f.ID).Scan(&f.CreatedAt, &f.UpdatedAt)
}

// Update overwrites all mutable fields of a franchise and stamps updated_at.
// It returns ErrFranchiseNotFound when no row is affected.
func (r *FranchiseRepo) Update(ctx context.Context, f *Franchise) error {
	const q = `UPDATE franchise
	           SET parent_id = ?, name = ?, address = ?, contact_phone = ?, email = ?,
	               is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE franchise_id = ?`
	res, err := r.db.ExecContext(ctx, q, f.ParentID, f.Name, f.Address, f.Phone, f.Email, f.IsActive, f.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFranchiseNotFound
	}
	return nil
}

// Delete removes a franchise after its dependency checks pass. Checks run in
// a fixed order: child franchises first, then locations; the first non-zero
// count aborts the delete with a BlockedDeleteError. The checks and the
// delete share one transaction so no dependent row can slip in between.
func (r *FranchiseRepo) Delete(ctx context.Context, id uint64) (err error) {
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
		`SELECT COUNT(*) FROM franchise WHERE parent_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return &BlockedDeleteError{Dependency: DepChildFranchises}
	}
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM location WHERE franchise_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return &BlockedDeleteError{Dependency: DepLocations}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM franchise WHERE franchise_id = ?`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrFranchiseNotFound
	}
	return nil
}

// scanOptions runs an id/name query and collects the result. Shared by the
// dropdown lookups across repositories.
func scanOptions(ctx context.Context, db *sql.DB, q string, args ...any) ([]*Option, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Option
	for rows.Next() {
		o := new(Option)
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

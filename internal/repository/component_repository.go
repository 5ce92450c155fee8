// This file defines the Component model and repository methods. A component
// is a sub-part installed on exactly one device and classified by a component
// type. Components block device deletion but nothing blocks their own.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Component represents a row in the component table.
type Component struct {
	ID              uint64  `json:"id"`
	ComponentTypeID uint64  `json:"component_type_id"`
	DeviceID        uint64  `json:"device_id"`
	Model           *string `json:"model"`
	InstalledDate   *string `json:"installed_date"`
	Notes           *string `json:"notes"`
}

// ComponentRow is one denormalized list entry with the device and component
// type names resolved.
type ComponentRow struct {
	ID            uint64  `json:"id"`
	DeviceName    *string `json:"device_name"`
	TypeName      string  `json:"type_name"`
	Model         *string `json:"model"`
	InstalledDate *string `json:"installed_date"`
	Notes         *string `json:"notes"`
}

// ComponentFilter narrows a component listing. Nil fields are ignored.
type ComponentFilter struct {
	DeviceID        *uint64
	ComponentTypeID *uint64
}

// ComponentRepo encapsulates all database queries related to components and
// component types.
type ComponentRepo struct {
	db *sql.DB
}

// NewComponentRepo constructs a ComponentRepo with the provided DB handle.
func NewComponentRepo(db *sql.DB) *ComponentRepo {
	return &ComponentRepo{db: db}
}

// List returns components with device and type names resolved, ordered by id,
// optionally filtered by device and component type.
func (r *ComponentRepo) List(ctx context.Context, f ComponentFilter) ([]*ComponentRow, error) {
	q := `SELECT c.component_id, d.name, ct.name, c.model,
	             DATE_FORMAT(c.installed_date, '%Y-%m-%d'), c.notes
	      FROM component c
	      JOIN component_type ct ON c.component_type_id = ct.component_type_id
	      JOIN device d ON c.device_id = d.device_id`
	args := []any{}
	where := ""
	if f.DeviceID != nil {
		where = " WHERE c.device_id = ?"
		args = append(args, *f.DeviceID)
	}
	if f.ComponentTypeID != nil {
		if where == "" {
			where = " WHERE c.component_type_id = ?"
		} else {
			where += " AND c.component_type_id = ?"
		}
		args = append(args, *f.ComponentTypeID)
	}
	q += where + ` ORDER BY c.component_id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ComponentRow
	for rows.Next() {
		row := new(ComponentRow)
		if err := rows.Scan(&row.ID, &row.DeviceName, &row.TypeName, &row.Model,
			&row.InstalledDate, &row.Notes); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TypeOptions returns all component types as id/name pairs ordered by name.
func (r *ComponentRepo) TypeOptions(ctx context.Context) ([]*Option, error) {
	const q = `SELECT component_type_id, name FROM component_type ORDER BY name`
	return scanOptions(ctx, r.db, q)
}

// GetByID fetches a component by its ID. It returns ErrComponentNotFound if
// no row is found.
func (r *ComponentRepo) GetByID(ctx context.Context, id uint64) (*Component, error) {
	const q = `SELECT component_id, component_type_id, device_id, model,
	                  DATE_FORMAT(installed_date, '%Y-%m-%d'), notes
	           FROM component WHERE component_id = ?`
	var c Component
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.ComponentTypeID, &c.DeviceID, &c.Model, &c.InstalledDate, &c.Notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrComponentNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new component and populates its generated ID.
func (r *ComponentRepo) Create(ctx context.Context, c *Component) error {
	const q = `INSERT INTO component (component_type_id, device_id, model, installed_date, notes)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.ComponentTypeID, c.DeviceID, c.Model, c.InstalledDate, c.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Update overwrites all mutable fields of a component. It returns
// ErrComponentNotFound when no row is affected.
func (r *ComponentRepo) Update(ctx context.Context, c *Component) error {
	const q = `UPDATE component
	           SET component_type_id = ?, device_id = ?, model = ?, installed_date = ?, notes = ?
	           WHERE component_id = ?`
	res, err := r.db.ExecContext(ctx, q, c.ComponentTypeID, c.DeviceID, c.Model, c.InstalledDate, c.Notes, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrComponentNotFound
	}
	return nil
}

// Delete removes a component. Nothing references components, so there are no
// dependency checks.
func (r *ComponentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM component WHERE component_id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrComponentNotFound
	}
	return nil
}

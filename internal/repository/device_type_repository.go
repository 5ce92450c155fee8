// This file defines the DeviceType model and repository methods. Device types
// categorize devices; a type referenced by any device cannot be deleted.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// DeviceType represents a row in the device_type table.
type DeviceType struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// DeviceTypeRepo encapsulates all database queries related to device types.
type DeviceTypeRepo struct {
	db *sql.DB
}

// NewDeviceTypeRepo constructs a DeviceTypeRepo with the provided DB handle.
func NewDeviceTypeRepo(db *sql.DB) *DeviceTypeRepo {
	return &DeviceTypeRepo{db: db}
}

// List returns all device types ordered by name.
func (r *DeviceTypeRepo) List(ctx context.Context) ([]*DeviceType, error) {
	const q = `SELECT device_type_id, name, description FROM device_type ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DeviceType
	for rows.Next() {
		dt := new(DeviceType)
		if err := rows.Scan(&dt.ID, &dt.Name, &dt.Description); err != nil {
			return nil, err
		}
		out = append(out, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Options returns all device types as id/name pairs ordered by name.
func (r *DeviceTypeRepo) Options(ctx context.Context) ([]*Option, error) {
	const q = `SELECT device_type_id, name FROM device_type ORDER BY name`
	return scanOptions(ctx, r.db, q)
}

// GetByID fetches a device type by its ID. It returns ErrDeviceTypeNotFound
// if no row is found.
func (r *DeviceTypeRepo) GetByID(ctx context.Context, id uint64) (*DeviceType, error) {
	const q = `SELECT device_type_id, name, description FROM device_type WHERE device_type_id = ?`
	var dt DeviceType
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&dt.ID, &dt.Name, &dt.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceTypeNotFound
		}
		return nil, err
	}
	return &dt, nil
}

// Create inserts a new device type and populates its generated ID.
func (r *DeviceTypeRepo) Create(ctx context.Context, dt *DeviceType) error {
	const q = `INSERT INTO device_type (name, description) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, dt.Name, dt.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	dt.ID = uint64(id)
	return nil
}

// Update overwrites the name and description of a device type. It returns
// ErrDeviceTypeNotFound when no row is affected.
func (r *DeviceTypeRepo) Update(ctx context.Context, dt *DeviceType) error {
	const q = `UPDATE device_type SET name = ?, description = ? WHERE device_type_id = ?`
	res, err := r.db.ExecContext(ctx, q, dt.Name, dt.Description, dt.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDeviceTypeNotFound
	}
	return nil
}

// Delete removes a device type unless devices of this type exist. The check
// and the delete share one transaction.
func (r *DeviceTypeRepo) Delete(ctx context.Context, id uint64) (err error) {
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
		`SELECT COUNT(*) FROM device WHERE device_type_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return &BlockedDeleteError{Dependency: DepDevices}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM device_type WHERE device_type_id = ?`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrDeviceTypeNotFound
	}
	return nil
}

// This file defines the Device model and repository methods. Devices are the
// central entity of the system: they reference a device type, a franchise and
// optionally a location, own components, and every successful insert or
// update appends one device_history row in the same transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

// Device status values form a closed enumeration; any other string is
// rejected before it reaches the database.
const (
	StatusActive         = "active"
	StatusInRepair       = "in_repair"
	StatusDecommissioned = "decommissioned"
	StatusLost           = "lost"
)

// DeviceStatuses lists the valid device status values in display order.
var DeviceStatuses = []string{StatusActive, StatusInRepair, StatusDecommissioned, StatusLost}

// ValidDeviceStatus reports whether s is one of the closed status values.
func ValidDeviceStatus(s string) bool {
	for _, v := range DeviceStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// History note and actor values stamped on automatically appended rows.
const (
	historyNoteCreated = "initial device registration"
	historyNoteUpdated = "device record updated"
	historyActor       = "system"
)

// Device represents a row in the device table. Dates cross the boundary as
// "yyyy-MM-dd" strings; PurchasePrice is a decimal amount.
type Device struct {
	ID              uint64   `json:"id"`
	DeviceTypeID    uint64   `json:"device_type_id"`
	FranchiseID     uint64   `json:"franchise_id"`
	LocationID      *uint64  `json:"location_id"`
	InventoryNumber *string  `json:"inventory_number"`
	Name            *string  `json:"name"`
	Status          string   `json:"status"`
	PurchaseDate    *string  `json:"purchase_date"`
	WarrantyExpiry  *string  `json:"warranty_expiry"`
	PurchasePrice   *float64 `json:"purchase_price"`
	Notes           *string  `json:"notes"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// DeviceRow is one denormalized list entry with type, franchise and location
// names resolved. LocationName is nil for unassigned devices.
type DeviceRow struct {
	ID              uint64   `json:"id"`
	TypeName        string   `json:"type_name"`
	FranchiseName   string   `json:"franchise_name"`
	LocationName    *string  `json:"location_name"`
	InventoryNumber *string  `json:"inventory_number"`
	Name            *string  `json:"name"`
	Status          string   `json:"status"`
	PurchasePrice   *float64 `json:"purchase_price"`
}

// DeviceRepo encapsulates all database queries related to devices, including
// the append-only device history written alongside every mutation.
type DeviceRepo struct {
	db *sql.DB
}

// NewDeviceRepo constructs a DeviceRepo with the provided DB handle.
func NewDeviceRepo(db *sql.DB) *DeviceRepo {
	return &DeviceRepo{db: db}
}

// List returns all devices with their type, franchise and location names
// resolved, ordered by id. The location join is LEFT so devices without an
// assigned location still appear.
func (r *DeviceRepo) List(ctx context.Context) ([]*DeviceRow, error) {
	const q = `SELECT d.device_id, dt.name, f.name, l.name,
	                  d.inventory_number, d.name, d.status, d.purchase_price
	           FROM device d
	           JOIN device_type dt ON d.device_type_id = dt.device_type_id
	           JOIN franchise f ON d.franchise_id = f.franchise_id
	           LEFT JOIN location l ON d.location_id = l.location_id
	           ORDER BY d.device_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DeviceRow
	for rows.Next() {
		row := new(DeviceRow)
		if err := rows.Scan(&row.ID, &row.TypeName, &row.FranchiseName, &row.LocationName,
			&row.InventoryNumber, &row.Name, &row.Status, &row.PurchasePrice); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Options returns all devices as id/name pairs ordered by name, used by the
// history and component filters. Devices without a name fall back to their
// inventory number.
func (r *DeviceRepo) Options(ctx context.Context) ([]*Option, error) {
	const q = `SELECT device_id, COALESCE(name, inventory_number, CONCAT('device #', device_id))
	           FROM device ORDER BY 2`
	return scanOptions(ctx, r.db, q)
}

// GetByID fetches a device by its ID with all detail fields. It returns
// ErrDeviceNotFound if no row is found.
func (r *DeviceRepo) GetByID(ctx context.Context, id uint64) (*Device, error) {
	const q = `SELECT device_id, device_type_id, franchise_id, location_id,
	                  inventory_number, name, status,
	                  DATE_FORMAT(purchase_date, '%Y-%m-%d'),
	                  DATE_FORMAT(warranty_expiry, '%Y-%m-%d'),
	                  purchase_price, notes,
	                  DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'),
	                  DATE_FORMAT(updated_at, '%Y-%m-%d %H:%i:%s')
	           FROM device WHERE device_id = ?`
	var d Device
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.DeviceTypeID, &d.FranchiseID, &d.LocationID,
		&d.InventoryNumber, &d.Name, &d.Status,
		&d.PurchaseDate, &d.WarrantyExpiry,
		&d.PurchasePrice, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Create inserts a new device and appends its initial history row in the same
// transaction, so either both rows exist afterwards or neither does. On
// success the generated ID is populated.
func (r *DeviceRepo) Create(ctx context.Context, d *Device) (err error) {
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

	const q = `INSERT INTO device (device_type_id, franchise_id, location_id, inventory_number,
	                               name, status, purchase_date, warranty_expiry, purchase_price, notes)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		d.DeviceTypeID, d.FranchiseID, d.LocationID, d.InventoryNumber,
		d.Name, d.Status, d.PurchaseDate, d.WarrantyExpiry, d.PurchasePrice, d.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)

	return appendHistoryTx(ctx, tx, d, historyNoteCreated)
}

// Update overwrites all mutable fields of a device, stamps updated_at and
// appends a history row in the same transaction. It returns ErrDeviceNotFound
// when no row is affected.
func (r *DeviceRepo) Update(ctx context.Context, d *Device) (err error) {
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

	const q = `UPDATE device
	           SET device_type_id = ?, franchise_id = ?, location_id = ?, inventory_number = ?,
	               name = ?, status = ?, purchase_date = ?, warranty_expiry = ?,
	               purchase_price = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE device_id = ?`
	res, err := tx.ExecContext(ctx, q,
		d.DeviceTypeID, d.FranchiseID, d.LocationID, d.InventoryNumber,
		d.Name, d.Status, d.PurchaseDate, d.WarrantyExpiry, d.PurchasePrice, d.Notes, d.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrDeviceNotFound
		return err
	}

	return appendHistoryTx(ctx, tx, d, historyNoteUpdated)
}

// Delete removes a device unless components still reference it. The check and
// the delete share one transaction. History rows are intentionally kept: the
// history table is append-only and outlives the devices it describes.
func (r *DeviceRepo) Delete(ctx context.Context, id uint64) (err error) {
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
		`SELECT COUNT(*) FROM component WHERE device_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return &BlockedDeleteError{Dependency: DepComponents}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM device WHERE device_id = ?`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// appendHistoryTx writes one device_history row mirroring the device's
// current status, franchise and location, using the caller's transaction.
func appendHistoryTx(ctx context.Context, tx *sql.Tx, d *Device, note string) error {
	const q = `INSERT INTO device_history (device_id, franchise_id, location_id, status, notes, changed_by)
	           VALUES (?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, d.ID, d.FranchiseID, d.LocationID, d.Status, note, historyActor)
	return err
}

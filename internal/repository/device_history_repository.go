// This file defines the read side of the device history log. Rows are
// appended by DeviceRepo inside device write transactions and are never
// updated or deleted here.
package repository

import (
	"context"
	"database/sql"
)

// DeviceHistoryRow is one denormalized history entry. The device, franchise
// and location joins are LEFT: history outlives the records it references,
// so any of the names may be nil.
type DeviceHistoryRow struct {
	ID            uint64  `json:"id"`
	ChangedAt     string  `json:"changed_at"`
	DeviceName    *string `json:"device_name"`
	FranchiseName *string `json:"franchise_name"`
	LocationName  *string `json:"location_name"`
	Status        string  `json:"status"`
	Notes         *string `json:"notes"`
	ChangedBy     string  `json:"changed_by"`
}

// DeviceHistoryFilter narrows a history listing. Nil fields are ignored.
type DeviceHistoryFilter struct {
	DeviceID *uint64
	Status   *string
}

// DeviceHistoryRepo reads the append-only device history log.
type DeviceHistoryRepo struct {
	db *sql.DB
}

// NewDeviceHistoryRepo constructs a DeviceHistoryRepo with the provided DB handle.
func NewDeviceHistoryRepo(db *sql.DB) *DeviceHistoryRepo {
	return &DeviceHistoryRepo{db: db}
}

// List returns history entries newest first, optionally filtered by device
// and status.
func (r *DeviceHistoryRepo) List(ctx context.Context, f DeviceHistoryFilter) ([]*DeviceHistoryRow, error) {
	q := `SELECT h.history_id, DATE_FORMAT(h.changed_at, '%Y-%m-%d %H:%i:%s'),
	             d.name, fr.name, l.name, h.status, h.notes, h.changed_by
	      FROM device_history h
	      LEFT JOIN device d ON h.device_id = d.device_id
	      LEFT JOIN franchise fr ON h.franchise_id = fr.franchise_id
	      LEFT JOIN location l ON h.location_id = l.location_id`
	args := []any{}
	where := ""
	if f.DeviceID != nil {
		where = " WHERE h.device_id = ?"
		args = append(args, *f.DeviceID)
	}
	if f.Status != nil {
		if where == "" {
			where = " WHERE h.status = ?"
		} else {
			where += " AND h.status = ?"
		}
		args = append(args, *f.Status)
	}
	q += where + ` ORDER BY h.changed_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DeviceHistoryRow
	for rows.Next() {
		row := new(DeviceHistoryRow)
		if err := rows.Scan(&row.ID, &row.ChangedAt, &row.DeviceName, &row.FranchiseName,
			&row.LocationName, &row.Status, &row.Notes, &row.ChangedBy); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fcas/fcas-backend/internal/queue"
	"github.com/fcas/fcas-backend/internal/repository"
)

// deviceReq is the JSON payload for device create/update. The type and
// franchise references are required; the location is optional so devices can
// exist unassigned. Dates must be yyyy-MM-dd strings.
type deviceReq struct {
	DeviceTypeID    uint64   `json:"device_type_id"`
	FranchiseID     uint64   `json:"franchise_id"`
	LocationID      *uint64  `json:"location_id"`
	InventoryNumber string   `json:"inventory_number"`
	Name            string   `json:"name"`
	Status          string   `json:"status"`
	PurchaseDate    string   `json:"purchase_date"`
	WarrantyExpiry  string   `json:"warranty_expiry"`
	PurchasePrice   *float64 `json:"purchase_price"`
	Notes           string   `json:"notes"`
}

func (r *deviceReq) validate() (string, bool) {
	if r.DeviceTypeID == 0 {
		return "device type is required", false
	}
	if r.FranchiseID == 0 {
		return "franchise is required", false
	}
	if !repository.ValidDeviceStatus(r.Status) {
		return "invalid status", false
	}
	if r.PurchaseDate != "" && !validDate(r.PurchaseDate) {
		return "purchase_date must be yyyy-MM-dd", false
	}
	if r.WarrantyExpiry != "" && !validDate(r.WarrantyExpiry) {
		return "warranty_expiry must be yyyy-MM-dd", false
	}
	return "", true
}

func (r *deviceReq) toDevice(id uint64) *repository.Device {
	return &repository.Device{
		ID:              id,
		DeviceTypeID:    r.DeviceTypeID,
		FranchiseID:     r.FranchiseID,
		LocationID:      r.LocationID,
		InventoryNumber: optStr(r.InventoryNumber),
		Name:            optStr(r.Name),
		Status:          r.Status,
		PurchaseDate:    optStr(r.PurchaseDate),
		WarrantyExpiry:  optStr(r.WarrantyExpiry),
		PurchasePrice:   r.PurchasePrice,
		Notes:           optStr(r.Notes),
	}
}

// ListDevices handles GET /v1/devices.
func (h *AdminHandler) ListDevices(c echo.Context) error {
	items, err := h.Devices.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeviceOptions handles GET /v1/devices/options, used by the history and
// component filters.
func (h *AdminHandler) DeviceOptions(c echo.Context) error {
	items, err := h.Devices.Options(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetDevice handles GET /v1/devices/:id and returns the detail fields not
// shown in the list view (price, notes, timestamps, dates).
func (h *AdminHandler) GetDevice(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	d, err := h.Devices.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "device not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, d)
}

// CreateDevice handles POST /v1/devices. A successful insert also appends the
// initial device history row.
func (h *AdminHandler) CreateDevice(c echo.Context) error {
	var body deviceReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg, ok := body.validate(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	d := body.toDevice(0)
	if err := h.Devices.Create(c.Request().Context(), d); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityDevice, queue.ActionCreated, d.ID)
	return c.JSON(http.StatusCreated, d)
}

// UpdateDevice handles PUT /v1/devices/:id. The update is a full overwrite
// and appends a history row.
func (h *AdminHandler) UpdateDevice(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body deviceReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg, ok := body.validate(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	d := body.toDevice(id)
	if err := h.Devices.Update(c.Request().Context(), d); err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "device not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityDevice, queue.ActionUpdated, id)
	updated, err := h.Devices.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteDevice handles DELETE /v1/devices/:id. A device with installed
// components cannot be deleted.
func (h *AdminHandler) DeleteDevice(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Devices.Delete(c.Request().Context(), id); err != nil {
		if blocked, ok := repository.AsBlocked(err); ok {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "cannot delete device with " + string(blocked.Dependency),
			})
		}
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "device not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityDevice, queue.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}

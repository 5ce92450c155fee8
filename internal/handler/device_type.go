package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fcas/fcas-backend/internal/queue"
	"github.com/fcas/fcas-backend/internal/repository"
)

// deviceTypeReq is the JSON payload for device type create/update.
type deviceTypeReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListDeviceTypes handles GET /v1/device-types.
func (h *AdminHandler) ListDeviceTypes(c echo.Context) error {
	items, err := h.DeviceTypes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeviceTypeOptions handles GET /v1/device-types/options.
func (h *AdminHandler) DeviceTypeOptions(c echo.Context) error {
	items, err := h.DeviceTypes.Options(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetDeviceType handles GET /v1/device-types/:id.
func (h *AdminHandler) GetDeviceType(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	dt, err := h.DeviceTypes.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrDeviceTypeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "device type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, dt)
}

// CreateDeviceType handles POST /v1/device-types.
func (h *AdminHandler) CreateDeviceType(c echo.Context) error {
	var body deviceTypeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	dt := &repository.DeviceType{
		Name:        name,
		Description: optStr(body.Description),
	}
	if err := h.DeviceTypes.Create(c.Request().Context(), dt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityDeviceType, queue.ActionCreated, dt.ID)
	return c.JSON(http.StatusCreated, dt)
}

// UpdateDeviceType handles PUT /v1/device-types/:id.
func (h *AdminHandler) UpdateDeviceType(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body deviceTypeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	dt := &repository.DeviceType{
		ID:          id,
		Name:        name,
		Description: optStr(body.Description),
	}
	if err := h.DeviceTypes.Update(c.Request().Context(), dt); err != nil {
		if errors.Is(err, repository.ErrDeviceTypeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "device type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityDeviceType, queue.ActionUpdated, id)
	return c.JSON(http.StatusOK, dt)
}

// DeleteDeviceType handles DELETE /v1/device-types/:id. A type referenced by
// devices cannot be deleted.
func (h *AdminHandler) DeleteDeviceType(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.DeviceTypes.Delete(c.Request().Context(), id); err != nil {
		if blocked, ok := repository.AsBlocked(err); ok {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "cannot delete device type with " + string(blocked.Dependency),
			})
		}
		if errors.Is(err, repository.ErrDeviceTypeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "device type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityDeviceType, queue.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}

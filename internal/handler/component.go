package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fcas/fcas-backend/internal/queue"
	"github.com/fcas/fcas-backend/internal/repository"
)

// componentReq is the JSON payload for component create/update. Both the
// device and the component type references are required.
type componentReq struct {
	ComponentTypeID uint64 `json:"component_type_id"`
	DeviceID        uint64 `json:"device_id"`
	Model           string `json:"model"`
	InstalledDate   string `json:"installed_date"`
	Notes           string `json:"notes"`
}

func (r *componentReq) validate() (string, bool) {
	if r.DeviceID == 0 {
		return "device is required", false
	}
	if r.ComponentTypeID == 0 {
		return "component type is required", false
	}
	if r.InstalledDate != "" && !validDate(r.InstalledDate) {
		return "installed_date must be yyyy-MM-dd", false
	}
	return "", true
}

// ListComponents handles GET /v1/components. Optional ?device_id and
// ?component_type_id query parameters narrow the listing.
func (h *AdminHandler) ListComponents(c echo.Context) error {
	filter := repository.ComponentFilter{
		DeviceID:        parseIDQuery(c, "device_id"),
		ComponentTypeID: parseIDQuery(c, "component_type_id"),
	}
	items, err := h.Components.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ComponentTypeOptions handles GET /v1/component-types/options.
func (h *AdminHandler) ComponentTypeOptions(c echo.Context) error {
	items, err := h.Components.TypeOptions(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetComponent handles GET /v1/components/:id.
func (h *AdminHandler) GetComponent(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	comp, err := h.Components.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrComponentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "component not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, comp)
}

// CreateComponent handles POST /v1/components.
func (h *AdminHandler) CreateComponent(c echo.Context) error {
	var body componentReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg, ok := body.validate(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	comp := &repository.Component{
		ComponentTypeID: body.ComponentTypeID,
		DeviceID:        body.DeviceID,
		Model:           optStr(body.Model),
		InstalledDate:   optStr(body.InstalledDate),
		Notes:           optStr(body.Notes),
	}
	if err := h.Components.Create(c.Request().Context(), comp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityComponent, queue.ActionCreated, comp.ID)
	return c.JSON(http.StatusCreated, comp)
}

// UpdateComponent handles PUT /v1/components/:id.
func (h *AdminHandler) UpdateComponent(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body componentReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg, ok := body.validate(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	comp := &repository.Component{
		ID:              id,
		ComponentTypeID: body.ComponentTypeID,
		DeviceID:        body.DeviceID,
		Model:           optStr(body.Model),
		InstalledDate:   optStr(body.InstalledDate),
		Notes:           optStr(body.Notes),
	}
	if err := h.Components.Update(c.Request().Context(), comp); err != nil {
		if errors.Is(err, repository.ErrComponentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "component not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityComponent, queue.ActionUpdated, id)
	return c.JSON(http.StatusOK, comp)
}

// DeleteComponent handles DELETE /v1/components/:id. Nothing depends on
// components, so a delete only fails when the row is missing.
func (h *AdminHandler) DeleteComponent(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Components.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrComponentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "component not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityComponent, queue.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fcas/fcas-backend/internal/queue"
	"github.com/fcas/fcas-backend/internal/repository"
)

// locationReq is the JSON payload for location create/update. Name and the
// franchise reference are required.
type locationReq struct {
	Name        string `json:"name"`
	FranchiseID uint64 `json:"franchise_id"`
	Address     string `json:"address"`
	RoomNumber  string `json:"room_number"`
	IsActive    bool   `json:"is_active"`
}

func (r *locationReq) validate() (string, bool) {
	if strings.TrimSpace(r.Name) == "" {
		return "name is required", false
	}
	if r.FranchiseID == 0 {
		return "franchise is required", false
	}
	return "", true
}

// ListLocations handles GET /v1/locations.
func (h *AdminHandler) ListLocations(c echo.Context) error {
	items, err := h.Locations.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// LocationOptions handles GET /v1/locations/options. Only active locations
// are returned; ?franchise_id=N narrows them to one franchise so the device
// form can repopulate its location dropdown when the franchise changes.
func (h *AdminHandler) LocationOptions(c echo.Context) error {
	items, err := h.Locations.ActiveOptions(c.Request().Context(), parseIDQuery(c, "franchise_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetLocation handles GET /v1/locations/:id.
func (h *AdminHandler) GetLocation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	l, err := h.Locations.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, l)
}

// CreateLocation handles POST /v1/locations.
func (h *AdminHandler) CreateLocation(c echo.Context) error {
	var body locationReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg, ok := body.validate(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	l := &repository.Location{
		FranchiseID: body.FranchiseID,
		Name:        strings.TrimSpace(body.Name),
		Address:     optStr(body.Address),
		RoomNumber:  optStr(body.RoomNumber),
		IsActive:    body.IsActive,
	}
	if err := h.Locations.Create(c.Request().Context(), l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityLocation, queue.ActionCreated, l.ID)
	return c.JSON(http.StatusCreated, l)
}

// UpdateLocation handles PUT /v1/locations/:id.
func (h *AdminHandler) UpdateLocation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body locationReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg, ok := body.validate(); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	l := &repository.Location{
		ID:          id,
		FranchiseID: body.FranchiseID,
		Name:        strings.TrimSpace(body.Name),
		Address:     optStr(body.Address),
		RoomNumber:  optStr(body.RoomNumber),
		IsActive:    body.IsActive,
	}
	if err := h.Locations.Update(c.Request().Context(), l); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityLocation, queue.ActionUpdated, id)
	return c.JSON(http.StatusOK, l)
}

// DeleteLocation handles DELETE /v1/locations/:id. A location referenced by
// devices cannot be deleted.
func (h *AdminHandler) DeleteLocation(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Locations.Delete(c.Request().Context(), id); err != nil {
		if blocked, ok := repository.AsBlocked(err); ok {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "cannot delete location with " + string(blocked.Dependency),
			})
		}
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityLocation, queue.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}

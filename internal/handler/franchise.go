package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fcas/fcas-backend/internal/queue"
	"github.com/fcas/fcas-backend/internal/repository"
)

// franchiseReq is the JSON payload for franchise create/update. Name is the
// only required field; a missing parent means a root franchise.
type franchiseReq struct {
	Name     string  `json:"name"`
	ParentID *uint64 `json:"parent_id"`
	Address  string  `json:"address"`
	Phone    string  `json:"phone"`
	Email    string  `json:"email"`
	IsActive bool    `json:"is_active"`
}

// ListFranchises handles GET /v1/franchises.
func (h *AdminHandler) ListFranchises(c echo.Context) error {
	items, err := h.Franchises.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// FranchiseOptions handles GET /v1/franchises/options. With ?active=true only
// active franchises are returned, which feeds the location and device forms;
// without it all franchises are listed for the parent dropdown.
func (h *AdminHandler) FranchiseOptions(c echo.Context) error {
	var (
		items []*repository.Option
		err   error
	)
	if strings.EqualFold(c.QueryParam("active"), "true") {
		items, err = h.Franchises.ActiveOptions(c.Request().Context())
	} else {
		items, err = h.Franchises.Options(c.Request().Context())
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetFranchise handles GET /v1/franchises/:id and returns the detail fields
// not shown in the list view.
func (h *AdminHandler) GetFranchise(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	f, err := h.Franchises.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFranchiseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "franchise not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, f)
}

// CreateFranchise handles POST /v1/franchises.
func (h *AdminHandler) CreateFranchise(c echo.Context) error {
	var body franchiseReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	f := &repository.Franchise{
		ParentID: body.ParentID,
		Name:     name,
		Address:  optStr(body.Address),
		Phone:    optStr(body.Phone),
		Email:    optStr(body.Email),
		IsActive: body.IsActive,
	}
	if err := h.Franchises.Create(c.Request().Context(), f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityFranchise, queue.ActionCreated, f.ID)
	return c.JSON(http.StatusCreated, f)
}

// UpdateFranchise handles PUT /v1/franchises/:id. The update is a full
// overwrite of the mutable fields.
func (h *AdminHandler) UpdateFranchise(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body franchiseReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	f := &repository.Franchise{
		ID:       id,
		ParentID: body.ParentID,
		Name:     name,
		Address:  optStr(body.Address),
		Phone:    optStr(body.Phone),
		Email:    optStr(body.Email),
		IsActive: body.IsActive,
	}
	if err := h.Franchises.Update(c.Request().Context(), f); err != nil {
		if errors.Is(err, repository.ErrFranchiseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "franchise not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityFranchise, queue.ActionUpdated, id)
	updated, err := h.Franchises.GetByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteFranchise handles DELETE /v1/franchises/:id. A franchise that still
// has child franchises or locations cannot be deleted; the response names
// whichever dependency blocked it.
func (h *AdminHandler) DeleteFranchise(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Franchises.Delete(c.Request().Context(), id); err != nil {
		if blocked, ok := repository.AsBlocked(err); ok {
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "cannot delete franchise with " + string(blocked.Dependency),
			})
		}
		if errors.Is(err, repository.ErrFranchiseNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "franchise not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	notifyChange(c, queue.EntityFranchise, queue.ActionDeleted, id)
	return c.NoContent(http.StatusNoContent)
}

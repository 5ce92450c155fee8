// Package handler contains the HTTP controllers of the admin API. Handlers
// validate input locally, delegate persistence to the repositories and map
// repository outcomes onto HTTP responses; no business logic lives in the
// presentation surfaces that consume this API.
package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fcas/fcas-backend/internal/queue"
	"github.com/fcas/fcas-backend/internal/repository"
	"github.com/fcas/fcas-backend/internal/service"
)

// AdminHandler bundles the entity repositories behind the admin CRUD routes.
type AdminHandler struct {
	Franchises  *repository.FranchiseRepo
	Locations   *repository.LocationRepo
	DeviceTypes *repository.DeviceTypeRepo
	Devices     *repository.DeviceRepo
	History     *repository.DeviceHistoryRepo
	Components  *repository.ComponentRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency is nil.
func NewAdminHandler(fr *repository.FranchiseRepo, lo *repository.LocationRepo, dt *repository.DeviceTypeRepo, de *repository.DeviceRepo, hi *repository.DeviceHistoryRepo, co *repository.ComponentRepo) *AdminHandler {
	if fr == nil || lo == nil || dt == nil || de == nil || hi == nil || co == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{
		Franchises:  fr,
		Locations:   lo,
		DeviceTypes: dt,
		Devices:     de,
		History:     hi,
		Components:  co,
	}
}

// getUserID extracts the user_id stored in the context by the JWT middleware
// and converts it to uint64. JWT numeric claims arrive as float64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errInvalidUserID
}

var errInvalidUserID = errors.New("invalid user_id in context")

// parseID extracts the numeric :id path parameter.
func parseID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// parseIDQuery reads an optional numeric query parameter, returning nil when
// it is absent or malformed.
func parseIDQuery(c echo.Context, name string) *uint64 {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// optStr trims s and returns nil for the empty string, so optional text
// fields are stored as NULL rather than "".
func optStr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// validDate reports whether s is a yyyy-MM-dd date, the only format accepted
// at the boundary.
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// notifyChange publishes an entity-changed event after a successful mutation.
// Publishing is best-effort: a delivery failure never turns a committed write
// into an error response.
func notifyChange(c echo.Context, entity, action string, id uint64) {
	_ = service.PublishEntityChanged(c.Request().Context(), queue.EntityChangedEvent{
		Entity:    entity,
		Action:    action,
		ID:        id,
		ChangedAt: time.Now().UTC().Format("2006-01-02 15:04:05"),
	})
}

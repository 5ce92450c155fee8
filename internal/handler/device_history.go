package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fcas/fcas-backend/internal/repository"
)

// ListDeviceHistory handles GET /v1/device-history. Optional ?device_id and
// ?status query parameters narrow the listing; entries come back newest
// first. The log is read-only: there are no mutation routes for history.
func (h *AdminHandler) ListDeviceHistory(c echo.Context) error {
	filter := repository.DeviceHistoryFilter{
		DeviceID: parseIDQuery(c, "device_id"),
	}
	if s := strings.TrimSpace(c.QueryParam("status")); s != "" {
		if !repository.ValidDeviceStatus(s) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		filter.Status = &s
	}
	items, err := h.History.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

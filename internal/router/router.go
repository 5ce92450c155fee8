// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fcas/fcas-backend/internal/handler"
	"github.com/fcas/fcas-backend/internal/middleware"
	"github.com/fcas/fcas-backend/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes. Register, login, refresh
// and logout live under /v1/auth and need no token; /v1/me and
// /v1/logout-all require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
	me.POST("/logout-all", a.LogoutAll)
}

// RegisterAdmin registers the entity CRUD routes under /v1, all protected by
// JWT auth and the ADMIN role. Per entity the surface is exactly list,
// get-details, insert, update, delete, plus the option lookups that feed
// dependent dropdowns. Device history is read-only.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(repository.RoleAdmin))
	g.Use(extra...)

	g.GET("/franchises", h.ListFranchises)
	g.GET("/franchises/options", h.FranchiseOptions)
	g.GET("/franchises/:id", h.GetFranchise)
	g.POST("/franchises", h.CreateFranchise)
	g.PUT("/franchises/:id", h.UpdateFranchise)
	g.DELETE("/franchises/:id", h.DeleteFranchise)

	g.GET("/locations", h.ListLocations)
	g.GET("/locations/options", h.LocationOptions)
	g.GET("/locations/:id", h.GetLocation)
	g.POST("/locations", h.CreateLocation)
	g.PUT("/locations/:id", h.UpdateLocation)
	g.DELETE("/locations/:id", h.DeleteLocation)

	g.GET("/device-types", h.ListDeviceTypes)
	g.GET("/device-types/options", h.DeviceTypeOptions)
	g.GET("/device-types/:id", h.GetDeviceType)
	g.POST("/device-types", h.CreateDeviceType)
	g.PUT("/device-types/:id", h.UpdateDeviceType)
	g.DELETE("/device-types/:id", h.DeleteDeviceType)

	g.GET("/devices", h.ListDevices)
	g.GET("/devices/options", h.DeviceOptions)
	g.GET("/devices/:id", h.GetDevice)
	g.POST("/devices", h.CreateDevice)
	g.PUT("/devices/:id", h.UpdateDevice)
	g.DELETE("/devices/:id", h.DeleteDevice)

	g.GET("/device-history", h.ListDeviceHistory)

	g.GET("/components", h.ListComponents)
	g.GET("/component-types/options", h.ComponentTypeOptions)
	g.GET("/components/:id", h.GetComponent)
	g.POST("/components", h.CreateComponent)
	g.PUT("/components/:id", h.UpdateComponent)
	g.DELETE("/components/:id", h.DeleteComponent)
}

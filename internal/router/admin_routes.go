package router

import (
    "github.com/labstack/echo/v4"

    "github.com/bookmyseat/seat-reservation/internal/handler"
    "github.com/bookmyseat/seat-reservation/internal/middleware"
)

// RegisterAdmin registers catalog management endpoints under /v1.
// All routes require a valid JWT and the ADMIN role.  Admins create
// theaters and screens, define seat layouts and schedule shows.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("ADMIN"),
    )

    g.POST("/theaters", h.CreateTheater)
    g.POST("/theaters/:id/screens", h.CreateScreen)
    g.POST("/screens/:id/seats", h.CreateSeats)
    g.POST("/shows", h.ScheduleShow)
    g.POST("/shows/:id/cancel", h.CancelShow)
    g.DELETE("/shows/:id", h.ArchiveShow)
}

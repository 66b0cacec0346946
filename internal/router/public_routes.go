package router

import (
    "github.com/labstack/echo/v4"

    "github.com/bookmyseat/seat-reservation/internal/handler"
)

// RegisterPublic registers unauthenticated browse endpoints on the
// provided Echo instance.  These routes serve the catalog (theaters,
// screens, shows) and the per-show seat map to guests without any JWT
// or role middleware.  The optional middleware slice is applied to
// every route in the group; main wires the Redis response cache here
// when Redis is configured.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
    g := e.Group("/v1", mw...)

    g.GET("/theaters", p.ListTheaters)
    g.GET("/theaters/:id/screens", p.ListScreens)
    g.GET("/screens/:id/shows", p.ListShows)
    g.GET("/shows/search", p.SearchShows)
    g.GET("/shows/:id", p.GetShow)
    // The seat map is the hottest endpoint and the reason the cache
    // TTL defaults short: availability changes with every hold.
    g.GET("/shows/:id/seats", p.SeatMap)
    g.GET("/shows/:id/availability", p.Availability)
}

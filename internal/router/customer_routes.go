package router

import (
    "github.com/labstack/echo/v4"

    "github.com/bookmyseat/seat-reservation/internal/handler"
    "github.com/bookmyseat/seat-reservation/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers place
// holds on seats, pay for them, confirm bookings and manage their own
// booking history.
func RegisterCustomer(e *echo.Echo, locks *handler.SeatLockHandler, payments *handler.PaymentHandler, bookings *handler.BookingHandler, jwtSecret string) {
    g := e.Group(
        "/v1",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("CUSTOMER"),
    )

    // Seat hold lifecycle.  Lock returns the session that identifies
    // the batch; every later call addresses that session.
    g.POST("/seat-locks/lock", locks.Lock)
    g.POST("/seat-locks/release/:sessionID", locks.Release)
    g.POST("/seat-locks/renew/:sessionID", locks.Renew)
    g.GET("/seat-locks/session/:sessionID/remaining", locks.Remaining)
    g.POST("/seat-locks/confirm/:sessionID", locks.Confirm)

    // Payments run against an active hold session.
    g.POST("/payments/initiate", payments.Initiate)
    g.POST("/payments/:reference/process", payments.Process)

    // Booking history and cancellation.
    g.GET("/my-bookings", bookings.ListMine)
    g.GET("/bookings/:id", bookings.Get)
    g.DELETE("/bookings/:id", bookings.Cancel)
}

package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/bookmyseat/seat-reservation/internal/repository"
    "github.com/bookmyseat/seat-reservation/internal/service"
)

// SeatLockHandler exposes the hold lifecycle: lock a batch of seats
// under a fresh session, keep the session alive, give it up, or
// convert it into a booking.  All routes require a CUSTOMER token;
// ownership of the session is enforced below in the services.
type SeatLockHandler struct {
    Holds        *service.HoldService
    Reservations *service.ReservationService
}

// NewSeatLockHandler constructs a SeatLockHandler.  Both services must
// be non-nil.
func NewSeatLockHandler(holds *service.HoldService, reservations *service.ReservationService) *SeatLockHandler {
    if holds == nil || reservations == nil {
        panic("nil service passed to NewSeatLockHandler")
    }
    return &SeatLockHandler{Holds: holds, Reservations: reservations}
}

// Lock handles POST /v1/seat-locks/lock.  The body names a show and
// the seats wanted; all of them are taken or none.  A 409 response
// carries the IDs that blocked the batch so the client can offer
// alternatives.
func (h *SeatLockHandler) Lock(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        ShowID  uint64   `json:"show_id"`
        SeatIDs []uint64 `json:"seat_ids"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.ShowID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_id is required"})
    }
    if len(body.SeatIDs) == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
    }

    res, conflicting, err := h.Holds.Acquire(c.Request().Context(), userID, body.ShowID, body.SeatIDs)
    if err != nil {
        switch err {
        case repository.ErrShowNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
        case repository.ErrSeatConflict:
            return c.JSON(http.StatusConflict, echo.Map{
                "error":             "some seats are not available",
                "conflicting_seats": conflicting,
            })
        case repository.ErrTooManySeats:
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "too many seats requested"})
        }
        if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "no seats") {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not lock seats"})
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "session_id": res.SessionID,
        "show_id":    res.ShowID,
        "seat_ids":   res.SeatIDs,
        "expires_at": res.ExpiresAt.Format(time.RFC3339),
    })
}

// Release handles POST /v1/seat-locks/release/:sessionID.  Giving up a
// session that already lapsed is fine; the response just reports zero
// released seats.
func (h *SeatLockHandler) Release(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    sessionID := strings.TrimSpace(c.Param("sessionID"))
    if sessionID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "session id is required"})
    }

    released, err := h.Holds.Release(c.Request().Context(), sessionID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not release session"})
    }
    return c.JSON(http.StatusOK, echo.Map{"released": released})
}

// Renew handles POST /v1/seat-locks/renew/:sessionID and pushes the
// deadline out by one full TTL.
func (h *SeatLockHandler) Renew(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    sessionID := strings.TrimSpace(c.Param("sessionID"))
    if sessionID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "session id is required"})
    }

    expiresAt, err := h.Holds.Renew(c.Request().Context(), sessionID)
    if err != nil {
        if err == repository.ErrHoldExpired {
            return c.JSON(http.StatusGone, echo.Map{"error": "hold expired"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not renew session"})
    }
    return c.JSON(http.StatusOK, echo.Map{"expires_at": expiresAt.Format(time.RFC3339)})
}

// Remaining handles GET /v1/seat-locks/session/:sessionID/remaining.
// Clients render this countdown; the server enforces the deadline.
func (h *SeatLockHandler) Remaining(c echo.Context) error {
    if _, err := getUserID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    sessionID := strings.TrimSpace(c.Param("sessionID"))
    if sessionID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "session id is required"})
    }

    secs, err := h.Holds.Remaining(c.Request().Context(), sessionID)
    if err != nil {
        if err == repository.ErrHoldExpired {
            return c.JSON(http.StatusGone, echo.Map{"error": "hold expired"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not read session"})
    }
    return c.JSON(http.StatusOK, echo.Map{"remaining_seconds": secs})
}

// Confirm handles POST /v1/seat-locks/confirm/:sessionID.  The body
// carries the reference of the successful payment.  Confirming twice
// returns the same booking with a 200.
func (h *SeatLockHandler) Confirm(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    sessionID := strings.TrimSpace(c.Param("sessionID"))
    if sessionID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "session id is required"})
    }
    var body struct {
        PaymentReference string `json:"payment_reference"`
    }
    if err := c.Bind(&body); err != nil || strings.TrimSpace(body.PaymentReference) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_reference is required"})
    }

    booking, err := h.Reservations.Confirm(c.Request().Context(), userID, sessionID, strings.TrimSpace(body.PaymentReference))
    if err != nil {
        switch err {
        case repository.ErrPaymentRejected:
            return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment rejected"})
        case repository.ErrHoldExpired:
            return c.JSON(http.StatusGone, echo.Map{"error": "hold expired"})
        case repository.ErrNotHolder, repository.ErrForbidden:
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not confirm booking"})
    }

    return c.JSON(http.StatusOK, echo.Map{"booking": bookingView(booking)})
}

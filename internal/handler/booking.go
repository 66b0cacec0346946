package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/bookmyseat/seat-reservation/internal/model"
    "github.com/bookmyseat/seat-reservation/internal/repository"
    "github.com/bookmyseat/seat-reservation/internal/service"
)

// BookingHandler serves the customer's view of their bookings and
// handles cancellation with refund.
type BookingHandler struct {
    Bookings  *repository.BookingRepo
    Shows     *repository.ShowRepo
    Seats     *repository.SeatRepo
    Inventory *repository.Inventory
    Payments  *service.PaymentService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(bookings *repository.BookingRepo, shows *repository.ShowRepo, seats *repository.SeatRepo, inv *repository.Inventory, payments *service.PaymentService) *BookingHandler {
    if bookings == nil || shows == nil || seats == nil || inv == nil || payments == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Bookings: bookings, Shows: shows, Seats: seats, Inventory: inv, Payments: payments}
}

type bookingResp struct {
    ID                  uint64 `json:"id"`
    SessionID           string `json:"session_id"`
    ShowID              uint64 `json:"show_id"`
    Status              string `json:"status"`
    BaseAmountCents     uint32 `json:"base_amount_cents"`
    ConvenienceFeeCents uint32 `json:"convenience_fee_cents"`
    TaxCents            uint32 `json:"tax_cents"`
    DiscountCents       uint32 `json:"discount_cents"`
    TotalAmountCents    uint32 `json:"total_amount_cents"`
    PaymentRef          string `json:"payment_ref"`
    CreatedAt           string `json:"created_at"`
}

func bookingView(b *model.Booking) bookingResp {
    return bookingResp{
        ID:                  b.ID,
        SessionID:           b.SessionID,
        ShowID:              b.ShowID,
        Status:              b.Status,
        BaseAmountCents:     b.BaseAmountCents,
        ConvenienceFeeCents: b.ConvenienceFeeCents,
        TaxCents:            b.TaxCents,
        DiscountCents:       b.DiscountCents,
        TotalAmountCents:    b.TotalAmountCents,
        PaymentRef:          b.PaymentRef,
        CreatedAt:           b.CreatedAt.UTC().Format(time.RFC3339),
    }
}

// ListMine handles GET /v1/my-bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookings, err := h.Bookings.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not list bookings"})
    }
    out := make([]bookingResp, 0, len(bookings))
    for i := range bookings {
        out = append(out, bookingView(&bookings[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Get handles GET /v1/bookings/:id and includes the booked seat IDs.
func (h *BookingHandler) Get(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }

    b, err := h.Bookings.GetByIDForUser(c.Request().Context(), id, userID)
    if err != nil {
        switch err {
        case repository.ErrBookingNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        case repository.ErrForbidden:
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load booking"})
    }
    seatIDs, err := h.Bookings.SeatIDs(c.Request().Context(), b.ID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load seats"})
    }
    labels, err := h.Seats.LabelsByIDs(c.Request().Context(), seatIDs)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load seats"})
    }
    seatLabels := make([]string, 0, len(seatIDs))
    for _, id := range seatIDs {
        seatLabels = append(seatLabels, labels[id])
    }

    resp := echo.Map{"booking": bookingView(b), "seat_ids": seatIDs, "seats": seatLabels}
    return c.JSON(http.StatusOK, resp)
}

// Cancel handles DELETE /v1/bookings/:id.  Only the owner may cancel,
// only before showtime, and only once; the seats go back on sale and
// the payment is refunded.
func (h *BookingHandler) Cancel(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    ctx := c.Request().Context()

    b, err := h.Bookings.GetByIDForUser(ctx, id, userID)
    if err != nil {
        switch err {
        case repository.ErrBookingNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
        case repository.ErrForbidden:
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load booking"})
    }
    if b.Status != model.BookingStatusConfirmed {
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
    }

    show, err := h.Shows.GetByID(ctx, b.ShowID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load show"})
    }
    if !time.Now().UTC().Before(show.StartsAt.UTC()) {
        return c.JSON(http.StatusConflict, echo.Map{"error": "show has already started"})
    }

    freed, err := h.Inventory.CancelBooking(ctx, b)
    if err != nil {
        if err == repository.ErrConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not cancel booking"})
    }

    // Refund after the seats are freed; a refund failure leaves the
    // cancellation in place and is surfaced for support to retry.
    if err := h.Payments.Refund(ctx, b.PaymentRef); err != nil {
        return c.JSON(http.StatusOK, echo.Map{
            "message":     "booking cancelled, refund pending",
            "freed_seats": len(freed),
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message":     "booking cancelled and refunded",
        "freed_seats": len(freed),
    })
}

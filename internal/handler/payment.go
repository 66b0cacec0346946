package handler

import (
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/bookmyseat/seat-reservation/internal/model"
    "github.com/bookmyseat/seat-reservation/internal/repository"
    "github.com/bookmyseat/seat-reservation/internal/service"
)

// PaymentHandler exposes payment initiation and processing for a hold
// session.
type PaymentHandler struct {
    Payments *service.PaymentService
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
    if payments == nil {
        panic("nil service passed to NewPaymentHandler")
    }
    return &PaymentHandler{Payments: payments}
}

type paymentResp struct {
    Reference           string `json:"reference"`
    SessionID           string `json:"session_id"`
    Status              string `json:"status"`
    Method              string `json:"method"`
    BaseAmountCents     uint32 `json:"base_amount_cents"`
    ConvenienceFeeCents uint32 `json:"convenience_fee_cents"`
    TaxCents            uint32 `json:"tax_cents"`
    DiscountCents       uint32 `json:"discount_cents"`
    TotalAmountCents    uint32 `json:"total_amount_cents"`
    FailureReason       string `json:"failure_reason,omitempty"`
    CompletedAt         string `json:"completed_at,omitempty"`
}

func paymentView(p *model.Payment) paymentResp {
    resp := paymentResp{
        Reference:           p.Reference,
        SessionID:           p.SessionID,
        Status:              p.Status,
        Method:              p.Method,
        BaseAmountCents:     p.BaseAmountCents,
        ConvenienceFeeCents: p.ConvenienceFeeCents,
        TaxCents:            p.TaxCents,
        DiscountCents:       p.DiscountCents,
        TotalAmountCents:    p.TotalAmountCents,
    }
    if p.FailureReason != nil {
        resp.FailureReason = *p.FailureReason
    }
    if p.CompletedAt != nil {
        resp.CompletedAt = p.CompletedAt.UTC().Format(time.RFC3339)
    }
    return resp
}

// Initiate handles POST /v1/payments/initiate.  It prices the session's
// held seats and opens a PENDING payment; calling it again for the same
// session returns the open attempt.
func (h *PaymentHandler) Initiate(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        SessionID string `json:"session_id"`
        Method    string `json:"method"`
        PromoCode string `json:"promo_code"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    sessionID := strings.TrimSpace(body.SessionID)
    if sessionID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id is required"})
    }
    method := strings.ToUpper(strings.TrimSpace(body.Method))
    switch method {
    case model.PaymentMethodCard, model.PaymentMethodUPI, model.PaymentMethodWallet:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "method must be CARD, UPI or WALLET"})
    }

    p, err := h.Payments.Initiate(c.Request().Context(), userID, sessionID, method, strings.TrimSpace(body.PromoCode))
    if err != nil {
        switch err {
        case repository.ErrHoldExpired:
            return c.JSON(http.StatusGone, echo.Map{"error": "hold expired"})
        case repository.ErrNotHolder:
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        case service.ErrUnknownPromo:
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown promo code"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not initiate payment"})
    }
    return c.JSON(http.StatusCreated, paymentView(p))
}

// Process handles POST /v1/payments/:reference/process.  The body
// carries the payment instrument; for cards that is the card number.
func (h *PaymentHandler) Process(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    reference := strings.TrimSpace(c.Param("reference"))
    if reference == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "reference is required"})
    }
    var body struct {
        Instrument string `json:"instrument"`
    }
    if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Instrument) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "instrument is required"})
    }

    p, err := h.Payments.Process(c.Request().Context(), userID, reference, strings.TrimSpace(body.Instrument))
    if err != nil {
        switch err {
        case repository.ErrPaymentNotFound:
            return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
        case repository.ErrForbidden:
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        case repository.ErrPaymentRejected:
            resp := echo.Map{"error": "payment rejected"}
            if p != nil {
                resp["payment"] = paymentView(p)
            }
            return c.JSON(http.StatusPaymentRequired, resp)
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not process payment"})
    }
    return c.JSON(http.StatusOK, paymentView(p))
}

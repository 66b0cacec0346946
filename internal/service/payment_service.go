package service

import (
    "context"
    "time"

    "github.com/google/uuid"

    "github.com/bookmyseat/seat-reservation/internal/model"
    "github.com/bookmyseat/seat-reservation/internal/payment"
    "github.com/bookmyseat/seat-reservation/internal/repository"
)

// PaymentService drives the payment lifecycle for a hold session:
// initiate prices the held seats and opens a PENDING record, process
// runs the charge through the gateway.  A successful payment does not
// confirm anything by itself; confirmation is the coordinator's job.
type PaymentService struct {
    payments PaymentStore
    inv      InventoryStore
    claims   SeatClaimer // may be nil
    gateway  payment.Gateway
    pricing  PricingConfig
    now      func() time.Time
}

// NewPaymentService wires the payment flow.
func NewPaymentService(payments PaymentStore, inv InventoryStore, claims SeatClaimer, gw payment.Gateway, pricing PricingConfig) *PaymentService {
    return &PaymentService{
        payments: payments,
        inv:      inv,
        claims:   claims,
        gateway:  gw,
        pricing:  pricing,
        now:      time.Now,
    }
}

// Initiate opens a payment attempt for the session's held seats.
// Idempotent per session: an attempt that is still open, or already
// succeeded, is returned as-is; only a FAILED attempt may be retried
// with a fresh reference.
func (s *PaymentService) Initiate(ctx context.Context, userID uint64, sessionID, method, promoCode string) (*model.Payment, error) {
    now := s.now().UTC()

    holds, err := s.inv.SessionHolds(ctx, sessionID, now)
    if err != nil {
        return nil, err
    }
    if len(holds) == 0 {
        return nil, repository.ErrHoldExpired
    }
    if holds[0].UserID != userID {
        return nil, repository.ErrNotHolder
    }

    existing, err := s.payments.LatestBySession(ctx, sessionID)
    if err != nil && err != repository.ErrPaymentNotFound {
        return nil, err
    }
    if existing != nil && existing.Status != model.PaymentStatusFailed {
        return existing, nil
    }

    _, prices, err := s.inv.SessionSeatPrices(ctx, sessionID, now)
    if err != nil {
        return nil, err
    }
    breakdown, err := ComputeBreakdown(s.pricing, prices, promoCode)
    if err != nil {
        return nil, err
    }

    p := &model.Payment{
        Reference:           "TXN_" + uuid.NewString(),
        SessionID:           sessionID,
        UserID:              userID,
        Status:              model.PaymentStatusPending,
        Method:              method,
        BaseAmountCents:     breakdown.BaseCents,
        ConvenienceFeeCents: breakdown.FeeCents,
        TaxCents:            breakdown.TaxCents,
        DiscountCents:       breakdown.DiscountCents,
        TotalAmountCents:    breakdown.TotalCents,
    }
    if promoCode != "" {
        p.PromoCode = &promoCode
    }
    if err := s.payments.Create(ctx, p); err != nil {
        return nil, err
    }
    return p, nil
}

// Process runs the charge for a PENDING payment through the gateway.
// Idempotent: a payment that already finished is returned unchanged.
// A decline marks the payment FAILED, releases the session's holds,
// and returns repository.ErrPaymentRejected alongside the record.
func (s *PaymentService) Process(ctx context.Context, userID uint64, reference, instrument string) (*model.Payment, error) {
    p, err := s.payments.GetByReference(ctx, reference)
    if err != nil {
        return nil, err
    }
    if p.UserID != userID {
        return nil, repository.ErrForbidden
    }
    switch p.Status {
    case model.PaymentStatusSuccess:
        return p, nil
    case model.PaymentStatusFailed:
        return p, repository.ErrPaymentRejected
    }

    if err := s.payments.MarkProcessing(ctx, reference); err != nil {
        if err == repository.ErrConflict {
            // Another process call got here first; report its result.
            return s.payments.GetByReference(ctx, reference)
        }
        return nil, err
    }

    result, err := s.gateway.Charge(ctx, payment.ChargeRequest{
        Reference:   p.Reference,
        Method:      p.Method,
        Instrument:  instrument,
        AmountCents: p.TotalAmountCents,
    })
    if err != nil {
        _ = s.payments.MarkFailed(ctx, reference, "gateway error: "+err.Error())
        return nil, err
    }

    if !result.Approved {
        if err := s.payments.MarkFailed(ctx, reference, result.Reason); err != nil {
            return nil, err
        }
        s.releaseSession(ctx, p.SessionID)
        p, err := s.payments.GetByReference(ctx, reference)
        if err != nil {
            return nil, err
        }
        return p, repository.ErrPaymentRejected
    }

    if err := s.payments.MarkSuccess(ctx, reference, result.GatewayRef, s.now().UTC()); err != nil {
        return nil, err
    }
    return s.payments.GetByReference(ctx, reference)
}

// Refund returns the money of a successful payment, as part of booking
// cancellation.
func (s *PaymentService) Refund(ctx context.Context, reference string) error {
    p, err := s.payments.GetByReference(ctx, reference)
    if err != nil {
        return err
    }
    gatewayRef := ""
    if p.GatewayRef != nil {
        gatewayRef = *p.GatewayRef
    }
    if err := s.gateway.Refund(ctx, gatewayRef, p.TotalAmountCents); err != nil {
        return err
    }
    return s.payments.MarkRefunded(ctx, reference)
}

func (s *PaymentService) releaseSession(ctx context.Context, sessionID string) {
    showID, seatIDs, err := s.inv.ReleaseSession(ctx, sessionID)
    if err != nil {
        return
    }
    if s.claims != nil && len(seatIDs) > 0 {
        _ = s.claims.ReleaseAll(ctx, showID, seatIDs, sessionID)
    }
}

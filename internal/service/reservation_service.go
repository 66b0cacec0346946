package service

import (
    "context"
    "log"
    "time"

    "github.com/bookmyseat/seat-reservation/internal/model"
    "github.com/bookmyseat/seat-reservation/internal/queue"
    "github.com/bookmyseat/seat-reservation/internal/repository"
)

// EventComposer builds the denormalized payload published after a
// confirmation.  repository.EventComposer is the production
// implementation.
type EventComposer interface {
    ComposeBookingConfirmed(ctx context.Context, b *model.Booking) (queue.BookingConfirmedEvent, error)
}

// ReservationService is the coordinator that turns a paid hold session
// into a booking.  Confirmation is idempotent on the session: whoever
// confirms a session twice gets the same booking back, and two racing
// confirms are settled by the unique session key in the bookings
// table.
type ReservationService struct {
    inv      InventoryStore
    payments PaymentStore
    claims   SeatClaimer   // may be nil
    composer EventComposer // may be nil
    publish  func(ctx context.Context, ev queue.BookingConfirmedEvent) error
    now      func() time.Time
}

// NewReservationService wires the confirmation flow.  publish may be
// nil to disable event publishing.
func NewReservationService(inv InventoryStore, payments PaymentStore, claims SeatClaimer, composer EventComposer, publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error) *ReservationService {
    return &ReservationService{
        inv:      inv,
        payments: payments,
        claims:   claims,
        composer: composer,
        publish:  publish,
        now:      time.Now,
    }
}

// Confirm converts the session's holds into a booking backed by the
// given successful payment.
//
// Outcomes: the existing booking when the session was already
// confirmed; repository.ErrPaymentRejected when the payment is
// missing, not SUCCESS, or does not belong to this session (the holds
// are released, the seats go back on sale); repository.ErrHoldExpired
// when the holds lapsed before confirmation.
func (s *ReservationService) Confirm(ctx context.Context, userID uint64, sessionID, paymentRef string) (*model.Booking, error) {
    existing, err := s.inv.BookingBySession(ctx, sessionID)
    if err == nil {
        if existing.UserID != userID {
            return nil, repository.ErrForbidden
        }
        return existing, nil
    }
    if err != repository.ErrBookingNotFound {
        return nil, err
    }

    pay, err := s.payments.GetByReference(ctx, paymentRef)
    if err == repository.ErrPaymentNotFound {
        return nil, s.rejectPayment(ctx, sessionID)
    }
    if err != nil {
        return nil, err
    }
    if pay.SessionID != sessionID || pay.UserID != userID || pay.Status != model.PaymentStatusSuccess {
        return nil, s.rejectPayment(ctx, sessionID)
    }

    b := &model.Booking{
        BaseAmountCents:     pay.BaseAmountCents,
        ConvenienceFeeCents: pay.ConvenienceFeeCents,
        TaxCents:            pay.TaxCents,
        DiscountCents:       pay.DiscountCents,
        TotalAmountCents:    pay.TotalAmountCents,
        PaymentRef:          paymentRef,
    }
    seatIDs, err := s.inv.BookSession(ctx, sessionID, userID, s.now().UTC(), b)
    if err != nil {
        switch err {
        case repository.ErrConflict, repository.ErrHoldExpired:
            // Lost the race against another confirm of the same
            // session: either the unique session key fired, or the
            // winner committed first and its transaction already
            // cleared the holds.  The winner's booking is the answer
            // when it exists; otherwise the holds really lapsed.
            if won, werr := s.inv.BookingBySession(ctx, sessionID); werr == nil {
                return won, nil
            }
        }
        return nil, err
    }

    if s.claims != nil && len(seatIDs) > 0 {
        _ = s.claims.ReleaseAll(ctx, b.ShowID, seatIDs, sessionID)
    }

    s.publishConfirmed(ctx, b)
    return b, nil
}

// rejectPayment releases the session's holds and returns the payment
// rejection sentinel.
func (s *ReservationService) rejectPayment(ctx context.Context, sessionID string) error {
    showID, seatIDs, err := s.inv.ReleaseSession(ctx, sessionID)
    if err != nil {
        log.Printf("confirm: release after payment rejection failed: %v", err)
        return repository.ErrPaymentRejected
    }
    if s.claims != nil && len(seatIDs) > 0 {
        _ = s.claims.ReleaseAll(ctx, showID, seatIDs, sessionID)
    }
    return repository.ErrPaymentRejected
}

func (s *ReservationService) publishConfirmed(ctx context.Context, b *model.Booking) {
    if s.publish == nil {
        return
    }
    ev := queue.BookingConfirmedEvent{
        BookingID:        b.ID,
        SessionID:        b.SessionID,
        UserID:           b.UserID,
        ShowID:           b.ShowID,
        TotalAmountCents: b.TotalAmountCents,
        PaymentRef:       b.PaymentRef,
        ConfirmedAt:      s.now().UTC().Format(time.RFC3339),
    }
    if s.composer != nil {
        composed, err := s.composer.ComposeBookingConfirmed(ctx, b)
        if err != nil {
            log.Printf("confirm: compose event failed: %v", err)
        } else {
            ev = composed
        }
    }
    if err := s.publish(ctx, ev); err != nil {
        log.Printf("confirm: publish event failed: %v", err)
    }
}

package service_test

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/mock"

    "github.com/bookmyseat/seat-reservation/internal/model"
    "github.com/bookmyseat/seat-reservation/internal/repository"
    "github.com/bookmyseat/seat-reservation/internal/service"
)

func successfulPayment(sessionID string, userID uint64) *model.Payment {
    return &model.Payment{
        ID:                  11,
        Reference:           "TXN_abc",
        SessionID:           sessionID,
        UserID:              userID,
        Status:              model.PaymentStatusSuccess,
        Method:              model.PaymentMethodCard,
        BaseAmountCents:     50000,
        ConvenienceFeeCents: 2000,
        TaxCents:            9360,
        TotalAmountCents:    61360,
    }
}

func TestConfirm_CreatesBooking(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    claims := new(MockClaims)
    events := new(capturedEvents)
    svc := service.NewReservationService(inv, payments, claims, nil, events.publish)

    ctx := context.Background()
    sessionID := "sess-1"

    inv.On("BookingBySession", ctx, sessionID).Return(nil, repository.ErrBookingNotFound).Once()
    payments.On("GetByReference", ctx, "TXN_abc").Return(successfulPayment(sessionID, 42), nil)
    inv.On("BookSession", ctx, sessionID, uint64(42), mock.AnythingOfType("time.Time"), mock.AnythingOfType("*model.Booking")).
        Run(func(args mock.Arguments) {
            b := args.Get(4).(*model.Booking)
            b.ID = 99
            b.SessionID = sessionID
            b.UserID = 42
            b.ShowID = 7
            b.Status = model.BookingStatusConfirmed
        }).
        Return([]uint64{3, 5}, nil)
    claims.On("ReleaseAll", ctx, uint64(7), []uint64{3, 5}, sessionID).Return(nil)

    booking, err := svc.Confirm(ctx, 42, sessionID, "TXN_abc")

    assert.NoError(t, err)
    if assert.NotNil(t, booking) {
        assert.Equal(t, uint64(99), booking.ID)
        assert.Equal(t, "TXN_abc", booking.PaymentRef)
        assert.Equal(t, uint32(61360), booking.TotalAmountCents)
    }
    if assert.Len(t, events.events, 1) {
        assert.Equal(t, uint64(99), events.events[0].BookingID)
        assert.Equal(t, sessionID, events.events[0].SessionID)
    }
    inv.AssertExpectations(t)
    claims.AssertExpectations(t)
}

func TestConfirm_IsIdempotent(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    svc := service.NewReservationService(inv, payments, nil, nil, nil)

    ctx := context.Background()
    existing := &model.Booking{ID: 99, SessionID: "sess-1", UserID: 42, Status: model.BookingStatusConfirmed}
    inv.On("BookingBySession", ctx, "sess-1").Return(existing, nil)

    booking, err := svc.Confirm(ctx, 42, "sess-1", "TXN_abc")

    assert.NoError(t, err)
    assert.Equal(t, existing, booking)
    payments.AssertNotCalled(t, "GetByReference", mock.Anything, mock.Anything)
    inv.AssertNotCalled(t, "BookSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_ForeignBookingForbidden(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    svc := service.NewReservationService(inv, payments, nil, nil, nil)

    ctx := context.Background()
    existing := &model.Booking{ID: 99, SessionID: "sess-1", UserID: 1}
    inv.On("BookingBySession", ctx, "sess-1").Return(existing, nil)

    booking, err := svc.Confirm(ctx, 42, "sess-1", "TXN_abc")

    assert.ErrorIs(t, err, repository.ErrForbidden)
    assert.Nil(t, booking)
}

func TestConfirm_PaymentNotSuccessfulReleasesHolds(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    claims := new(MockClaims)
    svc := service.NewReservationService(inv, payments, claims, nil, nil)

    ctx := context.Background()
    pending := successfulPayment("sess-1", 42)
    pending.Status = model.PaymentStatusPending

    inv.On("BookingBySession", ctx, "sess-1").Return(nil, repository.ErrBookingNotFound)
    payments.On("GetByReference", ctx, "TXN_abc").Return(pending, nil)
    inv.On("ReleaseSession", ctx, "sess-1").Return(uint64(7), []uint64{3}, nil)
    claims.On("ReleaseAll", ctx, uint64(7), []uint64{3}, "sess-1").Return(nil)

    booking, err := svc.Confirm(ctx, 42, "sess-1", "TXN_abc")

    assert.ErrorIs(t, err, repository.ErrPaymentRejected)
    assert.Nil(t, booking)
    inv.AssertExpectations(t)
    claims.AssertExpectations(t)
}

func TestConfirm_PaymentForDifferentSessionRejected(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    svc := service.NewReservationService(inv, payments, nil, nil, nil)

    ctx := context.Background()
    inv.On("BookingBySession", ctx, "sess-1").Return(nil, repository.ErrBookingNotFound)
    payments.On("GetByReference", ctx, "TXN_abc").Return(successfulPayment("sess-2", 42), nil)
    inv.On("ReleaseSession", ctx, "sess-1").Return(uint64(0), nil, nil)

    booking, err := svc.Confirm(ctx, 42, "sess-1", "TXN_abc")

    assert.ErrorIs(t, err, repository.ErrPaymentRejected)
    assert.Nil(t, booking)
}

func TestConfirm_ExpiredHolds(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    svc := service.NewReservationService(inv, payments, nil, nil, nil)

    ctx := context.Background()
    inv.On("BookingBySession", ctx, "sess-1").Return(nil, repository.ErrBookingNotFound)
    payments.On("GetByReference", ctx, "TXN_abc").Return(successfulPayment("sess-1", 42), nil)
    inv.On("BookSession", ctx, "sess-1", uint64(42), mock.AnythingOfType("time.Time"), mock.AnythingOfType("*model.Booking")).
        Return(nil, repository.ErrHoldExpired)

    booking, err := svc.Confirm(ctx, 42, "sess-1", "TXN_abc")

    assert.ErrorIs(t, err, repository.ErrHoldExpired)
    assert.Nil(t, booking)
}

func TestConfirm_RaceSettledByExistingBooking(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    svc := service.NewReservationService(inv, payments, nil, nil, nil)

    ctx := context.Background()
    winner := &model.Booking{ID: 99, SessionID: "sess-1", UserID: 42}

    inv.On("BookingBySession", ctx, "sess-1").Return(nil, repository.ErrBookingNotFound).Once()
    payments.On("GetByReference", ctx, "TXN_abc").Return(successfulPayment("sess-1", 42), nil)
    inv.On("BookSession", ctx, "sess-1", uint64(42), mock.AnythingOfType("time.Time"), mock.AnythingOfType("*model.Booking")).
        Return(nil, repository.ErrConflict)
    inv.On("BookingBySession", ctx, "sess-1").Return(winner, nil).Once()

    booking, err := svc.Confirm(ctx, 42, "sess-1", "TXN_abc")

    assert.NoError(t, err)
    assert.Equal(t, winner, booking)
}

func TestConfirm_RaceLoserSeesClearedHolds(t *testing.T) {
    // The winner's commit deletes the session's holds, so the loser's
    // BookSession sees none and reports expiry.  The loser must still
    // get the winner's booking back, not a 410.
    inv := new(MockInventory)
    payments := new(MockPayments)
    svc := service.NewReservationService(inv, payments, nil, nil, nil)

    ctx := context.Background()
    winner := &model.Booking{ID: 99, SessionID: "sess-1", UserID: 42}

    inv.On("BookingBySession", ctx, "sess-1").Return(nil, repository.ErrBookingNotFound).Once()
    payments.On("GetByReference", ctx, "TXN_abc").Return(successfulPayment("sess-1", 42), nil)
    inv.On("BookSession", ctx, "sess-1", uint64(42), mock.AnythingOfType("time.Time"), mock.AnythingOfType("*model.Booking")).
        Return(nil, repository.ErrHoldExpired)
    inv.On("BookingBySession", ctx, "sess-1").Return(winner, nil).Once()

    booking, err := svc.Confirm(ctx, 42, "sess-1", "TXN_abc")

    assert.NoError(t, err)
    assert.Equal(t, winner, booking)
}

func TestSweeper_ReclaimsExpiredHolds(t *testing.T) {
    inv := new(MockInventory)
    claims := new(MockClaims)
    sw := service.NewSweeper(inv, claims, 10*time.Millisecond)

    expired := []model.SeatHold{
        {SessionID: "sess-1", ShowID: 7, SeatID: 3},
        {SessionID: "sess-1", ShowID: 7, SeatID: 5},
        {SessionID: "sess-2", ShowID: 8, SeatID: 1},
    }
    inv.On("ExpireHolds", mock.Anything, mock.AnythingOfType("time.Time")).Return(expired, nil)
    claims.On("ReleaseAll", mock.Anything, uint64(7), []uint64{3, 5}, "sess-1").Return(nil)
    claims.On("ReleaseAll", mock.Anything, uint64(8), []uint64{1}, "sess-2").Return(nil)

    ctx, cancel := context.WithCancel(context.Background())
    done := make(chan struct{})
    go func() {
        sw.Run(ctx)
        close(done)
    }()

    assert.Eventually(t, func() bool {
        return inv.AssertCalled(&testing.T{}, "ExpireHolds", mock.Anything, mock.AnythingOfType("time.Time"))
    }, time.Second, 10*time.Millisecond)

    cancel()
    <-done
    claims.AssertExpectations(t)
}

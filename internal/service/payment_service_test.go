package service_test

import (
    "context"
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/mock"

    "github.com/bookmyseat/seat-reservation/internal/model"
    "github.com/bookmyseat/seat-reservation/internal/payment"
    "github.com/bookmyseat/seat-reservation/internal/repository"
    "github.com/bookmyseat/seat-reservation/internal/service"
)

func testPricing() service.PricingConfig {
    return service.PricingConfig{
        ConvenienceFeePercent:  2.5,
        MinConvenienceFeeCents: 2000,
        TaxPercent:             18.0,
    }
}

func activeHolds(sessionID string, userID uint64) []model.SeatHold {
    return []model.SeatHold{
        {SessionID: sessionID, UserID: userID, ShowID: 7, SeatID: 3, ExpiresAt: time.Now().Add(5 * time.Minute)},
        {SessionID: sessionID, UserID: userID, ShowID: 7, SeatID: 5, ExpiresAt: time.Now().Add(5 * time.Minute)},
    }
}

func TestInitiate_PricesHeldSeats(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    svc := service.NewPaymentService(payments, inv, nil, payment.NewMockGateway(), testPricing())

    ctx := context.Background()
    sessionID := "sess-1"

    inv.On("SessionHolds", ctx, sessionID, mock.AnythingOfType("time.Time")).Return(activeHolds(sessionID, 42), nil)
    payments.On("LatestBySession", ctx, sessionID).Return(nil, repository.ErrPaymentNotFound)
    inv.On("SessionSeatPrices", ctx, sessionID, mock.AnythingOfType("time.Time")).
        Return(uint64(7), map[uint64]uint32{3: 30000, 5: 45000}, nil)
    payments.On("Create", ctx, mock.AnythingOfType("*model.Payment")).Return(nil)

    p, err := svc.Initiate(ctx, 42, sessionID, model.PaymentMethodCard, "")

    assert.NoError(t, err)
    if assert.NotNil(t, p) {
        assert.True(t, strings.HasPrefix(p.Reference, "TXN_"))
        assert.Equal(t, model.PaymentStatusPending, p.Status)
        assert.Equal(t, uint32(75000), p.BaseAmountCents)
        // 2.5% of 75000 = 1875, below the 2000 floor
        assert.Equal(t, uint32(2000), p.ConvenienceFeeCents)
        // 18% of 77000
        assert.Equal(t, uint32(13860), p.TaxCents)
        assert.Equal(t, uint32(90860), p.TotalAmountCents)
    }
    payments.AssertExpectations(t)
}

func TestInitiate_IdempotentPerSession(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    svc := service.NewPaymentService(payments, inv, nil, payment.NewMockGateway(), testPricing())

    ctx := context.Background()
    open := &model.Payment{Reference: "TXN_abc", SessionID: "sess-1", UserID: 42, Status: model.PaymentStatusPending}

    inv.On("SessionHolds", ctx, "sess-1", mock.AnythingOfType("time.Time")).Return(activeHolds("sess-1", 42), nil)
    payments.On("LatestBySession", ctx, "sess-1").Return(open, nil)

    p, err := svc.Initiate(ctx, 42, "sess-1", model.PaymentMethodCard, "")

    assert.NoError(t, err)
    assert.Equal(t, open, p)
    payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInitiate_ExpiredSession(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    svc := service.NewPaymentService(payments, inv, nil, payment.NewMockGateway(), testPricing())

    ctx := context.Background()
    inv.On("SessionHolds", ctx, "sess-1", mock.AnythingOfType("time.Time")).Return([]model.SeatHold{}, nil)

    _, err := svc.Initiate(ctx, 42, "sess-1", model.PaymentMethodCard, "")

    assert.ErrorIs(t, err, repository.ErrHoldExpired)
}

func TestInitiate_ForeignSession(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    svc := service.NewPaymentService(payments, inv, nil, payment.NewMockGateway(), testPricing())

    ctx := context.Background()
    inv.On("SessionHolds", ctx, "sess-1", mock.AnythingOfType("time.Time")).Return(activeHolds("sess-1", 1), nil)

    _, err := svc.Initiate(ctx, 42, "sess-1", model.PaymentMethodCard, "")

    assert.ErrorIs(t, err, repository.ErrNotHolder)
}

func TestInitiate_UnknownPromoRejected(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    svc := service.NewPaymentService(payments, inv, nil, payment.NewMockGateway(), testPricing())

    ctx := context.Background()
    inv.On("SessionHolds", ctx, "sess-1", mock.AnythingOfType("time.Time")).Return(activeHolds("sess-1", 42), nil)
    payments.On("LatestBySession", ctx, "sess-1").Return(nil, repository.ErrPaymentNotFound)
    inv.On("SessionSeatPrices", ctx, "sess-1", mock.AnythingOfType("time.Time")).
        Return(uint64(7), map[uint64]uint32{3: 30000}, nil)

    _, err := svc.Initiate(ctx, 42, "sess-1", model.PaymentMethodCard, "BOGUS")

    assert.ErrorIs(t, err, service.ErrUnknownPromo)
}

func TestProcess_ApprovedCharge(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    gw := new(MockGateway)
    svc := service.NewPaymentService(payments, inv, nil, gw, testPricing())

    ctx := context.Background()
    pending := &model.Payment{Reference: "TXN_abc", SessionID: "sess-1", UserID: 42, Status: model.PaymentStatusPending, Method: model.PaymentMethodCard, TotalAmountCents: 90860}
    succeeded := &model.Payment{Reference: "TXN_abc", SessionID: "sess-1", UserID: 42, Status: model.PaymentStatusSuccess}

    payments.On("GetByReference", ctx, "TXN_abc").Return(pending, nil).Once()
    payments.On("MarkProcessing", ctx, "TXN_abc").Return(nil)
    gw.On("Charge", ctx, mock.AnythingOfType("payment.ChargeRequest")).
        Return(payment.ChargeResult{Approved: true, GatewayRef: "GW_1"}, nil)
    payments.On("MarkSuccess", ctx, "TXN_abc", "GW_1", mock.AnythingOfType("time.Time")).Return(nil)
    payments.On("GetByReference", ctx, "TXN_abc").Return(succeeded, nil).Once()

    p, err := svc.Process(ctx, 42, "TXN_abc", "4111111111111111")

    assert.NoError(t, err)
    assert.Equal(t, model.PaymentStatusSuccess, p.Status)
    payments.AssertExpectations(t)
    gw.AssertExpectations(t)
}

func TestProcess_DeclineReleasesHolds(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    claims := new(MockClaims)
    gw := new(MockGateway)
    svc := service.NewPaymentService(payments, inv, claims, gw, testPricing())

    ctx := context.Background()
    pending := &model.Payment{Reference: "TXN_abc", SessionID: "sess-1", UserID: 42, Status: model.PaymentStatusPending, Method: model.PaymentMethodCard}
    failed := &model.Payment{Reference: "TXN_abc", SessionID: "sess-1", UserID: 42, Status: model.PaymentStatusFailed}

    payments.On("GetByReference", ctx, "TXN_abc").Return(pending, nil).Once()
    payments.On("MarkProcessing", ctx, "TXN_abc").Return(nil)
    gw.On("Charge", ctx, mock.AnythingOfType("payment.ChargeRequest")).
        Return(payment.ChargeResult{Approved: false, Reason: "card declined by issuer"}, nil)
    payments.On("MarkFailed", ctx, "TXN_abc", "card declined by issuer").Return(nil)
    inv.On("ReleaseSession", ctx, "sess-1").Return(uint64(7), []uint64{3, 5}, nil)
    claims.On("ReleaseAll", ctx, uint64(7), []uint64{3, 5}, "sess-1").Return(nil)
    payments.On("GetByReference", ctx, "TXN_abc").Return(failed, nil).Once()

    p, err := svc.Process(ctx, 42, "TXN_abc", "4111111111111110")

    assert.ErrorIs(t, err, repository.ErrPaymentRejected)
    assert.Equal(t, model.PaymentStatusFailed, p.Status)
    inv.AssertExpectations(t)
    claims.AssertExpectations(t)
}

func TestProcess_AlreadySucceededIsIdempotent(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    gw := new(MockGateway)
    svc := service.NewPaymentService(payments, inv, nil, gw, testPricing())

    ctx := context.Background()
    succeeded := &model.Payment{Reference: "TXN_abc", UserID: 42, Status: model.PaymentStatusSuccess}
    payments.On("GetByReference", ctx, "TXN_abc").Return(succeeded, nil)

    p, err := svc.Process(ctx, 42, "TXN_abc", "4111111111111111")

    assert.NoError(t, err)
    assert.Equal(t, succeeded, p)
    gw.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
}

func TestProcess_ForeignPaymentForbidden(t *testing.T) {
    inv := new(MockInventory)
    payments := new(MockPayments)
    svc := service.NewPaymentService(payments, inv, nil, payment.NewMockGateway(), testPricing())

    ctx := context.Background()
    pending := &model.Payment{Reference: "TXN_abc", UserID: 1, Status: model.PaymentStatusPending}
    payments.On("GetByReference", ctx, "TXN_abc").Return(pending, nil)

    _, err := svc.Process(ctx, 42, "TXN_abc", "4111111111111111")

    assert.ErrorIs(t, err, repository.ErrForbidden)
}

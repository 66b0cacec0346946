package service_test

import (
    "context"
    "time"

    "github.com/stretchr/testify/mock"

    "github.com/bookmyseat/seat-reservation/internal/model"
    "github.com/bookmyseat/seat-reservation/internal/payment"
    "github.com/bookmyseat/seat-reservation/internal/queue"
)

// Mock implementations

type MockInventory struct {
    mock.Mock
}

func (m *MockInventory) HoldSeats(ctx context.Context, userID, showID uint64, seatIDs []uint64, sessionID string, expiresAt time.Time) ([]uint64, error) {
    args := m.Called(ctx, userID, showID, seatIDs, sessionID, expiresAt)
    if args.Get(0) == nil {
        return nil, args.Error(1)
    }
    return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockInventory) ReleaseSession(ctx context.Context, sessionID string) (uint64, []uint64, error) {
    args := m.Called(ctx, sessionID)
    var seats []uint64
    if args.Get(1) != nil {
        seats = args.Get(1).([]uint64)
    }
    return args.Get(0).(uint64), seats, args.Error(2)
}

func (m *MockInventory) RenewSession(ctx context.Context, sessionID string, newExpiry, now time.Time) error {
    args := m.Called(ctx, sessionID, newExpiry, now)
    return args.Error(0)
}

func (m *MockInventory) SessionHolds(ctx context.Context, sessionID string, now time.Time) ([]model.SeatHold, error) {
    args := m.Called(ctx, sessionID, now)
    if args.Get(0) == nil {
        return nil, args.Error(1)
    }
    return args.Get(0).([]model.SeatHold), args.Error(1)
}

func (m *MockInventory) SessionSeatPrices(ctx context.Context, sessionID string, now time.Time) (uint64, map[uint64]uint32, error) {
    args := m.Called(ctx, sessionID, now)
    var prices map[uint64]uint32
    if args.Get(1) != nil {
        prices = args.Get(1).(map[uint64]uint32)
    }
    return args.Get(0).(uint64), prices, args.Error(2)
}

func (m *MockInventory) BookSession(ctx context.Context, sessionID string, userID uint64, now time.Time, b *model.Booking) ([]uint64, error) {
    args := m.Called(ctx, sessionID, userID, now, b)
    if args.Get(0) == nil {
        return nil, args.Error(1)
    }
    return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockInventory) BookingBySession(ctx context.Context, sessionID string) (*model.Booking, error) {
    args := m.Called(ctx, sessionID)
    if args.Get(0) == nil {
        return nil, args.Error(1)
    }
    return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockInventory) ExpireHolds(ctx context.Context, now time.Time) ([]model.SeatHold, error) {
    args := m.Called(ctx, now)
    if args.Get(0) == nil {
        return nil, args.Error(1)
    }
    return args.Get(0).([]model.SeatHold), args.Error(1)
}

type MockShows struct {
    mock.Mock
}

func (m *MockShows) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
    args := m.Called(ctx, id)
    if args.Get(0) == nil {
        return nil, args.Error(1)
    }
    return args.Get(0).(*model.Show), args.Error(1)
}

// scheduledShow satisfies the on-sale check for tests that only care
// about what happens after it.
func scheduledShow(m *MockShows, id uint64) {
    m.On("GetByID", mock.Anything, id).Return(&model.Show{ID: id, Status: model.ShowStatusScheduled}, nil)
}

type MockClaims struct {
    mock.Mock
}

func (m *MockClaims) AcquireAll(ctx context.Context, showID uint64, seatIDs []uint64, sessionID string) ([]uint64, error) {
    args := m.Called(ctx, showID, seatIDs, sessionID)
    if args.Get(0) == nil {
        return nil, args.Error(1)
    }
    return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockClaims) ExtendAll(ctx context.Context, showID uint64, seatIDs []uint64, sessionID string) error {
    args := m.Called(ctx, showID, seatIDs, sessionID)
    return args.Error(0)
}

func (m *MockClaims) ReleaseAll(ctx context.Context, showID uint64, seatIDs []uint64, sessionID string) error {
    args := m.Called(ctx, showID, seatIDs, sessionID)
    return args.Error(0)
}

type MockPayments struct {
    mock.Mock
}

func (m *MockPayments) Create(ctx context.Context, p *model.Payment) error {
    args := m.Called(ctx, p)
    return args.Error(0)
}

func (m *MockPayments) GetByReference(ctx context.Context, reference string) (*model.Payment, error) {
    args := m.Called(ctx, reference)
    if args.Get(0) == nil {
        return nil, args.Error(1)
    }
    return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPayments) LatestBySession(ctx context.Context, sessionID string) (*model.Payment, error) {
    args := m.Called(ctx, sessionID)
    if args.Get(0) == nil {
        return nil, args.Error(1)
    }
    return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPayments) MarkProcessing(ctx context.Context, reference string) error {
    args := m.Called(ctx, reference)
    return args.Error(0)
}

func (m *MockPayments) MarkSuccess(ctx context.Context, reference, gatewayRef string, completedAt time.Time) error {
    args := m.Called(ctx, reference, gatewayRef, completedAt)
    return args.Error(0)
}

func (m *MockPayments) MarkFailed(ctx context.Context, reference, reason string) error {
    args := m.Called(ctx, reference, reason)
    return args.Error(0)
}

func (m *MockPayments) MarkRefunded(ctx context.Context, reference string) error {
    args := m.Called(ctx, reference)
    return args.Error(0)
}

type MockGateway struct {
    mock.Mock
}

func (m *MockGateway) Charge(ctx context.Context, req payment.ChargeRequest) (payment.ChargeResult, error) {
    args := m.Called(ctx, req)
    return args.Get(0).(payment.ChargeResult), args.Error(1)
}

func (m *MockGateway) Refund(ctx context.Context, gatewayRef string, amountCents uint32) error {
    args := m.Called(ctx, gatewayRef, amountCents)
    return args.Error(0)
}

type capturedEvents struct {
    events []queue.BookingConfirmedEvent
}

func (c *capturedEvents) publish(_ context.Context, ev queue.BookingConfirmedEvent) error {
    c.events = append(c.events, ev)
    return nil
}

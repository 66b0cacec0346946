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

func TestAcquire_Success(t *testing.T) {
    inv := new(MockInventory)
    shows := new(MockShows)
    claims := new(MockClaims)
    svc := service.NewHoldService(inv, shows, claims, 10*time.Minute, 10)

    ctx := context.Background()
    seatIDs := []uint64{3, 5, 9}

    scheduledShow(shows, 7)
    claims.On("AcquireAll", ctx, uint64(7), seatIDs, mock.AnythingOfType("string")).Return(nil, nil)
    inv.On("HoldSeats", ctx, uint64(42), uint64(7), seatIDs, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil, nil)

    res, conflicting, err := svc.Acquire(ctx, 42, 7, seatIDs)

    assert.NoError(t, err)
    assert.Empty(t, conflicting)
    if assert.NotNil(t, res) {
        assert.NotEmpty(t, res.SessionID)
        assert.Equal(t, uint64(7), res.ShowID)
        assert.Equal(t, seatIDs, res.SeatIDs)
        assert.WithinDuration(t, time.Now().Add(10*time.Minute), res.ExpiresAt, 5*time.Second)
    }
    inv.AssertExpectations(t)
    claims.AssertExpectations(t)
}

func TestAcquire_ClaimConflictSkipsDatabase(t *testing.T) {
    inv := new(MockInventory)
    shows := new(MockShows)
    claims := new(MockClaims)
    svc := service.NewHoldService(inv, shows, claims, 10*time.Minute, 10)

    ctx := context.Background()
    seatIDs := []uint64{3, 5}

    scheduledShow(shows, 7)
    claims.On("AcquireAll", ctx, uint64(7), seatIDs, mock.AnythingOfType("string")).Return([]uint64{5}, nil)

    res, conflicting, err := svc.Acquire(ctx, 42, 7, seatIDs)

    assert.ErrorIs(t, err, repository.ErrSeatConflict)
    assert.Nil(t, res)
    assert.Equal(t, []uint64{5}, conflicting)
    inv.AssertNotCalled(t, "HoldSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAcquire_DatabaseConflictRollsBackClaims(t *testing.T) {
    inv := new(MockInventory)
    shows := new(MockShows)
    claims := new(MockClaims)
    svc := service.NewHoldService(inv, shows, claims, 10*time.Minute, 10)

    ctx := context.Background()
    seatIDs := []uint64{3, 5}

    scheduledShow(shows, 7)
    claims.On("AcquireAll", ctx, uint64(7), seatIDs, mock.AnythingOfType("string")).Return(nil, nil)
    inv.On("HoldSeats", ctx, uint64(42), uint64(7), seatIDs, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
        Return([]uint64{3}, repository.ErrSeatConflict)
    claims.On("ReleaseAll", ctx, uint64(7), seatIDs, mock.AnythingOfType("string")).Return(nil)

    res, conflicting, err := svc.Acquire(ctx, 42, 7, seatIDs)

    assert.ErrorIs(t, err, repository.ErrSeatConflict)
    assert.Nil(t, res)
    assert.Equal(t, []uint64{3}, conflicting)
    claims.AssertExpectations(t)
}

func TestAcquire_UnknownShow(t *testing.T) {
    inv := new(MockInventory)
    shows := new(MockShows)
    svc := service.NewHoldService(inv, shows, nil, 10*time.Minute, 10)

    ctx := context.Background()
    shows.On("GetByID", ctx, uint64(7)).Return(nil, repository.ErrShowNotFound)

    res, conflicting, err := svc.Acquire(ctx, 42, 7, []uint64{3})

    assert.ErrorIs(t, err, repository.ErrShowNotFound)
    assert.Nil(t, res)
    assert.Empty(t, conflicting)
    inv.AssertNotCalled(t, "HoldSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAcquire_CancelledShowIsOffSale(t *testing.T) {
    inv := new(MockInventory)
    shows := new(MockShows)
    svc := service.NewHoldService(inv, shows, nil, 10*time.Minute, 10)

    ctx := context.Background()
    shows.On("GetByID", ctx, uint64(7)).Return(&model.Show{ID: 7, Status: model.ShowStatusCancelled}, nil)

    res, _, err := svc.Acquire(ctx, 42, 7, []uint64{3})

    assert.ErrorIs(t, err, repository.ErrShowNotFound)
    assert.Nil(t, res)
    inv.AssertNotCalled(t, "HoldSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAcquire_RejectsOversizedBatch(t *testing.T) {
    inv := new(MockInventory)
    shows := new(MockShows)
    svc := service.NewHoldService(inv, shows, nil, 10*time.Minute, 2)

    res, conflicting, err := svc.Acquire(context.Background(), 42, 7, []uint64{1, 2, 3})

    assert.ErrorIs(t, err, repository.ErrTooManySeats)
    assert.Nil(t, res)
    assert.Empty(t, conflicting)
}

func TestAcquire_RejectsDuplicateSeats(t *testing.T) {
    inv := new(MockInventory)
    shows := new(MockShows)
    svc := service.NewHoldService(inv, shows, nil, 10*time.Minute, 10)

    res, _, err := svc.Acquire(context.Background(), 42, 7, []uint64{4, 4})

    assert.Error(t, err)
    assert.Nil(t, res)
}

func TestRenew_ExtendsDeadline(t *testing.T) {
    inv := new(MockInventory)
    shows := new(MockShows)
    svc := service.NewHoldService(inv, shows, nil, 10*time.Minute, 10)

    ctx := context.Background()
    sessionID := "sess-1"

    inv.On("RenewSession", ctx, sessionID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(nil)

    expiry, err := svc.Renew(ctx, sessionID)

    assert.NoError(t, err)
    assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiry, 5*time.Second)
    inv.AssertExpectations(t)
}

func TestRenew_ExpiredSession(t *testing.T) {
    inv := new(MockInventory)
    shows := new(MockShows)
    svc := service.NewHoldService(inv, shows, nil, 10*time.Minute, 10)

    ctx := context.Background()
    inv.On("RenewSession", ctx, "sess-1", mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
        Return(repository.ErrHoldExpired)

    _, err := svc.Renew(ctx, "sess-1")

    assert.ErrorIs(t, err, repository.ErrHoldExpired)
}

func TestRelease_FreesSeatsAndClaims(t *testing.T) {
    inv := new(MockInventory)
    shows := new(MockShows)
    claims := new(MockClaims)
    svc := service.NewHoldService(inv, shows, claims, 10*time.Minute, 10)

    ctx := context.Background()
    inv.On("ReleaseSession", ctx, "sess-1").Return(uint64(7), []uint64{3, 5}, nil)
    claims.On("ReleaseAll", ctx, uint64(7), []uint64{3, 5}, "sess-1").Return(nil)

    released, err := svc.Release(ctx, "sess-1")

    assert.NoError(t, err)
    assert.Equal(t, 2, released)
    inv.AssertExpectations(t)
    claims.AssertExpectations(t)
}

func TestRelease_AlreadySweptIsNoop(t *testing.T) {
    inv := new(MockInventory)
    shows := new(MockShows)
    svc := service.NewHoldService(inv, shows, nil, 10*time.Minute, 10)

    ctx := context.Background()
    inv.On("ReleaseSession", ctx, "sess-1").Return(uint64(0), nil, nil)

    released, err := svc.Release(ctx, "sess-1")

    assert.NoError(t, err)
    assert.Zero(t, released)
}

func TestRemaining_ReportsSeconds(t *testing.T) {
    inv := new(MockInventory)
    shows := new(MockShows)
    svc := service.NewHoldService(inv, shows, nil, 10*time.Minute, 10)

    ctx := context.Background()
    holds := []model.SeatHold{{
        SessionID: "sess-1",
        UserID:    42,
        ShowID:    7,
        SeatID:    3,
        ExpiresAt: time.Now().UTC().Add(5 * time.Minute),
    }}
    inv.On("SessionHolds", ctx, "sess-1", mock.AnythingOfType("time.Time")).Return(holds, nil)

    secs, err := svc.Remaining(ctx, "sess-1")

    assert.NoError(t, err)
    assert.InDelta(t, 300, secs, 5)
}

func TestRemaining_ExpiredSession(t *testing.T) {
    inv := new(MockInventory)
    shows := new(MockShows)
    svc := service.NewHoldService(inv, shows, nil, 10*time.Minute, 10)

    ctx := context.Background()
    inv.On("SessionHolds", ctx, "sess-1", mock.AnythingOfType("time.Time")).Return([]model.SeatHold{}, nil)

    _, err := svc.Remaining(ctx, "sess-1")

    assert.ErrorIs(t, err, repository.ErrHoldExpired)
}

package service

import (
    "context"
    "time"

    "github.com/bookmyseat/seat-reservation/internal/model"
)

// InventoryStore is the slice of the seat inventory the reservation
// flow depends on.  repository.Inventory is the production
// implementation; tests substitute their own.
type InventoryStore interface {
    HoldSeats(ctx context.Context, userID, showID uint64, seatIDs []uint64, sessionID string, expiresAt time.Time) ([]uint64, error)
    ReleaseSession(ctx context.Context, sessionID string) (uint64, []uint64, error)
    RenewSession(ctx context.Context, sessionID string, newExpiry, now time.Time) error
    SessionHolds(ctx context.Context, sessionID string, now time.Time) ([]model.SeatHold, error)
    SessionSeatPrices(ctx context.Context, sessionID string, now time.Time) (uint64, map[uint64]uint32, error)
    BookSession(ctx context.Context, sessionID string, userID uint64, now time.Time, b *model.Booking) ([]uint64, error)
    BookingBySession(ctx context.Context, sessionID string) (*model.Booking, error)
    ExpireHolds(ctx context.Context, now time.Time) ([]model.SeatHold, error)
}

// ShowCatalog is the slice of the show catalog the hold flow consults
// before taking seats.  repository.ShowRepo is the production
// implementation.
type ShowCatalog interface {
    GetByID(ctx context.Context, id uint64) (*model.Show, error)
}

// SeatClaimer is the Redis fast path in front of the inventory.  A nil
// claimer is allowed everywhere: the database conditional updates stay
// correct on their own, just slower under contention.
type SeatClaimer interface {
    AcquireAll(ctx context.Context, showID uint64, seatIDs []uint64, sessionID string) ([]uint64, error)
    ExtendAll(ctx context.Context, showID uint64, seatIDs []uint64, sessionID string) error
    ReleaseAll(ctx context.Context, showID uint64, seatIDs []uint64, sessionID string) error
}

// PaymentStore is the payment persistence the payment and confirm
// flows depend on.
type PaymentStore interface {
    Create(ctx context.Context, p *model.Payment) error
    GetByReference(ctx context.Context, reference string) (*model.Payment, error)
    LatestBySession(ctx context.Context, sessionID string) (*model.Payment, error)
    MarkProcessing(ctx context.Context, reference string) error
    MarkSuccess(ctx context.Context, reference, gatewayRef string, completedAt time.Time) error
    MarkFailed(ctx context.Context, reference, reason string) error
    MarkRefunded(ctx context.Context, reference string) error
}

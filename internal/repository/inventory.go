package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/bookmyseat/seat-reservation/internal/model"
)

// Inventory is the authoritative store of per-show seat state.  Every
// state transition runs inside a single transaction against the
// show_seats status column, guarded with conditional updates, so two
// sessions racing for the same seat can never both win even when the
// Redis claim layer is unavailable.
type Inventory struct {
    db        *sql.DB
    showSeats *ShowSeatRepo
    holds     *SeatHoldRepo
    bookings  *BookingRepo
}

// NewInventory constructs the Inventory over one shared DB handle.
func NewInventory(db *sql.DB) *Inventory {
    return &Inventory{
        db:        db,
        showSeats: NewShowSeatRepo(db),
        holds:     NewSeatHoldRepo(db),
        bookings:  NewBookingRepo(db),
    }
}

// SeatStates returns the current status of every seat of a show.
func (inv *Inventory) SeatStates(ctx context.Context, showID uint64) (map[uint64]string, error) {
    return inv.showSeats.StatesByShow(ctx, showID)
}

// HoldSeats moves the requested seats from FREE to HELD as one unit and
// records a hold row per seat under the session.  Nothing is kept when
// any seat cannot be taken: the transaction rolls back and the IDs that
// blocked the batch come back with ErrSeatConflict so the handler can
// name them.
func (inv *Inventory) HoldSeats(ctx context.Context, userID, showID uint64, seatIDs []uint64, sessionID string, expiresAt time.Time) ([]uint64, error) {
    tx, err := inv.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    missing, err := inv.showSeats.MissingTx(ctx, tx, showID, seatIDs)
    if err != nil {
        return nil, err
    }
    if len(missing) > 0 {
        return missing, ErrSeatConflict
    }

    n, err := inv.showSeats.TransitionTx(ctx, tx, showID, seatIDs, model.SeatStateFree, model.SeatStateHeld)
    if err != nil {
        return nil, err
    }
    if n != int64(len(seatIDs)) {
        conflicting, err := inv.showSeats.UnavailableTx(ctx, tx, showID, seatIDs)
        if err != nil {
            return nil, err
        }
        return conflicting, ErrSeatConflict
    }

    holds := make([]model.SeatHold, 0, len(seatIDs))
    for _, sid := range seatIDs {
        holds = append(holds, model.SeatHold{
            SessionID: sessionID,
            UserID:    userID,
            ShowID:    showID,
            SeatID:    sid,
            ExpiresAt: expiresAt.UTC(),
        })
    }
    if err := inv.holds.CreateBatchTx(ctx, tx, holds); err != nil {
        return nil, err
    }

    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return nil, nil
}

// ReleaseSession removes every hold of a session and frees its seats.
// It returns the show and seat IDs that were freed so the caller can
// drop the matching Redis claims.  Releasing a session with no live
// holds is a no-op, not an error: the sweeper may already have gotten
// there first.
func (inv *Inventory) ReleaseSession(ctx context.Context, sessionID string) (uint64, []uint64, error) {
    tx, err := inv.db.BeginTx(ctx, nil)
    if err != nil {
        return 0, nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    showID, seatIDs, err := inv.holds.DeleteBySessionTx(ctx, tx, sessionID)
    if err != nil {
        return 0, nil, err
    }
    if len(seatIDs) > 0 {
        if _, err := inv.showSeats.TransitionTx(ctx, tx, showID, seatIDs, model.SeatStateHeld, model.SeatStateFree); err != nil {
            return 0, nil, err
        }
    }

    if err := tx.Commit(); err != nil {
        return 0, nil, err
    }
    committed = true
    return showID, seatIDs, nil
}

// RenewSession pushes the expiry of every still-active hold of a
// session out to newExpiry.  ErrHoldExpired is returned when nothing
// was live to extend.
func (inv *Inventory) RenewSession(ctx context.Context, sessionID string, newExpiry, now time.Time) error {
    tx, err := inv.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    n, err := inv.holds.ExtendSessionTx(ctx, tx, sessionID, newExpiry, now)
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrHoldExpired
    }

    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// SessionHolds returns the active holds of a session without locking
// them.  Used for the remaining-time endpoint and payment initiation.
func (inv *Inventory) SessionHolds(ctx context.Context, sessionID string, now time.Time) ([]model.SeatHold, error) {
    return inv.holds.ActiveBySession(ctx, sessionID, now)
}

// SessionSeatPrices returns the show and the per-seat prices of a
// session's active holds.  ErrHoldExpired is returned when the session
// has no live holds left.
func (inv *Inventory) SessionSeatPrices(ctx context.Context, sessionID string, now time.Time) (uint64, map[uint64]uint32, error) {
    holds, err := inv.holds.ActiveBySession(ctx, sessionID, now)
    if err != nil {
        return 0, nil, err
    }
    if len(holds) == 0 {
        return 0, nil, ErrHoldExpired
    }
    showID := holds[0].ShowID
    seatIDs := make([]uint64, 0, len(holds))
    for _, h := range holds {
        seatIDs = append(seatIDs, h.SeatID)
    }

    tx, err := inv.db.BeginTx(ctx, nil)
    if err != nil {
        return 0, nil, err
    }
    defer func() { _ = tx.Rollback() }()
    prices, err := inv.showSeats.PricesBySeatIDsTx(ctx, tx, showID, seatIDs)
    if err != nil {
        return 0, nil, err
    }
    return showID, prices, nil
}

// BookSession converts the active holds of a session into a confirmed
// booking.  The caller fills the booking's amounts and payment
// reference; BookSession sets the IDs and persists the seat rows with
// the prices that were current at hold time.
//
// Error contract: ErrHoldExpired when no live holds remain,
// ErrNotHolder when the session belongs to a different user, and
// ErrConflict when another confirm of the same session won the race
// (the caller should re-read the existing booking).  The booked seat
// IDs are returned so the caller can drop the Redis claims.
func (inv *Inventory) BookSession(ctx context.Context, sessionID string, userID uint64, now time.Time, b *model.Booking) ([]uint64, error) {
    tx, err := inv.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    holds, err := inv.holds.ActiveBySessionTx(ctx, tx, sessionID, now)
    if err != nil {
        return nil, err
    }
    if len(holds) == 0 {
        return nil, ErrHoldExpired
    }
    if holds[0].UserID != userID {
        return nil, ErrNotHolder
    }

    showID := holds[0].ShowID
    seatIDs := make([]uint64, 0, len(holds))
    for _, h := range holds {
        seatIDs = append(seatIDs, h.SeatID)
    }

    n, err := inv.showSeats.TransitionTx(ctx, tx, showID, seatIDs, model.SeatStateHeld, model.SeatStateReserved)
    if err != nil {
        return nil, err
    }
    if n != int64(len(seatIDs)) {
        return nil, ErrSeatConflict
    }

    prices, err := inv.showSeats.PricesBySeatIDsTx(ctx, tx, showID, seatIDs)
    if err != nil {
        return nil, err
    }

    if _, _, err := inv.holds.DeleteBySessionTx(ctx, tx, sessionID); err != nil {
        return nil, err
    }

    b.SessionID = sessionID
    b.UserID = userID
    b.ShowID = showID
    b.Status = model.BookingStatusConfirmed
    if err := inv.bookings.CreateTx(ctx, tx, b); err != nil {
        return nil, err
    }

    seats := make([]model.BookingSeat, 0, len(seatIDs))
    for _, sid := range seatIDs {
        seats = append(seats, model.BookingSeat{
            BookingID:  b.ID,
            ShowID:     showID,
            SeatID:     sid,
            PriceCents: prices[sid],
        })
    }
    if err := inv.bookings.CreateSeatsBulkTx(ctx, tx, seats); err != nil {
        return nil, err
    }

    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return seatIDs, nil
}

// BookingBySession returns the booking created from a session, if the
// session was ever confirmed.
func (inv *Inventory) BookingBySession(ctx context.Context, sessionID string) (*model.Booking, error) {
    b, err := inv.bookings.GetBySession(ctx, sessionID)
    if err == sql.ErrNoRows {
        return nil, ErrBookingNotFound
    }
    return b, err
}

// ExpireHolds reclaims every hold whose expiry has passed: the seats go
// back to FREE and the hold rows are deleted, all in one transaction.
// The reclaimed holds are returned so the sweeper can clear the
// matching Redis claims and log what it swept.
func (inv *Inventory) ExpireHolds(ctx context.Context, now time.Time) ([]model.SeatHold, error) {
    tx, err := inv.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    expired, err := inv.holds.ExpiredTx(ctx, tx, now)
    if err != nil {
        return nil, err
    }
    if len(expired) == 0 {
        if err := tx.Commit(); err != nil {
            return nil, err
        }
        committed = true
        return nil, nil
    }

    byShow := make(map[uint64][]uint64)
    for _, h := range expired {
        byShow[h.ShowID] = append(byShow[h.ShowID], h.SeatID)
    }
    for showID, seatIDs := range byShow {
        if _, err := inv.showSeats.TransitionTx(ctx, tx, showID, seatIDs, model.SeatStateHeld, model.SeatStateFree); err != nil {
            return nil, err
        }
    }

    if err := inv.holds.DeleteExpiredTx(ctx, tx, now); err != nil {
        return nil, err
    }

    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return expired, nil
}

// CancelBooking flips a confirmed booking to CANCELLED and frees its
// seats so they can be sold again.  The freed seat IDs are returned.
func (inv *Inventory) CancelBooking(ctx context.Context, booking *model.Booking) ([]uint64, error) {
    seatIDs, err := inv.bookings.SeatIDs(ctx, booking.ID)
    if err != nil {
        return nil, err
    }

    tx, err := inv.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := inv.bookings.CancelTx(ctx, tx, booking.ID); err != nil {
        return nil, err
    }
    if len(seatIDs) > 0 {
        if _, err := inv.showSeats.TransitionTx(ctx, tx, booking.ShowID, seatIDs, model.SeatStateReserved, model.SeatStateFree); err != nil {
            return nil, err
        }
    }

    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return seatIDs, nil
}

package model

import "time"

// SeatHold represents a time-boxed exclusive claim on one seat of a
// show prior to payment.  All holds created by one seat-selection
// attempt share a session ID; release, renewal and confirmation
// operate on the whole session.  A seat has at most one active hold
// at any instant, enforced by a unique key on (show_id, seat_id).
//
// Fields:
//  ID        – primary key identifier.
//  SessionID – client-visible identifier grouping the hold batch.
//  UserID    – user who holds the seat.
//  ShowID    – show for which the seat is held.
//  SeatID    – seat being held.
//  ExpiresAt – when the hold lapses absent renewal or confirmation.
//  CreatedAt – when the hold was created.
type SeatHold struct {
    ID        uint64    // seat_holds.id
    SessionID string    // seat_holds.session_id
    UserID    uint64    // seat_holds.user_id
    ShowID    uint64    // seat_holds.show_id
    SeatID    uint64    // seat_holds.seat_id
    ExpiresAt time.Time // seat_holds.expires_at
    CreatedAt time.Time // seat_holds.created_at
}

// Active reports whether the hold is still valid at the given instant.
func (h SeatHold) Active(now time.Time) bool {
    return now.Before(h.ExpiresAt)
}

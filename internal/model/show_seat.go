package model

import "time"

// Seat availability states.  A show seat moves FREE→HELD when a
// session acquires it, HELD→RESERVED when the holding session is
// booked, and HELD→FREE on release or expiry.  No other transition
// is valid.
const (
    SeatStateFree     = "FREE"
    SeatStateHeld     = "HELD"
    SeatStateReserved = "RESERVED"
)

// ShowSeat links a seat to a particular show and tracks its
// availability and price.  One show_seat record exists for every
// active seat of the screen at the time the show is scheduled.
// Status is the only mutable part; the price is fixed when the
// row is created.
//
// Fields:
//  ID         – primary key identifier.
//  ShowID     – the show to which this seat belongs.
//  SeatID     – the seat being made available.
//  Status     – availability state (FREE, HELD, RESERVED).
//  PriceCents – price in cents for this seat at this show.
//  CreatedAt  – timestamp when the record was created.
//  UpdatedAt  – timestamp when the record was last updated.
type ShowSeat struct {
    ID         uint64    // show_seats.id
    ShowID     uint64    // show_seats.show_id
    SeatID     uint64    // show_seats.seat_id
    Status     string    // show_seats.status
    PriceCents uint32    // show_seats.price_cents
    CreatedAt  time.Time // show_seats.created_at
    UpdatedAt  time.Time // show_seats.updated_at
}

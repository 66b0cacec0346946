package model

import (
    "strconv"
    "time"
)

// Seat categories.  The category determines the price multiplier
// applied to a show's base price when show seats are generated.
const (
    SeatCategoryStandard = "STANDARD"
    SeatCategoryPremium  = "PREMIUM"
    SeatCategoryRecliner = "RECLINER"
)

// CategoryMultiplierPercent maps a seat category to the percentage
// of the show base price charged for it.  Standard seats cost the
// base price; premium and recliner seats carry a fixed markup.
var CategoryMultiplierPercent = map[string]uint32{
    SeatCategoryStandard: 100,
    SeatCategoryPremium:  150,
    SeatCategoryRecliner: 200,
}

// Seat describes a physical seat in a screen.  Seats are uniquely
// identified by their screen, row label and seat number.  The
// category fixes the pricing tier; it never changes after creation.
//
// Fields:
//  ID         – primary key identifier.
//  ScreenID   – screen to which this seat belongs.
//  RowLabel   – letter designating the row (A, B, ...).
//  SeatNumber – number of the seat within the row.
//  Category   – pricing tier (STANDARD, PREMIUM, RECLINER).
//  IsActive   – whether the seat is sellable.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Seat struct {
    ID         uint64    // seats.id
    ScreenID   uint64    // seats.screen_id
    RowLabel   string    // seats.row_label
    SeatNumber uint32    // seats.seat_number
    Category   string    // seats.category
    IsActive   bool      // seats.is_active
    CreatedAt  time.Time // seats.created_at
    UpdatedAt  time.Time // seats.updated_at
}

// Label returns the human-readable seat identifier, e.g. "A5".
func (s Seat) Label() string {
    return s.RowLabel + strconv.FormatUint(uint64(s.SeatNumber), 10)
}

package model

import "time"

// Screen represents an individual auditorium within a theater.
// Each screen has a unique name per theater and defines its
// seating layout via SeatRows and SeatCols.  Seats are generated
// from this grid when the screen is created.
//
// Fields:
//  ID        – primary key identifier.
//  TheaterID – ID of the containing theater.
//  Name      – unique screen name per theater.
//  SeatRows  – number of seating rows.
//  SeatCols  – number of seats per row.
//  IsActive  – whether the screen is active.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Screen struct {
    ID        uint64    // screens.id
    TheaterID uint64    // screens.theater_id
    Name      string    // screens.name
    SeatRows  uint32    // screens.seat_rows
    SeatCols  uint32    // screens.seat_cols
    IsActive  bool      // screens.is_active
    CreatedAt time.Time // screens.created_at
    UpdatedAt time.Time // screens.updated_at
}

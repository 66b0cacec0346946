package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/bookmyseat/seat-reservation/internal/model"
    "github.com/bookmyseat/seat-reservation/internal/queue"
)

// EventComposer assembles the denormalized booking.confirmed payload
// so queue consumers never have to query the primary database.
type EventComposer struct {
    db *sql.DB
}

// NewEventComposer constructs an EventComposer with the given handle.
func NewEventComposer(db *sql.DB) *EventComposer { return &EventComposer{db: db} }

// ComposeBookingConfirmed joins the booking's show up to its screen and
// theater and collects the seat labels.
func (c *EventComposer) ComposeBookingConfirmed(ctx context.Context, b *model.Booking) (queue.BookingConfirmedEvent, error) {
    ev := queue.BookingConfirmedEvent{
        BookingID:        b.ID,
        SessionID:        b.SessionID,
        UserID:           b.UserID,
        ShowID:           b.ShowID,
        TotalAmountCents: b.TotalAmountCents,
        PaymentRef:       b.PaymentRef,
        ConfirmedAt:      b.CreatedAt.UTC().Format(time.RFC3339),
    }

    const showQ = `SELECT t.id, t.name, sc.id, sc.name, s.movie_title, s.starts_at, s.ends_at
                   FROM shows s
                   JOIN screens sc ON sc.id = s.screen_id
                   JOIN theaters t ON t.id = sc.theater_id
                   WHERE s.id = ?`
    var startsAt, endsAt time.Time
    err := c.db.QueryRowContext(ctx, showQ, b.ShowID).Scan(
        &ev.TheaterID, &ev.TheaterName, &ev.ScreenID, &ev.ScreenName,
        &ev.MovieTitle, &startsAt, &endsAt)
    if err != nil {
        return ev, err
    }
    ev.StartsAt = startsAt.UTC().Format(time.RFC3339)
    ev.EndsAt = endsAt.UTC().Format(time.RFC3339)

    const seatQ = `SELECT st.row_label, st.seat_number
                   FROM booking_seats bs
                   JOIN seats st ON st.id = bs.seat_id
                   WHERE bs.booking_id = ?
                   ORDER BY st.row_label, st.seat_number`
    rows, err := c.db.QueryContext(ctx, seatQ, b.ID)
    if err != nil {
        return ev, err
    }
    defer rows.Close()
    for rows.Next() {
        var s model.Seat
        if err := rows.Scan(&s.RowLabel, &s.SeatNumber); err != nil {
            return ev, err
        }
        ev.SeatLabels = append(ev.SeatLabels, s.Label())
    }
    return ev, rows.Err()
}

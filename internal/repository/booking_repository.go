package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/bookmyseat/seat-reservation/internal/model"
)

// BookingRepo manages persistence for bookings and their seats.  The
// unique key on bookings.session_id is what makes confirmation
// idempotent: a second confirm of the same session finds the existing
// row instead of creating another one.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for cross-repository transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a booking within the provided transaction and
// assigns the generated ID back to the struct.  A duplicate session_id
// yields ErrConflict so the caller can fall back to the existing row.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings
               (session_id, user_id, show_id, status, base_amount_cents, convenience_fee_cents, tax_cents, discount_cents, total_amount_cents, payment_ref)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q,
        b.SessionID, b.UserID, b.ShowID, b.Status,
        b.BaseAmountCents, b.ConvenienceFeeCents, b.TaxCents, b.DiscountCents, b.TotalAmountCents,
        b.PaymentRef)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrConflict
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    return nil
}

// CreateSeatsBulkTx inserts the seat rows of a booking in one statement
// within the provided transaction.
func (r *BookingRepo) CreateSeatsBulkTx(ctx context.Context, tx *sql.Tx, seats []model.BookingSeat) error {
    if len(seats) == 0 {
        return nil
    }
    query := `INSERT INTO booking_seats (booking_id, show_id, seat_id, price_cents) VALUES `
    args := make([]interface{}, 0, len(seats)*4)
    for i, s := range seats {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        args = append(args, s.BookingID, s.ShowID, s.SeatID, s.PriceCents)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

const bookingColumns = `id, session_id, user_id, show_id, status,
    base_amount_cents, convenience_fee_cents, tax_cents, discount_cents, total_amount_cents,
    payment_ref, created_at, updated_at`

func scanBooking(row interface{ Scan(...interface{}) error }, b *model.Booking) error {
    return row.Scan(&b.ID, &b.SessionID, &b.UserID, &b.ShowID, &b.Status,
        &b.BaseAmountCents, &b.ConvenienceFeeCents, &b.TaxCents, &b.DiscountCents, &b.TotalAmountCents,
        &b.PaymentRef, &b.CreatedAt, &b.UpdatedAt)
}

// GetBySession retrieves the booking created from a hold session, if
// any.  Returns sql.ErrNoRows when the session was never confirmed.
func (r *BookingRepo) GetBySession(ctx context.Context, sessionID string) (*model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings WHERE session_id = ? LIMIT 1`
    var b model.Booking
    if err := scanBooking(r.db.QueryRowContext(ctx, q, sessionID), &b); err != nil {
        return nil, err
    }
    return &b, nil
}

// GetBySessionTx is GetBySession within an existing transaction.
func (r *BookingRepo) GetBySessionTx(ctx context.Context, tx *sql.Tx, sessionID string) (*model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings WHERE session_id = ? LIMIT 1`
    var b model.Booking
    if err := scanBooking(tx.QueryRowContext(ctx, q, sessionID), &b); err != nil {
        return nil, err
    }
    return &b, nil
}

// GetByIDForUser retrieves one booking and enforces ownership.  It
// returns ErrBookingNotFound when the row does not exist and
// ErrForbidden when it belongs to a different user.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? LIMIT 1`
    var b model.Booking
    err := scanBooking(r.db.QueryRowContext(ctx, q, id), &b)
    if err == sql.ErrNoRows {
        return nil, ErrBookingNotFound
    }
    if err != nil {
        return nil, err
    }
    if b.UserID != userID {
        return nil, ErrForbidden
    }
    return &b, nil
}

// ListByUser returns all bookings of a user, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = ? ORDER BY created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Booking
    for rows.Next() {
        var b model.Booking
        if err := scanBooking(rows, &b); err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

// SeatIDs returns the seat IDs contained in a booking.
func (r *BookingRepo) SeatIDs(ctx context.Context, bookingID uint64) ([]uint64, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT seat_id FROM booking_seats WHERE booking_id = ?`, bookingID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []uint64
    for rows.Next() {
        var sid uint64
        if err := rows.Scan(&sid); err != nil {
            return nil, err
        }
        out = append(out, sid)
    }
    return out, rows.Err()
}

// CancelTx flips a CONFIRMED booking to CANCELLED within the provided
// transaction.  It returns ErrConflict when the booking was already
// cancelled.
func (r *BookingRepo) CancelTx(ctx context.Context, tx *sql.Tx, bookingID uint64) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE bookings SET status = 'CANCELLED' WHERE id = ? AND status = 'CONFIRMED'`, bookingID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrConflict
    }
    return nil
}

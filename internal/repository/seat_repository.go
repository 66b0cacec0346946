package repository

import (
    "context"
    "database/sql"

    "github.com/bookmyseat/seat-reservation/internal/model"
)

// SeatRepo manages persistence for physical seats.
type SeatRepo struct {
    db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// CreateBulk inserts multiple seats in one statement.  Only screen_id,
// row_label, seat_number and category are inserted; timestamps default
// in the DB.  Passing an empty slice has no effect and returns nil.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
    if len(seats) == 0 {
        return nil
    }
    query := `INSERT INTO seats (screen_id, row_label, seat_number, category) VALUES `
    args := make([]interface{}, 0, len(seats)*4)
    for i, s := range seats {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        args = append(args, s.ScreenID, s.RowLabel, s.SeatNumber, s.Category)
    }
    _, err := r.db.ExecContext(ctx, query, args...)
    return err
}

// ListActiveByScreen returns the active seats of a screen ordered by
// row and number.  Used when generating show seats at scheduling time.
func (r *SeatRepo) ListActiveByScreen(ctx context.Context, screenID uint64) ([]model.Seat, error) {
    const q = `SELECT id, screen_id, row_label, seat_number, category, is_active, created_at, updated_at
               FROM seats WHERE screen_id = ? AND is_active = 1 ORDER BY row_label, seat_number`
    rows, err := r.db.QueryContext(ctx, q, screenID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Seat
    for rows.Next() {
        var s model.Seat
        if err := rows.Scan(&s.ID, &s.ScreenID, &s.RowLabel, &s.SeatNumber, &s.Category, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

// LabelsByIDs returns the human-readable labels ("A5") for the given
// seat IDs.  Missing IDs are simply absent from the result map.
func (r *SeatRepo) LabelsByIDs(ctx context.Context, seatIDs []uint64) (map[uint64]string, error) {
    if len(seatIDs) == 0 {
        return map[uint64]string{}, nil
    }
    query := `SELECT id, row_label, seat_number FROM seats WHERE id IN (`
    args := make([]interface{}, 0, len(seatIDs))
    for i, id := range seatIDs {
        if i > 0 {
            query += ","
        }
        query += "?"
        args = append(args, id)
    }
    query += ")"
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make(map[uint64]string, len(seatIDs))
    for rows.Next() {
        var s model.Seat
        if err := rows.Scan(&s.ID, &s.RowLabel, &s.SeatNumber); err != nil {
            return nil, err
        }
        out[s.ID] = s.Label()
    }
    return out, rows.Err()
}

package repository // repository for show seat persistence

import (
    "context"
    "database/sql"

    "github.com/bookmyseat/seat-reservation/internal/model"
)

// ShowSeatRepo encapsulates database operations for show_seats.  The
// TransitionTx primitive is the single guarded mutation every state
// change goes through; its conditional WHERE clause is what makes
// per-seat transitions linearizable under InnoDB row locks.
type ShowSeatRepo struct {
    db *sql.DB
}

// NewShowSeatRepo constructs a ShowSeatRepo given a DB handle.
func NewShowSeatRepo(db *sql.DB) *ShowSeatRepo { return &ShowSeatRepo{db: db} }

// CreateBulkTx inserts multiple show_seat records in one statement within
// the provided transaction.  Only show_id, seat_id, status and
// price_cents are inserted; timestamps default in the DB.
func (r *ShowSeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.ShowSeat) error {
    if len(seats) == 0 {
        return nil
    }
    query := `INSERT INTO show_seats (show_id, seat_id, status, price_cents) VALUES `
    args := make([]interface{}, 0, len(seats)*4)
    for i, ss := range seats {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        args = append(args, ss.ShowID, ss.SeatID, ss.Status, ss.PriceCents)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// StatesByShow returns the status of every seat of a show keyed by
// seat ID.  Cheaper than ListByShow when only availability matters.
func (r *ShowSeatRepo) StatesByShow(ctx context.Context, showID uint64) (map[uint64]string, error) {
    const q = `SELECT seat_id, status FROM show_seats WHERE show_id = ?`
    rows, err := r.db.QueryContext(ctx, q, showID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make(map[uint64]string)
    for rows.Next() {
        var (
            sid uint64
            st  string
        )
        if err := rows.Scan(&sid, &st); err != nil {
            return nil, err
        }
        out[sid] = st
    }
    return out, rows.Err()
}

// ListByShow returns the full show_seat rows of a show ordered by seat
// ID, including prices.  Used to render the seat map with pricing.
func (r *ShowSeatRepo) ListByShow(ctx context.Context, showID uint64) ([]model.ShowSeat, error) {
    const q = `SELECT id, show_id, seat_id, status, price_cents, created_at, updated_at
               FROM show_seats WHERE show_id = ? ORDER BY seat_id`
    rows, err := r.db.QueryContext(ctx, q, showID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.ShowSeat
    for rows.Next() {
        var ss model.ShowSeat
        if err := rows.Scan(&ss.ID, &ss.ShowID, &ss.SeatID, &ss.Status, &ss.PriceCents, &ss.CreatedAt, &ss.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, ss)
    }
    return out, rows.Err()
}

// TransitionTx flips the status of the given seats from one state to
// another, but only for rows currently in the expected prior state.
// It returns the number of rows actually updated; callers compare it
// against len(seatIDs) to detect conflicts and roll back.  Passing an
// empty slice is a no-op.
func (r *ShowSeatRepo) TransitionTx(ctx context.Context, tx *sql.Tx, showID uint64, seatIDs []uint64, from, to string) (int64, error) {
    if len(seatIDs) == 0 {
        return 0, nil
    }
    query := `UPDATE show_seats SET status = ? WHERE show_id = ? AND status = ? AND seat_id IN (`
    args := []interface{}{to, showID, from}
    for i, id := range seatIDs {
        if i > 0 {
            query += ","
        }
        query += "?"
        args = append(args, id)
    }
    query += ")"
    res, err := tx.ExecContext(ctx, query, args...)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// UnavailableTx returns the subset of the given seats that are not FREE
// for the show.  Used to report conflicting seats after a failed batch
// transition.
func (r *ShowSeatRepo) UnavailableTx(ctx context.Context, tx *sql.Tx, showID uint64, seatIDs []uint64) ([]uint64, error) {
    if len(seatIDs) == 0 {
        return nil, nil
    }
    query := `SELECT seat_id FROM show_seats WHERE show_id = ? AND status <> 'FREE' AND seat_id IN (`
    args := []interface{}{showID}
    for i, id := range seatIDs {
        if i > 0 {
            query += ","
        }
        query += "?"
        args = append(args, id)
    }
    query += ")"
    rows, err := tx.QueryContext(ctx, query, args...)
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

// MissingTx returns the subset of the given seat IDs that have no
// show_seat row at all for the show (unknown or inactive seats).
func (r *ShowSeatRepo) MissingTx(ctx context.Context, tx *sql.Tx, showID uint64, seatIDs []uint64) ([]uint64, error) {
    if len(seatIDs) == 0 {
        return nil, nil
    }
    query := `SELECT seat_id FROM show_seats WHERE show_id = ? AND seat_id IN (`
    args := []interface{}{showID}
    for i, id := range seatIDs {
        if i > 0 {
            query += ","
        }
        query += "?"
        args = append(args, id)
    }
    query += ")"
    rows, err := tx.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    present := make(map[uint64]struct{}, len(seatIDs))
    for rows.Next() {
        var sid uint64
        if err := rows.Scan(&sid); err != nil {
            return nil, err
        }
        present[sid] = struct{}{}
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    var missing []uint64
    for _, id := range seatIDs {
        if _, ok := present[id]; !ok {
            missing = append(missing, id)
        }
    }
    return missing, nil
}

// PricesBySeatIDsTx returns price_cents keyed by seat ID for the given
// seats of a show, within the provided transaction.
func (r *ShowSeatRepo) PricesBySeatIDsTx(ctx context.Context, tx *sql.Tx, showID uint64, seatIDs []uint64) (map[uint64]uint32, error) {
    if len(seatIDs) == 0 {
        return map[uint64]uint32{}, nil
    }
    query := `SELECT seat_id, price_cents FROM show_seats WHERE show_id = ? AND seat_id IN (`
    args := []interface{}{showID}
    for i, id := range seatIDs {
        if i > 0 {
            query += ","
        }
        query += "?"
        args = append(args, id)
    }
    query += ")"
    rows, err := tx.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make(map[uint64]uint32, len(seatIDs))
    for rows.Next() {
        var sid uint64
        var price uint32
        if err := rows.Scan(&sid, &price); err != nil {
            return nil, err
        }
        out[sid] = price
    }
    return out, rows.Err()
}

// DeleteByShowTx removes all show_seat rows of a show.  Used when a show
// is archived; its seat inventory is destroyed with it.
func (r *ShowSeatRepo) DeleteByShowTx(ctx context.Context, tx *sql.Tx, showID uint64) error {
    _, err := tx.ExecContext(ctx, `DELETE FROM show_seats WHERE show_id = ?`, showID)
    return err
}

package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/bookmyseat/seat-reservation/internal/model"
)

// SeatHoldRepo provides data access to the seat_holds table.  All
// methods compare expirations in UTC; callers must pass UTC instants.
// The unique key on (show_id, seat_id) is the durable backstop for the
// at-most-one-holder invariant: even if two transactions raced past the
// status check, only one insert can land.
type SeatHoldRepo struct {
    db *sql.DB
}

// NewSeatHoldRepo returns a new SeatHoldRepo bound to the provided database.
func NewSeatHoldRepo(db *sql.DB) *SeatHoldRepo { return &SeatHoldRepo{db: db} }

// CreateBatchTx inserts the holds of one session within the provided
// transaction.  Every hold must carry SessionID, UserID, ShowID, SeatID
// and ExpiresAt.  The caller commits or rolls back.  Passing an empty
// slice has no effect and returns nil.
func (r *SeatHoldRepo) CreateBatchTx(ctx context.Context, tx *sql.Tx, holds []model.SeatHold) error {
    if len(holds) == 0 {
        return nil
    }
    query := `INSERT INTO seat_holds (session_id, user_id, show_id, seat_id, expires_at) VALUES `
    args := make([]interface{}, 0, len(holds)*5)
    for i, h := range holds {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, ?)"
        args = append(args, h.SessionID, h.UserID, h.ShowID, h.SeatID, h.ExpiresAt.UTC())
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// ActiveBySessionTx retrieves all non-expired holds of a session with
// row locks held, so that confirmation cannot race the sweeper on the
// same rows.  The returned slice is empty when the session holds
// nothing active.
func (r *SeatHoldRepo) ActiveBySessionTx(ctx context.Context, tx *sql.Tx, sessionID string, now time.Time) ([]model.SeatHold, error) {
    const q = `SELECT id, session_id, user_id, show_id, seat_id, expires_at, created_at
               FROM seat_holds
               WHERE session_id = ? AND expires_at > ?
               FOR UPDATE`
    rows, err := tx.QueryContext(ctx, q, sessionID, now.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var holds []model.SeatHold
    for rows.Next() {
        var h model.SeatHold
        if err := rows.Scan(&h.ID, &h.SessionID, &h.UserID, &h.ShowID, &h.SeatID, &h.ExpiresAt, &h.CreatedAt); err != nil {
            return nil, err
        }
        holds = append(holds, h)
    }
    return holds, rows.Err()
}

// ActiveBySession is the read-only variant used to answer remaining-time
// queries.  No locks are taken.
func (r *SeatHoldRepo) ActiveBySession(ctx context.Context, sessionID string, now time.Time) ([]model.SeatHold, error) {
    const q = `SELECT id, session_id, user_id, show_id, seat_id, expires_at, created_at
               FROM seat_holds
               WHERE session_id = ? AND expires_at > ?`
    rows, err := r.db.QueryContext(ctx, q, sessionID, now.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var holds []model.SeatHold
    for rows.Next() {
        var h model.SeatHold
        if err := rows.Scan(&h.ID, &h.SessionID, &h.UserID, &h.ShowID, &h.SeatID, &h.ExpiresAt, &h.CreatedAt); err != nil {
            return nil, err
        }
        holds = append(holds, h)
    }
    return holds, rows.Err()
}

// DeleteBySessionTx removes all holds of a session and returns the show
// and seat IDs that were released so callers can free the show_seats.
// The first return value is zero when the session held nothing.
func (r *SeatHoldRepo) DeleteBySessionTx(ctx context.Context, tx *sql.Tx, sessionID string) (uint64, []uint64, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT show_id, seat_id FROM seat_holds WHERE session_id = ? FOR UPDATE`, sessionID)
    if err != nil {
        return 0, nil, err
    }
    var showID uint64
    var seatIDs []uint64
    for rows.Next() {
        var sh, sid uint64
        if scanErr := rows.Scan(&sh, &sid); scanErr != nil {
            rows.Close()
            return 0, nil, scanErr
        }
        showID = sh
        seatIDs = append(seatIDs, sid)
    }
    if err = rows.Close(); err != nil {
        return 0, nil, err
    }
    if len(seatIDs) == 0 {
        return 0, nil, nil
    }
    if _, err = tx.ExecContext(ctx, `DELETE FROM seat_holds WHERE session_id = ?`, sessionID); err != nil {
        return 0, nil, err
    }
    return showID, seatIDs, nil
}

// ExtendSessionTx pushes the expiry of every still-active hold of a
// session to the new instant.  It returns the number of holds renewed;
// zero means the session has nothing left to renew.
func (r *SeatHoldRepo) ExtendSessionTx(ctx context.Context, tx *sql.Tx, sessionID string, newExpiry, now time.Time) (int64, error) {
    res, err := tx.ExecContext(ctx,
        `UPDATE seat_holds SET expires_at = ? WHERE session_id = ? AND expires_at > ?`,
        newExpiry.UTC(), sessionID, now.UTC())
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// ExpiredTx returns the holds whose expiry has passed, with row locks
// held, grouped for the sweeper.  A hold is expired when expires_at is
// less than or equal to now.
func (r *SeatHoldRepo) ExpiredTx(ctx context.Context, tx *sql.Tx, now time.Time) ([]model.SeatHold, error) {
    const q = `SELECT id, session_id, user_id, show_id, seat_id, expires_at, created_at
               FROM seat_holds WHERE expires_at <= ? FOR UPDATE`
    rows, err := tx.QueryContext(ctx, q, now.UTC())
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var holds []model.SeatHold
    for rows.Next() {
        var h model.SeatHold
        if err := rows.Scan(&h.ID, &h.SessionID, &h.UserID, &h.ShowID, &h.SeatID, &h.ExpiresAt, &h.CreatedAt); err != nil {
            return nil, err
        }
        holds = append(holds, h)
    }
    return holds, rows.Err()
}

// DeleteExpiredTx removes all holds past expiry.  It is paired with
// ExpiredTx inside one sweeper transaction.
func (r *SeatHoldRepo) DeleteExpiredTx(ctx context.Context, tx *sql.Tx, now time.Time) error {
    _, err := tx.ExecContext(ctx, `DELETE FROM seat_holds WHERE expires_at <= ?`, now.UTC())
    return err
}

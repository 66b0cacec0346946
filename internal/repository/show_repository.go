// This file defines repository methods for shows.  A Show represents a
// scheduled screening of a movie on a screen.  Shows are created together
// with their seat inventory inside one transaction; see Inventory.ScheduleShow.
package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/bookmyseat/seat-reservation/internal/model"
)

// ShowRepo manages persistence for shows.
type ShowRepo struct {
    db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new show using the provided transaction.  The caller
// must commit or roll back.  On success the generated ID and DB-default
// fields (status, timestamps) are populated on the given Show.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Show) error {
    const q = `INSERT INTO shows (screen_id, movie_title, starts_at, ends_at, base_price_cents) VALUES (?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, s.ScreenID, s.MovieTitle, s.StartsAt.UTC(), s.EndsAt.UTC(), s.BasePriceCents)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    s.ID = uint64(id)
    const sel = `SELECT id, screen_id, movie_title, starts_at, ends_at, base_price_cents, status, created_at, updated_at
                 FROM shows WHERE id = ?`
    return tx.QueryRowContext(ctx, sel, s.ID).Scan(
        &s.ID, &s.ScreenID, &s.MovieTitle, &s.StartsAt, &s.EndsAt, &s.BasePriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound when
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
    const q = `SELECT id, screen_id, movie_title, starts_at, ends_at, base_price_cents, status, created_at, updated_at
               FROM shows WHERE id = ?`
    var s model.Show
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &s.ID, &s.ScreenID, &s.MovieTitle, &s.StartsAt, &s.EndsAt, &s.BasePriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrShowNotFound
    }
    if err != nil {
        return nil, err
    }
    return &s, nil
}

// ListByScreen returns all shows of a screen ordered by start time.
func (r *ShowRepo) ListByScreen(ctx context.Context, screenID uint64) ([]model.Show, error) {
    const q = `SELECT id, screen_id, movie_title, starts_at, ends_at, base_price_cents, status, created_at, updated_at
               FROM shows WHERE screen_id = ? ORDER BY starts_at`
    rows, err := r.db.QueryContext(ctx, q, screenID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Show
    for rows.Next() {
        var s model.Show
        if err := rows.Scan(&s.ID, &s.ScreenID, &s.MovieTitle, &s.StartsAt, &s.EndsAt, &s.BasePriceCents, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

// CountOverlappingTx counts SCHEDULED shows on the same screen whose time
// range intersects [startsAt, endsAt).  Used to reject double-booked
// screens before scheduling.
func (r *ShowRepo) CountOverlappingTx(ctx context.Context, tx *sql.Tx, screenID uint64, startsAt, endsAt time.Time) (int, error) {
    const q = `SELECT COUNT(*) FROM shows
               WHERE screen_id = ? AND status = 'SCHEDULED' AND starts_at < ? AND ends_at > ?`
    var n int
    err := tx.QueryRowContext(ctx, q, screenID, endsAt.UTC(), startsAt.UTC()).Scan(&n)
    return n, err
}

// TransitionStatusTx moves a show from one status to another within
// the provided transaction.  ErrShowNotFound means no such show;
// ErrConflict means the show exists but is not in the expected status.
func (r *ShowRepo) TransitionStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to string) error {
    res, err := tx.ExecContext(ctx, `UPDATE shows SET status = ? WHERE id = ? AND status = ?`, to, id, from)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        var exists int
        if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM shows WHERE id = ?`, id).Scan(&exists); err != nil {
            return err
        }
        if exists == 0 {
            return ErrShowNotFound
        }
        return ErrConflict
    }
    return nil
}

// UpdateStatusTx transitions a show's status within the provided
// transaction.  It returns ErrShowNotFound when no row matched.
func (r *ShowRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
    res, err := tx.ExecContext(ctx, `UPDATE shows SET status = ? WHERE id = ?`, status, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrShowNotFound
    }
    return nil
}

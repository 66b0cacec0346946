package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/bookmyseat/seat-reservation/internal/model"
)

// ScreenRepo manages persistence for screens.
type ScreenRepo struct {
    db *sql.DB
}

// NewScreenRepo constructs a ScreenRepo with the given DB handle.
func NewScreenRepo(db *sql.DB) *ScreenRepo { return &ScreenRepo{db: db} }

// Create inserts a new screen and assigns the generated ID back to the
// struct.  A duplicate (theater_id, name) pair yields ErrConflict.
func (r *ScreenRepo) Create(ctx context.Context, s *model.Screen) error {
    const q = `INSERT INTO screens (theater_id, name, seat_rows, seat_cols) VALUES (?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, s.TheaterID, s.Name, s.SeatRows, s.SeatCols)
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
    s.ID = uint64(id)
    const sel = `SELECT id, theater_id, name, seat_rows, seat_cols, is_active, created_at, updated_at
                 FROM screens WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, s.ID).Scan(
        &s.ID, &s.TheaterID, &s.Name, &s.SeatRows, &s.SeatCols, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID retrieves a screen by its ID.  It returns ErrScreenNotFound
// when there is no matching row.
func (r *ScreenRepo) GetByID(ctx context.Context, id uint64) (*model.Screen, error) {
    const q = `SELECT id, theater_id, name, seat_rows, seat_cols, is_active, created_at, updated_at
               FROM screens WHERE id = ?`
    var s model.Screen
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &s.ID, &s.TheaterID, &s.Name, &s.SeatRows, &s.SeatCols, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrScreenNotFound
    }
    if err != nil {
        return nil, err
    }
    return &s, nil
}

// ListByTheater returns all screens of a theater ordered by name.
func (r *ScreenRepo) ListByTheater(ctx context.Context, theaterID uint64) ([]model.Screen, error) {
    const q = `SELECT id, theater_id, name, seat_rows, seat_cols, is_active, created_at, updated_at
               FROM screens WHERE theater_id = ? ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q, theaterID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Screen
    for rows.Next() {
        var s model.Screen
        if err := rows.Scan(&s.ID, &s.TheaterID, &s.Name, &s.SeatRows, &s.SeatCols, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/bookmyseat/seat-reservation/internal/model"
)

// TheaterRepo manages persistence for theaters.
type TheaterRepo struct {
    db *sql.DB
}

// NewTheaterRepo constructs a TheaterRepo with the given DB handle.
func NewTheaterRepo(db *sql.DB) *TheaterRepo { return &TheaterRepo{db: db} }

// Create inserts a new theater and assigns the generated ID back to the
// struct.  A duplicate (name, city) pair yields ErrConflict.
func (r *TheaterRepo) Create(ctx context.Context, t *model.Theater) error {
    const q = `INSERT INTO theaters (name, city, address) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, t.Name, t.City, t.Address)
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
    t.ID = uint64(id)
    const sel = `SELECT id, name, city, address, created_at, updated_at FROM theaters WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, t.ID).Scan(&t.ID, &t.Name, &t.City, &t.Address, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID retrieves a theater by its ID.  It returns ErrTheaterNotFound
// when there is no matching row.
func (r *TheaterRepo) GetByID(ctx context.Context, id uint64) (*model.Theater, error) {
    const q = `SELECT id, name, city, address, created_at, updated_at FROM theaters WHERE id = ?`
    var t model.Theater
    err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.City, &t.Address, &t.CreatedAt, &t.UpdatedAt)
    if err == sql.ErrNoRows {
        return nil, ErrTheaterNotFound
    }
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// List returns all theaters ordered by city and name.
func (r *TheaterRepo) List(ctx context.Context) ([]model.Theater, error) {
    const q = `SELECT id, name, city, address, created_at, updated_at FROM theaters ORDER BY city, name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Theater
    for rows.Next() {
        var t model.Theater
        if err := rows.Scan(&t.ID, &t.Name, &t.City, &t.Address, &t.CreatedAt, &t.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

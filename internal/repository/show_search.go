package repository

import (
    "context"
    "strings"
    "time"
)

// Time filters accepted by ShowSearchQuery.
const (
    SearchUpcoming = "upcoming" // starts_at >= NOW(), the default
    SearchActive   = "active"   // ends_at >= NOW(), includes running shows
    SearchAny      = "any"      // no time filter
)

const (
    searchDefaultPageSize = 20
    searchMaxPageSize     = 100
)

// ShowSearchQuery carries the filters and paging of a public catalog
// search.  All text filters are case-insensitive substring matches.
type ShowSearchQuery struct {
    Title    string
    Theater  string
    City     string
    Time     string
    Page     int
    PageSize int
}

// ShowSearchRow is one search hit, denormalized across the show, its
// screen and its theater.
type ShowSearchRow struct {
    ID             uint64    `json:"id"`
    MovieTitle     string    `json:"movie_title"`
    ScreenID       uint64    `json:"screen_id"`
    ScreenName     string    `json:"screen_name"`
    TheaterID      uint64    `json:"theater_id"`
    TheaterName    string    `json:"theater_name"`
    City           string    `json:"city"`
    StartsAt       time.Time `json:"starts_at"`
    EndsAt         time.Time `json:"ends_at"`
    BasePriceCents uint32    `json:"base_price_cents"`
}

// normalized clamps paging and defaults the time filter so the SQL
// below never sees out-of-range values.
func (q ShowSearchQuery) normalized() ShowSearchQuery {
    q.Title = strings.TrimSpace(q.Title)
    q.Theater = strings.TrimSpace(q.Theater)
    q.City = strings.TrimSpace(q.City)
    q.Time = strings.ToLower(strings.TrimSpace(q.Time))
    switch q.Time {
    case SearchActive, SearchAny:
    default:
        q.Time = SearchUpcoming
    }
    if q.Page < 1 {
        q.Page = 1
    }
    if q.PageSize < 1 {
        q.PageSize = searchDefaultPageSize
    }
    if q.PageSize > searchMaxPageSize {
        q.PageSize = searchMaxPageSize
    }
    return q
}

// conditions builds the WHERE clause shared by the count and page
// queries.  Only SCHEDULED shows on active screens are searchable.
func (q ShowSearchQuery) conditions() (string, []any) {
    where := []string{"s.status = 'SCHEDULED'", "sc.is_active = 1"}
    args := []any{}

    switch q.Time {
    case SearchAny:
    case SearchActive:
        where = append(where, "s.ends_at >= NOW()")
    default:
        where = append(where, "s.starts_at >= NOW()")
    }

    if q.Title != "" {
        where = append(where, "LOWER(s.movie_title) LIKE ?")
        args = append(args, "%"+strings.ToLower(q.Title)+"%")
    }
    if q.Theater != "" {
        where = append(where, "LOWER(t.name) LIKE ?")
        args = append(args, "%"+strings.ToLower(q.Theater)+"%")
    }
    if q.City != "" {
        where = append(where, "LOWER(t.city) LIKE ?")
        args = append(args, "%"+strings.ToLower(q.City)+"%")
    }

    return strings.Join(where, " AND "), args
}

// Search returns one page of shows matching the query plus the total
// match count for pagination.
func (r *ShowRepo) Search(ctx context.Context, q ShowSearchQuery) ([]ShowSearchRow, int64, error) {
    q = q.normalized()
    cond, args := q.conditions()

    var total int64
    countSQL := `SELECT COUNT(*)
        FROM shows s
        JOIN screens sc  ON sc.id = s.screen_id
        JOIN theaters t  ON t.id = sc.theater_id
        WHERE ` + cond
    if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    dataSQL := `SELECT
            s.id,
            s.movie_title,
            s.screen_id,
            sc.name,
            t.id,
            t.name,
            t.city,
            s.starts_at,
            s.ends_at,
            s.base_price_cents
        FROM shows s
        JOIN screens sc  ON sc.id = s.screen_id
        JOIN theaters t  ON t.id = sc.theater_id
        WHERE ` + cond + `
        ORDER BY s.starts_at, s.id
        LIMIT ? OFFSET ?`

    argsData := append(append([]any{}, args...), q.PageSize, (q.Page-1)*q.PageSize)

    rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    out := make([]ShowSearchRow, 0, q.PageSize)
    for rows.Next() {
        var d ShowSearchRow
        if err := rows.Scan(
            &d.ID,
            &d.MovieTitle,
            &d.ScreenID,
            &d.ScreenName,
            &d.TheaterID,
            &d.TheaterName,
            &d.City,
            &d.StartsAt,
            &d.EndsAt,
            &d.BasePriceCents,
        ); err != nil {
            return nil, 0, err
        }
        out = append(out, d)
    }
    return out, total, rows.Err()
}

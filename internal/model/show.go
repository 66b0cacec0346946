package model

import "time"

// Show statuses.  A show is SCHEDULED from creation until it is
// cancelled or archived; only SCHEDULED shows accept seat holds.
const (
    ShowStatusScheduled = "SCHEDULED"
    ShowStatusCancelled = "CANCELLED"
    ShowStatusArchived  = "ARCHIVED"
)

// ShowOnSale reports whether a show in the given status still sells
// seats.  Cancelled and archived shows accept no holds and cannot be
// transitioned further.
func ShowOnSale(status string) bool {
    return status == ShowStatusScheduled
}

// Show represents a scheduled screening of a movie on a particular
// screen.  Shows are immutable once scheduled apart from their
// status; the seat inventory for a show is generated at creation
// time and destroyed when the show is archived.
//
// Fields:
//  ID             – primary key identifier.
//  ScreenID       – screen where the show takes place.
//  MovieTitle     – title of the movie being screened.
//  StartsAt       – when the show begins.
//  EndsAt         – when the show ends (must be after StartsAt).
//  BasePriceCents – standard-seat price in cents; category
//                   multipliers apply on top of it.
//  Status         – current state of the show.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Show struct {
    ID             uint64    // shows.id
    ScreenID       uint64    // shows.screen_id
    MovieTitle     string    // shows.movie_title
    StartsAt       time.Time // shows.starts_at
    EndsAt         time.Time // shows.ends_at
    BasePriceCents uint32    // shows.base_price_cents
    Status         string    // shows.status
    CreatedAt      time.Time // shows.created_at
    UpdatedAt      time.Time // shows.updated_at
}

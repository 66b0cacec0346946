// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a hold session is successfully
// confirmed into a booking. It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type BookingConfirmedEvent struct {
    BookingID        uint64   `json:"booking_id"`
    SessionID        string   `json:"session_id"`
    UserID           uint64   `json:"user_id"`
    ShowID           uint64   `json:"show_id"`
    TheaterID        uint64   `json:"theater_id"`
    TheaterName      string   `json:"theater_name"`
    ScreenID         uint64   `json:"screen_id"`
    ScreenName       string   `json:"screen_name"`
    MovieTitle       string   `json:"movie_title"`
    StartsAt         string   `json:"starts_at"`
    EndsAt           string   `json:"ends_at"`
    SeatLabels       []string `json:"seats"`
    TotalAmountCents uint32   `json:"total_amount_cents"`
    PaymentRef       string   `json:"payment_ref"`
    ConfirmedAt      string   `json:"confirmed_at"`
}

package model

import "time"

// Booking statuses.  A booking is CONFIRMED at creation and may
// only transition to CANCELLED; everything else about it is
// immutable.
const (
    BookingStatusConfirmed = "CONFIRMED"
    BookingStatusCancelled = "CANCELLED"
)

// Booking records the durable outcome of confirming a hold session.
// It aggregates every seat the session held and carries the full
// price breakdown charged at confirmation.  Bookings are unique per
// session ID, which is what makes confirmation idempotent.
//
// Fields:
//  ID                   – primary key identifier.
//  SessionID            – hold session this booking was created from.
//  UserID               – user who made the booking.
//  ShowID               – show being booked.
//  Status               – CONFIRMED or CANCELLED.
//  BaseAmountCents      – sum of the seat prices.
//  ConvenienceFeeCents  – booking fee charged on top of the base.
//  TaxCents             – tax on base plus fee.
//  DiscountCents        – promo discount subtracted from the total.
//  TotalAmountCents     – final amount charged.
//  PaymentRef           – reference of the successful payment.
//  CreatedAt            – creation timestamp.
//  UpdatedAt            – last update timestamp.
type Booking struct {
    ID                  uint64    // bookings.id
    SessionID           string    // bookings.session_id
    UserID              uint64    // bookings.user_id
    ShowID              uint64    // bookings.show_id
    Status              string    // bookings.status
    BaseAmountCents     uint32    // bookings.base_amount_cents
    ConvenienceFeeCents uint32    // bookings.convenience_fee_cents
    TaxCents            uint32    // bookings.tax_cents
    DiscountCents       uint32    // bookings.discount_cents
    TotalAmountCents    uint32    // bookings.total_amount_cents
    PaymentRef          string    // bookings.payment_ref
    CreatedAt           time.Time // bookings.created_at
    UpdatedAt           time.Time // bookings.updated_at
}

// BookingSeat links a booking to one reserved seat of the show.
// Together the records form the full seat set of the booking.
//
// Fields:
//  ID         – primary key identifier.
//  BookingID  – reference to the booking.
//  ShowID     – show in which the seat is booked.
//  SeatID     – seat that has been reserved.
//  PriceCents – price paid for this seat in cents.
//  CreatedAt  – creation timestamp.
type BookingSeat struct {
    ID         uint64    // booking_seats.id
    BookingID  uint64    // booking_seats.booking_id
    ShowID     uint64    // booking_seats.show_id
    SeatID     uint64    // booking_seats.seat_id
    PriceCents uint32    // booking_seats.price_cents
    CreatedAt  time.Time // booking_seats.created_at
}

// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as the
// hold manager and HTTP handlers to distinguish between failure
// scenarios: a seat conflict is recoverable by picking different seats,
// an expired hold forces the client to restart seat selection, and a
// forbidden error means the caller does not own the resource.
package repository

import "errors"

// ErrSeatConflict is returned when a requested seat is already held or
// reserved by another session.  Handlers translate this into an HTTP
// 409 response carrying the conflicting seat IDs.
var ErrSeatConflict = errors.New("seat conflict")

// ErrHoldExpired is returned when a session's holds have lapsed or never
// existed.  Terminal for that session; handlers translate this into an
// HTTP 410 response.
var ErrHoldExpired = errors.New("hold expired or missing")

// ErrNotHolder is returned when a session attempts to release or renew
// seats it does not hold.
var ErrNotHolder = errors.New("session does not hold these seats")

// ErrTooManySeats is returned when a hold request exceeds the per
// session seat limit.
var ErrTooManySeats = errors.New("too many seats requested")

// ErrPaymentRejected is returned when the gateway declines a charge or
// when confirmation is attempted without a successful payment.
// Handlers translate this into an HTTP 402 response.
var ErrPaymentRejected = errors.New("payment rejected")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into an HTTP 403
// response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as scheduling a show that overlaps
// an existing one.  Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// Not-found sentinels for catalog entities.
var (
    ErrTheaterNotFound = errors.New("theater not found")
    ErrScreenNotFound  = errors.New("screen not found")
    ErrShowNotFound    = errors.New("show not found")
    ErrBookingNotFound = errors.New("booking not found")
    ErrPaymentNotFound = errors.New("payment not found")
)

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// Package payment defines the gateway boundary for charging and
// refunding money.  The production deployment would plug a real PSP
// client in here; the stock implementation simulates one with
// deterministic outcomes so the flow stays testable.
package payment

import (
    "context"
    "strings"
    "time"

    "github.com/google/uuid"
)

// ChargeRequest is what the gateway needs to attempt a capture.
// Instrument is the card number, UPI handle, or wallet ID depending
// on the method.
type ChargeRequest struct {
    Reference   string
    Method      string
    Instrument  string
    AmountCents uint32
}

// ChargeResult reports the outcome of a capture attempt.  When
// Approved is false, Reason explains the decline.
type ChargeResult struct {
    Approved   bool
    GatewayRef string
    Reason     string
}

// Gateway is the boundary to the payment provider.
type Gateway interface {
    Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
    Refund(ctx context.Context, gatewayRef string, amountCents uint32) error
}

// MockGateway simulates a payment provider.  It waits a short,
// configurable latency and then approves everything except card
// instruments ending in "0", which are always declined.  The rule is
// deterministic so tests and demos can force either outcome.
type MockGateway struct {
    Latency time.Duration
}

// NewMockGateway returns a MockGateway with a small default latency.
func NewMockGateway() *MockGateway {
    return &MockGateway{Latency: 50 * time.Millisecond}
}

// Charge implements Gateway.
func (g *MockGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
    select {
    case <-time.After(g.Latency):
    case <-ctx.Done():
        return ChargeResult{}, ctx.Err()
    }

    if strings.HasSuffix(req.Instrument, "0") {
        return ChargeResult{
            Approved: false,
            Reason:   "card declined by issuer",
        }, nil
    }
    return ChargeResult{
        Approved:   true,
        GatewayRef: "GW_" + uuid.NewString(),
    }, nil
}

// Refund implements Gateway.  The mock always succeeds.
func (g *MockGateway) Refund(ctx context.Context, gatewayRef string, amountCents uint32) error {
    select {
    case <-time.After(g.Latency):
        return nil
    case <-ctx.Done():
        return ctx.Err()
    }
}

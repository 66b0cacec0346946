package model

import "time"

// Payment statuses mirroring the lifecycle driven by the gateway.
const (
    PaymentStatusPending    = "PENDING"
    PaymentStatusProcessing = "PROCESSING"
    PaymentStatusSuccess    = "SUCCESS"
    PaymentStatusFailed     = "FAILED"
    PaymentStatusRefunded   = "REFUNDED"
)

// Payment methods accepted at initiation.
const (
    PaymentMethodCard   = "CARD"
    PaymentMethodUPI    = "UPI"
    PaymentMethodWallet = "WALLET"
)

// Payment tracks a payment attempt for one hold session.  At most
// one payment exists per session; re-initiating returns the
// existing record.  The reference is the identifier clients pass
// back when confirming the session.
//
// Fields:
//  ID                  – primary key identifier.
//  Reference           – unique payment reference (TXN_...).
//  SessionID           – hold session the payment pays for.
//  UserID              – paying user.
//  Method              – payment method chosen at initiation.
//  BaseAmountCents     – sum of the held seats' prices.
//  ConvenienceFeeCents – booking fee component.
//  TaxCents            – tax component.
//  DiscountCents       – promo discount component.
//  TotalAmountCents    – amount sent to the gateway.
//  PromoCode           – promo code applied, if any.
//  Status              – payment lifecycle state.
//  GatewayRef          – transaction ID returned by the gateway.
//  FailureReason       – gateway message for failed attempts.
//  CreatedAt           – creation timestamp.
//  CompletedAt         – when the payment reached a terminal state.
type Payment struct {
    ID                  uint64     // payments.id
    Reference           string     // payments.reference
    SessionID           string     // payments.session_id
    UserID              uint64     // payments.user_id
    Method              string     // payments.method
    BaseAmountCents     uint32     // payments.base_amount_cents
    ConvenienceFeeCents uint32     // payments.convenience_fee_cents
    TaxCents            uint32     // payments.tax_cents
    DiscountCents       uint32     // payments.discount_cents
    TotalAmountCents    uint32     // payments.total_amount_cents
    PromoCode           *string    // payments.promo_code (nullable)
    Status              string     // payments.status
    GatewayRef          *string    // payments.gateway_ref (nullable)
    FailureReason       *string    // payments.failure_reason (nullable)
    CreatedAt           time.Time  // payments.created_at
    UpdatedAt           time.Time  // payments.updated_at
    CompletedAt         *time.Time // payments.completed_at (nullable)
}

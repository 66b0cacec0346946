package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/bookmyseat/seat-reservation/internal/model"
)

// PaymentRepo manages persistence for payment try records.  A payment
// is keyed by its opaque reference (TXN_...), which the confirm flow
// later uses to verify that the amount was actually captured.
type PaymentRepo struct {
    db *sql.DB
}

// NewPaymentRepo constructs a PaymentRepo with the given DB handle.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Create inserts a new payment record in PENDING state.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
    const q = `INSERT INTO payments
               (reference, session_id, user_id, status, method, base_amount_cents, convenience_fee_cents, tax_cents, discount_cents, total_amount_cents, promo_code)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q,
        p.Reference, p.SessionID, p.UserID, p.Status, p.Method,
        p.BaseAmountCents, p.ConvenienceFeeCents, p.TaxCents, p.DiscountCents, p.TotalAmountCents,
        p.PromoCode)
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
    p.ID = uint64(id)
    return nil
}

const paymentColumns = `id, reference, session_id, user_id, status, method,
    base_amount_cents, convenience_fee_cents, tax_cents, discount_cents, total_amount_cents,
    promo_code, gateway_ref, failure_reason, completed_at, created_at, updated_at`

func scanPayment(row interface{ Scan(...interface{}) error }, p *model.Payment) error {
    return row.Scan(&p.ID, &p.Reference, &p.SessionID, &p.UserID, &p.Status, &p.Method,
        &p.BaseAmountCents, &p.ConvenienceFeeCents, &p.TaxCents, &p.DiscountCents, &p.TotalAmountCents,
        &p.PromoCode, &p.GatewayRef, &p.FailureReason, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt)
}

// GetByReference retrieves a payment by its opaque reference.
func (r *PaymentRepo) GetByReference(ctx context.Context, reference string) (*model.Payment, error) {
    q := `SELECT ` + paymentColumns + ` FROM payments WHERE reference = ? LIMIT 1`
    var p model.Payment
    err := scanPayment(r.db.QueryRowContext(ctx, q, reference), &p)
    if err == sql.ErrNoRows {
        return nil, ErrPaymentNotFound
    }
    if err != nil {
        return nil, err
    }
    return &p, nil
}

// LatestBySession retrieves the most recent payment attempt for a hold
// session.  Initiation uses it to stay idempotent: an open attempt is
// returned instead of creating a second one.
func (r *PaymentRepo) LatestBySession(ctx context.Context, sessionID string) (*model.Payment, error) {
    q := `SELECT ` + paymentColumns + ` FROM payments WHERE session_id = ? ORDER BY id DESC LIMIT 1`
    var p model.Payment
    err := scanPayment(r.db.QueryRowContext(ctx, q, sessionID), &p)
    if err == sql.ErrNoRows {
        return nil, ErrPaymentNotFound
    }
    if err != nil {
        return nil, err
    }
    return &p, nil
}

// MarkProcessing transitions a PENDING payment to PROCESSING.  Returns
// ErrConflict when the payment already left the PENDING state, which
// keeps a double submit of the same reference from charging twice.
func (r *PaymentRepo) MarkProcessing(ctx context.Context, reference string) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE payments SET status = 'PROCESSING' WHERE reference = ? AND status = 'PENDING'`, reference)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrConflict
    }
    return nil
}

// MarkSuccess records a captured payment with the gateway's own
// reference and the completion time.
func (r *PaymentRepo) MarkSuccess(ctx context.Context, reference, gatewayRef string, completedAt time.Time) error {
    _, err := r.db.ExecContext(ctx,
        `UPDATE payments SET status = 'SUCCESS', gateway_ref = ?, completed_at = ? WHERE reference = ?`,
        gatewayRef, completedAt.UTC(), reference)
    return err
}

// MarkFailed records a declined payment together with the gateway's
// stated reason.
func (r *PaymentRepo) MarkFailed(ctx context.Context, reference, reason string) error {
    _, err := r.db.ExecContext(ctx,
        `UPDATE payments SET status = 'FAILED', failure_reason = ? WHERE reference = ?`,
        reason, reference)
    return err
}

// MarkRefunded flips a SUCCESS payment to REFUNDED during booking
// cancellation.
func (r *PaymentRepo) MarkRefunded(ctx context.Context, reference string) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE payments SET status = 'REFUNDED' WHERE reference = ? AND status = 'SUCCESS'`, reference)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrConflict
    }
    return nil
}

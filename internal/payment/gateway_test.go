package payment_test

import (
    "context"
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"

    "github.com/bookmyseat/seat-reservation/internal/payment"
)

func TestMockGateway_ApprovesRegularCard(t *testing.T) {
    gw := &payment.MockGateway{Latency: time.Millisecond}

    res, err := gw.Charge(context.Background(), payment.ChargeRequest{
        Reference:   "TXN_1",
        Method:      "CARD",
        Instrument:  "4111111111111111",
        AmountCents: 50000,
    })

    assert.NoError(t, err)
    assert.True(t, res.Approved)
    assert.True(t, strings.HasPrefix(res.GatewayRef, "GW_"))
}

func TestMockGateway_DeclinesCardEndingInZero(t *testing.T) {
    gw := &payment.MockGateway{Latency: time.Millisecond}

    res, err := gw.Charge(context.Background(), payment.ChargeRequest{
        Reference:   "TXN_1",
        Method:      "CARD",
        Instrument:  "4111111111111110",
        AmountCents: 50000,
    })

    assert.NoError(t, err)
    assert.False(t, res.Approved)
    assert.NotEmpty(t, res.Reason)
}

func TestMockGateway_ChargeHonorsContext(t *testing.T) {
    gw := &payment.MockGateway{Latency: time.Minute}

    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    _, err := gw.Charge(ctx, payment.ChargeRequest{Instrument: "4111111111111111"})

    assert.ErrorIs(t, err, context.Canceled)
}

package service_test

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/bookmyseat/seat-reservation/internal/service"
)

func TestComputeBreakdown_PercentFeeAboveFloor(t *testing.T) {
    prices := map[uint64]uint32{1: 60000, 2: 60000} // base 120000
    b, err := service.ComputeBreakdown(testPricing(), prices, "")

    assert.NoError(t, err)
    assert.Equal(t, uint32(120000), b.BaseCents)
    assert.Equal(t, uint32(3000), b.FeeCents)  // 2.5% of 120000
    assert.Equal(t, uint32(22140), b.TaxCents) // 18% of 123000
    assert.Zero(t, b.DiscountCents)
    assert.Equal(t, uint32(145140), b.TotalCents)
}

func TestComputeBreakdown_FeeFloorApplies(t *testing.T) {
    prices := map[uint64]uint32{1: 30000} // 2.5% = 750, below floor
    b, err := service.ComputeBreakdown(testPricing(), prices, "")

    assert.NoError(t, err)
    assert.Equal(t, uint32(2000), b.FeeCents)
    assert.Equal(t, uint32(5760), b.TaxCents) // 18% of 32000
    assert.Equal(t, uint32(37760), b.TotalCents)
}

func TestComputeBreakdown_PromoDiscount(t *testing.T) {
    prices := map[uint64]uint32{1: 100000}
    b, err := service.ComputeBreakdown(testPricing(), prices, "WELCOME10")

    assert.NoError(t, err)
    assert.Equal(t, uint32(10000), b.DiscountCents) // 10% of base
    assert.Equal(t, b.BaseCents+b.FeeCents+b.TaxCents-b.DiscountCents, b.TotalCents)
}

func TestComputeBreakdown_UnknownPromo(t *testing.T) {
    _, err := service.ComputeBreakdown(testPricing(), map[uint64]uint32{1: 100000}, "NOPE")
    assert.ErrorIs(t, err, service.ErrUnknownPromo)
}

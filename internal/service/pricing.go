package service

import (
    "errors"
    "math"
)

// ErrUnknownPromo is returned when a promo code is not recognised.
var ErrUnknownPromo = errors.New("unknown promo code")

// promoDiscountPercent maps active promo codes to the percentage they
// take off the base amount.
var promoDiscountPercent = map[string]uint32{
    "WELCOME10": 10,
    "FESTIVE20": 20,
}

// PricingConfig carries the fee and tax knobs used to turn seat prices
// into a charged total.
type PricingConfig struct {
    ConvenienceFeePercent  float64
    MinConvenienceFeeCents uint32
    TaxPercent             float64
}

// Breakdown is the full price decomposition of a charge.  All values
// are cents.
type Breakdown struct {
    BaseCents     uint32
    FeeCents      uint32
    TaxCents      uint32
    DiscountCents uint32
    TotalCents    uint32
}

// ComputeBreakdown prices a charge: base is the sum of the held seat
// prices, the convenience fee is a percentage of base with a floor,
// tax applies to base plus fee, and the promo discount comes off at
// the end.  An empty promo code means no discount; an unrecognised one
// is an error so a typo never silently charges full price.
func ComputeBreakdown(cfg PricingConfig, seatPrices map[uint64]uint32, promoCode string) (Breakdown, error) {
    var base uint32
    for _, p := range seatPrices {
        base += p
    }

    fee := uint32(math.Round(float64(base) * cfg.ConvenienceFeePercent / 100))
    if fee < cfg.MinConvenienceFeeCents {
        fee = cfg.MinConvenienceFeeCents
    }
    tax := uint32(math.Round(float64(base+fee) * cfg.TaxPercent / 100))

    var discount uint32
    if promoCode != "" {
        pct, ok := promoDiscountPercent[promoCode]
        if !ok {
            return Breakdown{}, ErrUnknownPromo
        }
        discount = uint32(math.Round(float64(base) * float64(pct) / 100))
    }

    total := base + fee + tax
    if discount > total {
        discount = total
    }

    return Breakdown{
        BaseCents:     base,
        FeeCents:      fee,
        TaxCents:      tax,
        DiscountCents: discount,
        TotalCents:    total - discount,
    }, nil
}

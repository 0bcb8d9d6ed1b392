// Package pricing computes the financial breakdown of a stay. All amounts
// are whole currency units; rounding directions are load-bearing: discounts
// round down, tax and commission round up, so the platform never
// over-discounts and never under-collects by a fraction of a unit.
package pricing

import (
	"errors"
	"time"

	"stayhub/internal/domain/coupon"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidNights = errors.New("nights must be at least 1")
	ErrNegativeRate  = errors.New("rates must not be negative")
)

type Input struct {
	Nights         int
	BaseRate       int64
	ExtraAdults    int
	ExtraAdultRate int64
	ExtraChildren  int
	ExtraChildRate int64

	TaxRatePct        float64
	CommissionRatePct float64
}

// Breakdown carries every intermediate figure of a priced booking.
// Invariants: Total == Net + Tax, Net == Payout + Commission, Discount <= Gross.
type Breakdown struct {
	Base       int64
	Extras     int64
	Gross      int64
	Discount   int64
	Net        int64
	Tax        int64
	Total      int64
	Commission int64
	Payout     int64
}

// Quote prices a stay. The coupon, when present, is validated against the
// gross amount before any discount is applied; any violation fails the
// whole operation.
func Quote(in Input, coup *coupon.Coupon, now time.Time) (Breakdown, error) {
	if in.Nights < 1 {
		return Breakdown{}, ErrInvalidNights
	}
	if in.BaseRate < 0 || in.ExtraAdultRate < 0 || in.ExtraChildRate < 0 ||
		in.ExtraAdults < 0 || in.ExtraChildren < 0 {
		return Breakdown{}, ErrNegativeRate
	}

	nights := int64(in.Nights)
	base := in.BaseRate * nights
	extras := (int64(in.ExtraAdults)*in.ExtraAdultRate + int64(in.ExtraChildren)*in.ExtraChildRate) * nights
	gross := base + extras

	var discount int64
	if coup != nil {
		if err := coup.Validate(now, gross); err != nil {
			return Breakdown{}, err
		}
		discount = coup.DiscountAmount(gross)
	}

	net := gross - discount
	if net < 0 {
		net = 0
	}

	tax := ceilPct(net, in.TaxRatePct)
	total := net + tax

	// Commission is computed on net: the platform takes no cut of the tax.
	commission := ceilPct(net, in.CommissionRatePct)
	payout := net - commission
	if payout < 0 {
		payout = 0
	}

	return Breakdown{
		Base:       base,
		Extras:     extras,
		Gross:      gross,
		Discount:   discount,
		Net:        net,
		Tax:        tax,
		Total:      total,
		Commission: commission,
		Payout:     payout,
	}, nil
}

func ceilPct(amount int64, pct float64) int64 {
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(pct)).
		Div(decimal.NewFromInt(100)).
		Ceil().
		IntPart()
}

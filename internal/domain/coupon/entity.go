package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInactive          = errors.New("coupon is not active")
	ErrNotYetValid       = errors.New("coupon is not yet valid")
	ErrExpired           = errors.New("coupon has expired")
	ErrBelowMinimum      = errors.New("booking amount below coupon minimum")
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
)

type Coupon struct {
	id           uuid.UUID
	code         Code
	discountType DiscountType
	value        decimal.Decimal
	maxDiscount  *int64
	minAmount    int64
	startsAt     *time.Time
	endsAt       *time.Time
	active       bool
	usageLimit   *int32
	usageCount   int32
}

func New(
	id uuid.UUID,
	code string,
	discountType string,
	value decimal.Decimal,
	maxDiscount *int64,
	minAmount int64,
	startsAt, endsAt *time.Time,
	active bool,
	usageLimit *int32,
	usageCount int32,
) (*Coupon, error) {
	c, err := NewCode(code)
	if err != nil {
		return nil, err
	}
	dt, err := NewDiscountType(discountType)
	if err != nil {
		return nil, err
	}
	if !value.IsPositive() {
		return nil, ErrInvalidDiscountValue
	}
	return &Coupon{
		id:           id,
		code:         c,
		discountType: dt,
		value:        value,
		maxDiscount:  maxDiscount,
		minAmount:    minAmount,
		startsAt:     startsAt,
		endsAt:       endsAt,
		active:       active,
		usageLimit:   usageLimit,
		usageCount:   usageCount,
	}, nil
}

// Validate checks every redemption precondition against the gross amount.
// Any violation fails the whole pricing operation with a specific reason;
// there is no partial discount.
func (c *Coupon) Validate(now time.Time, gross int64) error {
	if !c.active {
		return ErrInactive
	}
	if c.startsAt != nil && now.Before(*c.startsAt) {
		return ErrNotYetValid
	}
	if c.endsAt != nil && !now.Before(endOfDayExclusive(*c.endsAt)) {
		return ErrExpired
	}
	if gross < c.minAmount {
		return ErrBelowMinimum
	}
	if c.usageLimit != nil && c.usageCount >= *c.usageLimit {
		return ErrUsageLimitReached
	}
	return nil
}

// DiscountAmount computes the discount on the gross amount, floored to a
// whole currency unit so the platform never over-discounts by a fraction.
// Percentage discounts are capped at maxDiscount when a cap is set.
func (c *Coupon) DiscountAmount(gross int64) int64 {
	var d int64
	switch c.discountType {
	case DiscountPercentage:
		d = decimal.NewFromInt(gross).
			Mul(c.value).
			Div(decimal.NewFromInt(100)).
			Floor().
			IntPart()
		if c.maxDiscount != nil && d > *c.maxDiscount {
			d = *c.maxDiscount
		}
	case DiscountFlat:
		d = c.value.Floor().IntPart()
	}
	if d > gross {
		d = gross
	}
	if d < 0 {
		d = 0
	}
	return d
}

func (c *Coupon) ID() uuid.UUID              { return c.id }
func (c *Coupon) Code() Code                 { return c.code }
func (c *Coupon) DiscountType() DiscountType { return c.discountType }
func (c *Coupon) UsageCount() int32          { return c.usageCount }
func (c *Coupon) UsageLimit() *int32         { return c.usageLimit }

// endOfDayExclusive returns midnight after t's calendar day: a coupon with
// endsAt = D is usable through D 23:59:59.999... and rejected from D+1 00:00:00.
func endOfDayExclusive(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

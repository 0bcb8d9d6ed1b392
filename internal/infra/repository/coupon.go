package repository

import (
	"context"
	"time"

	"stayhub/internal/domain/coupon"
	"stayhub/internal/infra"
	"stayhub/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponRepository struct {
	db db.DBTX
}

func NewCouponRepository(db db.DBTX) *CouponRepository {
	return &CouponRepository{db: db}
}

const findCouponByCode = `
SELECT id, code, discount_type, discount_value, max_discount, min_amount,
       starts_at, ends_at, active, usage_limit, usage_count
FROM coupons
WHERE code = $1
`

func (r *CouponRepository) FindByCode(ctx context.Context, code coupon.Code) (*coupon.Coupon, error) {
	var (
		id           uuid.UUID
		rawCode      string
		discountType string
		value        decimal.Decimal
		maxDiscount  *int64
		minAmount    int64
		startsAt     *time.Time
		endsAt       *time.Time
		active       bool
		usageLimit   *int32
		usageCount   int32
	)
	err := r.db.QueryRow(ctx, findCouponByCode, code.String()).Scan(
		&id, &rawCode, &discountType, &value, &maxDiscount, &minAmount,
		&startsAt, &endsAt, &active, &usageLimit, &usageCount,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find coupon", err)
	}
	c, err := coupon.New(id, rawCode, discountType, value, maxDiscount, minAmount, startsAt, endsAt, active, usageLimit, usageCount)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid coupon in storage", err, infra.KindDBFailure)
	}
	return c, nil
}

const incrementCouponUsage = `
UPDATE coupons
SET usage_count = usage_count + 1
WHERE id = $1
  AND (usage_limit IS NULL OR usage_count < usage_limit)
`

// IncrementUsage bumps the redemption counter under the usage-limit guard.
// The coupon row was read in the same transaction, so an unaffected update
// means the guard rejected the bump, not that the coupon vanished.
func (r *CouponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, incrementCouponUsage, id)
	if err != nil {
		return infra.WrapRepoErr("failed to increment coupon usage", err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrUsageLimitReached
	}
	return nil
}

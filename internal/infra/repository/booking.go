package repository

import (
	"context"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/pricing"
	"stayhub/internal/infra"
	"stayhub/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(db db.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

const createBooking = `
INSERT INTO bookings (
	id, code, guest_id, property_id, partner_id, room_type_id,
	check_in, check_out, adults, children, units, coupon_code,
	price_base, price_extras, price_gross, price_discount, price_net,
	price_tax, price_total, price_commission, price_payout,
	status, payment_status, created_at, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6,
	$7, $8, $9, $10, $11, $12,
	$13, $14, $15, $16, $17,
	$18, $19, $20, $21,
	$22, $23, $24, $25
)
`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx, createBooking,
		b.ID, b.Code, b.GuestID, b.PropertyID, b.PartnerID, b.RoomTypeID,
		b.Stay.CheckIn(), b.Stay.CheckOut(), b.Guests.Adults, b.Guests.Children, b.Units, b.CouponCode,
		b.Price.Base, b.Price.Extras, b.Price.Gross, b.Price.Discount, b.Price.Net,
		b.Price.Tax, b.Price.Total, b.Price.Commission, b.Price.Payout,
		b.Status, b.PaymentStatus, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

const bookingColumns = `
	id, code, guest_id, property_id, partner_id, room_type_id,
	check_in, check_out, adults, children, units, coupon_code,
	price_base, price_extras, price_gross, price_discount, price_net,
	price_tax, price_total, price_commission, price_payout,
	status, payment_status, gateway_order_id, gateway_payment_id,
	cancelled_at, cancelled_by, cancel_reason, created_at, updated_at
`

const lockBookingByID = `SELECT` + bookingColumns + `FROM bookings WHERE id = $1 FOR UPDATE`
const lockBookingByCode = `SELECT` + bookingColumns + `FROM bookings WHERE code = $1 FOR UPDATE`

func (r *BookingRepository) LockByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, lockBookingByID, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock booking by id", err)
	}
	return b, nil
}

func (r *BookingRepository) LockByCode(ctx context.Context, code string) (*booking.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, lockBookingByCode, code))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock booking by code", err)
	}
	return b, nil
}

const updateBooking = `
UPDATE bookings SET
	status = $2,
	payment_status = $3,
	gateway_order_id = $4,
	gateway_payment_id = $5,
	cancelled_at = $6,
	cancelled_by = $7,
	cancel_reason = $8,
	updated_at = $9
WHERE id = $1
`

// Update persists only the mutable state-machine fields; pricing and stay
// are immutable after creation.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx, updateBooking,
		b.ID, b.Status, b.PaymentStatus,
		b.GatewayOrderID, b.GatewayPaymentID,
		b.CancelledAt, b.CancelledBy, b.CancelReason,
		b.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found for update", pgx.ErrNoRows)
	}
	return nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		b                  booking.Booking
		checkIn, checkOut  time.Time
		price              pricing.Breakdown
	)
	err := row.Scan(
		&b.ID, &b.Code, &b.GuestID, &b.PropertyID, &b.PartnerID, &b.RoomTypeID,
		&checkIn, &checkOut, &b.Guests.Adults, &b.Guests.Children, &b.Units, &b.CouponCode,
		&price.Base, &price.Extras, &price.Gross, &price.Discount, &price.Net,
		&price.Tax, &price.Total, &price.Commission, &price.Payout,
		&b.Status, &b.PaymentStatus, &b.GatewayOrderID, &b.GatewayPaymentID,
		&b.CancelledAt, &b.CancelledBy, &b.CancelReason, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	stay, err := booking.NewStayRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}
	b.Stay = stay
	b.Price = price
	return &b, nil
}

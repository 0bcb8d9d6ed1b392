package readstore

import (
	"context"

	"stayhub/internal/infra"
	"stayhub/internal/infra/db"
	"stayhub/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(db db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

const bookingViewColumns = `
	id, code, guest_id, property_id, room_type_id,
	check_in, check_out, adults, children, units,
	price_base, price_extras, price_discount, price_tax,
	price_commission, price_payout, price_total,
	coupon_code, status, payment_status,
	cancelled_at, cancel_reason, created_at, updated_at
`

const findBookingViewByID = `SELECT` + bookingViewColumns + `FROM bookings WHERE id = $1`
const findBookingViewByCode = `SELECT` + bookingViewColumns + `FROM bookings WHERE code = $1`

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	return scanBookingView(s.db.QueryRow(ctx, findBookingViewByID, id))
}

func (s *BookingReadStore) FindByCode(ctx context.Context, code string) (*queries.BookingView, error) {
	return scanBookingView(s.db.QueryRow(ctx, findBookingViewByCode, code))
}

const findBookingsByGuest = `
SELECT id, code, room_type_id, check_in, check_out, price_total, status, payment_status, created_at
FROM bookings
WHERE guest_id = $1
ORDER BY created_at DESC
LIMIT $2
`

func (s *BookingReadStore) FindByGuestID(ctx context.Context, guestID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := s.db.Query(ctx, findBookingsByGuest, guestID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query bookings by guest", err)
	}
	defer rows.Close()

	items := make([]*queries.BookingListItem, 0)
	for rows.Next() {
		var it queries.BookingListItem
		if err := rows.Scan(
			&it.ID, &it.Code, &it.RoomTypeID,
			&it.CheckIn, &it.CheckOut, &it.TotalAmount,
			&it.Status, &it.PaymentStatus, &it.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return items, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var v queries.BookingView
	err := row.Scan(
		&v.ID, &v.Code, &v.GuestID, &v.PropertyID, &v.RoomTypeID,
		&v.CheckIn, &v.CheckOut, &v.Adults, &v.Children, &v.Units,
		&v.BaseAmount, &v.ExtrasAmount, &v.DiscountAmount, &v.TaxAmount,
		&v.CommissionAmount, &v.PayoutAmount, &v.TotalAmount,
		&v.CouponCode, &v.Status, &v.PaymentStatus,
		&v.CancelledAt, &v.CancelReason, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return &v, nil
}

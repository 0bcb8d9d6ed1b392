package queries

import (
	"context"
	"time"

	"stayhub/internal/infra"
	"stayhub/internal/pkg/errs"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID               uuid.UUID  `json:"id"`
	Code             string     `json:"code"`
	GuestID          uuid.UUID  `json:"guest_id"`
	PropertyID       uuid.UUID  `json:"property_id"`
	RoomTypeID       uuid.UUID  `json:"room_type_id"`
	CheckIn          time.Time  `json:"check_in"`
	CheckOut         time.Time  `json:"check_out"`
	Adults           int        `json:"adults"`
	Children         int        `json:"children"`
	Units            int        `json:"units"`
	BaseAmount       int64      `json:"base_amount"`
	ExtrasAmount     int64      `json:"extras_amount"`
	DiscountAmount   int64      `json:"discount_amount"`
	TaxAmount        int64      `json:"tax_amount"`
	CommissionAmount int64      `json:"commission_amount"`
	PayoutAmount     int64      `json:"payout_amount"`
	TotalAmount      int64      `json:"total_amount"`
	CouponCode       *string    `json:"coupon_code,omitempty"`
	Status           string     `json:"status"`
	PaymentStatus    string     `json:"payment_status"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CancelReason     *string    `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type BookingListItem struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	RoomTypeID    uuid.UUID `json:"room_type_id"`
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	TotalAmount   int64     `json:"total_amount"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByCode(ctx context.Context, code string) (*BookingView, error)
	FindByGuestID(ctx context.Context, guestID uuid.UUID, limit int32) ([]*BookingListItem, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	GetByCode(ctx context.Context, code string) (*BookingView, error)
	ListByGuest(ctx context.Context, guestID uuid.UUID, limit int32) ([]*BookingListItem, error)
}

type bookingQueries struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueries{store: store}
}

func (q *bookingQueries) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueries) GetByCode(ctx context.Context, code string) (*BookingView, error) {
	view, err := q.store.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueries) ListByGuest(ctx context.Context, guestID uuid.UUID, limit int32) ([]*BookingListItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return q.store.FindByGuestID(ctx, guestID, limit)
}

package response

import (
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type PriceResponse struct {
	Base       int64 `json:"base"`
	Extras     int64 `json:"extras"`
	Discount   int64 `json:"discount"`
	Tax        int64 `json:"tax"`
	Total      int64 `json:"total"`
	Commission int64 `json:"commission"`
	Payout     int64 `json:"payout"`
}

type BookingResponse struct {
	ID            uuid.UUID     `json:"id"`
	Code          string        `json:"code"`
	RoomTypeID    uuid.UUID     `json:"roomTypeId"`
	CheckIn       string        `json:"checkIn"`
	CheckOut      string        `json:"checkOut"`
	Adults        int           `json:"adults"`
	Children      int           `json:"children"`
	Units         int           `json:"units"`
	Price         PriceResponse `json:"price"`
	CouponCode    *string       `json:"couponCode,omitempty"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"paymentStatus"`
	CancelReason  *string       `json:"cancelReason,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type BookingListResponse struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	RoomTypeID    uuid.UUID `json:"roomTypeId"`
	CheckIn       string    `json:"checkIn"`
	CheckOut      string    `json:"checkOut"`
	Total         int64     `json:"total"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}

func FromBooking(b *booking.Booking) *BookingResponse {
	return &BookingResponse{
		ID:         b.ID,
		Code:       b.Code,
		RoomTypeID: b.RoomTypeID,
		CheckIn:    b.Stay.CheckIn().Format(time.DateOnly),
		CheckOut:   b.Stay.CheckOut().Format(time.DateOnly),
		Adults:     b.Guests.Adults,
		Children:   b.Guests.Children,
		Units:      b.Units,
		Price: PriceResponse{
			Base:       b.Price.Base,
			Extras:     b.Price.Extras,
			Discount:   b.Price.Discount,
			Tax:        b.Price.Tax,
			Total:      b.Price.Total,
			Commission: b.Price.Commission,
			Payout:     b.Price.Payout,
		},
		CouponCode:    b.CouponCode,
		Status:        b.Status.String(),
		PaymentStatus: b.PaymentStatus.String(),
		CancelReason:  b.CancelReason,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:         v.ID,
		Code:       v.Code,
		RoomTypeID: v.RoomTypeID,
		CheckIn:    v.CheckIn.Format(time.DateOnly),
		CheckOut:   v.CheckOut.Format(time.DateOnly),
		Adults:     v.Adults,
		Children:   v.Children,
		Units:      v.Units,
		Price: PriceResponse{
			Base:       v.BaseAmount,
			Extras:     v.ExtrasAmount,
			Discount:   v.DiscountAmount,
			Tax:        v.TaxAmount,
			Total:      v.TotalAmount,
			Commission: v.CommissionAmount,
			Payout:     v.PayoutAmount,
		},
		CouponCode:    v.CouponCode,
		Status:        v.Status,
		PaymentStatus: v.PaymentStatus,
		CancelReason:  v.CancelReason,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func FromBookingListItem(it *queries.BookingListItem) *BookingListResponse {
	return &BookingListResponse{
		ID:            it.ID,
		Code:          it.Code,
		RoomTypeID:    it.RoomTypeID,
		CheckIn:       it.CheckIn.Format(time.DateOnly),
		CheckOut:      it.CheckOut.Format(time.DateOnly),
		Total:         it.TotalAmount,
		Status:        it.Status,
		PaymentStatus: it.PaymentStatus,
		CreatedAt:     it.CreatedAt,
	}
}

package booking

import (
	"errors"
	"time"

	"stayhub/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrTransitionNotAllowed = errors.New("transition not allowed from current status")
	ErrAlreadyPaid          = errors.New("booking is already paid")
	ErrNotPaid              = errors.New("booking is not paid")
	ErrCancellationClosed   = errors.New("cancellation window has closed")
)

type Booking struct {
	ID               uuid.UUID
	Code             string
	GuestID          uuid.UUID
	PropertyID       uuid.UUID
	PartnerID        uuid.UUID
	RoomTypeID       uuid.UUID
	Stay             StayRange
	Guests           GuestCount
	Units            int
	Price            pricing.Breakdown
	CouponCode       *string
	Status           Status
	PaymentStatus    PaymentStatus
	GatewayOrderID   *string
	GatewayPaymentID *string
	CancelledAt      *time.Time
	CancelledBy      *uuid.UUID
	CancelReason     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func NewBooking(
	guestID, propertyID, partnerID, roomTypeID uuid.UUID,
	stay StayRange,
	guests GuestCount,
	units int,
	price pricing.Breakdown,
	couponCode *string,
	now time.Time,
) (*Booking, error) {
	if units < 1 {
		return nil, ErrInvalidReservedUnits
	}
	return &Booking{
		ID:            uuid.New(),
		Code:          NewBookingCode(),
		GuestID:       guestID,
		PropertyID:    propertyID,
		PartnerID:     partnerID,
		RoomTypeID:    roomTypeID,
		Stay:          stay,
		Guests:        guests,
		Units:         units,
		Price:         price,
		CouponCode:    couponCode,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ConfirmPayment records a successful gateway capture: pending/pending
// becomes confirmed/paid. Confirmation of a cancelled booking is rejected;
// a second confirmation reports ErrAlreadyPaid so webhook replays can be
// treated as no-ops by the caller.
func (b *Booking) ConfirmPayment(orderID, paymentID string, now time.Time) error {
	if b.Status == StatusCancelled {
		return ErrTransitionNotAllowed
	}
	if b.PaymentStatus == PaymentPaid {
		return ErrAlreadyPaid
	}
	if b.PaymentStatus == PaymentRefunded {
		return ErrTransitionNotAllowed
	}
	b.PaymentStatus = PaymentPaid
	b.Status = StatusConfirmed
	b.GatewayOrderID = &orderID
	b.GatewayPaymentID = &paymentID
	b.UpdatedAt = now
	return nil
}

// MarkPaidAtProperty records cash collected by the partner at check-in.
// No gateway event is involved; the platform recovers its commission from
// the partner wallet separately.
func (b *Booking) MarkPaidAtProperty(now time.Time) error {
	if b.Status == StatusCancelled {
		return ErrTransitionNotAllowed
	}
	if b.PaymentStatus != PaymentPending {
		return ErrAlreadyPaid
	}
	b.PaymentStatus = PaymentPaid
	if b.Status == StatusPending {
		b.Status = StatusConfirmed
	}
	b.UpdatedAt = now
	return nil
}

// CancellableBy checks the transition guard without applying it. Non-admin
// actors may only cancel strictly before the check-in date; the comparison
// is date-only, so a same-day cancellation is blocked for ordinary guests.
func (b *Booking) CancellableBy(now time.Time, isAdmin bool) error {
	switch b.Status {
	case StatusCancelled, StatusCompleted, StatusCheckedOut:
		return ErrTransitionNotAllowed
	}
	if !isAdmin {
		today := TruncateToDay(now)
		if !today.Before(b.Stay.CheckIn()) {
			return ErrCancellationClosed
		}
	}
	return nil
}

// Cancel applies the cancellation. Refunded reports whether money needs to
// move back (the booking had been paid).
func (b *Booking) Cancel(actorID uuid.UUID, isAdmin bool, reason *string, now time.Time) (refunded bool, err error) {
	if err := b.CancellableBy(now, isAdmin); err != nil {
		return false, err
	}
	refunded = b.PaymentStatus == PaymentPaid
	if refunded {
		b.PaymentStatus = PaymentRefunded
	}
	b.Status = StatusCancelled
	b.CancelledAt = &now
	b.CancelledBy = &actorID
	b.CancelReason = reason
	b.UpdatedAt = now
	return refunded, nil
}

// MarkNoShow releases the stay without touching money; the payment status
// is left as is.
func (b *Booking) MarkNoShow(now time.Time) error {
	switch b.Status {
	case StatusCancelled, StatusCompleted, StatusNoShow:
		return ErrTransitionNotAllowed
	}
	b.Status = StatusNoShow
	b.UpdatedAt = now
	return nil
}

func (b *Booking) CheckIn(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrTransitionNotAllowed
	}
	b.Status = StatusCheckedIn
	b.UpdatedAt = now
	return nil
}

func (b *Booking) CheckOut(now time.Time) error {
	if b.Status != StatusCheckedIn {
		return ErrTransitionNotAllowed
	}
	b.Status = StatusCheckedOut
	b.UpdatedAt = now
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusConfirmed && b.Status != StatusCheckedOut {
		return ErrTransitionNotAllowed
	}
	b.Status = StatusCompleted
	b.UpdatedAt = now
	return nil
}

func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid
}

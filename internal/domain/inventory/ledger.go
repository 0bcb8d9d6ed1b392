// Package inventory owns per-day unit occupancy for a room type. It has no
// concept of money: a reservation here is N units held for a half-open date
// range on behalf of a booking.
package inventory

import (
	"fmt"
	"time"

	"stayhub/internal/domain/booking"

	"github.com/google/uuid"
)

// Source tags where a reservation came from; bookings are the only source
// in this core, but partner-side blocks use the same ledger.
type Source string

const (
	SourceBooking Source = "booking"
	SourceBlock   Source = "block"
)

type Reservation struct {
	ID         uuid.UUID
	RoomTypeID uuid.UUID
	BookingID  uuid.UUID
	Stay       booking.StayRange
	Units      int
	Source     Source
	CreatedAt  time.Time
}

func NewReservation(roomTypeID, bookingID uuid.UUID, stay booking.StayRange, units int, now time.Time) (*Reservation, error) {
	if units < 1 {
		return nil, booking.ErrInvalidReservedUnits
	}
	return &Reservation{
		ID:         uuid.New(),
		RoomTypeID: roomTypeID,
		BookingID:  bookingID,
		Stay:       stay,
		Units:      units,
		Source:     SourceBooking,
		CreatedAt:  now,
	}, nil
}

// OutOfInventoryError reports the first calendar day on which granting the
// request would exceed the room type's fixed capacity.
type OutOfInventoryError struct {
	Date     time.Time
	Capacity int
}

func (e *OutOfInventoryError) Error() string {
	return fmt.Sprintf("out of inventory on %s (capacity %d)", e.Date.Format(time.DateOnly), e.Capacity)
}

// CheckCapacity verifies that reserving `requested` units for `stay` keeps
// every day of the range within `capacity`, given the already-committed
// reservations. The check is all-or-nothing: the first violating day fails
// the whole request. Day granularity is half-open, so the checkout day of
// an existing stay does not count against the arrival day of a new one.
func CheckCapacity(existing []*Reservation, stay booking.StayRange, requested, capacity int) error {
	for _, day := range stay.Days() {
		occupied := 0
		for _, r := range existing {
			if r.Stay.Contains(day) {
				occupied += r.Units
			}
		}
		if occupied+requested > capacity {
			return &OutOfInventoryError{Date: day, Capacity: capacity}
		}
	}
	return nil
}

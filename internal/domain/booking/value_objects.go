package booking

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

var (
	ErrInvalidStayRange       = errors.New("check-out must be after check-in")
	ErrInvalidGuestCount      = errors.New("at least one adult is required")
	ErrGuestCapacityExceeded  = errors.New("guest count exceeds room capacity")
	ErrInvalidReservedUnits   = errors.New("reserved units must be at least 1")
	ErrStayRangeNotDayAligned = errors.New("stay dates must be calendar days")
)

// StayRange is a half-open calendar-day interval [checkIn, checkOut).
// The check-out day is not occupied: a stay departing the day another
// arrives does not conflict.
type StayRange struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewStayRange(checkIn, checkOut time.Time) (StayRange, error) {
	in := TruncateToDay(checkIn)
	out := TruncateToDay(checkOut)
	if !out.After(in) {
		return StayRange{}, ErrInvalidStayRange
	}
	return StayRange{checkIn: in, checkOut: out}, nil
}

func (r StayRange) CheckIn() time.Time  { return r.checkIn }
func (r StayRange) CheckOut() time.Time { return r.checkOut }

func (r StayRange) Nights() int {
	return int(r.checkOut.Sub(r.checkIn).Hours() / 24)
}

// Contains reports whether day d is occupied: checkIn <= d < checkOut.
func (r StayRange) Contains(d time.Time) bool {
	d = TruncateToDay(d)
	return !d.Before(r.checkIn) && d.Before(r.checkOut)
}

func (r StayRange) Overlaps(o StayRange) bool {
	return r.checkIn.Before(o.checkOut) && o.checkIn.Before(r.checkOut)
}

// Days enumerates every occupied day of the stay, in order.
func (r StayRange) Days() []time.Time {
	days := make([]time.Time, 0, r.Nights())
	for d := r.checkIn; d.Before(r.checkOut); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (r StayRange) String() string {
	return fmt.Sprintf("[%s,%s)", r.checkIn.Format(time.DateOnly), r.checkOut.Format(time.DateOnly))
}

// TruncateToDay normalizes a timestamp to UTC midnight of its calendar day.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type GuestCount struct {
	Adults   int
	Children int
}

func NewGuestCount(adults, children int) (GuestCount, error) {
	if adults < 1 || children < 0 {
		return GuestCount{}, ErrInvalidGuestCount
	}
	return GuestCount{Adults: adults, Children: children}, nil
}

// ValidateCapacity enforces the resort occupancy rule: adults within the
// adult cap, and total guests within the combined cap (children may take
// unused adult slots but not the other way around).
func (g GuestCount) ValidateCapacity(maxAdults, maxChildren int) error {
	if g.Adults > maxAdults {
		return ErrGuestCapacityExceeded
	}
	if g.Adults+g.Children > maxAdults+maxChildren {
		return ErrGuestCapacityExceeded
	}
	return nil
}

func (g GuestCount) Total() int {
	return g.Adults + g.Children
}

const bookingCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewBookingCode generates the human-facing reference, e.g. "BK-7GQ2MD9RTX".
// Uniqueness is enforced by the store; collisions surface as duplicate-key
// errors and the caller retries.
func NewBookingCode() string {
	buf := make([]byte, 10)
	max := big.NewInt(int64(len(bookingCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failure is unrecoverable for code generation
			panic(fmt.Sprintf("booking code generation: %v", err))
		}
		buf[i] = bookingCodeAlphabet[n.Int64()]
	}
	return "BK-" + string(buf)
}

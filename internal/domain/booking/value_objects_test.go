//go:build unit

package booking_test

import (
	"strings"
	"testing"
	"time"

	"stayhub/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stay(t *testing.T, checkIn, checkOut time.Time) booking.StayRange {
	t.Helper()
	r, err := booking.NewStayRange(checkIn, checkOut)
	require.NoError(t, err)
	return r
}

func TestStayRange(t *testing.T) {
	t.Run("timestamps truncate to calendar days", func(t *testing.T) {
		r, err := booking.NewStayRange(
			time.Date(2026, 7, 1, 15, 30, 0, 0, time.UTC),
			time.Date(2026, 7, 4, 11, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Equal(t, day(2026, 7, 1), r.CheckIn())
		assert.Equal(t, day(2026, 7, 4), r.CheckOut())
		assert.Equal(t, 3, r.Nights())
	})

	t.Run("check-out must be after check-in", func(t *testing.T) {
		_, err := booking.NewStayRange(day(2026, 7, 1), day(2026, 7, 1))
		assert.ErrorIs(t, err, booking.ErrInvalidStayRange)

		_, err = booking.NewStayRange(day(2026, 7, 2), day(2026, 7, 1))
		assert.ErrorIs(t, err, booking.ErrInvalidStayRange)
	})

	t.Run("check-out day is not occupied", func(t *testing.T) {
		r := stay(t, day(2026, 7, 1), day(2026, 7, 3))
		assert.True(t, r.Contains(day(2026, 7, 1)))
		assert.True(t, r.Contains(day(2026, 7, 2)))
		assert.False(t, r.Contains(day(2026, 7, 3)))
	})

	t.Run("back to back stays do not overlap", func(t *testing.T) {
		a := stay(t, day(2026, 7, 1), day(2026, 7, 3))
		b := stay(t, day(2026, 7, 3), day(2026, 7, 5))
		assert.False(t, a.Overlaps(b))
		assert.False(t, b.Overlaps(a))

		c := stay(t, day(2026, 7, 2), day(2026, 7, 4))
		assert.True(t, a.Overlaps(c))
	})

	t.Run("days enumerates occupied nights", func(t *testing.T) {
		r := stay(t, day(2026, 7, 1), day(2026, 7, 4))
		days := r.Days()
		require.Len(t, days, 3)
		assert.Equal(t, day(2026, 7, 1), days[0])
		assert.Equal(t, day(2026, 7, 3), days[2])
	})
}

func TestGuestCount(t *testing.T) {
	t.Run("at least one adult", func(t *testing.T) {
		_, err := booking.NewGuestCount(0, 2)
		assert.ErrorIs(t, err, booking.ErrInvalidGuestCount)

		_, err = booking.NewGuestCount(1, -1)
		assert.ErrorIs(t, err, booking.ErrInvalidGuestCount)
	})

	t.Run("capacity rules", func(t *testing.T) {
		cases := []struct {
			name     string
			adults   int
			children int
			wantErr  bool
		}{
			{"within caps", 2, 2, false},
			{"children may use adult slots", 2, 3, false},
			{"adults may not use child slots", 4, 0, true},
			{"combined cap exceeded", 3, 3, true},
			{"exactly at combined cap", 3, 2, false},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				g, err := booking.NewGuestCount(tc.adults, tc.children)
				require.NoError(t, err)
				err = g.ValidateCapacity(3, 2)
				if tc.wantErr {
					assert.ErrorIs(t, err, booking.ErrGuestCapacityExceeded)
				} else {
					assert.NoError(t, err)
				}
			})
		}
	})
}

func TestNewBookingCode(t *testing.T) {
	code := booking.NewBookingCode()
	assert.True(t, strings.HasPrefix(code, "BK-"))
	assert.Len(t, code, 13)
	// Ambiguous characters are excluded from the alphabet
	assert.NotContains(t, code[3:], "0")
	assert.NotContains(t, code[3:], "O")
	assert.NotContains(t, code[3:], "1")
	assert.NotContains(t, code[3:], "I")

	assert.NotEqual(t, code, booking.NewBookingCode())
}

//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/coupon"
	"stayhub/internal/domain/wallet"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	uow      *fakeUoW
	clock    *clock.MockClock
	cfg      config.Config
	bookings commands.BookingCommands
	roomType shared.RoomTypeSnapshot
	guestID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	uow := newFakeUoW()
	clk := clock.NewMockClock(time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
	cfg := config.NewTestConfig()

	rt := shared.RoomTypeSnapshot{
		ID:             uuid.New(),
		PropertyID:     uuid.New(),
		PartnerID:      uuid.New(),
		TotalInventory: 2,
		BaseOccupancy:  2,
		BaseRate:       500,
		ExtraAdultRate: 200,
		ExtraChildRate: 100,
		MaxAdults:      3,
		MaxChildren:    2,
	}
	uow.addRoomType(rt)

	return &fixture{
		uow:      uow,
		clock:    clk,
		cfg:      cfg,
		bookings: commands.NewBookingCommands(uow, clk, cfg),
		roomType: rt,
		guestID:  uuid.New(),
	}
}

func (f *fixture) createParams() commands.CreateBookingParams {
	return commands.CreateBookingParams{
		GuestID:    f.guestID,
		RoomTypeID: f.roomType.ID,
		CheckIn:    day(2026, 7, 1),
		CheckOut:   day(2026, 7, 3),
		Adults:     2,
		Children:   0,
		Units:      1,
	}
}

func TestCreateBooking(t *testing.T) {
	t.Run("creates booking with reservation and priced breakdown", func(t *testing.T) {
		f := newFixture(t)

		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		assert.Equal(t, booking.StatusPending, b.Status)
		assert.Equal(t, booking.PaymentPending, b.PaymentStatus)
		assert.Equal(t, f.roomType.PartnerID, b.PartnerID)

		// 2 nights * 500
		assert.Equal(t, int64(1000), b.Price.Gross)
		// ceil(1000 * 0.18), ceil(1000 * 0.10)
		assert.Equal(t, int64(180), b.Price.Tax)
		assert.Equal(t, int64(100), b.Price.Commission)
		assert.Equal(t, int64(1180), b.Price.Total)
		assert.Equal(t, int64(900), b.Price.Payout)

		stored, ok := f.uow.booking(b.ID)
		require.True(t, ok)
		assert.Equal(t, b.Code, stored.Code)

		res := f.uow.reservationsFor(b.ID)
		require.Len(t, res, 1)
		assert.Equal(t, 1, res[0].Units)

		require.Len(t, f.uow.state.jobs, 1)
		assert.Equal(t, "booking_created", f.uow.state.jobs[0].Topic)
	})

	t.Run("extra guests are charged beyond base occupancy", func(t *testing.T) {
		f := newFixture(t)
		p := f.createParams()
		p.Adults = 3
		p.Children = 1

		b, err := f.bookings.Create(context.Background(), p)
		require.NoError(t, err)

		// (1 extra adult * 200 + 1 child * 100) * 2 nights
		assert.Equal(t, int64(600), b.Price.Extras)
		assert.Equal(t, int64(1600), b.Price.Gross)
	})

	t.Run("oversell is rejected and leaves no trace", func(t *testing.T) {
		f := newFixture(t)
		p := f.createParams()
		p.Units = 2

		_, err := f.bookings.Create(context.Background(), p)
		require.NoError(t, err)

		p2 := f.createParams()
		_, err = f.bookings.Create(context.Background(), p2)
		assert.ErrorIs(t, err, errs.ErrOutOfInventory)

		assert.Len(t, f.uow.state.bookings, 1)
		assert.Len(t, f.uow.state.reservations, 1)
	})

	t.Run("checkout day is reusable", func(t *testing.T) {
		f := newFixture(t)
		p := f.createParams()
		p.Units = 2
		_, err := f.bookings.Create(context.Background(), p)
		require.NoError(t, err)

		// Full house until July 3; arriving July 3 is fine.
		p2 := f.createParams()
		p2.CheckIn = day(2026, 7, 3)
		p2.CheckOut = day(2026, 7, 5)
		p2.Units = 2
		_, err = f.bookings.Create(context.Background(), p2)
		assert.NoError(t, err)
	})

	t.Run("unknown room type", func(t *testing.T) {
		f := newFixture(t)
		p := f.createParams()
		p.RoomTypeID = uuid.New()

		_, err := f.bookings.Create(context.Background(), p)
		assert.ErrorIs(t, err, errs.ErrRoomTypeNotFound)
	})

	t.Run("guest capacity enforced against room type", func(t *testing.T) {
		f := newFixture(t)
		p := f.createParams()
		p.Adults = 4

		_, err := f.bookings.Create(context.Background(), p)
		assert.ErrorIs(t, err, errs.ErrDomainValidation)
	})

	t.Run("coupon discount applies and usage is counted", func(t *testing.T) {
		f := newFixture(t)
		maxDiscount := int64(150)
		c, err := coupon.New(
			uuid.New(), "SUMMER20", "percentage", decimal.NewFromInt(20),
			&maxDiscount, 0, nil, nil, true, nil, 0,
		)
		require.NoError(t, err)
		f.uow.addCoupon(c)

		p := f.createParams()
		code := "summer20"
		p.CouponCode = &code

		b, err := f.bookings.Create(context.Background(), p)
		require.NoError(t, err)

		assert.Equal(t, int64(150), b.Price.Discount)
		assert.Equal(t, int64(850), b.Price.Net)
		assert.Equal(t, int64(153), b.Price.Tax)
		assert.Equal(t, int64(1003), b.Price.Total)
		require.NotNil(t, b.CouponCode)
		assert.Equal(t, "SUMMER20", *b.CouponCode)
		assert.Equal(t, int32(1), f.uow.state.couponUsage[c.ID()])
	})

	t.Run("exhausted coupon fails the booking atomically", func(t *testing.T) {
		f := newFixture(t)
		limit := int32(1)
		c, err := coupon.New(
			uuid.New(), "ONCE", "flat", decimal.NewFromInt(100),
			nil, 0, nil, nil, true, &limit, 1,
		)
		require.NoError(t, err)
		f.uow.addCoupon(c)

		p := f.createParams()
		code := "ONCE"
		p.CouponCode = &code

		_, err = f.bookings.Create(context.Background(), p)
		assert.ErrorIs(t, err, errs.ErrCouponInvalid)
		assert.Empty(t, f.uow.state.bookings)
		assert.Empty(t, f.uow.state.reservations)
	})

	t.Run("unknown coupon code", func(t *testing.T) {
		f := newFixture(t)
		p := f.createParams()
		code := "NOSUCH"
		p.CouponCode = &code

		_, err := f.bookings.Create(context.Background(), p)
		assert.ErrorIs(t, err, errs.ErrCouponNotFound)
	})
}

func TestCancelBooking(t *testing.T) {
	t.Run("guest cancels own unpaid booking", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		cancelled, err := f.bookings.Cancel(context.Background(), b.ID, f.guestID, false, nil)
		require.NoError(t, err)

		assert.Equal(t, booking.StatusCancelled, cancelled.Status)
		assert.Empty(t, f.uow.reservationsFor(b.ID))
		// No money moved, so no wallets should exist
		assert.Empty(t, f.uow.state.wallets)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		_, err = f.bookings.Cancel(context.Background(), b.ID, uuid.New(), false, nil)
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("same-day guest cancellation rejected, admin allowed", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		f.clock.Set(day(2026, 7, 1).Add(6 * time.Hour))

		_, err = f.bookings.Cancel(context.Background(), b.ID, f.guestID, false, nil)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)

		_, err = f.bookings.Cancel(context.Background(), b.ID, uuid.New(), true, nil)
		assert.NoError(t, err)
	})
}

func TestCollectCash(t *testing.T) {
	t.Run("partner collects cash, commission recovered from wallet", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		updated, err := f.bookings.CollectCash(context.Background(), b.ID, f.roomType.PartnerID)
		require.NoError(t, err)

		assert.Equal(t, booking.PaymentPaid, updated.PaymentStatus)
		assert.Equal(t, booking.StatusConfirmed, updated.Status)

		w, ok := f.uow.wallet(f.roomType.PartnerID, wallet.RolePartner)
		require.True(t, ok)
		// Commission 100 clawed back from an empty wallet
		assert.Equal(t, int64(-100), w.Balance)
		// Partner earned total minus commission in cash
		assert.Equal(t, int64(1080), w.TotalEarnings)
	})

	t.Run("repeat collection is idempotent", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		_, err = f.bookings.CollectCash(context.Background(), b.ID, f.roomType.PartnerID)
		require.NoError(t, err)

		_, err = f.bookings.CollectCash(context.Background(), b.ID, f.roomType.PartnerID)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)

		w, _ := f.uow.wallet(f.roomType.PartnerID, wallet.RolePartner)
		assert.Equal(t, int64(-100), w.Balance)
		assert.Len(t, f.uow.entriesFor(f.roomType.PartnerID, wallet.RolePartner), 1)
	})

	t.Run("wrong partner rejected", func(t *testing.T) {
		f := newFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		_, err = f.bookings.CollectCash(context.Background(), b.ID, uuid.New())
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})
}

func TestMarkNoShow(t *testing.T) {
	f := newFixture(t)
	b, err := f.bookings.Create(context.Background(), f.createParams())
	require.NoError(t, err)

	updated, err := f.bookings.MarkNoShow(context.Background(), b.ID, f.roomType.PartnerID)
	require.NoError(t, err)

	assert.Equal(t, booking.StatusNoShow, updated.Status)
	assert.Empty(t, f.uow.reservationsFor(b.ID))
	assert.Empty(t, f.uow.state.wallets)
}

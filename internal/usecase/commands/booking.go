package commands

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/coupon"
	"stayhub/internal/domain/inventory"
	"stayhub/internal/domain/pricing"
	"stayhub/internal/infra"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingParams struct {
	GuestID    uuid.UUID
	RoomTypeID uuid.UUID
	CheckIn    time.Time
	CheckOut   time.Time
	Adults     int
	Children   int
	Units      int
	CouponCode *string
}

type BookingCommands interface {
	Create(ctx context.Context, p CreateBookingParams) (*booking.Booking, error)
	Cancel(ctx context.Context, bookingID, actorID uuid.UUID, isAdmin bool, reason *string) (*booking.Booking, error)
	CollectCash(ctx context.Context, bookingID, actorPartnerID uuid.UUID) (*booking.Booking, error)
	MarkNoShow(ctx context.Context, bookingID, actorPartnerID uuid.UUID) (*booking.Booking, error)
	CheckIn(ctx context.Context, bookingID, actorPartnerID uuid.UUID) (*booking.Booking, error)
	CheckOut(ctx context.Context, bookingID, actorPartnerID uuid.UUID) (*booking.Booking, error)
	Complete(ctx context.Context, bookingID, actorPartnerID uuid.UUID) (*booking.Booking, error)
}

type bookingCommands struct {
	uow        shared.UnitOfWork
	clock      clock.Clock
	pricingCfg config.PricingConfig
}

func NewBookingCommands(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) BookingCommands {
	return &bookingCommands{
		uow:        uow,
		clock:      clk,
		pricingCfg: cfg.Pricing,
	}
}

// Create reserves inventory, prices the stay and persists the booking as
// one atomic unit. The room type row is locked for the duration, so the
// capacity check and the reservation insert are never visible to another
// booking as two separate steps.
func (c *bookingCommands) Create(ctx context.Context, p CreateBookingParams) (*booking.Booking, error) {
	now := c.clock.Now()

	guests, err := booking.NewGuestCount(p.Adults, p.Children)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	stay, err := booking.NewStayRange(p.CheckIn, p.CheckOut)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	units := p.Units
	if units == 0 {
		units = 1
	}
	if units < 1 {
		return nil, errs.Mark(booking.ErrInvalidReservedUnits, errs.ErrDomainValidation)
	}

	var created *booking.Booking
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rt, err := tx.RoomTypes().LockByID(ctx, p.RoomTypeID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrRoomTypeNotFound)
			}
			return err
		}

		if err := guests.ValidateCapacity(rt.MaxAdults, rt.MaxChildren); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		existing, err := tx.Inventory().OverlappingByRoomType(ctx, rt.ID, stay)
		if err != nil {
			return err
		}
		if err := inventory.CheckCapacity(existing, stay, units, rt.TotalInventory); err != nil {
			return errs.Mark(err, errs.ErrOutOfInventory)
		}

		coup, err := c.resolveCoupon(ctx, tx, p.CouponCode)
		if err != nil {
			return err
		}

		extraAdults, extraChildren := extraGuests(guests, rt.BaseOccupancy)
		quote, err := pricing.Quote(pricing.Input{
			Nights:            stay.Nights(),
			BaseRate:          rt.BaseRate * int64(units),
			ExtraAdults:       extraAdults,
			ExtraAdultRate:    rt.ExtraAdultRate,
			ExtraChildren:     extraChildren,
			ExtraChildRate:    rt.ExtraChildRate,
			TaxRatePct:        c.pricingCfg.TaxRatePct,
			CommissionRatePct: c.pricingCfg.CommissionRatePct,
		}, coup, now)
		if err != nil {
			if isCouponViolation(err) {
				return errs.Mark(err, errs.ErrCouponInvalid)
			}
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		var couponCode *string
		if coup != nil {
			code := coup.Code().String()
			couponCode = &code
		}

		b, err := booking.NewBooking(p.GuestID, rt.PropertyID, rt.PartnerID, rt.ID, stay, guests, units, quote, couponCode, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		res, err := inventory.NewReservation(rt.ID, b.ID, stay, units, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		if err := tx.Bookings().Create(ctx, b); err != nil {
			return err
		}
		if err := tx.Inventory().Create(ctx, res); err != nil {
			return err
		}
		if coup != nil {
			if err := tx.Coupons().IncrementUsage(ctx, coup.ID()); err != nil {
				if errors.Is(err, coupon.ErrUsageLimitReached) {
					return errs.Mark(err, errs.ErrCouponInvalid)
				}
				return err
			}
		}
		if err := c.enqueueBookingEvent(ctx, tx, b, "booking_created", now); err != nil {
			return err
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Cancel releases inventory and, for a paid booking, reverses the money:
// the guest is refunded the full total and the partner's payout is clawed
// back. Guards and the cancellation window live on the entity.
func (c *bookingCommands) Cancel(ctx context.Context, bookingID, actorID uuid.UUID, isAdmin bool, reason *string) (*booking.Booking, error) {
	now := c.clock.Now()

	var cancelled *booking.Booking
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !isAdmin && b.GuestID != actorID {
			return errs.ErrForbidden
		}

		refunded, err := b.Cancel(actorID, isAdmin, reason, now)
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}

		if err := tx.Inventory().ReleaseByBooking(ctx, b.ID); err != nil {
			return err
		}
		if refunded {
			if err := reverseSettlement(ctx, tx, b, now); err != nil {
				return err
			}
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		if err := c.enqueueBookingEvent(ctx, tx, b, "booking_cancelled", now); err != nil {
			return err
		}

		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// CollectCash marks a booking paid at the property. The money went straight
// to the partner, so the platform recovers its commission from the partner
// wallet; this is the one debit allowed to push the balance negative.
func (c *bookingCommands) CollectCash(ctx context.Context, bookingID, actorPartnerID uuid.UUID) (*booking.Booking, error) {
	now := c.clock.Now()

	var updated *booking.Booking
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.PartnerID != actorPartnerID {
			return errs.ErrForbidden
		}
		if err := b.MarkPaidAtProperty(now); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}

		if err := recoverCashCommission(ctx, tx, b, now); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}

		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MarkNoShow releases the inventory but does not touch money.
func (c *bookingCommands) MarkNoShow(ctx context.Context, bookingID, actorPartnerID uuid.UUID) (*booking.Booking, error) {
	now := c.clock.Now()

	var updated *booking.Booking
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.PartnerID != actorPartnerID {
			return errs.ErrForbidden
		}
		if err := b.MarkNoShow(now); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		if err := tx.Inventory().ReleaseByBooking(ctx, b.ID); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *bookingCommands) CheckIn(ctx context.Context, bookingID, actorPartnerID uuid.UUID) (*booking.Booking, error) {
	return c.transition(ctx, bookingID, actorPartnerID, (*booking.Booking).CheckIn)
}

func (c *bookingCommands) CheckOut(ctx context.Context, bookingID, actorPartnerID uuid.UUID) (*booking.Booking, error) {
	return c.transition(ctx, bookingID, actorPartnerID, (*booking.Booking).CheckOut)
}

func (c *bookingCommands) Complete(ctx context.Context, bookingID, actorPartnerID uuid.UUID) (*booking.Booking, error) {
	return c.transition(ctx, bookingID, actorPartnerID, (*booking.Booking).Complete)
}

func (c *bookingCommands) transition(
	ctx context.Context,
	bookingID, actorPartnerID uuid.UUID,
	apply func(*booking.Booking, time.Time) error,
) (*booking.Booking, error) {
	now := c.clock.Now()

	var updated *booking.Booking
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := lockBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if b.PartnerID != actorPartnerID {
			return errs.ErrForbidden
		}
		if err := apply(b, now); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		if err := tx.Bookings().Update(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *bookingCommands) resolveCoupon(ctx context.Context, tx shared.Tx, rawCode *string) (*coupon.Coupon, error) {
	if rawCode == nil {
		return nil, nil
	}
	code, err := coupon.NewCode(*rawCode)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrCouponInvalid)
	}
	coup, err := tx.Coupons().FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrCouponNotFound)
		}
		return nil, err
	}
	return coup, nil
}

func (c *bookingCommands) enqueueBookingEvent(ctx context.Context, tx shared.Tx, b *booking.Booking, topic string, now time.Time) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id":   b.ID,
		"booking_code": b.Code,
		"status":       b.Status,
	})
	if err != nil {
		return err
	}
	return tx.Outbox().CreateJob(ctx, "email", topic, payload, now)
}

func lockBooking(ctx context.Context, tx shared.Tx, id uuid.UUID) (*booking.Booking, error) {
	b, err := tx.Bookings().LockByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, err
	}
	return b, nil
}

// extraGuests derives the chargeable extras: adults beyond the room's base
// occupancy, and every child. Capacity validation has already bounded both.
func extraGuests(g booking.GuestCount, baseOccupancy int) (adults, children int) {
	adults = g.Adults - baseOccupancy
	if adults < 0 {
		adults = 0
	}
	return adults, g.Children
}

func isCouponViolation(err error) bool {
	return errors.Is(err, coupon.ErrInactive) ||
		errors.Is(err, coupon.ErrNotYetValid) ||
		errors.Is(err, coupon.ErrExpired) ||
		errors.Is(err, coupon.ErrBelowMinimum) ||
		errors.Is(err, coupon.ErrUsageLimitReached)
}

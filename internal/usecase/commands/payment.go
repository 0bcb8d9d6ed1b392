package commands

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/infra"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/config"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/usecase/shared"

	"github.com/google/uuid"
)

// SignatureVerifier checks the two distinct signatures the payment
// processor issues: the checkout confirmation (over orderID|paymentID) and
// the webhook body signature.
type SignatureVerifier interface {
	VerifyCheckout(orderID, paymentID, signature string) error
	VerifyWebhook(body []byte, signature string) error
}

type ConfirmPaymentParams struct {
	BookingID *uuid.UUID
	OrderID   string
	PaymentID string
	Signature string
	// RawOrderPayload is the processor's order object; when no booking id is
	// supplied the booking code is taken from its receipt field.
	RawOrderPayload []byte
}

type PaymentCommands interface {
	Confirm(ctx context.Context, p ConfirmPaymentParams) (*booking.Booking, error)
	// HandleWebhook processes an asynchronous gateway event. Replays of an
	// already-seen event id succeed without moving money again.
	HandleWebhook(ctx context.Context, body []byte, signature string) (replayed bool, err error)
}

type paymentCommands struct {
	uow        shared.UnitOfWork
	verifier   SignatureVerifier
	clock      clock.Clock
	platformID uuid.UUID
}

func NewPaymentCommands(uow shared.UnitOfWork, verifier SignatureVerifier, clk clock.Clock, cfg config.Config) (PaymentCommands, error) {
	platformID, err := uuid.Parse(cfg.Platform.AccountID)
	if err != nil {
		return nil, errs.Wrap(err, "invalid platform account id")
	}
	return &paymentCommands{
		uow:        uow,
		verifier:   verifier,
		clock:      clk,
		platformID: platformID,
	}, nil
}

func (c *paymentCommands) Confirm(ctx context.Context, p ConfirmPaymentParams) (*booking.Booking, error) {
	if err := c.verifier.VerifyCheckout(p.OrderID, p.PaymentID, p.Signature); err != nil {
		return nil, errs.Mark(err, errs.ErrSignatureMismatch)
	}

	now := c.clock.Now()

	var confirmed *booking.Booking
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := c.lookupBooking(ctx, tx, p)
		if err != nil {
			return err
		}
		if err := c.settle(ctx, tx, b, p.OrderID, p.PaymentID, now); err != nil {
			return err
		}
		confirmed = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}

// webhookEvent is the processor's event envelope; the receipt carries the
// human booking code the order was created for.
type webhookEvent struct {
	ID      string `json:"id"`
	Event   string `json:"event"`
	Payload struct {
		OrderID   string `json:"order_id"`
		PaymentID string `json:"payment_id"`
		Receipt   string `json:"receipt"`
	} `json:"payload"`
}

func (c *paymentCommands) HandleWebhook(ctx context.Context, body []byte, signature string) (bool, error) {
	if err := c.verifier.VerifyWebhook(body, signature); err != nil {
		return false, errs.Mark(err, errs.ErrSignatureMismatch)
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return false, errs.Mark(err, errs.ErrDomainValidation)
	}
	if event.ID == "" || event.Payload.Receipt == "" {
		return false, errs.Mark(errs.New("webhook event missing id or receipt"), errs.ErrDomainValidation)
	}

	now := c.clock.Now()

	var replayed bool
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		fresh, err := tx.GatewayEvents().Record(ctx, event.ID, event.Event, body)
		if err != nil {
			return err
		}
		if !fresh {
			replayed = true
			return nil
		}
		if event.Event != "payment.captured" {
			// Other event kinds are recorded for audit but move no money.
			return nil
		}

		b, err := tx.Bookings().LockByCode(ctx, event.Payload.Receipt)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrBookingNotFound)
			}
			return err
		}
		return c.settle(ctx, tx, b, event.Payload.OrderID, event.Payload.PaymentID, now)
	})
	if err != nil {
		return false, err
	}
	return replayed, nil
}

// settle applies the paid transition and the wallet credits. A booking that
// is already paid is a successful no-op: the checkout callback and the
// webhook frequently race for the same capture.
func (c *paymentCommands) settle(ctx context.Context, tx shared.Tx, b *booking.Booking, orderID, paymentID string, now time.Time) error {
	if err := b.ConfirmPayment(orderID, paymentID, now); err != nil {
		if errors.Is(err, booking.ErrAlreadyPaid) {
			return nil
		}
		return errs.Mark(err, errs.ErrInvalidTransition)
	}
	if err := settleGatewayPayment(ctx, tx, b, c.platformID, now); err != nil {
		return err
	}
	if err := tx.Bookings().Update(ctx, b); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"booking_id":   b.ID,
		"booking_code": b.Code,
		"payment_id":   paymentID,
	})
	if err != nil {
		return err
	}
	return tx.Outbox().CreateJob(ctx, "email", "booking_confirmed", payload, now)
}

func (c *paymentCommands) lookupBooking(ctx context.Context, tx shared.Tx, p ConfirmPaymentParams) (*booking.Booking, error) {
	if p.BookingID != nil {
		return lockBooking(ctx, tx, *p.BookingID)
	}

	var order struct {
		Receipt string `json:"receipt"`
	}
	if err := json.Unmarshal(p.RawOrderPayload, &order); err != nil || order.Receipt == "" {
		return nil, errs.Mark(errs.New("order payload missing receipt"), errs.ErrDomainValidation)
	}
	b, err := tx.Bookings().LockByCode(ctx, order.Receipt)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, err
	}
	return b, nil
}

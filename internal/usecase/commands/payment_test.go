//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"testing"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/wallet"
	"stayhub/internal/infra/gateway"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	*fixture
	payments commands.PaymentCommands
	verifier *gateway.HMACVerifier
	platform uuid.UUID
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	f := newFixture(t)
	verifier := gateway.NewHMACVerifier(f.cfg.Gateway)
	payments, err := commands.NewPaymentCommands(f.uow, verifier, f.clock, f.cfg)
	require.NoError(t, err)
	platform, err := uuid.Parse(f.cfg.Platform.AccountID)
	require.NoError(t, err)
	return &paymentFixture{fixture: f, payments: payments, verifier: verifier, platform: platform}
}

func (f *paymentFixture) confirmParams(b *booking.Booking) commands.ConfirmPaymentParams {
	return commands.ConfirmPaymentParams{
		BookingID: &b.ID,
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: f.verifier.Sign("order_1", "pay_1"),
	}
}

func (f *paymentFixture) capturedEvent(t *testing.T, eventID string, b *booking.Booking) ([]byte, string) {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":    eventID,
		"event": "payment.captured",
		"payload": map[string]string{
			"order_id":   "order_1",
			"payment_id": "pay_1",
			"receipt":    b.Code,
		},
	})
	require.NoError(t, err)
	return body, f.verifier.SignWebhook(body)
}

func TestConfirmPayment(t *testing.T) {
	t.Run("settles payout and platform cut", func(t *testing.T) {
		f := newPaymentFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		confirmed, err := f.payments.Confirm(context.Background(), f.confirmParams(b))
		require.NoError(t, err)

		assert.Equal(t, booking.StatusConfirmed, confirmed.Status)
		assert.Equal(t, booking.PaymentPaid, confirmed.PaymentStatus)

		partner, ok := f.uow.wallet(f.roomType.PartnerID, wallet.RolePartner)
		require.True(t, ok)
		assert.Equal(t, b.Price.Payout, partner.Balance)

		platform, ok := f.uow.wallet(f.platform, wallet.RolePlatform)
		require.True(t, ok)
		assert.Equal(t, b.Price.Commission+b.Price.Tax, platform.Balance)

		// Everything captured is accounted for
		assert.Equal(t, b.Price.Total, partner.Balance+platform.Balance)
	})

	t.Run("repeat confirmation does not double credit", func(t *testing.T) {
		f := newPaymentFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		_, err = f.payments.Confirm(context.Background(), f.confirmParams(b))
		require.NoError(t, err)
		_, err = f.payments.Confirm(context.Background(), f.confirmParams(b))
		require.NoError(t, err)

		partner, _ := f.uow.wallet(f.roomType.PartnerID, wallet.RolePartner)
		assert.Equal(t, b.Price.Payout, partner.Balance)
		assert.Len(t, f.uow.entriesFor(f.roomType.PartnerID, wallet.RolePartner), 1)
	})

	t.Run("bad signature rejected before any lookup", func(t *testing.T) {
		f := newPaymentFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		p := f.confirmParams(b)
		p.Signature = "deadbeef"
		_, err = f.payments.Confirm(context.Background(), p)
		assert.ErrorIs(t, err, errs.ErrSignatureMismatch)
	})

	t.Run("booking resolved from order receipt", func(t *testing.T) {
		f := newPaymentFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		order, err := json.Marshal(map[string]string{"receipt": b.Code})
		require.NoError(t, err)

		p := f.confirmParams(b)
		p.BookingID = nil
		p.RawOrderPayload = order

		confirmed, err := f.payments.Confirm(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, b.ID, confirmed.ID)
	})

	t.Run("cancelled booking rejects payment", func(t *testing.T) {
		f := newPaymentFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)
		_, err = f.bookings.Cancel(context.Background(), b.ID, f.guestID, false, nil)
		require.NoError(t, err)

		_, err = f.payments.Confirm(context.Background(), f.confirmParams(b))
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Empty(t, f.uow.state.wallets)
	})
}

func TestHandleWebhook(t *testing.T) {
	t.Run("captured event settles the booking", func(t *testing.T) {
		f := newPaymentFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		body, sig := f.capturedEvent(t, "evt_1", b)
		replayed, err := f.payments.HandleWebhook(context.Background(), body, sig)
		require.NoError(t, err)
		assert.False(t, replayed)

		stored, _ := f.uow.booking(b.ID)
		assert.Equal(t, booking.PaymentPaid, stored.PaymentStatus)
	})

	t.Run("replayed event id moves no money", func(t *testing.T) {
		f := newPaymentFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		body, sig := f.capturedEvent(t, "evt_1", b)
		_, err = f.payments.HandleWebhook(context.Background(), body, sig)
		require.NoError(t, err)

		replayed, err := f.payments.HandleWebhook(context.Background(), body, sig)
		require.NoError(t, err)
		assert.True(t, replayed)

		partner, _ := f.uow.wallet(f.roomType.PartnerID, wallet.RolePartner)
		assert.Equal(t, b.Price.Payout, partner.Balance)
		assert.Len(t, f.uow.entriesFor(f.roomType.PartnerID, wallet.RolePartner), 1)
	})

	t.Run("webhook after checkout confirmation is a no-op settle", func(t *testing.T) {
		f := newPaymentFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		_, err = f.payments.Confirm(context.Background(), f.confirmParams(b))
		require.NoError(t, err)

		body, sig := f.capturedEvent(t, "evt_2", b)
		_, err = f.payments.HandleWebhook(context.Background(), body, sig)
		require.NoError(t, err)

		partner, _ := f.uow.wallet(f.roomType.PartnerID, wallet.RolePartner)
		assert.Equal(t, b.Price.Payout, partner.Balance)
	})

	t.Run("non-capture events are recorded but move nothing", func(t *testing.T) {
		f := newPaymentFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		body, err := json.Marshal(map[string]any{
			"id":    "evt_3",
			"event": "payment.failed",
			"payload": map[string]string{
				"order_id": "order_1",
				"receipt":  b.Code,
			},
		})
		require.NoError(t, err)

		_, err = f.payments.HandleWebhook(context.Background(), body, f.verifier.SignWebhook(body))
		require.NoError(t, err)

		stored, _ := f.uow.booking(b.ID)
		assert.Equal(t, booking.PaymentPending, stored.PaymentStatus)
		assert.Contains(t, f.uow.state.events, "evt_3")
	})

	t.Run("invalid signature", func(t *testing.T) {
		f := newPaymentFixture(t)
		b, err := f.bookings.Create(context.Background(), f.createParams())
		require.NoError(t, err)

		body, _ := f.capturedEvent(t, "evt_4", b)
		_, err = f.payments.HandleWebhook(context.Background(), body, "bogus")
		assert.ErrorIs(t, err, errs.ErrSignatureMismatch)
	})
}

func TestCancelPaidBooking(t *testing.T) {
	f := newPaymentFixture(t)
	b, err := f.bookings.Create(context.Background(), f.createParams())
	require.NoError(t, err)

	_, err = f.payments.Confirm(context.Background(), f.confirmParams(b))
	require.NoError(t, err)

	cancelled, err := f.bookings.Cancel(context.Background(), b.ID, f.guestID, false, nil)
	require.NoError(t, err)

	assert.Equal(t, booking.StatusCancelled, cancelled.Status)
	assert.Equal(t, booking.PaymentRefunded, cancelled.PaymentStatus)

	// Guest gets the full total back
	guest, ok := f.uow.wallet(f.guestID, wallet.RoleUser)
	require.True(t, ok)
	assert.Equal(t, b.Price.Total, guest.Balance)

	// Partner payout clawed back to zero
	partner, _ := f.uow.wallet(f.roomType.PartnerID, wallet.RolePartner)
	assert.Equal(t, int64(0), partner.Balance)

	// Platform keeps commission and tax
	platform, _ := f.uow.wallet(f.platform, wallet.RolePlatform)
	assert.Equal(t, b.Price.Commission+b.Price.Tax, platform.Balance)
}

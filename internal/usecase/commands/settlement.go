package commands

import (
	"context"
	"time"

	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/wallet"
	"stayhub/internal/usecase/shared"

	"github.com/google/uuid"
)

// Wallet movements triggered by booking events are keyed by (wallet,
// category, booking code): re-driving the same event credits or debits a
// wallet at most once, which keeps crash recovery and webhook replays safe.

func creditWallet(
	ctx context.Context,
	tx shared.Tx,
	ownerID uuid.UUID,
	role wallet.Role,
	amount int64,
	category wallet.Category,
	reference string,
	now time.Time,
) error {
	if amount == 0 {
		return nil
	}
	w, err := tx.Wallets().GetOrCreateForUpdate(ctx, ownerID, role)
	if err != nil {
		return err
	}
	applied, err := tx.Wallets().HasEntry(ctx, w.ID, category, reference)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	entry, err := w.Credit(amount, category, reference, now)
	if err != nil {
		return err
	}
	if err := tx.Wallets().Save(ctx, w); err != nil {
		return err
	}
	return tx.Wallets().AppendEntry(ctx, entry)
}

func debitWallet(
	ctx context.Context,
	tx shared.Tx,
	ownerID uuid.UUID,
	role wallet.Role,
	amount int64,
	category wallet.Category,
	reference string,
	allowNegative bool,
	now time.Time,
) error {
	if amount == 0 {
		return nil
	}
	w, err := tx.Wallets().GetOrCreateForUpdate(ctx, ownerID, role)
	if err != nil {
		return err
	}
	applied, err := tx.Wallets().HasEntry(ctx, w.ID, category, reference)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	var entry *wallet.Transaction
	if allowNegative {
		entry, err = w.DebitAllowNegative(amount, category, reference, now)
	} else {
		entry, err = w.Debit(amount, category, reference, now)
	}
	if err != nil {
		return err
	}
	if err := tx.Wallets().Save(ctx, w); err != nil {
		return err
	}
	return tx.Wallets().AppendEntry(ctx, entry)
}

// settleGatewayPayment moves the captured money: the partner is credited
// the payout and the platform wallet collects commission plus tax. Together
// with the booking's own breakdown these satisfy payout+commission == net
// and total == net+tax.
func settleGatewayPayment(ctx context.Context, tx shared.Tx, b *booking.Booking, platformID uuid.UUID, now time.Time) error {
	if err := creditWallet(ctx, tx, b.PartnerID, wallet.RolePartner, b.Price.Payout, wallet.CategoryBookingPayment, b.Code, now); err != nil {
		return err
	}
	return creditWallet(ctx, tx, platformID, wallet.RolePlatform, b.Price.Commission+b.Price.Tax, wallet.CategoryCommissionTax, b.Code, now)
}

// recoverCashCommission handles the cash-collected flow: the partner holds
// the full amount in cash, so the platform debits its commission from the
// partner wallet (negative allowed) and the partner's earnings are bumped
// by what the cash was actually worth to them.
func recoverCashCommission(ctx context.Context, tx shared.Tx, b *booking.Booking, now time.Time) error {
	w, err := tx.Wallets().GetOrCreateForUpdate(ctx, b.PartnerID, wallet.RolePartner)
	if err != nil {
		return err
	}
	applied, err := tx.Wallets().HasEntry(ctx, w.ID, wallet.CategoryCommissionDeduction, b.Code)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	if b.Price.Commission == 0 {
		w.RecordCashEarnings(b.Price.Total, now)
		return tx.Wallets().Save(ctx, w)
	}
	entry, err := w.DebitAllowNegative(b.Price.Commission, wallet.CategoryCommissionDeduction, b.Code, now)
	if err != nil {
		return err
	}
	w.RecordCashEarnings(b.Price.Total-b.Price.Commission, now)
	if err := tx.Wallets().Save(ctx, w); err != nil {
		return err
	}
	return tx.Wallets().AppendEntry(ctx, entry)
}

// reverseSettlement undoes a paid booking on cancellation: the guest gets
// the full total back and the partner's payout is clawed back, negative
// balances permitted.
func reverseSettlement(ctx context.Context, tx shared.Tx, b *booking.Booking, now time.Time) error {
	if err := creditWallet(ctx, tx, b.GuestID, wallet.RoleUser, b.Price.Total, wallet.CategoryRefund, b.Code, now); err != nil {
		return err
	}
	return debitWallet(ctx, tx, b.PartnerID, wallet.RolePartner, b.Price.Payout, wallet.CategoryRefund, b.Code, true, now)
}

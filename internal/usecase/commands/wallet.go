package commands

import (
	"context"
	"errors"
	"fmt"

	"stayhub/internal/domain/wallet"
	"stayhub/internal/pkg/clock"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/usecase/shared"

	"github.com/google/uuid"
)

type WalletCommands interface {
	// Topup credits a party's wallet; topups never count as earnings.
	Topup(ctx context.Context, ownerID uuid.UUID, role wallet.Role, amount int64) (*wallet.Wallet, error)
	// Withdraw debits the wallet through the default (non-negative) path.
	Withdraw(ctx context.Context, ownerID uuid.UUID, role wallet.Role, amount int64) (*wallet.Wallet, error)
}

type walletCommands struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewWalletCommands(uow shared.UnitOfWork, clk clock.Clock) WalletCommands {
	return &walletCommands{uow: uow, clock: clk}
}

func (c *walletCommands) Topup(ctx context.Context, ownerID uuid.UUID, role wallet.Role, amount int64) (*wallet.Wallet, error) {
	return c.apply(ctx, ownerID, role, amount, func(w *wallet.Wallet, ref string) (*wallet.Transaction, error) {
		return w.Credit(amount, wallet.CategoryTopup, ref, c.clock.Now())
	})
}

func (c *walletCommands) Withdraw(ctx context.Context, ownerID uuid.UUID, role wallet.Role, amount int64) (*wallet.Wallet, error) {
	return c.apply(ctx, ownerID, role, amount, func(w *wallet.Wallet, ref string) (*wallet.Transaction, error) {
		return w.Debit(amount, wallet.CategoryWithdrawal, ref, c.clock.Now())
	})
}

func (c *walletCommands) apply(
	ctx context.Context,
	ownerID uuid.UUID,
	role wallet.Role,
	amount int64,
	op func(w *wallet.Wallet, ref string) (*wallet.Transaction, error),
) (*wallet.Wallet, error) {
	if amount <= 0 {
		return nil, errs.Mark(wallet.ErrInvalidAmount, errs.ErrDomainValidation)
	}
	if !role.IsValid() {
		return nil, errs.Mark(fmt.Errorf("unknown wallet role %q", role), errs.ErrDomainValidation)
	}

	var result *wallet.Wallet
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		w, err := tx.Wallets().GetOrCreateForUpdate(ctx, ownerID, role)
		if err != nil {
			return err
		}
		// Ad-hoc operations get a unique reference; idempotency keyed on
		// reference is only meaningful for booking-driven movements.
		entry, err := op(w, uuid.NewString())
		if err != nil {
			if errors.Is(err, wallet.ErrInsufficientBalance) {
				return errs.Mark(err, errs.ErrInsufficientBalance)
			}
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := tx.Wallets().Save(ctx, w); err != nil {
			return err
		}
		if err := tx.Wallets().AppendEntry(ctx, entry); err != nil {
			return err
		}
		result = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

package repository

import (
	"context"
	"time"

	"stayhub/internal/domain/wallet"
	"stayhub/internal/infra"
	"stayhub/internal/infra/db"

	"github.com/google/uuid"
)

type WalletRepository struct {
	db db.DBTX
}

func NewWalletRepository(db db.DBTX) *WalletRepository {
	return &WalletRepository{db: db}
}

const insertWalletIfAbsent = `
INSERT INTO wallets (id, owner_id, role, balance, total_earnings, total_withdrawals, pending_clearance, created_at, updated_at)
VALUES ($1, $2, $3, 0, 0, 0, 0, $4, $4)
ON CONFLICT (owner_id, role) DO NOTHING
`

const selectWalletForUpdate = `
SELECT id, owner_id, role, balance, total_earnings, total_withdrawals, pending_clearance, created_at, updated_at
FROM wallets
WHERE owner_id = $1 AND role = $2
FOR UPDATE
`

// GetOrCreateForUpdate returns the (owner, role) wallet under a row lock,
// creating it on first use. The insert races are absorbed by the unique
// (owner_id, role) constraint; whichever insert wins, the select locks the
// surviving row.
func (r *WalletRepository) GetOrCreateForUpdate(ctx context.Context, ownerID uuid.UUID, role wallet.Role) (*wallet.Wallet, error) {
	if _, err := r.db.Exec(ctx, insertWalletIfAbsent, uuid.New(), ownerID, role, time.Now().UTC()); err != nil {
		return nil, infra.WrapRepoErr("failed to ensure wallet", err)
	}

	var w wallet.Wallet
	err := r.db.QueryRow(ctx, selectWalletForUpdate, ownerID, role).Scan(
		&w.ID, &w.OwnerID, &w.Role,
		&w.Balance, &w.TotalEarnings, &w.TotalWithdrawals, &w.PendingClearance,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock wallet", err)
	}
	return &w, nil
}

const updateWallet = `
UPDATE wallets SET
	balance = $2,
	total_earnings = $3,
	total_withdrawals = $4,
	pending_clearance = $5,
	updated_at = $6
WHERE id = $1
`

func (r *WalletRepository) Save(ctx context.Context, w *wallet.Wallet) error {
	tag, err := r.db.Exec(ctx, updateWallet,
		w.ID, w.Balance, w.TotalEarnings, w.TotalWithdrawals, w.PendingClearance, w.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save wallet", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("wallet not found for save", nil, infra.KindNotFound)
	}
	return nil
}

const insertWalletTransaction = `
INSERT INTO wallet_transactions (id, wallet_id, owner_id, direction, category, amount, balance_after, reference, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

func (r *WalletRepository) AppendEntry(ctx context.Context, t *wallet.Transaction) error {
	_, err := r.db.Exec(ctx, insertWalletTransaction,
		t.ID, t.WalletID, t.OwnerID,
		t.Direction, t.Category, t.Amount, t.BalanceAfter,
		t.Reference, t.Status, t.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append wallet transaction", err)
	}
	return nil
}

const walletHasEntry = `
SELECT EXISTS (
	SELECT 1 FROM wallet_transactions
	WHERE wallet_id = $1 AND category = $2 AND reference = $3
)
`

func (r *WalletRepository) HasEntry(ctx context.Context, walletID uuid.UUID, category wallet.Category, reference string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, walletHasEntry, walletID, category, reference).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check wallet transaction existence", err)
	}
	return exists, nil
}

package readstore

import (
	"context"

	"stayhub/internal/domain/wallet"
	"stayhub/internal/infra"
	"stayhub/internal/infra/db"
	"stayhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type WalletReadStore struct {
	db db.DBTX
}

func NewWalletReadStore(db db.DBTX) *WalletReadStore {
	return &WalletReadStore{db: db}
}

const findWalletByOwner = `
SELECT id, owner_id, role, balance, total_earnings, total_withdrawals, pending_clearance
FROM wallets
WHERE owner_id = $1 AND role = $2
`

func (s *WalletReadStore) FindByOwner(ctx context.Context, ownerID uuid.UUID, role wallet.Role) (*queries.WalletView, error) {
	var v queries.WalletView
	err := s.db.QueryRow(ctx, findWalletByOwner, ownerID, role).Scan(
		&v.ID, &v.OwnerID, &v.Role,
		&v.Balance, &v.TotalEarnings, &v.TotalWithdrawals, &v.PendingClearance,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find wallet", err)
	}
	return &v, nil
}

const findWalletTransactions = `
SELECT id, direction, category, amount, balance_after, reference, status, created_at
FROM wallet_transactions
WHERE wallet_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`

func (s *WalletReadStore) FindTransactions(ctx context.Context, walletID uuid.UUID, limit int32) ([]*queries.TransactionView, error) {
	rows, err := s.db.Query(ctx, findWalletTransactions, walletID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query wallet transactions", err)
	}
	defer rows.Close()

	items := make([]*queries.TransactionView, 0)
	for rows.Next() {
		var t queries.TransactionView
		if err := rows.Scan(
			&t.ID, &t.Direction, &t.Category, &t.Amount,
			&t.BalanceAfter, &t.Reference, &t.Status, &t.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan wallet transaction", err)
		}
		items = append(items, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate wallet transactions", err)
	}
	return items, nil
}

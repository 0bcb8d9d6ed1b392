package queries

import (
	"context"
	"time"

	"stayhub/internal/domain/wallet"
	"stayhub/internal/infra"

	"github.com/google/uuid"
)

type WalletView struct {
	ID               uuid.UUID `json:"id"`
	OwnerID          uuid.UUID `json:"owner_id"`
	Role             string    `json:"role"`
	Balance          int64     `json:"balance"`
	TotalEarnings    int64     `json:"total_earnings"`
	TotalWithdrawals int64     `json:"total_withdrawals"`
	PendingClearance int64     `json:"pending_clearance"`
}

type TransactionView struct {
	ID           uuid.UUID `json:"id"`
	Direction    string    `json:"direction"`
	Category     string    `json:"category"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balance_after"`
	Reference    string    `json:"reference"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type WalletReadStore interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID, role wallet.Role) (*WalletView, error)
	FindTransactions(ctx context.Context, walletID uuid.UUID, limit int32) ([]*TransactionView, error)
}

type WalletQueries interface {
	GetWallet(ctx context.Context, ownerID uuid.UUID, role wallet.Role) (*WalletView, error)
	ListTransactions(ctx context.Context, ownerID uuid.UUID, role wallet.Role, limit int32) ([]*TransactionView, error)
}

type walletQueries struct {
	store WalletReadStore
}

func NewWalletQueries(store WalletReadStore) WalletQueries {
	return &walletQueries{store: store}
}

// GetWallet never fails on a missing wallet: a party that was never paid
// simply has a zero wallet.
func (q *walletQueries) GetWallet(ctx context.Context, ownerID uuid.UUID, role wallet.Role) (*WalletView, error) {
	view, err := q.store.FindByOwner(ctx, ownerID, role)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &WalletView{OwnerID: ownerID, Role: role.String()}, nil
		}
		return nil, err
	}
	return view, nil
}

func (q *walletQueries) ListTransactions(ctx context.Context, ownerID uuid.UUID, role wallet.Role, limit int32) ([]*TransactionView, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	view, err := q.store.FindByOwner(ctx, ownerID, role)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return []*TransactionView{}, nil
		}
		return nil, err
	}
	return q.store.FindTransactions(ctx, view.ID, limit)
}

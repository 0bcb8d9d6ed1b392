package response

import (
	"time"

	"stayhub/internal/domain/wallet"
	"stayhub/internal/usecase/queries"

	"github.com/google/uuid"
)

type WalletResponse struct {
	ID               uuid.UUID `json:"id"`
	OwnerID          uuid.UUID `json:"ownerId"`
	Role             string    `json:"role"`
	Balance          int64     `json:"balance"`
	TotalEarnings    int64     `json:"totalEarnings"`
	TotalWithdrawals int64     `json:"totalWithdrawals"`
	PendingClearance int64     `json:"pendingClearance"`
}

type TransactionResponse struct {
	ID           uuid.UUID `json:"id"`
	Direction    string    `json:"direction"`
	Category     string    `json:"category"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balanceAfter"`
	Reference    string    `json:"reference"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

func FromWallet(w *wallet.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:               w.ID,
		OwnerID:          w.OwnerID,
		Role:             w.Role.String(),
		Balance:          w.Balance,
		TotalEarnings:    w.TotalEarnings,
		TotalWithdrawals: w.TotalWithdrawals,
		PendingClearance: w.PendingClearance,
	}
}

func FromWalletView(v *queries.WalletView) *WalletResponse {
	return &WalletResponse{
		ID:               v.ID,
		OwnerID:          v.OwnerID,
		Role:             v.Role,
		Balance:          v.Balance,
		TotalEarnings:    v.TotalEarnings,
		TotalWithdrawals: v.TotalWithdrawals,
		PendingClearance: v.PendingClearance,
	}
}

func FromTransactionView(v *queries.TransactionView) *TransactionResponse {
	return &TransactionResponse{
		ID:           v.ID,
		Direction:    v.Direction,
		Category:     v.Category,
		Amount:       v.Amount,
		BalanceAfter: v.BalanceAfter,
		Reference:    v.Reference,
		Status:       v.Status,
		CreatedAt:    v.CreatedAt,
	}
}

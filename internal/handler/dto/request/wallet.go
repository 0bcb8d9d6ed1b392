package request

type WalletAmountRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

package api

import (
	"context"
	"errors"
	"net/http"

	"stayhub/internal/domain/wallet"
	reqdto "stayhub/internal/handler/dto/request"
	resdto "stayhub/internal/handler/dto/response"
	"stayhub/internal/handler/middleware"
	"stayhub/internal/pkg/errs"
	"stayhub/internal/pkg/jwt"
	"stayhub/internal/usecase/commands"
	"stayhub/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WalletHandler struct {
	walletCommands commands.WalletCommands
	walletQueries  queries.WalletQueries
}

func NewWalletHandler(walletCommands commands.WalletCommands, walletQueries queries.WalletQueries) *WalletHandler {
	return &WalletHandler{
		walletCommands: walletCommands,
		walletQueries:  walletQueries,
	}
}

func (h *WalletHandler) GetMyWallet(c *gin.Context) {
	ownerID, role, ok := walletIdentity(c)
	if !ok {
		return
	}

	view, err := h.walletQueries.GetWallet(c.Request.Context(), ownerID, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromWalletView(view))
}

func (h *WalletHandler) GetMyTransactions(c *gin.Context) {
	ownerID, role, ok := walletIdentity(c)
	if !ok {
		return
	}

	items, err := h.walletQueries.ListTransactions(c.Request.Context(), ownerID, role, parseLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.TransactionResponse, len(items))
	for i, it := range items {
		response[i] = resdto.FromTransactionView(it)
	}

	c.JSON(http.StatusOK, response)
}

func (h *WalletHandler) Topup(c *gin.Context) {
	h.apply(c, h.walletCommands.Topup)
}

func (h *WalletHandler) Withdraw(c *gin.Context) {
	h.apply(c, h.walletCommands.Withdraw)
}

func (h *WalletHandler) apply(c *gin.Context, op func(ctx context.Context, ownerID uuid.UUID, role wallet.Role, amount int64) (*wallet.Wallet, error)) {
	ownerID, role, ok := walletIdentity(c)
	if !ok {
		return
	}

	var req reqdto.WalletAmountRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	w, err := op(c.Request.Context(), ownerID, role, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInsufficientBalance):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Insufficient balance",
			})
		case errors.Is(err, errs.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid amount",
			})
		case errors.Is(err, errs.ErrBusy):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Wallet is being updated, please retry",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromWallet(w))
}

// walletIdentity maps the authenticated actor onto a wallet owner: guests
// use the user wallet, partners the partner wallet.
func walletIdentity(c *gin.Context) (uuid.UUID, wallet.Role, bool) {
	partyID, ok := middleware.GetPartyID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return uuid.Nil, "", false
	}

	actorRole, _ := middleware.GetRole(c)
	role := wallet.RoleUser
	if actorRole == jwt.RolePartner {
		role = wallet.RolePartner
	}
	return partyID, role, true
}

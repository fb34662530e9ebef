package restapi

import (
	"net/http"

	"alph_dashboard/internal/app/port"
	"alph_dashboard/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// WalletView reports the session state and the last known balance.
type WalletView struct {
	Status         entity.ConnectionStatus `json:"status"`
	Account        *entity.Account         `json:"account,omitempty"`
	BalanceDisplay string                  `json:"balance"`
}

// WalletHandler serves wallet session and balance endpoints.
type WalletHandler struct {
	wallet  port.WalletConnector
	balance port.BalanceService
}

// NewWalletHandler creates a new instance of WalletHandler.
func NewWalletHandler(wallet port.WalletConnector, balance port.BalanceService) *WalletHandler {
	return &WalletHandler{wallet: wallet, balance: balance}
}

// GetWallet handles GET /api/v1/wallet.
func (h *WalletHandler) GetWallet(c *gin.Context) {
	c.JSON(http.StatusOK, h.view())
}

// Connect handles POST /api/v1/wallet/connect.
func (h *WalletHandler) Connect(c *gin.Context) {
	if err := h.wallet.Connect(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view())
}

// Disconnect handles POST /api/v1/wallet/disconnect.
func (h *WalletHandler) Disconnect(c *gin.Context) {
	if err := h.wallet.Disconnect(c.Request.Context()); err != nil {
		// The session is closed locally even when the node could not lock the wallet.
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, h.view())
}

// GetBalance handles GET /api/v1/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	balance, err := h.balance.Balance(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *WalletHandler) view() WalletView {
	return WalletView{
		Status:         h.wallet.ConnectionStatus(),
		Account:        h.wallet.ActiveAccount(),
		BalanceDisplay: h.balance.CurrentBalanceDisplay(),
	}
}

package restapi

import (
	"net/http"

	"alph_dashboard/internal/app/port"

	"github.com/gin-gonic/gin"
)

// ExplorerHandler serves the read-only network, contract and token lookups.
type ExplorerHandler struct {
	networkInfo port.NetworkInfoService
	explorer    port.ExplorerService
	tokens      port.TokenListService
}

// NewExplorerHandler creates a new instance of ExplorerHandler.
func NewExplorerHandler(networkInfo port.NetworkInfoService, explorer port.ExplorerService, tokens port.TokenListService) *ExplorerHandler {
	return &ExplorerHandler{networkInfo: networkInfo, explorer: explorer, tokens: tokens}
}

// GetNetwork handles GET /api/v1/network.
func (h *ExplorerHandler) GetNetwork(c *gin.Context) {
	info, err := h.networkInfo.Fetch(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetContractState handles GET /api/v1/contracts/:address/state.
func (h *ExplorerHandler) GetContractState(c *gin.Context) {
	state, err := h.explorer.ContractState(c.Request.Context(), c.Param("address"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetEventsByTxID handles GET /api/v1/events/tx/:txId.
func (h *ExplorerHandler) GetEventsByTxID(c *gin.Context) {
	events, err := h.explorer.EventsByTxID(c.Request.Context(), c.Param("txId"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetEventsByBlockHash handles GET /api/v1/events/block/:blockHash.
func (h *ExplorerHandler) GetEventsByBlockHash(c *gin.Context) {
	events, err := h.explorer.EventsByBlockHash(c.Request.Context(), c.Param("blockHash"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// SearchTokens handles GET /api/v1/tokens?q=.
func (h *ExplorerHandler) SearchTokens(c *gin.Context) {
	tokens, err := h.tokens.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// ContractAddress handles GET /api/v1/tokens/address/:contractId.
func (h *ExplorerHandler) ContractAddress(c *gin.Context) {
	id := c.Param("contractId")
	address, err := h.tokens.AddressFromContractID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contractId": id, "address": address})
}

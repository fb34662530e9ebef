package restapi

import (
	"net/http"
	"time"

	"alph_dashboard/internal/app/port"
	"alph_dashboard/internal/domain/entity"
	"alph_dashboard/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TransactionView is the JSON shape of a tracked transfer.
type TransactionView struct {
	TxID           string          `json:"txId"`
	ShortTxID      string          `json:"shortTxId"`
	Status         entity.TxStatus `json:"status"`
	Recipient      string          `json:"recipient"`
	Amount         string          `json:"amount"`
	AttoAlphAmount string          `json:"attoAlphAmount"`
	FromGroup      int32           `json:"fromGroup"`
	ToGroup        int32           `json:"toGroup"`
	BlockHash      *string         `json:"blockHash,omitempty"`
	Timestamp      *int64          `json:"timestamp,omitempty"`
	ChainFrom      *int32          `json:"chainFrom,omitempty"`
	ChainTo        *int32          `json:"chainTo,omitempty"`
	Height         *int32          `json:"height,omitempty"`
	SubmittedAt    time.Time       `json:"submittedAt"`
	FinalizedAt    *time.Time      `json:"finalizedAt,omitempty"`
	FailureReason  string          `json:"failureReason,omitempty"`
	PollAttempts   int             `json:"pollAttempts"`
	ExplorerURL    string          `json:"explorerUrl,omitempty"`
}

// TransferHandler serves the send flow.
type TransferHandler struct {
	transfers     port.TransferOrchestrator
	explorerTxURL func(txID string) string
}

// NewTransferHandler creates a new instance of TransferHandler.
func NewTransferHandler(transfers port.TransferOrchestrator, explorerTxURL func(txID string) string) *TransferHandler {
	return &TransferHandler{transfers: transfers, explorerTxURL: explorerTxURL}
}

// SubmitTransfer handles POST /api/v1/transfers.
func (h *TransferHandler) SubmitTransfer(c *gin.Context) {
	var req entity.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, APIErrorResponse{Error: "malformed request body: " + err.Error(), Code: "invalid_input"})
		return
	}

	record, err := h.transfers.SubmitTransfer(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, h.view(record))
}

// CurrentTransfer handles GET /api/v1/transfers/current.
func (h *TransferHandler) CurrentTransfer(c *gin.Context) {
	record, ok := h.transfers.Current()
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, APIErrorResponse{Error: "no transfer submitted yet", Code: "not_found"})
		return
	}
	c.JSON(http.StatusOK, h.view(record))
}

func (h *TransferHandler) view(r entity.TransactionRecord) TransactionView {
	v := TransactionView{
		TxID:          r.TxID,
		ShortTxID:     utils.ShortenID(r.TxID),
		Status:        r.Status,
		Recipient:     r.Recipient,
		FromGroup:     r.FromGroup,
		ToGroup:       r.ToGroup,
		BlockHash:     r.BlockHash,
		Timestamp:     r.Timestamp,
		ChainFrom:     r.ChainFrom,
		ChainTo:       r.ChainTo,
		Height:        r.Height,
		SubmittedAt:   r.SubmittedAt,
		FinalizedAt:   r.FinalizedAt,
		FailureReason: r.FailureReason,
		PollAttempts:  r.PollAttempts,
	}
	if r.Amount != nil {
		v.AttoAlphAmount = r.Amount.String()
		v.Amount, _ = utils.FormatBigInt(r.Amount, utils.AlphDecimals)
	}
	if h.explorerTxURL != nil {
		v.ExplorerURL = h.explorerTxURL(r.TxID)
	}
	return v
}

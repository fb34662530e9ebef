package entity

import (
	"math/big"
	"time"
)

// TxStatus is the lifecycle state of a submitted transfer.
type TxStatus string

const (
	// TxStatusPending is set right after the signer accepted the transfer.
	TxStatusPending TxStatus = "pending"
	// TxStatusConfirmed is terminal: the node reported the transaction in a block.
	TxStatusConfirmed TxStatus = "confirmed"
	// TxStatusFailed is terminal: the node no longer knows the transaction.
	TxStatusFailed TxStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed out of s.
func (s TxStatus) IsTerminal() bool {
	return s == TxStatusConfirmed || s == TxStatusFailed
}

// TransferRequest is what the user typed into the send form.
type TransferRequest struct {
	RecipientAddress string `json:"recipientAddress"`
	Amount           string `json:"amount"`
}

// SubmitResult is returned by the signer once a transfer has been broadcast.
type SubmitResult struct {
	TxID      string `json:"txId"`
	FromGroup int32  `json:"fromGroup"`
	ToGroup   int32  `json:"toGroup"`
}

// TransactionRecord tracks one outgoing transfer from submission to a terminal state.
// Block fields stay nil until the record is confirmed.
type TransactionRecord struct {
	TxID          string
	Status        TxStatus
	Recipient     string
	Amount        *big.Int
	FromGroup     int32
	ToGroup       int32
	BlockHash     *string
	Timestamp     *int64
	ChainFrom     *int32
	ChainTo       *int32
	Height        *int32
	SubmittedAt   time.Time
	FinalizedAt   *time.Time
	FailureReason string
	PollAttempts  int
}

// Clone returns a deep copy so callers can never mutate the tracked record.
func (r TransactionRecord) Clone() TransactionRecord {
	out := r
	if r.Amount != nil {
		out.Amount = new(big.Int).Set(r.Amount)
	}
	if r.BlockHash != nil {
		v := *r.BlockHash
		out.BlockHash = &v
	}
	if r.Timestamp != nil {
		v := *r.Timestamp
		out.Timestamp = &v
	}
	if r.ChainFrom != nil {
		v := *r.ChainFrom
		out.ChainFrom = &v
	}
	if r.ChainTo != nil {
		v := *r.ChainTo
		out.ChainTo = &v
	}
	if r.Height != nil {
		v := *r.Height
		out.Height = &v
	}
	if r.FinalizedAt != nil {
		v := *r.FinalizedAt
		out.FinalizedAt = &v
	}
	return out
}

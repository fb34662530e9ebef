package port

import (
	"context"

	"alph_dashboard/internal/domain/entity"
)

// TransferOrchestrator drives the send flow and tracks the last submitted transfer.
type TransferOrchestrator interface {
	SubmitTransfer(ctx context.Context, req entity.TransferRequest) (entity.TransactionRecord, error)
	// Current returns a snapshot of the tracked record, false when nothing was submitted yet.
	Current() (entity.TransactionRecord, bool)
	Close()
}

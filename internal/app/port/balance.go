package port

import (
	"context"

	"alph_dashboard/internal/domain/entity"
)

// BalanceService exposes the spendable balance of the active account.
type BalanceService interface {
	CurrentBalanceDisplay() string
	Balance(ctx context.Context) (entity.AccountBalance, error)
	// RefreshForTransaction is a best-effort hook run after a transfer confirms.
	RefreshForTransaction(ctx context.Context, txID string)
}

// BalanceFetcher reads an address balance from the node.
type BalanceFetcher interface {
	GetAddressBalance(ctx context.Context, address string) (entity.AccountBalance, error)
}

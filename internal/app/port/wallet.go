package port

import (
	"context"
	"math/big"

	"alph_dashboard/internal/domain/entity"
)

// WalletSession is the connected wallet used to authorize transfers.
type WalletSession interface {
	ConnectionStatus() entity.ConnectionStatus
	// ActiveAccount returns nil when no account is selected.
	ActiveAccount() *entity.Account
	// SignAndSubmitTransfer signs and broadcasts a transfer of amount smallest units.
	SignAndSubmitTransfer(ctx context.Context, signerAddress, destinationAddress string, amount *big.Int) (entity.SubmitResult, error)
}

// WalletConnector is implemented by sessions that can be (dis)connected on demand.
type WalletConnector interface {
	WalletSession
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

package port

import (
	"context"
	"math/big"

	"alph_dashboard/internal/domain/entity"
)

// NodeQueryService is the read side of the full node used by the transfer poll loop.
type NodeQueryService interface {
	// GetTransactionStatus returns entity.ErrTransactionNotFound (wrapped) when the node answers 404.
	// A TxNotFound reply comes back as a result of that type.
	GetTransactionStatus(ctx context.Context, txID string) (entity.TxStatusResult, error)
	GetBlockByHash(ctx context.Context, hash string) (entity.BlockInfo, error)
}

// NodeInfoFetcher reads the node's /infos endpoints.
type NodeInfoFetcher interface {
	GetNodeInfo(ctx context.Context) (entity.NodeInfo, error)
	GetNodeVersion(ctx context.Context) (entity.NodeVersion, error)
	GetChainParams(ctx context.Context) (entity.ChainParams, error)
	GetSelfClique(ctx context.Context) (entity.SelfClique, error)
	GetCurrentDifficulty(ctx context.Context) (string, error)
	GetCurrentHashrate(ctx context.Context) (string, error)
}

// ContractReader reads contract state and emitted events.
type ContractReader interface {
	GetContractState(ctx context.Context, address string) (entity.ContractState, error)
	GetEventsByTxID(ctx context.Context, txID string) (entity.ContractEvents, error)
	GetEventsByBlockHash(ctx context.Context, blockHash string) (entity.ContractEvents, error)
}

// NodeClient is the full read API of an Alephium node.
type NodeClient interface {
	NodeQueryService
	BalanceFetcher
	NodeInfoFetcher
	ContractReader

	// Definition returns the network definition associated with this client.
	Definition() entity.NetworkDefinition
}

// WalletAPI is the node-hosted wallet surface the wallet session drives.
type WalletAPI interface {
	UnlockWallet(ctx context.Context, walletName, password string) error
	LockWallet(ctx context.Context, walletName string) error
	GetWalletAddresses(ctx context.Context, walletName string) (active string, accounts []entity.Account, err error)
	Transfer(ctx context.Context, walletName, destination string, attoAlph *big.Int) (entity.SubmitResult, error)
}

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns all available network definitions as a slice.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByName returns a specific network definition by its identifier.
	GetNetworkDefinitionByName(nameOrIdentifier string) (entity.NetworkDefinition, bool)
}

// NetworkInfoService aggregates the node's /infos endpoints.
type NetworkInfoService interface {
	Fetch(ctx context.Context) (entity.NetworkInfo, error)
}

// ExplorerService exposes contract state and event lookups.
type ExplorerService interface {
	ContractState(ctx context.Context, address string) (entity.ContractState, error)
	EventsByTxID(ctx context.Context, txID string) ([]entity.ContractEvent, error)
	EventsByBlockHash(ctx context.Context, blockHash string) ([]entity.ContractEvent, error)
}

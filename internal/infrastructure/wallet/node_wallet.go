// Package wallet adapts the node-hosted wallet API into a port.WalletSession.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"alph_dashboard/internal/app/port"
	"alph_dashboard/internal/domain/entity"
	"alph_dashboard/internal/pkg/utils"

	"go.uber.org/zap"
)

// NodeWalletSession signs transfers with a wallet stored on the full node.
type NodeWalletSession struct {
	api      port.WalletAPI
	name     string
	password string
	logger   *zap.Logger

	mu      sync.RWMutex
	status  entity.ConnectionStatus
	account *entity.Account
}

// NewNodeWalletSession creates a disconnected session for walletName.
func NewNodeWalletSession(api port.WalletAPI, walletName, password string, logger *zap.Logger) *NodeWalletSession {
	return &NodeWalletSession{
		api:      api,
		name:     walletName,
		password: password,
		logger:   logger.Named("WalletSession"),
		status:   entity.Disconnected,
	}
}

// Connect unlocks the wallet and selects its active address.
func (s *NodeWalletSession) Connect(ctx context.Context) error {
	if s.name == "" {
		return errors.New("wallet name is not configured")
	}
	if err := s.api.UnlockWallet(ctx, s.name, s.password); err != nil {
		s.logger.Error("Failed to unlock wallet", zap.String("wallet", s.name), zap.Error(err))
		return fmt.Errorf("failed to unlock wallet %s: %w", s.name, err)
	}

	active, accounts, err := s.api.GetWalletAddresses(ctx, s.name)
	if err != nil {
		return fmt.Errorf("failed to list addresses of wallet %s: %w", s.name, err)
	}
	if active == "" {
		return fmt.Errorf("wallet %s has no active address", s.name)
	}

	account := &entity.Account{Address: active}
	for _, a := range accounts {
		if a.Address == active {
			acc := a
			account = &acc
			break
		}
	}

	s.mu.Lock()
	s.status = entity.Connected
	s.account = account
	s.mu.Unlock()

	s.logger.Info("Wallet connected", zap.String("wallet", s.name), zap.String("address", active), zap.Int32("group", account.Group))
	return nil
}

// Disconnect locks the wallet. The session is considered disconnected even if locking fails.
func (s *NodeWalletSession) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	s.status = entity.Disconnected
	s.account = nil
	s.mu.Unlock()

	if err := s.api.LockWallet(ctx, s.name); err != nil {
		s.logger.Warn("Failed to lock wallet", zap.String("wallet", s.name), zap.Error(err))
		return fmt.Errorf("failed to lock wallet %s: %w", s.name, err)
	}
	s.logger.Info("Wallet disconnected", zap.String("wallet", s.name))
	return nil
}

// ConnectionStatus implements port.WalletSession.
func (s *NodeWalletSession) ConnectionStatus() entity.ConnectionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// ActiveAccount implements port.WalletSession.
func (s *NodeWalletSession) ActiveAccount() *entity.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return nil
	}
	acc := *s.account
	return &acc
}

// SignAndSubmitTransfer implements port.WalletSession. The node wallet always signs with its
// active address, so signerAddress must match it.
func (s *NodeWalletSession) SignAndSubmitTransfer(ctx context.Context, signerAddress, destinationAddress string, amount *big.Int) (entity.SubmitResult, error) {
	account := s.ActiveAccount()
	if s.ConnectionStatus() != entity.Connected || account == nil {
		return entity.SubmitResult{}, entity.ErrNotConnected
	}
	if signerAddress != account.Address {
		return entity.SubmitResult{}, fmt.Errorf("signer %s is not the active wallet address %s", signerAddress, account.Address)
	}
	if err := utils.ValidateAddress(destinationAddress); err != nil {
		return entity.SubmitResult{}, err
	}

	result, err := s.api.Transfer(ctx, s.name, destinationAddress, amount)
	if err != nil {
		return result, err
	}
	s.logger.Info("Transfer submitted",
		zap.String("txId", result.TxID),
		zap.String("to", destinationAddress),
		zap.String("attoAlph", amount.String()),
		zap.Int32("fromGroup", result.FromGroup),
		zap.Int32("toGroup", result.ToGroup))
	return result, nil
}

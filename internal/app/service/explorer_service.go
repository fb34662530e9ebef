package service

import (
	"context"
	"fmt"
	"strings"

	"alph_dashboard/internal/app/port"
	"alph_dashboard/internal/domain/entity"
)

// ExplorerServiceImpl implements port.ExplorerService.
type ExplorerServiceImpl struct {
	reader port.ContractReader
	logger port.Logger
}

// NewExplorerService creates a new instance of ExplorerServiceImpl.
func NewExplorerService(reader port.ContractReader, l port.Logger) *ExplorerServiceImpl {
	return &ExplorerServiceImpl{reader: reader, logger: l}
}

// ContractState returns the state of the contract at address.
func (s *ExplorerServiceImpl) ContractState(ctx context.Context, address string) (entity.ContractState, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return entity.ContractState{}, fmt.Errorf("%w: contract address is empty", entity.ErrInvalidInput)
	}
	state, err := s.reader.GetContractState(ctx, address)
	if err != nil {
		s.logger.Warn("Contract state lookup failed", "address", address, "error", err)
		return entity.ContractState{}, err
	}
	return state, nil
}

// EventsByTxID returns the contract events emitted by a transaction.
func (s *ExplorerServiceImpl) EventsByTxID(ctx context.Context, txID string) ([]entity.ContractEvent, error) {
	txID = strings.TrimSpace(txID)
	if txID == "" {
		return nil, fmt.Errorf("%w: transaction id is empty", entity.ErrInvalidInput)
	}
	events, err := s.reader.GetEventsByTxID(ctx, txID)
	if err != nil {
		s.logger.Warn("Event lookup by transaction failed", "txId", txID, "error", err)
		return nil, err
	}
	return nonNilEvents(events.Events), nil
}

// EventsByBlockHash returns the contract events emitted in a block.
func (s *ExplorerServiceImpl) EventsByBlockHash(ctx context.Context, blockHash string) ([]entity.ContractEvent, error) {
	blockHash = strings.TrimSpace(blockHash)
	if blockHash == "" {
		return nil, fmt.Errorf("%w: block hash is empty", entity.ErrInvalidInput)
	}
	events, err := s.reader.GetEventsByBlockHash(ctx, blockHash)
	if err != nil {
		s.logger.Warn("Event lookup by block failed", "blockHash", blockHash, "error", err)
		return nil, err
	}
	return nonNilEvents(events.Events), nil
}

func nonNilEvents(events []entity.ContractEvent) []entity.ContractEvent {
	if events == nil {
		return []entity.ContractEvent{}
	}
	return events
}

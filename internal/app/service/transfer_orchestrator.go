package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"alph_dashboard/internal/app/port"
	"alph_dashboard/internal/domain/entity"
	"alph_dashboard/internal/pkg/metrics"
	"alph_dashboard/internal/pkg/utils"
)

// DefaultPollInterval is how often a pending transfer is checked against the node.
const DefaultPollInterval = 5 * time.Second

// DefaultTxNotFoundThreshold is how many consecutive TxNotFound replies fail a transfer.
const DefaultTxNotFoundThreshold = 3

const notFoundReason = "Transaction could not be found on the network"

// TransferOptions tunes the confirmation polling of TransferOrchestratorImpl.
type TransferOptions struct {
	PollInterval time.Duration
	// MaxPollAttempts fails a transfer still pending after that many ticks. 0 polls until terminal.
	MaxPollAttempts int
	// TransientErrorNotifyThreshold emits one info notification after that many consecutive
	// failed status queries. 0 keeps transient failures silent.
	TransientErrorNotifyThreshold int
	// TxNotFoundThreshold fails a transfer after that many consecutive TxNotFound replies.
	// A 404 fails it at once.
	TxNotFoundThreshold  int
	NotificationDuration time.Duration
}

// TransferOrchestratorImpl implements port.TransferOrchestrator.
//
// It tracks at most one transfer. Each submission replaces the tracked record and starts a
// new poll goroutine tagged with a generation number; a goroutine whose generation is no
// longer current never mutates state. No I/O is performed while mu is held.
type TransferOrchestratorImpl struct {
	wallet  port.WalletSession
	node    port.NodeQueryService
	balance port.BalanceService
	sink    port.NotificationSink
	opts    TransferOptions
	logger  port.Logger

	mu                sync.Mutex
	record            *entity.TransactionRecord
	gen               uint64
	cancel            context.CancelFunc
	transientStreak   int
	transientNotified bool
	notFoundStreak    int
	closed            bool

	wg sync.WaitGroup
}

// NewTransferOrchestrator creates a new instance of TransferOrchestratorImpl.
func NewTransferOrchestrator(
	wallet port.WalletSession,
	node port.NodeQueryService,
	balance port.BalanceService,
	sink port.NotificationSink,
	opts TransferOptions,
	l port.Logger,
) *TransferOrchestratorImpl {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.TxNotFoundThreshold <= 0 {
		opts.TxNotFoundThreshold = DefaultTxNotFoundThreshold
	}
	return &TransferOrchestratorImpl{
		wallet:  wallet,
		node:    node,
		balance: balance,
		sink:    sink,
		opts:    opts,
		logger:  l,
	}
}

// SubmitTransfer validates req, hands it to the wallet for signing and starts tracking the
// resulting transaction. Validation failures never reach the wallet.
func (s *TransferOrchestratorImpl) SubmitTransfer(ctx context.Context, req entity.TransferRequest) (entity.TransactionRecord, error) {
	if s.wallet == nil || s.node == nil || s.wallet.ConnectionStatus() != entity.Connected {
		return s.reject(entity.ErrNotConnected, "not_connected", "Wallet not connected", "Please connect your wallet first")
	}
	account := s.wallet.ActiveAccount()
	if account == nil {
		return s.reject(entity.ErrNotConnected, "not_connected", "Wallet not connected", "Please connect your wallet first")
	}

	recipient := strings.TrimSpace(req.RecipientAddress)
	if recipient == "" {
		return s.reject(entity.ErrInvalidRecipient, "invalid", "Invalid address", "Please enter a valid receiver address")
	}

	units, err := utils.ParseUnits(req.Amount, utils.AlphDecimals)
	if err != nil {
		s.logger.Debug("Rejected transfer amount", "amount", req.Amount, "error", err)
		return s.reject(err, "invalid", "Invalid amount", "Please enter a valid amount")
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return entity.TransactionRecord{}, errors.New("transfer orchestrator is closed")
	}

	s.logger.Info("Submitting transfer", "from", account.Address, "to", recipient, "attoAlph", units.String())
	result, err := s.wallet.SignAndSubmitTransfer(ctx, account.Address, recipient, units)
	if err == nil && result.TxID == "" {
		err = errors.New("signer returned an empty transaction id")
	}
	if err != nil {
		subErr := &entity.SubmissionError{Cause: err}
		s.logger.Error("Transfer submission failed", "to", recipient, "error", err)
		metrics.TransfersSubmitted.WithLabelValues("rejected").Inc()
		s.notify("Transaction failed", err.Error(), entity.SeverityError)
		return entity.TransactionRecord{}, subErr
	}

	rec := entity.TransactionRecord{
		TxID:        result.TxID,
		Status:      entity.TxStatusPending,
		Recipient:   recipient,
		Amount:      units,
		FromGroup:   result.FromGroup,
		ToGroup:     result.ToGroup,
		SubmittedAt: time.Now(),
	}

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.record = &rec
	s.transientStreak = 0
	s.transientNotified = false
	s.notFoundStreak = 0
	pollCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	startLoop := !s.closed
	if startLoop {
		s.wg.Add(1)
	}
	snapshot := rec.Clone()
	s.mu.Unlock()

	metrics.TransfersSubmitted.WithLabelValues("submitted").Inc()
	s.logger.Info("Transfer submitted, tracking confirmation", "txId", rec.TxID, "generation", gen)
	s.notify("Transaction submitted", fmt.Sprintf("Transaction ID: %s", rec.TxID), entity.SeverityInfo)

	if startLoop {
		go s.pollLoop(pollCtx, gen, rec.TxID)
	} else {
		cancel()
	}
	return snapshot, nil
}

func (s *TransferOrchestratorImpl) reject(err error, result, title, description string) (entity.TransactionRecord, error) {
	metrics.TransfersSubmitted.WithLabelValues(result).Inc()
	s.notify(title, description, entity.SeverityError)
	return entity.TransactionRecord{}, err
}

// Current returns a snapshot of the tracked record.
func (s *TransferOrchestratorImpl) Current() (entity.TransactionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return entity.TransactionRecord{}, false
	}
	return s.record.Clone(), true
}

// Close stops the active poll loop and waits for it to return. The tracked record keeps its
// last status.
func (s *TransferOrchestratorImpl) Close() {
	s.mu.Lock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *TransferOrchestratorImpl) pollLoop(ctx context.Context, gen uint64, txID string) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Poll loop cancelled", "txId", txID, "generation", gen)
			return
		case <-ticker.C:
			if done := s.pollOnce(ctx, gen, txID); done {
				return
			}
		}
	}
}

// pollOnce runs one status check and reports whether the loop should stop.
func (s *TransferOrchestratorImpl) pollOnce(ctx context.Context, gen uint64, txID string) bool {
	if !s.beginTick(gen) {
		metrics.PollTicks.WithLabelValues("stale").Inc()
		return true
	}

	status, err := s.node.GetTransactionStatus(ctx, txID)
	if ctx.Err() != nil {
		return true
	}
	switch {
	case errors.Is(err, entity.ErrTransactionNotFound):
		metrics.PollTicks.WithLabelValues("not_found").Inc()
		s.logger.Warn("Transaction not found on the network", "txId", txID, "error", err)
		s.fail(gen, notFoundReason, "Transaction could not be found on the network")
		return true
	case err != nil:
		return s.transientFailure(gen, txID, err)
	}

	if status.Type == entity.TxStatusTypeTxNotFound {
		return s.unknownReply(gen, txID)
	}

	if status.Type != entity.TxStatusTypeConfirmed {
		metrics.PollTicks.WithLabelValues("pending").Inc()
		s.logger.Debug("Transaction still pending", "txId", txID, "type", string(status.Type))
		s.queryOK(gen)
		return s.checkAttempts(gen)
	}

	block, err := s.node.GetBlockByHash(ctx, status.BlockHash)
	if ctx.Err() != nil {
		return true
	}
	if err != nil {
		return s.transientFailure(gen, txID, fmt.Errorf("block %s lookup: %w", status.BlockHash, err))
	}
	if block.Hash == "" {
		block.Hash = status.BlockHash
	}

	metrics.PollTicks.WithLabelValues("confirmed").Inc()
	s.confirm(ctx, gen, txID, block)
	return true
}

// beginTick counts the attempt and reports whether gen still tracks a pending record.
func (s *TransferOrchestratorImpl) beginTick(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.record == nil || s.record.Status != entity.TxStatusPending {
		return false
	}
	s.record.PollAttempts++
	return true
}

func (s *TransferOrchestratorImpl) queryOK(gen uint64) {
	s.mu.Lock()
	if gen == s.gen {
		s.transientStreak = 0
		s.transientNotified = false
		s.notFoundStreak = 0
	}
	s.mu.Unlock()
}

// unknownReply handles a TxNotFound answer. The transfer stays pending until
// TxNotFoundThreshold such replies arrive in a row.
func (s *TransferOrchestratorImpl) unknownReply(gen uint64, txID string) bool {
	s.mu.Lock()
	current := gen == s.gen && s.record != nil && s.record.Status == entity.TxStatusPending
	streak := 0
	if current {
		s.transientStreak = 0
		s.transientNotified = false
		s.notFoundStreak++
		streak = s.notFoundStreak
	}
	s.mu.Unlock()

	if !current {
		return true
	}
	if streak >= s.opts.TxNotFoundThreshold {
		metrics.PollTicks.WithLabelValues("not_found").Inc()
		s.logger.Warn("Transaction unknown to the node", "txId", txID, "replies", streak)
		s.fail(gen, notFoundReason, "Transaction could not be found on the network")
		return true
	}
	metrics.PollTicks.WithLabelValues("pending").Inc()
	s.logger.Debug("Node does not know the transaction yet", "txId", txID, "replies", streak)
	return s.checkAttempts(gen)
}

func (s *TransferOrchestratorImpl) transientFailure(gen uint64, txID string, err error) bool {
	qErr := &entity.TransientQueryError{TxID: txID, Err: err}
	metrics.PollTicks.WithLabelValues("transient").Inc()
	s.logger.Warn("Status query failed, retrying on next tick", "txId", txID, "error", qErr)

	threshold := s.opts.TransientErrorNotifyThreshold
	s.mu.Lock()
	current := gen == s.gen && s.record != nil && s.record.Status == entity.TxStatusPending
	notifyNow := false
	if current {
		s.transientStreak++
		if threshold > 0 && s.transientStreak >= threshold && !s.transientNotified {
			s.transientNotified = true
			notifyNow = true
		}
	}
	s.mu.Unlock()

	if !current {
		return true
	}
	if notifyNow {
		s.notify("Node unreachable", "Still retrying to fetch the transaction status", entity.SeverityInfo)
	}
	return s.checkAttempts(gen)
}

// checkAttempts fails the record once MaxPollAttempts ticks passed without a terminal status.
func (s *TransferOrchestratorImpl) checkAttempts(gen uint64) bool {
	limit := s.opts.MaxPollAttempts
	if limit <= 0 {
		return false
	}
	s.mu.Lock()
	exhausted := gen == s.gen && s.record != nil && s.record.Status == entity.TxStatusPending && s.record.PollAttempts >= limit
	s.mu.Unlock()
	if !exhausted {
		return false
	}
	s.fail(gen, entity.ErrConfirmationTimeout.Error(),
		fmt.Sprintf("Transaction was not confirmed after %d status checks", limit))
	return true
}

func (s *TransferOrchestratorImpl) fail(gen uint64, reason, description string) {
	s.mu.Lock()
	if gen != s.gen || s.record == nil || s.record.Status != entity.TxStatusPending {
		s.mu.Unlock()
		return
	}
	now := time.Now()
	s.record.Status = entity.TxStatusFailed
	s.record.FailureReason = reason
	s.record.FinalizedAt = &now
	txID := s.record.TxID
	s.mu.Unlock()

	metrics.TransfersFinalized.WithLabelValues(string(entity.TxStatusFailed)).Inc()
	s.logger.Error("Transfer failed", "txId", txID, "reason", reason)
	s.notify("Transaction failed", description, entity.SeverityError)
}

func (s *TransferOrchestratorImpl) confirm(ctx context.Context, gen uint64, txID string, block entity.BlockInfo) {
	s.mu.Lock()
	if gen != s.gen || s.record == nil || s.record.Status != entity.TxStatusPending {
		s.mu.Unlock()
		return
	}
	now := time.Now()
	hash, ts, from, to, height := block.Hash, block.Timestamp, block.ChainFrom, block.ChainTo, block.Height
	s.record.Status = entity.TxStatusConfirmed
	s.record.BlockHash = &hash
	s.record.Timestamp = &ts
	s.record.ChainFrom = &from
	s.record.ChainTo = &to
	s.record.Height = &height
	s.record.FinalizedAt = &now
	s.mu.Unlock()

	metrics.TransfersFinalized.WithLabelValues(string(entity.TxStatusConfirmed)).Inc()
	s.logger.Info("Transfer confirmed", "txId", txID, "blockHash", hash, "height", height,
		"chainFrom", from, "chainTo", to)

	if s.balance != nil {
		// The refresh outlives a later supersession of this loop.
		s.balance.RefreshForTransaction(context.WithoutCancel(ctx), txID)
	}
	s.notify("Transaction confirmed",
		fmt.Sprintf("Transaction %s included in block %s", utils.ShortenID(txID), utils.ShortenID(hash)),
		entity.SeveritySuccess)
}

func (s *TransferOrchestratorImpl) notify(title, description string, severity entity.Severity) {
	if s.sink == nil {
		return
	}
	s.sink.Notify(entity.Notification{
		Title:       title,
		Description: description,
		Severity:    severity,
		DurationMs:  s.opts.NotificationDuration.Milliseconds(),
	})
}

package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned when no wallet session is active.
	ErrNotConnected = errors.New("wallet not connected")
	// ErrInvalidRecipient is returned for an empty recipient address.
	ErrInvalidRecipient = errors.New("invalid recipient address")
	// ErrInvalidAmount is returned when the amount is not a positive decimal.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrSubmissionFailed classifies every signer/broadcast failure.
	ErrSubmissionFailed = errors.New("transaction submission failed")
	// ErrTransactionNotFound means the node does not know the polled transaction.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrConfirmationTimeout is used when the optional poll bound is exhausted.
	ErrConfirmationTimeout = errors.New("transaction not confirmed within poll limit")
	// ErrInvalidInput is returned by read-only lookups given an empty or malformed key.
	ErrInvalidInput = errors.New("invalid input")
)

// SubmissionError wraps the cause reported by the signer. errors.Is(err, ErrSubmissionFailed) holds.
type SubmissionError struct {
	Cause error
}

func (e *SubmissionError) Error() string {
	if e.Cause == nil {
		return ErrSubmissionFailed.Error()
	}
	return e.Cause.Error()
}

func (e *SubmissionError) Unwrap() []error {
	return []error{ErrSubmissionFailed, e.Cause}
}

// TransientQueryError is any status-poll failure other than not-found. The poll loop retries it.
type TransientQueryError struct {
	TxID string
	Err  error
}

func (e *TransientQueryError) Error() string {
	return fmt.Sprintf("transient status query failure for %s: %v", e.TxID, e.Err)
}

func (e *TransientQueryError) Unwrap() error {
	return e.Err
}

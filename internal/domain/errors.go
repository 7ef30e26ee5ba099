package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidationError reports a rejected input field. Validation failures
// abort before any write and are returned synchronously to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InsufficientFunds is returned when a transfer withdrawal exceeds the
// source wallet's live balance. Expense creation is never blocked on
// insufficient funds; only transfers are.
type InsufficientFunds struct {
	WalletID  uuid.UUID
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFunds) Error() string {
	return fmt.Sprintf("insufficient funds in wallet %s: requested %s, available %s",
		e.WalletID, e.Requested, e.Available)
}

// WalletNotFound is returned when a wallet lookup misses (including
// soft-deleted wallets, which are invisible to the core).
type WalletNotFound struct {
	WalletID uuid.UUID
}

func (e *WalletNotFound) Error() string {
	return fmt.Sprintf("wallet not found: %s", e.WalletID)
}

// TransactionNotFound is returned when a transaction lookup misses
type TransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e *TransactionNotFound) Error() string {
	return fmt.Sprintf("transaction not found: %s", e.TransactionID)
}

// TradeNotFound is returned when a trade lookup misses
type TradeNotFound struct {
	TradeID uuid.UUID
}

func (e *TradeNotFound) Error() string {
	return fmt.Sprintf("trade not found: %s", e.TradeID)
}

// NoExchangeRate is returned when no rate row exists for a currency pair.
// The engine fails explicitly rather than guessing a rate.
type NoExchangeRate struct {
	From string
	To   string
}

func (e *NoExchangeRate) Error() string {
	return fmt.Sprintf("no exchange rate for %s -> %s", e.From, e.To)
}

// ImmutableTransfer is returned when an update targets a transfer row.
// Transfer pairs are immutable once created; delete and recreate instead.
type ImmutableTransfer struct {
	TransactionID uuid.UUID
}

func (e *ImmutableTransfer) Error() string {
	return fmt.Sprintf("transaction %s is a transfer and cannot be edited", e.TransactionID)
}

// PartialFailureCompensated is returned when the second insert of a
// transfer pair failed and the withdrawal leg was rolled back. The pair
// never existed half-created; the caller sees a normal failure.
type PartialFailureCompensated struct {
	PairID uuid.UUID
	Cause  error
}

func (e *PartialFailureCompensated) Error() string {
	return fmt.Sprintf("transfer pair %s rolled back after partial failure: %v", e.PairID, e.Cause)
}

func (e *PartialFailureCompensated) Unwrap() error { return e.Cause }

// CompensationFailed is returned when the rollback of a half-created
// transfer pair itself failed. There is no further fallback; the pair id
// is carried for manual reconciliation.
type CompensationFailed struct {
	PairID uuid.UUID
	Cause  error
}

func (e *CompensationFailed) Error() string {
	return fmt.Sprintf("failed to roll back half-created transfer pair %s: %v", e.PairID, e.Cause)
}

func (e *CompensationFailed) Unwrap() error { return e.Cause }

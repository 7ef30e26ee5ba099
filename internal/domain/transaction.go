package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of a ledger row
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// Transaction represents one ledger row.
//
// Amount is SIGNED: positive for income and for the receiving side of a
// transfer, negative for expense and for the withdrawing side of a transfer.
//
// Transfers exist as exactly two live rows sharing a TransferPairID: a
// withdrawal row (negative amount, WalletID = source) and a deposit row
// (positive amount, WalletID = destination), each with ToWalletID pointing
// at the other side's wallet. Transfers are immutable once created; edits
// are refused and changes require delete + recreate.
type Transaction struct {
	ID             uuid.UUID
	WalletID       uuid.UUID
	ToWalletID     *uuid.UUID
	CategoryID     *uuid.UUID
	Type           TransactionType
	Amount         decimal.Decimal
	Description    string
	Date           time.Time
	TransferPairID *uuid.UUID
	CreatedAt      time.Time
	DeletedAt      *time.Time
}

// IsTransferLeg reports whether the row is one side of a transfer pair
func (t *Transaction) IsTransferLeg() bool {
	return t.Type == TransactionTypeTransfer && t.TransferPairID != nil
}

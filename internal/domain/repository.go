package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletRepository defines the interface for wallet persistence operations.
// Lookups never return soft-deleted wallets.
type WalletRepository interface {
	// GetByID retrieves a live wallet by its ID.
	// Returns *WalletNotFound if no live row exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error)

	// Create inserts a new wallet
	Create(ctx context.Context, wallet *Wallet) error

	// Update persists name, type and currency changes.
	// initial_amount is immutable and current_amount is owned by the
	// balance ledger; neither is written here.
	Update(ctx context.Context, wallet *Wallet) error

	// SoftDelete marks a wallet deleted by timestamp
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List retrieves all live wallets, newest first
	List(ctx context.Context) ([]*Wallet, error)

	// AddToBalance adds a signed delta to current_amount as a single
	// atomic store-side increment, so concurrent balance mutations on
	// the same wallet cannot lose updates.
	// Returns *WalletNotFound if no live row exists.
	AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

// TransactionFilter narrows ListTransactions results. All fields are
// optional and conjunctive. WalletID matches either side of a transfer.
// DateFrom/DateTo are inclusive over the transaction date, not the
// creation timestamp. Limit caps the result set; callers must not treat
// the cap as a completeness guarantee.
type TransactionFilter struct {
	WalletID   *uuid.UUID
	Type       *TransactionType
	CategoryID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
}

// TransactionRepository defines the interface for ledger row persistence.
// Deletes are soft; soft-deleted rows are excluded from every read.
type TransactionRepository interface {
	// GetByID retrieves a live transaction by its ID.
	// Returns *TransactionNotFound if no live row exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// Insert creates a new ledger row
	Insert(ctx context.Context, tx *Transaction) error

	// Update persists edits to a non-transfer row
	Update(ctx context.Context, tx *Transaction) error

	// DeleteByID soft-deletes a single row
	DeleteByID(ctx context.Context, id uuid.UUID) error

	// DeleteByPairID soft-deletes every row sharing a transfer pair id
	// in one statement, so a failure cannot leave an orphaned half-pair.
	// Deleting zero rows is not an error; the call is idempotent.
	DeleteByPairID(ctx context.Context, pairID uuid.UUID) error

	// List retrieves live transactions matching the filter, ordered by
	// date descending
	List(ctx context.Context, filter TransactionFilter) ([]*Transaction, error)
}

// RateRepository is the read path into exchange_rates. Rows are written
// by an external ingestion job.
type RateRepository interface {
	// GetLatest retrieves the most recent rate for a currency pair.
	// Returns *NoExchangeRate if no row exists for the pair.
	GetLatest(ctx context.Context, from, to string) (*ExchangeRate, error)
}

// SnapshotRepository defines the interface for monthly snapshot persistence
type SnapshotRepository interface {
	// Add inserts a snapshot row
	Add(ctx context.Context, snapshot *MonthlySnapshot) error

	// Get retrieves the snapshot for a wallet and month (first of month,
	// midnight UTC). Returns nil without error when none exists.
	Get(ctx context.Context, walletID uuid.UUID, month time.Time) (*MonthlySnapshot, error)
}

// TradeFilter narrows ListTrades results. All fields are optional and
// conjunctive; Symbol matches as a case-insensitive substring.
type TradeFilter struct {
	WalletID *uuid.UUID
	Status   *TradeStatus
	Symbol   string
}

// TradeRepository defines the interface for trade persistence operations
type TradeRepository interface {
	// GetByID retrieves a live trade by its ID.
	// Returns *TradeNotFound if no live row exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Trade, error)

	// Insert creates a new trade
	Insert(ctx context.Context, trade *Trade) error

	// Update persists trade edits, including close fields
	Update(ctx context.Context, trade *Trade) error

	// SoftDelete marks a trade deleted by timestamp
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// List retrieves live trades matching the filter, newest first
	List(ctx context.Context, filter TradeFilter) ([]*Trade, error)
}

// BalanceRecalculator is the boundary to the store-side corrective
// recompute procedure. The procedure must recompute every wallet's
// current_amount as initial_amount plus the sum of signed amounts of its
// own live rows, and persist the result.
//
// The contract is idempotence: calling it repeatedly, in any order
// relative to individual transaction writes, converges on the same
// balances. The engine calls it after every structural edit and treats
// its failure as non-fatal but loggable; it may also be invoked
// on-demand as an administrative repair.
type BalanceRecalculator interface {
	RecalculateAll(ctx context.Context) error
}

package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haidang/fintrack-backend/internal/domain"
)

// EntryKind identifies which side of an operation a balance delta encodes
type EntryKind int

const (
	KindIncome EntryKind = iota
	KindExpense
	KindTransferWithdrawal
	KindTransferDeposit
)

// DeltaFor maps an entry kind and an unsigned amount to the signed delta
// it contributes to its wallet's balance: income and transfer deposits
// credit the wallet, expenses and transfer withdrawals debit it.
// For transfer deposits the caller passes the already-converted amount.
// Pure; never mutates state.
func DeltaFor(kind EntryKind, amount decimal.Decimal) decimal.Decimal {
	abs := amount.Abs()
	switch kind {
	case KindExpense, KindTransferWithdrawal:
		return abs.Neg()
	default:
		return abs
	}
}

// SignedAmountFor maps a non-transfer transaction type to its signed
// ledger amount
func SignedAmountFor(txType domain.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if txType == domain.TransactionTypeExpense {
		return DeltaFor(KindExpense, amount)
	}
	return DeltaFor(KindIncome, amount)
}

// CheckSufficientFunds returns *domain.InsufficientFunds when the wallet's
// live balance cannot cover amount. Enforced for transfer withdrawals;
// expense creation is never blocked on it, callers may at most surface it
// as a soft warning.
func CheckSufficientFunds(wallet *domain.Wallet, amount decimal.Decimal) error {
	if wallet.CurrentAmount.LessThan(amount) {
		return &domain.InsufficientFunds{
			WalletID:  wallet.ID,
			Requested: amount,
			Available: wallet.CurrentAmount,
		}
	}
	return nil
}

// Ledger owns how signed deltas are applied to wallet rows. It is the
// only writer of wallet.current_amount outside the recompute procedure.
type Ledger struct {
	Wallets domain.WalletRepository
}

// New creates a new Ledger instance
func New(wallets domain.WalletRepository) *Ledger {
	return &Ledger{Wallets: wallets}
}

// ApplyDelta adds a signed delta to a wallet's balance. The add happens
// as a single atomic increment at the store, so concurrent operations
// touching the same wallet cannot lose updates.
func (l *Ledger) ApplyDelta(ctx context.Context, walletID uuid.UUID, delta decimal.Decimal) error {
	return l.Wallets.AddToBalance(ctx, walletID, delta)
}

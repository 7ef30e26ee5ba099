package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/haidang/fintrack-backend/internal/domain"
	"github.com/haidang/fintrack-backend/internal/usecase/ledger"
)

// Engine orchestrates creation, update and deletion of income, expense
// and transfer records, and keeps wallet balances consistent with the
// ledger. Every store call is an independent round trip; there is no
// transaction spanning them, so the engine compensates on partial
// failure and leans on the recompute procedure after structural edits.
type Engine struct {
	Wallets      domain.WalletRepository
	Transactions domain.TransactionRepository
	Rates        domain.RateRepository
	Recalculator domain.BalanceRecalculator
	Ledger       *ledger.Ledger
	Logger       *zap.Logger
}

// New creates a new Engine instance
func New(
	wallets domain.WalletRepository,
	transactions domain.TransactionRepository,
	rates domain.RateRepository,
	recalculator domain.BalanceRecalculator,
	balanceLedger *ledger.Ledger,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		Wallets:      wallets,
		Transactions: transactions,
		Rates:        rates,
		Recalculator: recalculator,
		Ledger:       balanceLedger,
		Logger:       logger,
	}
}

// CreateTransactionInput carries the union of fields for all three
// transaction types; Validate enforces the per-type requirements.
// Amount is unsigned; the engine derives the signed ledger amounts.
type CreateTransactionInput struct {
	Type        domain.TransactionType
	WalletID    uuid.UUID
	ToWalletID  *uuid.UUID
	CategoryID  *uuid.UUID
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// Validate enforces the per-type field requirements
func (in *CreateTransactionInput) Validate() error {
	if !in.Type.Valid() {
		return &domain.ValidationError{Field: "type", Reason: "unknown transaction type: " + string(in.Type)}
	}
	if in.WalletID == uuid.Nil {
		return &domain.ValidationError{Field: "wallet_id", Reason: "wallet is required"}
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return &domain.ValidationError{Field: "amount", Reason: "amount must be positive"}
	}
	if in.Date.IsZero() {
		return &domain.ValidationError{Field: "date", Reason: "date is required"}
	}
	if in.Type == domain.TransactionTypeTransfer {
		if in.ToWalletID == nil || *in.ToWalletID == uuid.Nil {
			return &domain.ValidationError{Field: "to_wallet_id", Reason: "transfer requires a destination wallet"}
		}
		if *in.ToWalletID == in.WalletID {
			return &domain.ValidationError{Field: "to_wallet_id", Reason: "cannot transfer into the same wallet"}
		}
		if in.CategoryID != nil {
			return &domain.ValidationError{Field: "category_id", Reason: "transfers do not take a category"}
		}
	} else if in.ToWalletID != nil {
		return &domain.ValidationError{Field: "to_wallet_id", Reason: "only transfers take a destination wallet"}
	}
	return nil
}

// CreateTransaction creates an income or expense row, or a transfer pair.
//
// Income/expense: one row is inserted, then the signed amount is applied
// to the wallet balance. A balance failure after a committed insert is
// logged as unresolved drift and the create still reports success; the
// next recompute restores consistency.
//
// Transfer: the withdrawal and deposit legs are inserted under a fresh
// pair id, converting the amount when the wallet currencies differ. If
// the deposit insert fails the withdrawal leg is rolled back so the pair
// never exists half-created. Balance updates run after both inserts and
// their failures are drift, not create failures.
func (e *Engine) CreateTransaction(ctx context.Context, input CreateTransactionInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	if input.Type == domain.TransactionTypeTransfer {
		return e.createTransfer(ctx, input)
	}

	// Validate the wallet exists before writing anything
	if _, err := e.Wallets.GetByID(ctx, input.WalletID); err != nil {
		return err
	}

	signed := ledger.SignedAmountFor(input.Type, input.Amount)
	row := &domain.Transaction{
		ID:          uuid.New(),
		WalletID:    input.WalletID,
		CategoryID:  input.CategoryID,
		Type:        input.Type,
		Amount:      signed,
		Description: input.Description,
		Date:        input.Date,
	}

	if err := e.Transactions.Insert(ctx, row); err != nil {
		return err
	}

	if err := e.Ledger.ApplyDelta(ctx, input.WalletID, signed); err != nil {
		// Ledger row is committed but the balance is stale: detected,
		// unresolved drift. The create itself succeeded.
		e.logDrift("balance update failed after ledger write", err,
			zap.String("wallet_id", input.WalletID.String()),
			zap.String("transaction_id", row.ID.String()),
			zap.String("delta", signed.String()))
	}
	return nil
}

func (e *Engine) createTransfer(ctx context.Context, input CreateTransactionInput) error {
	source, err := e.Wallets.GetByID(ctx, input.WalletID)
	if err != nil {
		return err
	}
	if err := ledger.CheckSufficientFunds(source, input.Amount); err != nil {
		return err
	}

	destination, err := e.Wallets.GetByID(ctx, *input.ToWalletID)
	if err != nil {
		return err
	}

	convertedAmount := input.Amount
	if source.Currency != destination.Currency {
		rate, err := e.Rates.GetLatest(ctx, source.Currency, destination.Currency)
		if err != nil {
			return err
		}
		convertedAmount = input.Amount.Mul(rate.Rate)
	}

	pairID := uuid.New()
	withdrawal := &domain.Transaction{
		ID:             uuid.New(),
		WalletID:       source.ID,
		ToWalletID:     &destination.ID,
		Type:           domain.TransactionTypeTransfer,
		Amount:         ledger.DeltaFor(ledger.KindTransferWithdrawal, input.Amount),
		Description:    input.Description,
		Date:           input.Date,
		TransferPairID: &pairID,
	}
	deposit := &domain.Transaction{
		ID:             uuid.New(),
		WalletID:       destination.ID,
		ToWalletID:     &source.ID,
		Type:           domain.TransactionTypeTransfer,
		Amount:         ledger.DeltaFor(ledger.KindTransferDeposit, convertedAmount),
		Description:    input.Description,
		Date:           input.Date,
		TransferPairID: &pairID,
	}

	if err := e.Transactions.Insert(ctx, withdrawal); err != nil {
		return err
	}

	if err := e.Transactions.Insert(ctx, deposit); err != nil {
		// Roll back the withdrawal leg so the pair never exists
		// half-created. The rollback runs on an uncancelable context:
		// a deadline that killed the deposit insert must not also kill
		// the compensation.
		compCtx := context.WithoutCancel(ctx)
		if compErr := e.Transactions.DeleteByPairID(compCtx, pairID); compErr != nil {
			e.Logger.Error("transfer compensation failed, half-created pair left behind",
				zap.String("transfer_pair_id", pairID.String()),
				zap.String("source_wallet_id", source.ID.String()),
				zap.String("destination_wallet_id", destination.ID.String()),
				zap.NamedError("insert_error", err),
				zap.Error(compErr))
			return &domain.CompensationFailed{PairID: pairID, Cause: compErr}
		}
		return &domain.PartialFailureCompensated{PairID: pairID, Cause: err}
	}

	// Both legs are committed. Balance updates are independent calls;
	// a failure here is drift corrected by the next recompute, not a
	// failure of the transfer.
	if err := e.Ledger.ApplyDelta(ctx, source.ID, withdrawal.Amount); err != nil {
		e.logDrift("source balance update failed after transfer", err,
			zap.String("wallet_id", source.ID.String()),
			zap.String("transfer_pair_id", pairID.String()),
			zap.String("delta", withdrawal.Amount.String()))
	}
	if err := e.Ledger.ApplyDelta(ctx, destination.ID, deposit.Amount); err != nil {
		e.logDrift("destination balance update failed after transfer", err,
			zap.String("wallet_id", destination.ID.String()),
			zap.String("transfer_pair_id", pairID.String()),
			zap.String("delta", deposit.Amount.String()))
	}
	return nil
}

// UpdateTransactionInput carries the editable fields of a non-transfer
// row. Amount is unsigned; the signed amount is recomputed from Type.
type UpdateTransactionInput struct {
	Type        domain.TransactionType
	WalletID    uuid.UUID
	CategoryID  *uuid.UUID
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// UpdateTransaction edits an income or expense row in place. Transfer
// rows are refused with *domain.ImmutableTransfer. The wallet balance is
// not patched incrementally: an in-place edit can change the historical
// delta in error-prone ways, so the full recompute runs after the write.
func (e *Engine) UpdateTransaction(ctx context.Context, id uuid.UUID, input UpdateTransactionInput) error {
	row, err := e.Transactions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if row.Type == domain.TransactionTypeTransfer {
		return &domain.ImmutableTransfer{TransactionID: id}
	}

	if !input.Type.Valid() || input.Type == domain.TransactionTypeTransfer {
		return &domain.ValidationError{Field: "type", Reason: "type must be income or expense"}
	}
	if input.WalletID == uuid.Nil {
		return &domain.ValidationError{Field: "wallet_id", Reason: "wallet is required"}
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return &domain.ValidationError{Field: "amount", Reason: "amount must be positive"}
	}
	if input.Date.IsZero() {
		return &domain.ValidationError{Field: "date", Reason: "date is required"}
	}
	if _, err := e.Wallets.GetByID(ctx, input.WalletID); err != nil {
		return err
	}

	row.Type = input.Type
	row.WalletID = input.WalletID
	row.CategoryID = input.CategoryID
	row.Amount = ledger.SignedAmountFor(input.Type, input.Amount)
	row.Description = input.Description
	row.Date = input.Date

	if err := e.Transactions.Update(ctx, row); err != nil {
		return err
	}

	e.recalculate(ctx, "update", row.ID)
	return nil
}

// DeleteTransaction soft-deletes a row. Deleting either leg of a
// transfer removes both legs in one request. The delete succeeds once
// the rows are gone; a recompute failure afterwards is a warning, and
// balances stay stale until the next successful recompute.
func (e *Engine) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	row, err := e.Transactions.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if row.IsTransferLeg() {
		err = e.Transactions.DeleteByPairID(ctx, *row.TransferPairID)
	} else {
		err = e.Transactions.DeleteByID(ctx, id)
	}
	if err != nil {
		return err
	}

	e.recalculate(ctx, "delete", id)
	return nil
}

// ListTransactions retrieves live transactions matching the filter,
// ordered by date descending. When no cap is set, DefaultListLimit
// applies; the cap is not a completeness guarantee.
func (e *Engine) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	return e.Transactions.List(ctx, filter)
}

// DefaultListLimit caps transaction listings when the caller sets none
const DefaultListLimit = 100

// recalculate runs the corrective recompute after a structural edit.
// Failure is drift, not an operation failure.
func (e *Engine) recalculate(ctx context.Context, op string, txID uuid.UUID) {
	if err := e.Recalculator.RecalculateAll(ctx); err != nil {
		e.logDrift("balance recompute failed after "+op, err,
			zap.String("transaction_id", txID.String()))
	}
}

func (e *Engine) logDrift(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	e.Logger.Warn(msg, fields...)
}

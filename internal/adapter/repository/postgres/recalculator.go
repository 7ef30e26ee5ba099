package postgres

import (
	"context"
	"fmt"

	"github.com/haidang/fintrack-backend/internal/domain"
)

// recalculator implements domain.BalanceRecalculator by invoking the
// store-side recalculate_all_wallet_balances procedure. The procedure
// body lives in the database and is idempotent; this adapter only
// triggers it.
type recalculator struct {
	db *DB
}

// NewRecalculator creates a new balance recalculator
func NewRecalculator(db *DB) domain.BalanceRecalculator {
	return &recalculator{db: db}
}

// RecalculateAll recomputes every wallet's current_amount from its live
// transactions
func (r *recalculator) RecalculateAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `SELECT recalculate_all_wallet_balances()`); err != nil {
		return fmt.Errorf("failed to recalculate wallet balances: %w", err)
	}
	return nil
}

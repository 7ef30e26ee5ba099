package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haidang/fintrack-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new monthly snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Add inserts a snapshot row
func (r *snapshotRepository) Add(ctx context.Context, snapshot *domain.MonthlySnapshot) error {
	query := `
		INSERT INTO wallet_monthly_snapshots (id, wallet_id, month, opening_balance, total_income, total_expense)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		snapshot.ID,
		snapshot.WalletID,
		snapshot.Month,
		snapshot.OpeningBalance.String(),
		snapshot.TotalIncome.String(),
		snapshot.TotalExpense.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert monthly snapshot: %w", err)
	}

	return nil
}

// Get retrieves the snapshot for a wallet and month. Returns nil without
// error when no snapshot exists.
func (r *snapshotRepository) Get(ctx context.Context, walletID uuid.UUID, month time.Time) (*domain.MonthlySnapshot, error) {
	query := `
		SELECT id, wallet_id, month, opening_balance, total_income, total_expense
		FROM wallet_monthly_snapshots
		WHERE wallet_id = $1 AND month = $2
	`

	var snapshot domain.MonthlySnapshot
	var openingStr, incomeStr, expenseStr string

	err := r.db.QueryRowContext(ctx, query, walletID, month).Scan(
		&snapshot.ID,
		&snapshot.WalletID,
		&snapshot.Month,
		&openingStr,
		&incomeStr,
		&expenseStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get monthly snapshot: %w", err)
	}

	if snapshot.OpeningBalance, err = decimal.NewFromString(openingStr); err != nil {
		return nil, fmt.Errorf("failed to parse opening_balance: %w", err)
	}
	if snapshot.TotalIncome, err = decimal.NewFromString(incomeStr); err != nil {
		return nil, fmt.Errorf("failed to parse total_income: %w", err)
	}
	if snapshot.TotalExpense, err = decimal.NewFromString(expenseStr); err != nil {
		return nil, fmt.Errorf("failed to parse total_expense: %w", err)
	}

	return &snapshot, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haidang/fintrack-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `id, wallet_id, to_wallet_id, category_id, type, amount, description, date, transfer_pair_id, created_at`

// GetByID retrieves a live transaction by its ID
func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM financial_transactions
		WHERE id = $1 AND deleted_at IS NULL
	`

	row := r.db.QueryRowContext(ctx, query, id)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.TransactionNotFound{TransactionID: id}
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}
	return tx, nil
}

// Insert creates a new ledger row
func (r *transactionRepository) Insert(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO financial_transactions
			(id, wallet_id, to_wallet_id, category_id, type, amount, description, date, transfer_pair_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.WalletID,
		nullableUUID(tx.ToWalletID),
		nullableUUID(tx.CategoryID),
		string(tx.Type),
		tx.Amount.String(),
		tx.Description,
		tx.Date,
		nullableUUID(tx.TransferPairID),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// Update persists edits to a row
func (r *transactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	query := `
		UPDATE financial_transactions
		SET wallet_id = $2, category_id = $3, type = $4, amount = $5, description = $6, date = $7
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		tx.ID,
		tx.WalletID,
		nullableUUID(tx.CategoryID),
		string(tx.Type),
		tx.Amount.String(),
		tx.Description,
		tx.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	return requireRow(result, &domain.TransactionNotFound{TransactionID: tx.ID})
}

// DeleteByID soft-deletes a single row
func (r *transactionRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE financial_transactions
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	return requireRow(result, &domain.TransactionNotFound{TransactionID: id})
}

// DeleteByPairID soft-deletes every row sharing a transfer pair id in a
// single statement. Zero matched rows is fine; the call is idempotent,
// which the engine's compensation path relies on.
func (r *transactionRepository) DeleteByPairID(ctx context.Context, pairID uuid.UUID) error {
	query := `
		UPDATE financial_transactions
		SET deleted_at = NOW()
		WHERE transfer_pair_id = $1 AND deleted_at IS NULL
	`

	if _, err := r.db.ExecContext(ctx, query, pairID); err != nil {
		return fmt.Errorf("failed to delete transfer pair: %w", err)
	}

	return nil
}

// List retrieves live transactions matching the filter, ordered by date
// descending
func (r *transactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	query, args := buildListQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}

	return transactions, nil
}

// buildListQuery assembles the filtered SELECT. Filters are conjunctive;
// the wallet filter matches either side of a transfer, and the date range
// is inclusive over the transaction date.
func buildListQuery(filter domain.TransactionFilter) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("SELECT " + transactionColumns + " FROM financial_transactions WHERE deleted_at IS NULL")

	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.WalletID != nil {
		p := arg(*filter.WalletID)
		sb.WriteString(fmt.Sprintf(" AND (wallet_id = %s OR to_wallet_id = %s)", p, p))
	}
	if filter.Type != nil {
		sb.WriteString(" AND type = " + arg(string(*filter.Type)))
	}
	if filter.CategoryID != nil {
		sb.WriteString(" AND category_id = " + arg(*filter.CategoryID))
	}
	if filter.DateFrom != nil {
		sb.WriteString(" AND date >= " + arg(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		sb.WriteString(" AND date <= " + arg(*filter.DateTo))
	}

	sb.WriteString(" ORDER BY date DESC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filter.Limit))
	}

	return sb.String(), args
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var tx domain.Transaction
	var toWalletID, categoryID, pairID sql.NullString
	var txType, amountStr string

	err := s.Scan(
		&tx.ID,
		&tx.WalletID,
		&toWalletID,
		&categoryID,
		&txType,
		&amountStr,
		&tx.Description,
		&tx.Date,
		&pairID,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.Type = domain.TransactionType(txType)

	tx.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}

	if tx.ToWalletID, err = parseNullableUUID(toWalletID, "to_wallet_id"); err != nil {
		return nil, err
	}
	if tx.CategoryID, err = parseNullableUUID(categoryID, "category_id"); err != nil {
		return nil, err
	}
	if tx.TransferPairID, err = parseNullableUUID(pairID, "transfer_pair_id"); err != nil {
		return nil, err
	}

	return &tx, nil
}

func nullableUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func parseNullableUUID(v sql.NullString, column string) (*uuid.UUID, error) {
	if !v.Valid {
		return nil, nil
	}
	parsed, err := uuid.Parse(v.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return &parsed, nil
}

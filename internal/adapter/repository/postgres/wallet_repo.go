package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haidang/fintrack-backend/internal/domain"
)

// walletRepository implements domain.WalletRepository
type walletRepository struct {
	db *DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *DB) domain.WalletRepository {
	return &walletRepository{db: db}
}

// GetByID retrieves a live wallet by its ID
func (r *walletRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `
		SELECT id, name, type, currency, initial_amount, current_amount, created_at
		FROM wallets
		WHERE id = $1 AND deleted_at IS NULL
	`

	row := r.db.QueryRowContext(ctx, query, id)
	wallet, err := scanWallet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.WalletNotFound{WalletID: id}
		}
		return nil, fmt.Errorf("failed to get wallet by ID: %w", err)
	}
	return wallet, nil
}

// Create inserts a new wallet
func (r *walletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		INSERT INTO wallets (id, name, type, currency, initial_amount, current_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		wallet.ID,
		wallet.Name,
		string(wallet.Type),
		wallet.Currency,
		wallet.InitialAmount.String(),
		wallet.CurrentAmount.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}

	return nil
}

// Update persists wallet metadata. initial_amount and current_amount are
// deliberately not in the statement.
func (r *walletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	query := `
		UPDATE wallets
		SET name = $2, type = $3, currency = $4
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		wallet.ID,
		wallet.Name,
		string(wallet.Type),
		wallet.Currency,
	)
	if err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}

	return requireRow(result, &domain.WalletNotFound{WalletID: wallet.ID})
}

// SoftDelete marks a wallet deleted by timestamp
func (r *walletRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE wallets
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete wallet: %w", err)
	}

	return requireRow(result, &domain.WalletNotFound{WalletID: id})
}

// List retrieves all live wallets, newest first
func (r *walletRepository) List(ctx context.Context) ([]*domain.Wallet, error) {
	query := `
		SELECT id, name, type, currency, initial_amount, current_amount, created_at
		FROM wallets
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet row: %w", err)
		}
		wallets = append(wallets, wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallet rows: %w", err)
	}

	return wallets, nil
}

// AddToBalance adds a signed delta to current_amount in a single atomic
// increment, so concurrent mutations of the same wallet cannot lose
// updates
func (r *walletRepository) AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	query := `
		UPDATE wallets
		SET current_amount = current_amount + $2
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, delta.String())
	if err != nil {
		return fmt.Errorf("failed to apply balance delta: %w", err)
	}

	return requireRow(result, &domain.WalletNotFound{WalletID: id})
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan code
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanWallet(s scanner) (*domain.Wallet, error) {
	var wallet domain.Wallet
	var walletType string
	var initialStr, currentStr string

	err := s.Scan(
		&wallet.ID,
		&wallet.Name,
		&walletType,
		&wallet.Currency,
		&initialStr,
		&currentStr,
		&wallet.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	wallet.Type = domain.WalletType(walletType)

	wallet.InitialAmount, err = decimal.NewFromString(initialStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse initial_amount: %w", err)
	}
	wallet.CurrentAmount, err = decimal.NewFromString(currentStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current_amount: %w", err)
	}

	return &wallet, nil
}

// requireRow returns notFound when the statement touched no rows
func requireRow(result sql.Result, notFound error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

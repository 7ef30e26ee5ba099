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

// tradeRepository implements domain.TradeRepository
type tradeRepository struct {
	db *DB
}

// NewTradeRepository creates a new trade repository
func NewTradeRepository(db *DB) domain.TradeRepository {
	return &tradeRepository{db: db}
}

const tradeColumns = `id, wallet_id, symbol, side, entry_price, entry_currency, amount, leverage, status, exit_price, profit_loss, created_at`

// GetByID retrieves a live trade by its ID
func (r *tradeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades
		WHERE id = $1 AND deleted_at IS NULL
	`

	row := r.db.QueryRowContext(ctx, query, id)
	trade, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.TradeNotFound{TradeID: id}
		}
		return nil, fmt.Errorf("failed to get trade by ID: %w", err)
	}
	return trade, nil
}

// Insert creates a new trade
func (r *tradeRepository) Insert(ctx context.Context, trade *domain.Trade) error {
	query := `
		INSERT INTO trades (id, wallet_id, symbol, side, entry_price, entry_currency, amount, leverage, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		trade.ID,
		trade.WalletID,
		trade.Symbol,
		string(trade.Side),
		trade.EntryPrice.String(),
		trade.EntryCurrency,
		trade.Amount.String(),
		trade.Leverage,
		string(trade.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}

	return nil
}

// Update persists trade edits, including close fields
func (r *tradeRepository) Update(ctx context.Context, trade *domain.Trade) error {
	query := `
		UPDATE trades
		SET symbol = $2, side = $3, entry_price = $4, amount = $5, leverage = $6,
		    status = $7, exit_price = $8, profit_loss = $9
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		trade.ID,
		trade.Symbol,
		string(trade.Side),
		trade.EntryPrice.String(),
		trade.Amount.String(),
		trade.Leverage,
		string(trade.Status),
		nullableDecimal(trade.ExitPrice),
		nullableDecimal(trade.ProfitLoss),
	)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}

	return requireRow(result, &domain.TradeNotFound{TradeID: trade.ID})
}

// SoftDelete marks a trade deleted by timestamp
func (r *tradeRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE trades
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete trade: %w", err)
	}

	return requireRow(result, &domain.TradeNotFound{TradeID: id})
}

// List retrieves live trades matching the filter, newest first
func (r *tradeRepository) List(ctx context.Context, filter domain.TradeFilter) ([]*domain.Trade, error) {
	var sb strings.Builder
	sb.WriteString("SELECT " + tradeColumns + " FROM trades WHERE deleted_at IS NULL")

	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.WalletID != nil {
		sb.WriteString(" AND wallet_id = " + arg(*filter.WalletID))
	}
	if filter.Status != nil {
		sb.WriteString(" AND status = " + arg(string(*filter.Status)))
	}
	if filter.Symbol != "" {
		sb.WriteString(" AND symbol ILIKE " + arg("%"+filter.Symbol+"%"))
	}

	sb.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trade rows: %w", err)
	}

	return trades, nil
}

func scanTrade(s scanner) (*domain.Trade, error) {
	var trade domain.Trade
	var side, status string
	var entryStr, amountStr string
	var exitStr, plStr sql.NullString

	err := s.Scan(
		&trade.ID,
		&trade.WalletID,
		&trade.Symbol,
		&side,
		&entryStr,
		&trade.EntryCurrency,
		&amountStr,
		&trade.Leverage,
		&status,
		&exitStr,
		&plStr,
		&trade.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	trade.Side = domain.TradeSide(side)
	trade.Status = domain.TradeStatus(status)

	if trade.EntryPrice, err = decimal.NewFromString(entryStr); err != nil {
		return nil, fmt.Errorf("failed to parse entry_price: %w", err)
	}
	if trade.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	if trade.ExitPrice, err = parseNullableDecimal(exitStr, "exit_price"); err != nil {
		return nil, err
	}
	if trade.ProfitLoss, err = parseNullableDecimal(plStr, "profit_loss"); err != nil {
		return nil, err
	}

	return &trade, nil
}

func nullableDecimal(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func parseNullableDecimal(v sql.NullString, column string) (*decimal.Decimal, error) {
	if !v.Valid {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return &parsed, nil
}

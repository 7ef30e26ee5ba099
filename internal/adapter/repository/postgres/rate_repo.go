package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/haidang/fintrack-backend/internal/domain"
)

// rateRepository implements domain.RateRepository
type rateRepository struct {
	db *DB
}

// NewRateRepository creates a new exchange rate repository
func NewRateRepository(db *DB) domain.RateRepository {
	return &rateRepository{db: db}
}

// GetLatest retrieves the most recent rate for a currency pair. Rows are
// upserted by the external ingestion job; only the newest one counts.
func (r *rateRepository) GetLatest(ctx context.Context, from, to string) (*domain.ExchangeRate, error) {
	query := `
		SELECT from_currency, to_currency, rate, updated_at
		FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var rate domain.ExchangeRate
	var rateStr string

	err := r.db.QueryRowContext(ctx, query, from, to).Scan(
		&rate.FromCurrency,
		&rate.ToCurrency,
		&rateStr,
		&rate.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NoExchangeRate{From: from, To: to}
		}
		return nil, fmt.Errorf("failed to get exchange rate: %w", err)
	}

	rate.Rate, err = decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate: %w", err)
	}

	return &rate, nil
}

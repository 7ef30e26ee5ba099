package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the most recent conversion rate for a currency pair.
// Rows are written by an external ingestion job; only the latest row per
// (FromCurrency, ToCurrency) pair is authoritative and this core only
// ever reads that one.
type ExchangeRate struct {
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
	UpdatedAt    time.Time
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlySnapshot records a wallet's opening balance and income/expense
// totals for one calendar month. Month is always the first day of the
// month at midnight UTC.
type MonthlySnapshot struct {
	ID             uuid.UUID
	WalletID       uuid.UUID
	Month          time.Time
	OpeningBalance decimal.Decimal
	TotalIncome    decimal.Decimal
	TotalExpense   decimal.Decimal
}

// MonthStart normalizes t to the first day of its month at midnight UTC
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

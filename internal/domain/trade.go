package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeSide represents the direction of a leveraged position
type TradeSide string

const (
	TradeSideLong  TradeSide = "long"
	TradeSideShort TradeSide = "short"
)

// TradeStatus represents the lifecycle state of a trade
type TradeStatus string

const (
	TradeStatusOpen   TradeStatus = "open"
	TradeStatusClosed TradeStatus = "closed"
)

// Trade represents a leveraged position funded from a wallet. Trades are
// tracked alongside the ledger but never mutate wallet balances directly;
// realized profit or loss is booked by the user as a regular transaction.
type Trade struct {
	ID            uuid.UUID
	WalletID      uuid.UUID
	Symbol        string
	Side          TradeSide
	EntryPrice    decimal.Decimal
	EntryCurrency string
	Amount        decimal.Decimal
	Leverage      int
	Status        TradeStatus
	ExitPrice     *decimal.Decimal
	ProfitLoss    *decimal.Decimal
	CreatedAt     time.Time
	DeletedAt     *time.Time
}

// Validate ensures the trade adheres to domain rules
func (t *Trade) Validate() error {
	if t.Symbol == "" {
		return &ValidationError{Field: "symbol", Reason: "trade symbol cannot be empty"}
	}
	if t.Side != TradeSideLong && t.Side != TradeSideShort {
		return &ValidationError{Field: "side", Reason: "trade side must be long or short"}
	}
	if t.EntryPrice.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Field: "entry_price", Reason: "entry price must be positive"}
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Field: "amount", Reason: "trade amount must be positive"}
	}
	if t.Leverage < 1 {
		return &ValidationError{Field: "leverage", Reason: "leverage must be at least 1"}
	}
	return nil
}

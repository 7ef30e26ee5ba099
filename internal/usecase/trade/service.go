package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/haidang/fintrack-backend/internal/domain"
	"github.com/haidang/fintrack-backend/internal/usecase/ledger"
)

// OpenTradeInput represents the input for opening a trade
type OpenTradeInput struct {
	WalletID      uuid.UUID
	Symbol        string
	Side          domain.TradeSide
	EntryPrice    decimal.Decimal
	EntryCurrency string
	Amount        decimal.Decimal
	Leverage      int
}

// CloseTradeInput represents the input for closing a trade
type CloseTradeInput struct {
	ExitPrice  decimal.Decimal
	ProfitLoss decimal.Decimal
}

// Service handles leveraged trade position tracking. Trades never mutate
// wallet balances; realized profit or loss is booked separately as a
// regular transaction.
type Service struct {
	Trades  domain.TradeRepository
	Wallets domain.WalletRepository
	Logger  *zap.Logger
}

// NewService creates a new trade Service instance
func NewService(trades domain.TradeRepository, wallets domain.WalletRepository, logger *zap.Logger) *Service {
	return &Service{
		Trades:  trades,
		Wallets: wallets,
		Logger:  logger,
	}
}

// OpenTrade creates an open position funded from a wallet. A trade
// amount above the wallet's live balance is a soft warning, never a
// block: margin positions can legitimately exceed spot balance.
func (s *Service) OpenTrade(ctx context.Context, input OpenTradeInput) (*domain.Trade, error) {
	w, err := s.Wallets.GetByID(ctx, input.WalletID)
	if err != nil {
		return nil, err
	}

	leverage := input.Leverage
	if leverage == 0 {
		leverage = 1
	}
	currency := input.EntryCurrency
	if currency == "" {
		currency = "USD"
	}

	t := &domain.Trade{
		ID:            uuid.New(),
		WalletID:      input.WalletID,
		Symbol:        input.Symbol,
		Side:          input.Side,
		EntryPrice:    input.EntryPrice,
		EntryCurrency: currency,
		Amount:        input.Amount,
		Leverage:      leverage,
		Status:        domain.TradeStatusOpen,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	if err := ledger.CheckSufficientFunds(w, input.Amount); err != nil {
		s.Logger.Warn("trade amount exceeds wallet balance",
			zap.String("wallet_id", w.ID.String()),
			zap.String("symbol", t.Symbol),
			zap.String("amount", input.Amount.String()),
			zap.String("available", w.CurrentAmount.String()))
	}

	if err := s.Trades.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// CloseTrade records the exit price and realized profit/loss and marks
// the position closed. Closing an already-closed trade is refused.
func (s *Service) CloseTrade(ctx context.Context, id uuid.UUID, input CloseTradeInput) (*domain.Trade, error) {
	t, err := s.Trades.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status == domain.TradeStatusClosed {
		return nil, &domain.ValidationError{Field: "status", Reason: "trade is already closed"}
	}
	if input.ExitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, &domain.ValidationError{Field: "exit_price", Reason: "exit price must be positive"}
	}

	exitPrice := input.ExitPrice
	profitLoss := input.ProfitLoss
	t.Status = domain.TradeStatusClosed
	t.ExitPrice = &exitPrice
	t.ProfitLoss = &profitLoss

	if err := s.Trades.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTrade soft-deletes a trade
func (s *Service) DeleteTrade(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Trades.GetByID(ctx, id); err != nil {
		return err
	}
	return s.Trades.SoftDelete(ctx, id)
}

// ListTrades retrieves live trades matching the filter
func (s *Service) ListTrades(ctx context.Context, filter domain.TradeFilter) ([]*domain.Trade, error) {
	return s.Trades.List(ctx, filter)
}

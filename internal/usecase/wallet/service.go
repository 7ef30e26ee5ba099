package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/haidang/fintrack-backend/internal/domain"
)

// CreateWalletInput represents the input for creating a wallet
type CreateWalletInput struct {
	Name          string
	Type          domain.WalletType
	Currency      string
	InitialAmount decimal.Decimal
}

// UpdateWalletInput carries the mutable wallet metadata. Balances are
// owned by the ledger and initial_amount is immutable.
type UpdateWalletInput struct {
	Name     string
	Type     domain.WalletType
	Currency string
}

// MonthlyReport summarizes a wallet's month from its snapshot and live
// balance
type MonthlyReport struct {
	WalletID       uuid.UUID
	Month          time.Time
	OpeningBalance decimal.Decimal
	TotalIncome    decimal.Decimal
	TotalExpense   decimal.Decimal
	MonthChange    decimal.Decimal
}

// Service handles wallet lifecycle operations
type Service struct {
	Wallets   domain.WalletRepository
	Snapshots domain.SnapshotRepository
	Logger    *zap.Logger
}

// NewService creates a new wallet Service instance
func NewService(wallets domain.WalletRepository, snapshots domain.SnapshotRepository, logger *zap.Logger) *Service {
	return &Service{
		Wallets:   wallets,
		Snapshots: snapshots,
		Logger:    logger,
	}
}

// CreateWallet creates a wallet with current_amount equal to
// initial_amount and records the current month's opening snapshot.
// The snapshot insert is non-critical: a failure is logged and the
// wallet creation still succeeds.
func (s *Service) CreateWallet(ctx context.Context, input CreateWalletInput) (*domain.Wallet, error) {
	w := &domain.Wallet{
		ID:            uuid.New(),
		Name:          input.Name,
		Type:          input.Type,
		Currency:      input.Currency,
		InitialAmount: input.InitialAmount,
		CurrentAmount: input.InitialAmount,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	if err := s.Wallets.Create(ctx, w); err != nil {
		return nil, err
	}

	snapshot := &domain.MonthlySnapshot{
		ID:             uuid.New(),
		WalletID:       w.ID,
		Month:          domain.MonthStart(time.Now().UTC()),
		OpeningBalance: input.InitialAmount,
	}
	if err := s.Snapshots.Add(ctx, snapshot); err != nil {
		s.Logger.Warn("opening snapshot insert failed",
			zap.String("wallet_id", w.ID.String()),
			zap.Error(err))
	}

	return w, nil
}

// UpdateWallet edits wallet metadata only; initial_amount and
// current_amount are never written here
func (s *Service) UpdateWallet(ctx context.Context, id uuid.UUID, input UpdateWalletInput) (*domain.Wallet, error) {
	w, err := s.Wallets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	w.Name = input.Name
	w.Type = input.Type
	w.Currency = input.Currency
	if err := w.Validate(); err != nil {
		return nil, err
	}

	if err := s.Wallets.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWallet soft-deletes a wallet. Wallets are never hard-deleted and
// never re-activated.
func (s *Service) DeleteWallet(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Wallets.GetByID(ctx, id); err != nil {
		return err
	}
	return s.Wallets.SoftDelete(ctx, id)
}

// ListWallets retrieves all live wallets
func (s *Service) ListWallets(ctx context.Context) ([]*domain.Wallet, error) {
	return s.Wallets.List(ctx)
}

// GetMonthlyReport builds the report for one wallet and month. When no
// snapshot exists for the month, it returns nil without error.
func (s *Service) GetMonthlyReport(ctx context.Context, walletID uuid.UUID, year int, month time.Month) (*MonthlyReport, error) {
	w, err := s.Wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, err
	}

	monthKey := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	snapshot, err := s.Snapshots.Get(ctx, walletID, monthKey)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, nil
	}

	return &MonthlyReport{
		WalletID:       walletID,
		Month:          monthKey,
		OpeningBalance: snapshot.OpeningBalance,
		TotalIncome:    snapshot.TotalIncome,
		TotalExpense:   snapshot.TotalExpense,
		MonthChange:    w.CurrentAmount.Sub(snapshot.OpeningBalance),
	}, nil
}

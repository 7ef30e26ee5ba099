package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haidang/fintrack-backend/internal/domain"
)

func TestDeltaFor(t *testing.T) {
	tests := []struct {
		name   string
		kind   EntryKind
		amount decimal.Decimal
		want   decimal.Decimal
	}{
		{
			name:   "income credits the wallet",
			kind:   KindIncome,
			amount: decimal.NewFromInt(100),
			want:   decimal.NewFromInt(100),
		},
		{
			name:   "expense debits the wallet",
			kind:   KindExpense,
			amount: decimal.NewFromInt(100),
			want:   decimal.NewFromInt(-100),
		},
		{
			name:   "transfer withdrawal debits the source",
			kind:   KindTransferWithdrawal,
			amount: decimal.NewFromInt(500000),
			want:   decimal.NewFromInt(-500000),
		},
		{
			name:   "transfer deposit credits the destination",
			kind:   KindTransferDeposit,
			amount: decimal.NewFromInt(1200000),
			want:   decimal.NewFromInt(1200000),
		},
		{
			name:   "sign is normalized from the absolute value",
			kind:   KindExpense,
			amount: decimal.NewFromInt(-75),
			want:   decimal.NewFromInt(-75),
		},
		{
			name:   "fractional amounts keep full precision",
			kind:   KindIncome,
			amount: decimal.RequireFromString("0.1234"),
			want:   decimal.RequireFromString("0.1234"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeltaFor(tt.kind, tt.amount)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestSignedAmountFor(t *testing.T) {
	amount := decimal.NewFromInt(250)

	assert.True(t, decimal.NewFromInt(250).Equal(SignedAmountFor(domain.TransactionTypeIncome, amount)))
	assert.True(t, decimal.NewFromInt(-250).Equal(SignedAmountFor(domain.TransactionTypeExpense, amount)))
}

func TestCheckSufficientFunds(t *testing.T) {
	walletID := uuid.New()
	w := &domain.Wallet{
		ID:            walletID,
		Name:          "Main",
		Type:          domain.WalletTypeBank,
		Currency:      "VND",
		CurrentAmount: decimal.NewFromInt(500),
	}

	t.Run("sufficient balance passes", func(t *testing.T) {
		assert.NoError(t, CheckSufficientFunds(w, decimal.NewFromInt(500)))
	})

	t.Run("insufficient balance fails with structured detail", func(t *testing.T) {
		err := CheckSufficientFunds(w, decimal.NewFromInt(1000))
		require.Error(t, err)

		var insufficient *domain.InsufficientFunds
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, walletID, insufficient.WalletID)
		assert.True(t, decimal.NewFromInt(1000).Equal(insufficient.Requested))
		assert.True(t, decimal.NewFromInt(500).Equal(insufficient.Available))
	})
}

// MockWalletRepository is a mock implementation of WalletRepository for testing
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) Update(ctx context.Context, wallet *domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWalletRepository) List(ctx context.Context) ([]*domain.Wallet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func TestApplyDelta_DelegatesToAtomicIncrement(t *testing.T) {
	ctx := context.Background()
	walletID := uuid.New()
	delta := decimal.NewFromInt(-200000)

	mockRepo := new(MockWalletRepository)
	mockRepo.On("AddToBalance", ctx, walletID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(delta)
	})).Return(nil)

	l := New(mockRepo)
	require.NoError(t, l.ApplyDelta(ctx, walletID, delta))
	mockRepo.AssertExpectations(t)
}

func TestApplyDelta_PropagatesStoreError(t *testing.T) {
	ctx := context.Background()
	walletID := uuid.New()
	storeErr := errors.New("connection reset")

	mockRepo := new(MockWalletRepository)
	mockRepo.On("AddToBalance", ctx, walletID, mock.Anything).Return(storeErr)

	l := New(mockRepo)
	assert.ErrorIs(t, l.ApplyDelta(ctx, walletID, decimal.NewFromInt(1)), storeErr)
}

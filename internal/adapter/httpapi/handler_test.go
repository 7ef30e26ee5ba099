package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/haidang/fintrack-backend/internal/domain"
	"github.com/haidang/fintrack-backend/internal/usecase/engine"
	"github.com/haidang/fintrack-backend/internal/usecase/ledger"
	"github.com/haidang/fintrack-backend/internal/usecase/trade"
	"github.com/haidang/fintrack-backend/internal/usecase/wallet"
)

// Function-field stubs keep handler tests focused on the HTTP layer;
// behavior the test does not set falls through to a zero-value result.

type stubWalletRepo struct {
	getByID func(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	create  func(ctx context.Context, w *domain.Wallet) error
	list    func(ctx context.Context) ([]*domain.Wallet, error)
}

func (s *stubWalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	if s.getByID == nil {
		return nil, &domain.WalletNotFound{WalletID: id}
	}
	return s.getByID(ctx, id)
}

func (s *stubWalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	if s.create == nil {
		return nil
	}
	return s.create(ctx, w)
}

func (s *stubWalletRepo) Update(ctx context.Context, w *domain.Wallet) error { return nil }

func (s *stubWalletRepo) SoftDelete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubWalletRepo) List(ctx context.Context) ([]*domain.Wallet, error) {
	if s.list == nil {
		return nil, nil
	}
	return s.list(ctx)
}

func (s *stubWalletRepo) AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return nil
}

type stubTransactionRepo struct {
	insert     func(ctx context.Context, tx *domain.Transaction) error
	list       func(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	lastFilter *domain.TransactionFilter
}

func (s *stubTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return nil, &domain.TransactionNotFound{TransactionID: id}
}

func (s *stubTransactionRepo) Insert(ctx context.Context, tx *domain.Transaction) error {
	if s.insert == nil {
		return nil
	}
	return s.insert(ctx, tx)
}

func (s *stubTransactionRepo) Update(ctx context.Context, tx *domain.Transaction) error { return nil }

func (s *stubTransactionRepo) DeleteByID(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubTransactionRepo) DeleteByPairID(ctx context.Context, pairID uuid.UUID) error { return nil }

func (s *stubTransactionRepo) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	s.lastFilter = &filter
	if s.list == nil {
		return nil, nil
	}
	return s.list(ctx, filter)
}

type stubRateRepo struct{}

func (s *stubRateRepo) GetLatest(ctx context.Context, from, to string) (*domain.ExchangeRate, error) {
	return nil, &domain.NoExchangeRate{From: from, To: to}
}

type stubRecalculator struct{}

func (s *stubRecalculator) RecalculateAll(ctx context.Context) error { return nil }

type stubSnapshotRepo struct {
	get func(ctx context.Context, walletID uuid.UUID, month time.Time) (*domain.MonthlySnapshot, error)
}

func (s *stubSnapshotRepo) Add(ctx context.Context, snapshot *domain.MonthlySnapshot) error {
	return nil
}

func (s *stubSnapshotRepo) Get(ctx context.Context, walletID uuid.UUID, month time.Time) (*domain.MonthlySnapshot, error) {
	if s.get == nil {
		return nil, nil
	}
	return s.get(ctx, walletID, month)
}

type stubTradeRepo struct{}

func (s *stubTradeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trade, error) {
	return nil, &domain.TradeNotFound{TradeID: id}
}

func (s *stubTradeRepo) Insert(ctx context.Context, t *domain.Trade) error { return nil }

func (s *stubTradeRepo) Update(ctx context.Context, t *domain.Trade) error { return nil }

func (s *stubTradeRepo) SoftDelete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubTradeRepo) List(ctx context.Context, filter domain.TradeFilter) ([]*domain.Trade, error) {
	return nil, nil
}

const testToken = "test-token"

func newTestServer(wallets *stubWalletRepo, transactions *stubTransactionRepo, snapshots *stubSnapshotRepo) http.Handler {
	logger := zap.NewNop()
	eng := engine.New(wallets, transactions, &stubRateRepo{}, &stubRecalculator{}, ledger.New(wallets), logger)
	walletService := wallet.NewService(wallets, snapshots, logger)
	tradeService := trade.NewService(&stubTradeRepo{}, wallets, logger)
	return NewRouter(NewHandler(eng, walletService, tradeService, logger), testToken)
}

func doRequest(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateTransactionEndpoint(t *testing.T) {
	w := &domain.Wallet{
		ID:            uuid.New(),
		Name:          "Main",
		Type:          domain.WalletTypeBank,
		Currency:      "VND",
		CurrentAmount: decimal.NewFromInt(1_000_000),
	}
	wallets := &stubWalletRepo{
		getByID: func(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
			if id == w.ID {
				return w, nil
			}
			return nil, &domain.WalletNotFound{WalletID: id}
		},
	}

	var inserted *domain.Transaction
	transactions := &stubTransactionRepo{
		insert: func(ctx context.Context, tx *domain.Transaction) error {
			inserted = tx
			return nil
		},
	}
	server := newTestServer(wallets, transactions, &stubSnapshotRepo{})

	rec := doRequest(t, server, http.MethodPost, "/v1/transactions",
		`{"type":"expense","wallet_id":"`+w.ID.String()+`","amount":"200000","description":"groceries","date":"2025-03-15"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, inserted)
	assert.True(t, inserted.Amount.Equal(decimal.NewFromInt(-200_000)))
}

func TestCreateTransactionEndpoint_BadBody(t *testing.T) {
	server := newTestServer(&stubWalletRepo{}, &stubTransactionRepo{}, &stubSnapshotRepo{})

	rec := doRequest(t, server, http.MethodPost, "/v1/transactions", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTransactionEndpoint_UnknownWallet(t *testing.T) {
	server := newTestServer(&stubWalletRepo{}, &stubTransactionRepo{}, &stubSnapshotRepo{})

	rec := doRequest(t, server, http.MethodPost, "/v1/transactions",
		`{"type":"expense","wallet_id":"`+uuid.NewString()+`","amount":"100","date":"2025-03-15"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTransactionsEndpoint_ParsesFilter(t *testing.T) {
	walletID := uuid.New()
	transactions := &stubTransactionRepo{}
	server := newTestServer(&stubWalletRepo{}, transactions, &stubSnapshotRepo{})

	rec := doRequest(t, server, http.MethodGet,
		"/v1/transactions?wallet_id="+walletID.String()+"&type=expense&date_from=2025-03-01&date_to=2025-03-31&limit=20", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, transactions.lastFilter)
	filter := *transactions.lastFilter
	require.NotNil(t, filter.WalletID)
	assert.Equal(t, walletID, *filter.WalletID)
	require.NotNil(t, filter.Type)
	assert.Equal(t, domain.TransactionTypeExpense, *filter.Type)
	assert.Equal(t, 20, filter.Limit)
	require.NotNil(t, filter.DateFrom)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *filter.DateFrom)

	// Empty result serializes as an empty array, not null
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestListTransactionsEndpoint_RejectsBadType(t *testing.T) {
	server := newTestServer(&stubWalletRepo{}, &stubTransactionRepo{}, &stubSnapshotRepo{})

	rec := doRequest(t, server, http.MethodGet, "/v1/transactions?type=refund", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateWalletEndpoint(t *testing.T) {
	server := newTestServer(&stubWalletRepo{}, &stubTransactionRepo{}, &stubSnapshotRepo{})

	rec := doRequest(t, server, http.MethodPost, "/v1/wallets",
		`{"name":"Main","type":"bank","currency":"VND","initial_amount":"1000000"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Main", resp["name"])
	assert.Equal(t, "1000000", resp["current_amount"])
	assert.Equal(t, "1000000", resp["initial_amount"])
}

func TestMonthlyReportEndpoint_NoSnapshot(t *testing.T) {
	w := &domain.Wallet{ID: uuid.New(), CurrentAmount: decimal.Zero}
	wallets := &stubWalletRepo{
		getByID: func(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
			return w, nil
		},
	}
	server := newTestServer(wallets, &stubTransactionRepo{}, &stubSnapshotRepo{})

	rec := doRequest(t, server, http.MethodGet,
		"/v1/wallets/"+w.ID.String()+"/report?year=2025&month=3", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMonthlyReportEndpoint(t *testing.T) {
	w := &domain.Wallet{ID: uuid.New(), CurrentAmount: decimal.NewFromInt(1_400_000)}
	wallets := &stubWalletRepo{
		getByID: func(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
			return w, nil
		},
	}
	snapshots := &stubSnapshotRepo{
		get: func(ctx context.Context, walletID uuid.UUID, month time.Time) (*domain.MonthlySnapshot, error) {
			return &domain.MonthlySnapshot{
				WalletID:       walletID,
				Month:          month,
				OpeningBalance: decimal.NewFromInt(1_000_000),
				TotalIncome:    decimal.NewFromInt(900_000),
				TotalExpense:   decimal.NewFromInt(500_000),
			}, nil
		},
	}
	server := newTestServer(wallets, &stubTransactionRepo{}, snapshots)

	rec := doRequest(t, server, http.MethodGet,
		"/v1/wallets/"+w.ID.String()+"/report?year=2025&month=3", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-03-01", resp["month"])
	assert.Equal(t, "400000", resp["month_change"])
}

func TestEndpointsRequireAuth(t *testing.T) {
	server := newTestServer(&stubWalletRepo{}, &stubTransactionRepo{}, &stubSnapshotRepo{})

	req := httptest.NewRequest(http.MethodGet, "/v1/transactions", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

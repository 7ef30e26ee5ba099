package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/haidang/fintrack-backend/internal/domain"
)

func TestRequireToken(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	protected := RequireToken("secret")(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{
			name:       "valid token passes through",
			header:     "Bearer secret",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong token",
			header:     "Bearer wrong",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing bearer prefix",
			header:     "secret",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/wallets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestWriteError_StatusMapping(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation maps to 400",
			err:        &domain.ValidationError{Field: "amount", Reason: "amount must be positive"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "insufficient funds maps to 422",
			err:        &domain.InsufficientFunds{WalletID: id},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "missing rate maps to 422",
			err:        &domain.NoExchangeRate{From: "USD", To: "VND"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "immutable transfer maps to 409",
			err:        &domain.ImmutableTransfer{TransactionID: id},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "wallet miss maps to 404",
			err:        &domain.WalletNotFound{WalletID: id},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "transaction miss maps to 404",
			err:        &domain.TransactionNotFound{TransactionID: id},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "trade miss maps to 404",
			err:        &domain.TradeNotFound{TradeID: id},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "compensated transfer failure maps to 500",
			err:        &domain.PartialFailureCompensated{PairID: id, Cause: errors.New("insert failed")},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "unknown error maps to 500",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

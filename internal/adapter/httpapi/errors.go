package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/haidang/fintrack-backend/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain failures to HTTP status codes and writes the
// message as JSON
func writeError(w http.ResponseWriter, err error) {
	var (
		validation   *domain.ValidationError
		insufficient *domain.InsufficientFunds
		noRate       *domain.NoExchangeRate
		immutable    *domain.ImmutableTransfer
		walletMiss   *domain.WalletNotFound
		txMiss       *domain.TransactionNotFound
		tradeMiss    *domain.TradeNotFound
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
	case errors.As(err, &insufficient), errors.As(err, &noRate):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &immutable):
		status = http.StatusConflict
	case errors.As(err, &walletMiss), errors.As(err, &txMiss), errors.As(err, &tradeMiss):
		status = http.StatusNotFound
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

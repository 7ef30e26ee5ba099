package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/haidang/fintrack-backend/internal/domain"
	"github.com/haidang/fintrack-backend/internal/usecase/engine"
	"github.com/haidang/fintrack-backend/internal/usecase/trade"
	"github.com/haidang/fintrack-backend/internal/usecase/wallet"
)

// dateLayout is the wire format for transaction dates (calendar date,
// distinct from creation timestamps)
const dateLayout = "2006-01-02"

// Handler translates HTTP requests into engine and service calls.
// Amounts cross the wire as decimal strings.
type Handler struct {
	Engine  *engine.Engine
	Wallets *wallet.Service
	Trades  *trade.Service
	Logger  *zap.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(eng *engine.Engine, wallets *wallet.Service, trades *trade.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Engine:  eng,
		Wallets: wallets,
		Trades:  trades,
		Logger:  logger,
	}
}

// ---- transactions ----

type createTransactionRequest struct {
	Type        string  `json:"type"`
	WalletID    string  `json:"wallet_id"`
	ToWalletID  *string `json:"to_wallet_id,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
	Amount      string  `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

type transactionResponse struct {
	ID             string  `json:"id"`
	WalletID       string  `json:"wallet_id"`
	ToWalletID     *string `json:"to_wallet_id,omitempty"`
	CategoryID     *string `json:"category_id,omitempty"`
	Type           string  `json:"type"`
	Amount         string  `json:"amount"`
	Description    string  `json:"description"`
	Date           string  `json:"date"`
	TransferPairID *string `json:"transfer_pair_id,omitempty"`
}

// CreateTransaction handles POST /v1/transactions
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.Engine.CreateTransaction(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (req *createTransactionRequest) toInput() (engine.CreateTransactionInput, error) {
	var input engine.CreateTransactionInput

	walletID, err := uuid.Parse(req.WalletID)
	if err != nil {
		return input, &domain.ValidationError{Field: "wallet_id", Reason: "invalid wallet id"}
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return input, &domain.ValidationError{Field: "amount", Reason: "invalid amount format"}
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return input, &domain.ValidationError{Field: "date", Reason: "date must be YYYY-MM-DD"}
	}

	input = engine.CreateTransactionInput{
		Type:        domain.TransactionType(req.Type),
		WalletID:    walletID,
		Amount:      amount,
		Description: req.Description,
		Date:        date,
	}
	if input.ToWalletID, err = parseOptionalID(req.ToWalletID, "to_wallet_id"); err != nil {
		return input, err
	}
	if input.CategoryID, err = parseOptionalID(req.CategoryID, "category_id"); err != nil {
		return input, err
	}
	return input, nil
}

type updateTransactionRequest struct {
	Type        string  `json:"type"`
	WalletID    string  `json:"wallet_id"`
	CategoryID  *string `json:"category_id,omitempty"`
	Amount      string  `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// UpdateTransaction handles PATCH /v1/transactions/{id}
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	walletID, err := uuid.Parse(req.WalletID)
	if err != nil {
		writeError(w, &domain.ValidationError{Field: "wallet_id", Reason: "invalid wallet id"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, &domain.ValidationError{Field: "amount", Reason: "invalid amount format"})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, &domain.ValidationError{Field: "date", Reason: "date must be YYYY-MM-DD"})
		return
	}
	categoryID, err := parseOptionalID(req.CategoryID, "category_id")
	if err != nil {
		writeError(w, err)
		return
	}

	input := engine.UpdateTransactionInput{
		Type:        domain.TransactionType(req.Type),
		WalletID:    walletID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: req.Description,
		Date:        date,
	}
	if err := h.Engine.UpdateTransaction(r.Context(), id, input); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteTransaction handles DELETE /v1/transactions/{id}
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Engine.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTransactions handles GET /v1/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilterFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	transactions, err := h.Engine.ListTransactions(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]transactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		resp = append(resp, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, resp)
}

func listFilterFromQuery(r *http.Request) (domain.TransactionFilter, error) {
	var filter domain.TransactionFilter
	q := r.URL.Query()

	if v := q.Get("wallet_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, &domain.ValidationError{Field: "wallet_id", Reason: "invalid wallet id"}
		}
		filter.WalletID = &id
	}
	if v := q.Get("type"); v != "" {
		t := domain.TransactionType(v)
		if !t.Valid() {
			return filter, &domain.ValidationError{Field: "type", Reason: "unknown transaction type: " + v}
		}
		filter.Type = &t
	}
	if v := q.Get("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, &domain.ValidationError{Field: "category_id", Reason: "invalid category id"}
		}
		filter.CategoryID = &id
	}
	if v := q.Get("date_from"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, &domain.ValidationError{Field: "date_from", Reason: "date must be YYYY-MM-DD"}
		}
		filter.DateFrom = &d
	}
	if v := q.Get("date_to"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return filter, &domain.ValidationError{Field: "date_to", Reason: "date must be YYYY-MM-DD"}
		}
		filter.DateTo = &d
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, &domain.ValidationError{Field: "limit", Reason: "limit must be a non-negative integer"}
		}
		filter.Limit = n
	}

	return filter, nil
}

func toTransactionResponse(tx *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:             tx.ID.String(),
		WalletID:       tx.WalletID.String(),
		ToWalletID:     idString(tx.ToWalletID),
		CategoryID:     idString(tx.CategoryID),
		Type:           string(tx.Type),
		Amount:         tx.Amount.String(),
		Description:    tx.Description,
		Date:           tx.Date.Format(dateLayout),
		TransferPairID: idString(tx.TransferPairID),
	}
}

// ---- wallets ----

type createWalletRequest struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Currency      string `json:"currency"`
	InitialAmount string `json:"initial_amount"`
}

type updateWalletRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
}

type walletResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Currency      string `json:"currency"`
	InitialAmount string `json:"initial_amount"`
	CurrentAmount string `json:"current_amount"`
}

// CreateWallet handles POST /v1/wallets
func (h *Handler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	initial, err := decimal.NewFromString(req.InitialAmount)
	if err != nil {
		writeError(w, &domain.ValidationError{Field: "initial_amount", Reason: "invalid amount format"})
		return
	}

	created, err := h.Wallets.CreateWallet(r.Context(), wallet.CreateWalletInput{
		Name:          req.Name,
		Type:          domain.WalletType(req.Type),
		Currency:      req.Currency,
		InitialAmount: initial,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWalletResponse(created))
}

// UpdateWallet handles PATCH /v1/wallets/{id}
func (h *Handler) UpdateWallet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	updated, err := h.Wallets.UpdateWallet(r.Context(), id, wallet.UpdateWalletInput{
		Name:     req.Name,
		Type:     domain.WalletType(req.Type),
		Currency: req.Currency,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWalletResponse(updated))
}

// DeleteWallet handles DELETE /v1/wallets/{id}
func (h *Handler) DeleteWallet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Wallets.DeleteWallet(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListWallets handles GET /v1/wallets
func (h *Handler) ListWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.Wallets.ListWallets(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]walletResponse, 0, len(wallets))
	for _, item := range wallets {
		resp = append(resp, toWalletResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

type monthlyReportResponse struct {
	WalletID       string `json:"wallet_id"`
	Month          string `json:"month"`
	OpeningBalance string `json:"opening_balance"`
	TotalIncome    string `json:"total_income"`
	TotalExpense   string `json:"total_expense"`
	MonthChange    string `json:"month_change"`
}

// GetMonthlyReport handles GET /v1/wallets/{id}/report?year=&month=
func (h *Handler) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, &domain.ValidationError{Field: "year", Reason: "year must be an integer"})
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, &domain.ValidationError{Field: "month", Reason: "month must be 1-12"})
		return
	}

	report, err := h.Wallets.GetMonthlyReport(r.Context(), id, year, time.Month(month))
	if err != nil {
		writeError(w, err)
		return
	}
	if report == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no snapshot for requested month"})
		return
	}

	writeJSON(w, http.StatusOK, monthlyReportResponse{
		WalletID:       report.WalletID.String(),
		Month:          report.Month.Format(dateLayout),
		OpeningBalance: report.OpeningBalance.String(),
		TotalIncome:    report.TotalIncome.String(),
		TotalExpense:   report.TotalExpense.String(),
		MonthChange:    report.MonthChange.String(),
	})
}

// ---- trades ----

type openTradeRequest struct {
	WalletID      string `json:"wallet_id"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	EntryPrice    string `json:"entry_price"`
	EntryCurrency string `json:"entry_currency"`
	Amount        string `json:"amount"`
	Leverage      int    `json:"leverage"`
}

type closeTradeRequest struct {
	ExitPrice  string `json:"exit_price"`
	ProfitLoss string `json:"profit_loss"`
}

type tradeResponse struct {
	ID            string  `json:"id"`
	WalletID      string  `json:"wallet_id"`
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"`
	EntryPrice    string  `json:"entry_price"`
	EntryCurrency string  `json:"entry_currency"`
	Amount        string  `json:"amount"`
	Leverage      int     `json:"leverage"`
	Status        string  `json:"status"`
	ExitPrice     *string `json:"exit_price,omitempty"`
	ProfitLoss    *string `json:"profit_loss,omitempty"`
}

// OpenTrade handles POST /v1/trades
func (h *Handler) OpenTrade(w http.ResponseWriter, r *http.Request) {
	var req openTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	walletID, err := uuid.Parse(req.WalletID)
	if err != nil {
		writeError(w, &domain.ValidationError{Field: "wallet_id", Reason: "invalid wallet id"})
		return
	}
	entryPrice, err := decimal.NewFromString(req.EntryPrice)
	if err != nil {
		writeError(w, &domain.ValidationError{Field: "entry_price", Reason: "invalid amount format"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, &domain.ValidationError{Field: "amount", Reason: "invalid amount format"})
		return
	}

	created, err := h.Trades.OpenTrade(r.Context(), trade.OpenTradeInput{
		WalletID:      walletID,
		Symbol:        req.Symbol,
		Side:          domain.TradeSide(req.Side),
		EntryPrice:    entryPrice,
		EntryCurrency: req.EntryCurrency,
		Amount:        amount,
		Leverage:      req.Leverage,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTradeResponse(created))
}

// CloseTrade handles POST /v1/trades/{id}/close
func (h *Handler) CloseTrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req closeTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	exitPrice, err := decimal.NewFromString(req.ExitPrice)
	if err != nil {
		writeError(w, &domain.ValidationError{Field: "exit_price", Reason: "invalid amount format"})
		return
	}
	profitLoss, err := decimal.NewFromString(req.ProfitLoss)
	if err != nil {
		writeError(w, &domain.ValidationError{Field: "profit_loss", Reason: "invalid amount format"})
		return
	}

	closed, err := h.Trades.CloseTrade(r.Context(), id, trade.CloseTradeInput{
		ExitPrice:  exitPrice,
		ProfitLoss: profitLoss,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTradeResponse(closed))
}

// DeleteTrade handles DELETE /v1/trades/{id}
func (h *Handler) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Trades.DeleteTrade(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTrades handles GET /v1/trades
func (h *Handler) ListTrades(w http.ResponseWriter, r *http.Request) {
	var filter domain.TradeFilter
	q := r.URL.Query()

	if v := q.Get("wallet_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, &domain.ValidationError{Field: "wallet_id", Reason: "invalid wallet id"})
			return
		}
		filter.WalletID = &id
	}
	if v := q.Get("status"); v != "" {
		status := domain.TradeStatus(v)
		filter.Status = &status
	}
	filter.Symbol = q.Get("symbol")

	trades, err := h.Trades.ListTrades(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]tradeResponse, 0, len(trades))
	for _, item := range trades {
		resp = append(resp, toTradeResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---- helpers ----

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, &domain.ValidationError{Field: "id", Reason: "invalid id"}
	}
	return id, nil
}

func parseOptionalID(v *string, field string) (*uuid.UUID, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil, &domain.ValidationError{Field: field, Reason: "invalid id"}
	}
	return &id, nil
}

func idString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func toWalletResponse(w *domain.Wallet) walletResponse {
	return walletResponse{
		ID:            w.ID.String(),
		Name:          w.Name,
		Type:          string(w.Type),
		Currency:      w.Currency,
		InitialAmount: w.InitialAmount.String(),
		CurrentAmount: w.CurrentAmount.String(),
	}
}

func toTradeResponse(t *domain.Trade) tradeResponse {
	resp := tradeResponse{
		ID:            t.ID.String(),
		WalletID:      t.WalletID.String(),
		Symbol:        t.Symbol,
		Side:          string(t.Side),
		EntryPrice:    t.EntryPrice.String(),
		EntryCurrency: t.EntryCurrency,
		Amount:        t.Amount.String(),
		Leverage:      t.Leverage,
		Status:        string(t.Status),
	}
	if t.ExitPrice != nil {
		s := t.ExitPrice.String()
		resp.ExitPrice = &s
	}
	if t.ProfitLoss != nil {
		s := t.ProfitLoss.String()
		resp.ProfitLoss = &s
	}
	return resp
}

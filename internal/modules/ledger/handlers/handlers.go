// Package handlers provides HTTP handlers for account and trading operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockpulse/stockpulse/internal/domain"
	"github.com/stockpulse/stockpulse/internal/modules/ledger"
)

// Handler handles ledger HTTP requests.
type Handler struct {
	service *ledger.Service
	log     zerolog.Logger
}

// NewHandler creates a new ledger handler.
func NewHandler(service *ledger.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "ledger").Logger(),
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// HandleRegister handles POST /api/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.service.Register(req.Email, req.Name, req.Password)
	if err != nil {
		// Registration input problems surface as invalid-credentials.
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.writeError(w, http.StatusBadRequest, err)
			return
		}
		h.writeFailure(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, account)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /api/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.service.Authenticate(req.Email, req.Password)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, account)
}

type tradeRequest struct {
	AccountID string `json:"account_id"`
	Ticker    string `json:"ticker"`
	Exchange  string `json:"exchange"`
	Quantity  int    `json:"quantity"`
	Side      string `json:"side"`
}

// HandleBuy handles POST /api/buy
func (h *Handler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	h.handleTrade(w, r, ledger.TxBuy)
}

// HandleSell handles POST /api/sell
func (h *Handler) HandleSell(w http.ResponseWriter, r *http.Request) {
	h.handleTrade(w, r, ledger.TxSell)
}

// HandleTrade handles POST /api/trade, dispatching on the side field.
func (h *Handler) HandleTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch ledger.TxType(req.Side) {
	case ledger.TxBuy:
		h.executeTrade(w, req, ledger.TxBuy)
	case ledger.TxSell:
		h.executeTrade(w, req, ledger.TxSell)
	default:
		http.Error(w, "side must be BUY or SELL", http.StatusBadRequest)
	}
}

func (h *Handler) handleTrade(w http.ResponseWriter, r *http.Request, side ledger.TxType) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.executeTrade(w, req, side)
}

func (h *Handler) executeTrade(w http.ResponseWriter, req tradeRequest, side ledger.TxType) {
	symbol, err := domain.NewSymbol(req.Ticker, domain.Exchange(req.Exchange))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	var txn *ledger.Transaction
	if side == ledger.TxBuy {
		txn, err = h.service.Buy(req.AccountID, symbol, req.Quantity)
	} else {
		txn, err = h.service.Sell(req.AccountID, symbol, req.Quantity)
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, txn)
}

// HandleGetPortfolio handles GET /api/portfolio
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		http.Error(w, "account_id is required", http.StatusBadRequest)
		return
	}

	valuation, err := h.service.Valuation(accountID)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, valuation)
}

// HandleGetWatchlist handles GET /api/watchlist
func (h *Handler) HandleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		http.Error(w, "account_id is required", http.StatusBadRequest)
		return
	}

	account, err := h.service.Get(accountID)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"watchlist": account.Watchlist,
		"count":     len(account.Watchlist),
	})
}

type watchlistRequest struct {
	AccountID string `json:"account_id"`
	Ticker    string `json:"ticker"`
}

// HandleWatchlistAdd handles POST /api/watchlist
func (h *Handler) HandleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	var req watchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	symbol, err := domain.NewSymbol(req.Ticker, domain.ExchangeUnspecified)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.service.WatchlistAdd(req.AccountID, symbol); err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"added": symbol.Ticker})
}

// HandleWatchlistRemove handles DELETE /api/watchlist/{ticker}
func (h *Handler) HandleWatchlistRemove(w http.ResponseWriter, r *http.Request, ticker string) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		http.Error(w, "account_id is required", http.StatusBadRequest)
		return
	}

	symbol, err := domain.NewSymbol(ticker, domain.ExchangeUnspecified)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.service.WatchlistRemove(accountID, symbol); err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"removed": symbol.Ticker})
}

// HandleGetTransactions handles GET /api/transactions
func (h *Handler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		http.Error(w, "account_id is required", http.StatusBadRequest)
		return
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	txns, err := h.service.Transactions(accountID, limit)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txns,
		"count":        len(txns),
	})
}

// writeFailure maps typed domain failures to HTTP status codes.
func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientHoldings):
		h.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domain.ErrDuplicateAccount):
		h.writeError(w, http.StatusConflict, err)
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err)
	default:
		h.log.Error().Err(err).Msg("Request failed")
		h.writeError(w, http.StatusInternalServerError, err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{ //nolint:errcheck
		"error": err.Error(),
	})
}

// writeJSON writes a JSON response in the standard envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

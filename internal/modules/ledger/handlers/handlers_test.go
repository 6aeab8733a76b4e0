package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpulse/stockpulse/internal/domain"
	"github.com/stockpulse/stockpulse/internal/modules/ledger"
)

// memStore is a minimal in-memory ledger.AccountStore.
type memStore struct {
	accounts map[string]*ledger.Account
	byEmail  map[string]string
	txns     map[string][]ledger.Transaction
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[string]*ledger.Account),
		byEmail:  make(map[string]string),
		txns:     make(map[string][]ledger.Transaction),
	}
}

func (m *memStore) Create(account *ledger.Account) error {
	copied := *account
	copied.Holdings = map[string]int{}
	m.accounts[account.ID] = &copied
	m.byEmail[account.Email] = account.ID
	return nil
}

func (m *memStore) GetByEmail(email string) (*ledger.Account, error) {
	id, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	return m.accounts[id], nil
}

func (m *memStore) GetByID(id string) (*ledger.Account, error) {
	account, ok := m.accounts[id]
	if !ok {
		return nil, nil
	}
	return account, nil
}

func (m *memStore) ApplyTrade(accountID string, newBalance float64, ticker string, newQuantity int, txn ledger.Transaction) error {
	account := m.accounts[accountID]
	account.CashBalance = newBalance
	if newQuantity > 0 {
		account.Holdings[ticker] = newQuantity
	} else {
		delete(account.Holdings, ticker)
	}
	m.txns[accountID] = append(m.txns[accountID], txn)
	return nil
}

func (m *memStore) AddWatch(accountID, ticker string) error {
	account := m.accounts[accountID]
	for _, t := range account.Watchlist {
		if t == ticker {
			return nil
		}
	}
	account.Watchlist = append(account.Watchlist, ticker)
	return nil
}

func (m *memStore) RemoveWatch(accountID, ticker string) error {
	account := m.accounts[accountID]
	out := account.Watchlist[:0]
	for _, t := range account.Watchlist {
		if t != ticker {
			out = append(out, t)
		}
	}
	account.Watchlist = out
	return nil
}

func (m *memStore) ListTransactions(accountID string, limit int) ([]ledger.Transaction, error) {
	return m.txns[accountID], nil
}

type fixedOracle struct{ price float64 }

func (o *fixedOracle) Resolve(symbol domain.Symbol) domain.PriceQuote {
	return domain.PriceQuote{Symbol: symbol, Price: o.price, Timestamp: time.Now(), Source: domain.SourceLivePrimary}
}

func newTestRouter(t *testing.T, price float64) (*chi.Mux, *ledger.Service) {
	t.Helper()
	service := ledger.NewService(newMemStore(), &fixedOracle{price: price}, 100000.00, zerolog.Nop())
	handler := NewHandler(service, zerolog.Nop())

	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)
	return router, service
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func registerAccount(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := postJSON(t, router, "/api/register", map[string]string{
		"email": "trader@example.com", "name": "Trader", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeData(t, rec)
	return data["id"].(string)
}

func TestHandleRegister(t *testing.T) {
	router, _ := newTestRouter(t, 100)

	rec := postJSON(t, router, "/api/register", map[string]string{
		"email": "trader@example.com", "name": "Trader", "password": "secret123",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeData(t, rec)
	assert.InDelta(t, 100000.0, data["cash_balance"].(float64), 0.0001)
	// The password hash never leaves the service.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHandleRegisterDuplicate(t *testing.T) {
	router, _ := newTestRouter(t, 100)
	registerAccount(t, router)

	rec := postJSON(t, router, "/api/register", map[string]string{
		"email": "trader@example.com", "name": "Other", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleLogin(t *testing.T) {
	router, _ := newTestRouter(t, 100)
	registerAccount(t, router)

	rec := postJSON(t, router, "/api/login", map[string]string{
		"email": "trader@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, router, "/api/login", map[string]string{
		"email": "trader@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleBuyAndPortfolio(t *testing.T) {
	router, _ := newTestRouter(t, 3000)
	accountID := registerAccount(t, router)

	rec := postJSON(t, router, "/api/buy", map[string]interface{}{
		"account_id": accountID, "ticker": "TCS", "exchange": "NSE", "quantity": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.InDelta(t, 30000.0, data["total"].(float64), 0.0001)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio?account_id="+accountID, nil)
	recP := httptest.NewRecorder()
	router.ServeHTTP(recP, req)
	require.Equal(t, http.StatusOK, recP.Code)
	portfolio := decodeData(t, recP)
	assert.InDelta(t, 70000.0, portfolio["cash_balance"].(float64), 0.0001)
	assert.InDelta(t, 100000.0, portfolio["total_value"].(float64), 0.0001)
}

func TestHandleBuyInsufficientFunds(t *testing.T) {
	router, _ := newTestRouter(t, 60000)
	accountID := registerAccount(t, router)

	rec := postJSON(t, router, "/api/buy", map[string]interface{}{
		"account_id": accountID, "ticker": "TCS", "exchange": "NSE", "quantity": 2,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient funds")
}

func TestHandleSellInsufficientHoldings(t *testing.T) {
	router, _ := newTestRouter(t, 100)
	accountID := registerAccount(t, router)

	rec := postJSON(t, router, "/api/sell", map[string]interface{}{
		"account_id": accountID, "ticker": "TCS", "exchange": "NSE", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTradeDispatch(t *testing.T) {
	router, _ := newTestRouter(t, 100)
	accountID := registerAccount(t, router)

	rec := postJSON(t, router, "/api/trade", map[string]interface{}{
		"account_id": accountID, "ticker": "TCS", "exchange": "NSE",
		"quantity": 2, "side": "BUY",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, router, "/api/trade", map[string]interface{}{
		"account_id": accountID, "ticker": "TCS", "quantity": 2, "side": "HOLD",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTradeUnknownAccount(t *testing.T) {
	router, _ := newTestRouter(t, 100)

	rec := postJSON(t, router, "/api/buy", map[string]interface{}{
		"account_id": "ghost", "ticker": "TCS", "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleWatchlistLifecycle(t *testing.T) {
	router, _ := newTestRouter(t, 100)
	accountID := registerAccount(t, router)

	rec := postJSON(t, router, "/api/watchlist", map[string]string{
		"account_id": accountID, "ticker": "TCS",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/watchlist?account_id="+accountID, nil)
	recG := httptest.NewRecorder()
	router.ServeHTTP(recG, req)
	require.Equal(t, http.StatusOK, recG.Code)
	data := decodeData(t, recG)
	assert.Equal(t, float64(1), data["count"])

	reqD := httptest.NewRequest(http.MethodDelete, "/api/watchlist/TCS?account_id="+accountID, nil)
	recD := httptest.NewRecorder()
	router.ServeHTTP(recD, reqD)
	require.Equal(t, http.StatusOK, recD.Code)

	recG2 := httptest.NewRecorder()
	router.ServeHTTP(recG2, httptest.NewRequest(http.MethodGet, "/api/watchlist?account_id="+accountID, nil))
	data = decodeData(t, recG2)
	assert.Equal(t, float64(0), data["count"])
}

func TestHandleGetTransactions(t *testing.T) {
	router, _ := newTestRouter(t, 100)
	accountID := registerAccount(t, router)

	postJSON(t, router, "/api/buy", map[string]interface{}{
		"account_id": accountID, "ticker": "TCS", "quantity": 1,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/transactions?account_id="+accountID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, float64(1), data["count"])
}

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpulse/stockpulse/internal/clients/yahoo"
	"github.com/stockpulse/stockpulse/internal/config"
	"github.com/stockpulse/stockpulse/internal/database"
	"github.com/stockpulse/stockpulse/internal/modules/forecast"
	"github.com/stockpulse/stockpulse/internal/modules/ledger"
	"github.com/stockpulse/stockpulse/internal/modules/market"
	"github.com/stockpulse/stockpulse/internal/modules/marketcache"
	"github.com/stockpulse/stockpulse/internal/modules/pricing"
)

var errOffline = errors.New("upstream offline")

type offlinePrimary struct{}

func (offlinePrimary) GetLatestDailyBar(string) (*yahoo.DailyBar, error) { return nil, errOffline }

type offlineSecondary struct{}

func (offlineSecondary) GetQuote(string) (float64, error) { return 0, errOffline }

type offlineHistory struct{}

func (offlineHistory) GetHistoricalCloses(string, string) ([]float64, error) {
	return nil, errOffline
}

type offlineBars struct{}

func (offlineBars) GetDailyBars(string, string) ([]yahoo.DailyBar, error) { return nil, errOffline }

// newTestServer wires the full stack against temp-dir databases with all
// live market sources offline, so every response comes from the
// deterministic fallbacks.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	log := zerolog.Nop()

	openDB := func(name string, profile database.DatabaseProfile) *database.DB {
		db, err := database.New(database.Config{
			Path:    filepath.Join(dir, name+".db"),
			Profile: profile,
			Name:    name,
		})
		require.NoError(t, err)
		require.NoError(t, db.Migrate())
		t.Cleanup(func() { db.Close() })
		return db
	}

	accountsDB := openDB("accounts", database.ProfileLedger)
	marketDataDB := openDB("marketdata", database.ProfileCache)
	forecastsDB := openDB("forecasts", database.ProfileStandard)

	quoteStore := marketcache.NewRepository(marketDataDB.Conn())
	pricingService := pricing.NewService(
		offlinePrimary{},
		offlineSecondary{},
		pricing.NewQuoteCache(time.Minute, 64),
		quoteStore,
		marketcache.TTLQuote,
		log,
	)

	forecastService := forecast.NewService(
		pricingService,
		forecast.NewLinearTrainer(offlineHistory{}),
		forecast.NewRepository(forecastsDB.Conn()),
		log,
	)

	ledgerService := ledger.NewService(
		ledger.NewAccountRepository(accountsDB.Conn()),
		pricingService,
		100000.00,
		log,
	)

	marketService := market.NewService(offlineBars{}, log)

	return New(Config{
		Log:             log,
		Config:          &config.Config{DataDir: dir, Port: 0, DevMode: true},
		AccountsDB:      accountsDB,
		MarketDataDB:    marketDataDB,
		ForecastsDB:     forecastsDB,
		PricingService:  pricingService,
		ForecastService: forecastService,
		LedgerService:   ledgerService,
		MarketService:   marketService,
	})
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestStockDetailsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/stock/TCS", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec)
	symbol, ok := data["symbol"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "TCS", symbol["ticker"])
	price, ok := data["price"].(float64)
	require.True(t, ok)
	assert.Greater(t, price, 0.0)
}

func TestPredictEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/predict/INFY?days=7", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec)
	points, ok := data["points"].([]interface{})
	require.True(t, ok)
	// 7 calendar days always contain exactly 5 business days.
	assert.Len(t, points, 5)
}

func TestMarketIndicesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/market/indices", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec)
	indices, ok := data["indices"].([]interface{})
	require.True(t, ok)
	assert.Len(t, indices, 5)
}

func TestRegisterLoginAndTrade(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/register", map[string]string{
		"email":    "trader@example.com",
		"name":     "Trader",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	account := decodeEnvelope(t, rec)
	accountID, ok := account["id"].(string)
	require.True(t, ok)
	assert.InDelta(t, 100000.00, account["cash_balance"].(float64), 0.001)

	rec = doJSON(t, srv, http.MethodPost, "/api/login", map[string]string{
		"email":    "trader@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/buy", map[string]interface{}{
		"account_id": accountID,
		"ticker":     "TCS",
		"exchange":   "NSE",
		"quantity":   2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/portfolio?account_id="+accountID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	valuation := decodeEnvelope(t, rec)
	positions, ok := valuation["positions"].([]interface{})
	require.True(t, ok)
	assert.Len(t, positions, 1)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/register", map[string]string{
		"email":    "trader@example.com",
		"name":     "Trader",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/login", map[string]string{
		"email":    "trader@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSystemHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/system/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var response SystemHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Len(t, response.Databases, 3)
	for _, state := range response.Databases {
		assert.Equal(t, "ok", state)
	}
}

func TestSystemDatabaseStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/system/database/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var response DatabaseStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.Len(t, response.Databases, 3)
	assert.Equal(t, "accounts", response.Databases[0].Name)
}

func TestSystemBackupsDisabled(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/system/backups", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"enabled":false`)
}

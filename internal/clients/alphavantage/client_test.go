package alphavantage

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "TCS.NS", r.URL.Query().Get("symbol"))
		w.Write([]byte(`{"Global Quote": {"01. symbol": "TCS.NS", "05. price": "3782.4500", "06. volume": "2563142"}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", zerolog.Nop(), WithBaseURL(srv.URL))

	price, err := client.GetQuote("TCS.NS")
	require.NoError(t, err)
	assert.InDelta(t, 3782.45, price, 0.0001)
}

func TestGetQuoteEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {}}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", zerolog.Nop(), WithBaseURL(srv.URL))

	_, err := client.GetQuote("NOSUCH")
	assert.Error(t, err)
}

func TestGetQuoteRateLimitNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 25 requests per day."}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", zerolog.Nop(), WithBaseURL(srv.URL))

	_, err := client.GetQuote("TCS.NS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestGetQuoteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient("test-key", zerolog.Nop(), WithBaseURL(srv.URL))

	_, err := client.GetQuote("TCS.NS")
	assert.Error(t, err)
}

package yahoo

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{
	"chart": {
		"result": [{
			"timestamp": [1714962600, 1715049000, 1715135400],
			"indicators": {
				"quote": [{
					"open":   [100.0, 101.5, 0],
					"high":   [102.0, 103.0, 0],
					"low":    [99.0, 100.5, 0],
					"close":  [101.5, 102.25, 0],
					"volume": [1000000, 1200000, 0]
				}]
			}
		}],
		"error": null
	}
}`

func newStub(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestGetLatestDailyBar(t *testing.T) {
	srv := newStub(t, chartBody, http.StatusOK)
	defer srv.Close()

	client := NewClient(zerolog.Nop(), WithBaseURL(srv.URL+"/"))

	bar, err := client.GetLatestDailyBar("TCS.NS")
	require.NoError(t, err)
	// Null third row is skipped; the second bar is the latest valid one.
	assert.InDelta(t, 102.25, bar.Close, 0.0001)
	assert.Equal(t, int64(1200000), bar.Volume)
}

func TestGetDailyBarsSkipsNullRows(t *testing.T) {
	srv := newStub(t, chartBody, http.StatusOK)
	defer srv.Close()

	client := NewClient(zerolog.Nop(), WithBaseURL(srv.URL+"/"))

	bars, err := client.GetDailyBars("TCS.NS", "5d")
	require.NoError(t, err)
	assert.Len(t, bars, 2)
}

func TestGetDailyBarsEmptyResult(t *testing.T) {
	srv := newStub(t, `{"chart": {"result": [], "error": null}}`, http.StatusOK)
	defer srv.Close()

	client := NewClient(zerolog.Nop(), WithBaseURL(srv.URL+"/"))

	_, err := client.GetDailyBars("NOSUCH", "5d")
	assert.Error(t, err)
}

func TestGetDailyBarsProviderError(t *testing.T) {
	srv := newStub(t, `{"chart": {"result": null, "error": {"code": "Not Found"}}}`, http.StatusOK)
	defer srv.Close()

	client := NewClient(zerolog.Nop(), WithBaseURL(srv.URL+"/"))

	_, err := client.GetDailyBars("NOSUCH", "5d")
	assert.Error(t, err)
}

func TestGetHistoricalCloses(t *testing.T) {
	srv := newStub(t, chartBody, http.StatusOK)
	defer srv.Close()

	client := NewClient(zerolog.Nop(), WithBaseURL(srv.URL+"/"))

	closes, err := client.GetHistoricalCloses("TCS.NS", "2y")
	require.NoError(t, err)
	assert.Equal(t, []float64{101.5, 102.25}, closes)
}

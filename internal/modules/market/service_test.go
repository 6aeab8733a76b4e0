package market

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpulse/stockpulse/internal/clients/yahoo"
)

type stubBars struct {
	bars map[string][]yahoo.DailyBar
	err  error
}

func (s *stubBars) GetDailyBars(ticker, period string) ([]yahoo.DailyBar, error) {
	if s.err != nil {
		return nil, s.err
	}
	bars, ok := s.bars[ticker]
	if !ok {
		return nil, errors.New("no data")
	}
	return bars, nil
}

func twoBars(prev, last float64) []yahoo.DailyBar {
	return []yahoo.DailyBar{
		{Date: time.Now().AddDate(0, 0, -1), Close: prev, Volume: 1000},
		{Date: time.Now(), Close: last, Volume: 2000},
	}
}

func TestIndicesAllLive(t *testing.T) {
	source := &stubBars{bars: map[string][]yahoo.DailyBar{
		"^NSEI":    twoBars(25000, 25250),
		"^BSESN":   twoBars(83000, 83500),
		"^NSEBANK": twoBars(51000, 51100),
		"^CNXIT":   twoBars(37000, 37500),
		"^CNXAUTO": twoBars(24000, 24100),
	}}
	svc := NewService(source, zerolog.Nop())

	indices := svc.Indices()

	require.Len(t, indices, 5)
	assert.Equal(t, "^NSEI", indices[0].Symbol)
	assert.InDelta(t, 25250.0, indices[0].Price, 0.0001)
	assert.InDelta(t, 250.0, indices[0].Change, 0.0001)
	assert.InDelta(t, 1.0, indices[0].ChangePercent, 0.0001)
}

func TestIndicesPerIndexFallback(t *testing.T) {
	// Only NIFTY 50 is live; every other index uses its fixture row.
	source := &stubBars{bars: map[string][]yahoo.DailyBar{
		"^NSEI": twoBars(25000, 25250),
	}}
	svc := NewService(source, zerolog.Nop())

	indices := svc.Indices()

	require.Len(t, indices, 5)
	assert.InDelta(t, 25250.0, indices[0].Price, 0.0001)
	assert.InDelta(t, 83269.58, indices[1].Price, 0.0001)
	assert.Equal(t, "BSE SENSEX", indices[1].Name)
}

func TestIndicesAllDown(t *testing.T) {
	svc := NewService(&stubBars{err: errors.New("network down")}, zerolog.Nop())

	indices := svc.Indices()

	require.Len(t, indices, 5)
	assert.InDelta(t, 25347.78, indices[0].Price, 0.0001)
}

func TestTrendingLive(t *testing.T) {
	bars := make(map[string][]yahoo.DailyBar)
	for _, s := range trendingUniverse {
		bars[s.Ticker+".NS"] = twoBars(1000, 1010)
	}
	svc := NewService(&stubBars{bars: bars}, zerolog.Nop())

	trending := svc.Trending()

	require.Len(t, trending, 10)
	assert.InDelta(t, 1010.0, trending[0].Price, 0.0001)
	assert.InDelta(t, 10.0, trending[0].Change, 0.0001)
	assert.InDelta(t, 1.0, trending[0].ChangePercent, 0.0001)
	assert.Equal(t, int64(2000), trending[0].Volume)
}

func TestTrendingFallsBackWhenSparse(t *testing.T) {
	// Only two live rows; below the threshold the fixtures win.
	svc := NewService(&stubBars{bars: map[string][]yahoo.DailyBar{
		"RELIANCE.NS": twoBars(2900, 2950),
		"TCS.NS":      twoBars(3700, 3780),
	}}, zerolog.Nop())

	trending := svc.Trending()

	require.Len(t, trending, 10)
	assert.InDelta(t, 2956.85, trending[0].Price, 0.0001)
}

func TestNews(t *testing.T) {
	svc := NewService(&stubBars{}, zerolog.Nop())

	news := svc.News()

	require.Len(t, news, 10)
	assert.Equal(t, "Moneycontrol", news[0].Source)
	assert.NotEmpty(t, news[0].Title)
}

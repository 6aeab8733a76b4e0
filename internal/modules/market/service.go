package market

import (
	"github.com/rs/zerolog"

	"github.com/stockpulse/stockpulse/internal/clients/yahoo"
	"github.com/stockpulse/stockpulse/internal/domain"
)

// minTrendingLive is the minimum number of live trending rows before the
// fixture list takes over wholesale.
const minTrendingLive = 5

// trackedIndices is the fixed set of indices the overview reports on.
var trackedIndices = []struct {
	Symbol string
	Name   string
}{
	{"^NSEI", "NIFTY 50"},
	{"^BSESN", "BSE SENSEX"},
	{"^NSEBANK", "NIFTY BANK"},
	{"^CNXIT", "NIFTY IT"},
	{"^CNXAUTO", "NIFTY AUTO"},
}

// trendingUniverse is the fixed set of large caps sampled for the trending
// list. Live lookups use the NSE suffix.
var trendingUniverse = []struct {
	Ticker string
	Name   string
}{
	{"RELIANCE", "Reliance Industries Ltd."},
	{"TCS", "Tata Consultancy Services Ltd."},
	{"HDFCBANK", "HDFC Bank Ltd."},
	{"INFY", "Infosys Ltd."},
	{"ICICIBANK", "ICICI Bank Ltd."},
	{"HINDUNILVR", "Hindustan Unilever Ltd."},
	{"ITC", "ITC Ltd."},
	{"SBIN", "State Bank of India"},
	{"BHARTIARTL", "Bharti Airtel Ltd."},
	{"KOTAKBANK", "Kotak Mahindra Bank Ltd."},
}

// BarSource provides recent daily bars for change computation.
type BarSource interface {
	GetDailyBars(ticker, period string) ([]yahoo.DailyBar, error)
}

// Service serves the market overview endpoints.
type Service struct {
	source BarSource
	log    zerolog.Logger
}

// NewService creates the market overview service.
func NewService(source BarSource, log zerolog.Logger) *Service {
	return &Service{
		source: source,
		log:    log.With().Str("service", "market").Logger(),
	}
}

// Indices returns a snapshot for every tracked index. Indices the live
// source cannot serve fall back to their fixture row, so the result always
// has the full set.
func (s *Service) Indices() []IndexQuote {
	result := make([]IndexQuote, 0, len(trackedIndices))
	for i, index := range trackedIndices {
		price, change, pct, ok := s.recentChange(index.Symbol)
		if !ok {
			result = append(result, indexFixtures[i])
			continue
		}
		result = append(result, IndexQuote{
			Symbol:        index.Symbol,
			Name:          index.Name,
			Price:         price,
			Change:        change,
			ChangePercent: pct,
		})
	}
	return result
}

// Trending returns the trending list. Individual live failures are skipped;
// when fewer than minTrendingLive rows survive, the full fixture list is
// returned instead.
func (s *Service) Trending() []TrendingStock {
	result := make([]TrendingStock, 0, len(trendingUniverse))
	for _, stock := range trendingUniverse {
		bars, err := s.source.GetDailyBars(stock.Ticker+".NS", "2d")
		if err != nil || len(bars) == 0 {
			s.log.Debug().Err(err).Str("ticker", stock.Ticker).Msg("Skipping trending stock without live data")
			continue
		}

		last := bars[len(bars)-1]
		var change, pct float64
		if len(bars) > 1 {
			prev := bars[len(bars)-2].Close
			change = last.Close - prev
			if prev != 0 {
				pct = change / prev * 100
			}
		}

		result = append(result, TrendingStock{
			Symbol:        stock.Ticker,
			Name:          stock.Name,
			Price:         domain.RoundCents(last.Close),
			Change:        domain.RoundCents(change),
			ChangePercent: domain.RoundCents(pct),
			Volume:        last.Volume,
		})
	}

	if len(result) < minTrendingLive {
		s.log.Debug().Int("live_rows", len(result)).Msg("Not enough live trending data, using fixtures")
		return append([]TrendingStock(nil), trendingFixtures...)
	}
	return result
}

// News returns the current headlines.
func (s *Service) News() []NewsItem {
	return append([]NewsItem(nil), newsFixtures...)
}

// recentChange fetches two days of bars and derives price, absolute change,
// and percent change.
func (s *Service) recentChange(symbol string) (price, change, pct float64, ok bool) {
	bars, err := s.source.GetDailyBars(symbol, "2d")
	if err != nil || len(bars) == 0 {
		s.log.Debug().Err(err).Str("symbol", symbol).Msg("Live index data unavailable")
		return 0, 0, 0, false
	}

	last := bars[len(bars)-1]
	if len(bars) > 1 {
		prev := bars[len(bars)-2].Close
		change = last.Close - prev
		if prev != 0 {
			pct = change / prev * 100
		}
	}
	return domain.RoundCents(last.Close), domain.RoundCents(change), domain.RoundCents(pct), true
}

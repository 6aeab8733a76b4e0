// Package domain provides core domain models and types.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Exchange identifies the market a ticker trades on.
type Exchange string

const (
	ExchangeNSE Exchange = "NSE"
	ExchangeBSE Exchange = "BSE"
	// ExchangeUnspecified is treated as a US/default listing (no suffix).
	ExchangeUnspecified Exchange = ""
)

// exchangeSuffixes maps regional exchanges to the suffix required by the
// live data providers. US/default listings need no suffix.
var exchangeSuffixes = map[Exchange]string{
	ExchangeNSE: ".NS",
	ExchangeBSE: ".BO",
}

// Symbol identifies a tradable instrument. Symbols are immutable value
// objects; construct them with NewSymbol.
type Symbol struct {
	Ticker   string   `json:"ticker"`
	Exchange Exchange `json:"exchange"`
}

// NewSymbol creates a Symbol, normalizing the ticker to upper case.
// Returns an error for empty or non-alphanumeric tickers.
func NewSymbol(ticker string, exchange Exchange) (Symbol, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return Symbol{}, fmt.Errorf("%w: empty ticker", ErrNotFound)
	}
	for _, r := range ticker {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return Symbol{}, fmt.Errorf("%w: invalid ticker %q", ErrNotFound, ticker)
		}
	}
	switch exchange {
	case ExchangeNSE, ExchangeBSE, ExchangeUnspecified:
	default:
		exchange = ExchangeUnspecified
	}
	return Symbol{Ticker: ticker, Exchange: exchange}, nil
}

// MustSymbol is a test/bootstrap helper that panics on invalid input.
func MustSymbol(ticker string, exchange Exchange) Symbol {
	s, err := NewSymbol(ticker, exchange)
	if err != nil {
		panic(err)
	}
	return s
}

// Suffixed returns the ticker with the exchange suffix applied, as required
// by the live data providers (e.g. TCS on NSE -> "TCS.NS").
func (s Symbol) Suffixed() string {
	return s.Ticker + exchangeSuffixes[s.Exchange]
}

// Equal reports whether two symbols identify the same instrument.
// Comparison is case-insensitive on the ticker.
func (s Symbol) Equal(other Symbol) bool {
	return strings.EqualFold(s.Ticker, other.Ticker) && s.Exchange == other.Exchange
}

// String returns a human-readable representation.
func (s Symbol) String() string {
	if s.Exchange == ExchangeUnspecified {
		return s.Ticker
	}
	return s.Ticker + ":" + string(s.Exchange)
}

// QuoteSource records the provenance of a resolved price.
type QuoteSource string

const (
	SourceLivePrimary   QuoteSource = "LIVE_PRIMARY"
	SourceLiveSecondary QuoteSource = "LIVE_SECONDARY"
	SourceSynthetic     QuoteSource = "SYNTHETIC"
)

// PriceQuote is a single resolved price observation.
// Invariant: Price > 0.
type PriceQuote struct {
	Symbol    Symbol      `json:"symbol"`
	Price     float64     `json:"price"`
	Timestamp time.Time   `json:"timestamp"`
	Source    QuoteSource `json:"source"`
}

// Synthetic reports whether the quote was generated rather than observed.
func (q PriceQuote) Synthetic() bool {
	return q.Source == SourceSynthetic
}

// StockDetails holds the deterministic UI enrichment for a symbol.
// All fields derive from the anchor price and the seeded stream.
type StockDetails struct {
	Symbol        Symbol  `json:"symbol"`
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	Industry      string  `json:"industry"`
	Price         float64 `json:"price"`
	Volume        int64   `json:"volume"`
	AvgVolume     int64   `json:"avg_volume"`
	MarketCap     float64 `json:"market_cap"`
	PERatio       float64 `json:"pe_ratio"`
	EPS           float64 `json:"eps"`
	DividendYield float64 `json:"dividend_yield"`
	YearHigh      float64 `json:"year_high"`
	YearLow       float64 `json:"year_low"`
	Beta          float64 `json:"beta"`
	Description   string  `json:"description"`
}

// ForecastPoint is one predicted price on a future business day.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// ForecastResult is an ordered multi-day price trajectory for a ticker.
//
// Invariants: at most 7 points, strictly increasing dates, weekdays only,
// Confidence in [0, 1]. Each price is chained from the previous one.
type ForecastResult struct {
	Symbol      Symbol          `json:"symbol"`
	AnchorPrice float64         `json:"anchor_price"`
	Points      []ForecastPoint `json:"points"`
	Confidence  float64         `json:"confidence"`
	// Trained is true when the trajectory came from the trained-model
	// delegate rather than the synthetic path.
	Trained bool `json:"trained"`
}

// Validate checks the ForecastResult invariants.
func (f ForecastResult) Validate() error {
	if len(f.Points) > 7 {
		return fmt.Errorf("forecast has %d points, max 7", len(f.Points))
	}
	if f.Confidence < 0 || f.Confidence > 1 {
		return fmt.Errorf("confidence %.4f out of [0,1]", f.Confidence)
	}
	for i, p := range f.Points {
		wd := p.Date.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return fmt.Errorf("point %d falls on a weekend", i)
		}
		if i > 0 && !p.Date.After(f.Points[i-1].Date) {
			return fmt.Errorf("point %d date not strictly increasing", i)
		}
		if p.Price <= 0 {
			return fmt.Errorf("point %d has non-positive price", i)
		}
	}
	return nil
}

// RoundCents rounds a price to cent precision.
func RoundCents(v float64) float64 {
	if v < 0 {
		return float64(int64(v*100-0.5)) / 100
	}
	return float64(int64(v*100+0.5)) / 100
}

package pricing

import (
	"fmt"
	"strings"

	"github.com/stockpulse/stockpulse/internal/domain"
	"github.com/stockpulse/stockpulse/internal/synth"
)

var sectorTable = []string{
	"Information Technology",
	"Financial Services",
	"Energy",
	"Consumer Goods",
	"Healthcare",
	"Industrials",
	"Telecommunications",
	"Materials",
}

// industryTable is indexed in lockstep with sectorTable.
var industryTable = [][]string{
	{"Software Services", "IT Consulting", "Digital Platforms"},
	{"Private Banking", "Asset Management", "Insurance"},
	{"Oil & Gas", "Renewables", "Power Distribution"},
	{"FMCG", "Retail", "Food & Beverages"},
	{"Pharmaceuticals", "Hospitals", "Diagnostics"},
	{"Construction", "Capital Goods", "Infrastructure"},
	{"Wireless Carriers", "Broadband", "Network Equipment"},
	{"Chemicals", "Metals & Mining", "Cement"},
}

// knownCompanyNames overrides the generated name for familiar tickers so
// the UI shows something recognizable.
var knownCompanyNames = map[string]string{
	"RELIANCE":   "Reliance Industries Ltd",
	"TCS":        "Tata Consultancy Services Ltd",
	"HDFCBANK":   "HDFC Bank Ltd",
	"INFY":       "Infosys Ltd",
	"ITC":        "ITC Ltd",
	"ICICIBANK":  "ICICI Bank Ltd",
	"KOTAKBANK":  "Kotak Mahindra Bank Ltd",
	"SBIN":       "State Bank of India",
	"BHARTIARTL": "Bharti Airtel Ltd",
	"AXISBANK":   "Axis Bank Ltd",
	"LT":         "Larsen & Toubro Ltd",
	"MARUTI":     "Maruti Suzuki India Ltd",
	"HINDUNILVR": "Hindustan Unilever Ltd",
}

// ResolveDetailed returns the full detail record for a symbol: the resolved
// price plus deterministic enrichment derived from the ticker's seed. It
// performs no network calls beyond the price resolution itself, so the
// enrichment is stable across requests and processes.
func (s *Service) ResolveDetailed(symbol domain.Symbol) domain.StockDetails {
	quote := s.Resolve(symbol)
	return DetailsFor(symbol, quote.Price)
}

// DetailsFor derives the enrichment fields for a symbol around an anchor
// price. Split out from ResolveDetailed so forecasts and tests can reuse it
// with a known anchor.
func DetailsFor(symbol domain.Symbol, price float64) domain.StockDetails {
	seed := synth.SeedFrom(symbol.Ticker)
	stream := synth.NewStream(seed)

	sectorIdx := int(seed % int64(len(sectorTable)))
	sector := sectorTable[sectorIdx]
	industries := industryTable[sectorIdx]
	industry := industries[int(seed)%len(industries)]

	// Fundamentals are sampled from bands wide enough to look plausible
	// but anchored to the seed so repeated lookups agree.
	pe := domain.RoundCents(stream.Uniform(12, 45))
	eps := domain.RoundCents(price / pe)
	divYield := domain.RoundCents(stream.Uniform(0.2, 3.5))
	beta := domain.RoundCents(stream.Uniform(0.6, 1.8))

	yearHigh := domain.RoundCents(price * stream.Uniform(1.05, 1.40))
	yearLow := domain.RoundCents(price * stream.Uniform(0.60, 0.95))

	volume := int64(stream.IntRange(200_000, 8_000_000))
	avgVolume := int64(stream.IntRange(200_000, 8_000_000))

	sharesOutstanding := float64(stream.IntRange(50_000_000, 900_000_000))
	marketCap := domain.RoundCents(price * sharesOutstanding)

	name := companyName(symbol.Ticker)

	return domain.StockDetails{
		Symbol:        symbol,
		Name:          name,
		Sector:        sector,
		Industry:      industry,
		Price:         price,
		Volume:        volume,
		AvgVolume:     avgVolume,
		MarketCap:     marketCap,
		PERatio:       pe,
		EPS:           eps,
		DividendYield: divYield,
		YearHigh:      yearHigh,
		YearLow:       yearLow,
		Beta:          beta,
		Description: fmt.Sprintf(
			"%s operates in the %s sector with a focus on %s.",
			name, strings.ToLower(sector), strings.ToLower(industry),
		),
	}
}

// companyName returns a display name for the ticker, falling back to a
// title-cased form of the ticker itself.
func companyName(ticker string) string {
	if name, ok := knownCompanyNames[ticker]; ok {
		return name
	}
	lower := strings.ToLower(ticker)
	return strings.ToUpper(lower[:1]) + lower[1:] + " Ltd"
}

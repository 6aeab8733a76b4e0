package forecast

import (
	"time"

	"github.com/stockpulse/stockpulse/internal/domain"
	"github.com/stockpulse/stockpulse/internal/synth"
)

// SyntheticForecast builds a deterministic trajectory for a ticker around an
// anchor price. The trend direction, strength, and daily wobble all derive
// from the ticker's seed, so the same ticker and anchor always produce the
// same trajectory.
//
// The trajectory covers the next horizonDays calendar days after `from`;
// weekends are skipped, so a full 7-day window yields at most 5 points.
func SyntheticForecast(symbol domain.Symbol, anchor float64, horizonDays int, from time.Time) domain.ForecastResult {
	if horizonDays > maxHorizonDays {
		horizonDays = maxHorizonDays
	}
	if horizonDays < 1 {
		horizonDays = 1
	}

	seed := synth.SeedFrom(symbol.Ticker)

	direction := -1.0
	if seed%10 > 4 {
		direction = 1.0
	}
	strength := (0.002 + float64(seed%15)/2000) * direction

	points := make([]domain.ForecastPoint, 0, horizonDays)
	price := anchor
	for offset := 1; offset <= horizonDays; offset++ {
		date := from.AddDate(0, 0, offset)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		change := price * strength * (1 + float64((int64(offset)*seed)%11)/100)
		price = domain.RoundCents(price + change)
		if price <= 0 {
			// Strong downtrends on tiny anchors could cross zero; floor
			// at one cent to keep the invariant.
			price = 0.01
		}
		points = append(points, domain.ForecastPoint{Date: date, Price: price})
	}

	confidence := 0.6 + float64(seed%30)/100

	return domain.ForecastResult{
		Symbol:      symbol,
		AnchorPrice: anchor,
		Points:      points,
		Confidence:  confidence,
		Trained:     false,
	}
}

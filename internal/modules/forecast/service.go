// Package forecast implements the forecast engine: multi-day price
// trajectories from either a trained autoregressive model or a deterministic
// synthetic path, memoized per ticker.
package forecast

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockpulse/stockpulse/internal/domain"
)

// maxHorizonDays is the calendar-day window every trajectory must fit in.
const maxHorizonDays = 7

// persistSampleRate is the fraction of computed forecasts written to the
// repository for offline inspection.
const persistSampleRate = 0.10

// Oracle resolves current prices; the synthetic path anchors on it.
type Oracle interface {
	Resolve(symbol domain.Symbol) domain.PriceQuote
}

// Trainer produces model-based trajectories. Errors trigger failover to the
// synthetic path.
type Trainer interface {
	Predict(symbol domain.Symbol, horizonDays int, from time.Time) (domain.ForecastResult, error)
}

// Store persists a sample of computed forecasts. Failures never surface to
// callers.
type Store interface {
	Save(result domain.ForecastResult) error
}

// memoEntry pins the full-window trajectory together with the date it was
// anchored on, so smaller horizons can be cut from it later.
type memoEntry struct {
	result domain.ForecastResult
	from   time.Time
}

// Service computes and memoizes forecasts.
type Service struct {
	oracle  Oracle
	trainer Trainer // may be nil
	store   Store   // may be nil
	log     zerolog.Logger

	mu   sync.Mutex
	memo map[string]memoEntry

	// Injected for tests; defaults to time.Now and rand.Float64.
	now    func() time.Time
	sample func() float64
}

// NewService creates the forecast engine. trainer and store may be nil.
func NewService(oracle Oracle, trainer Trainer, store Store, log zerolog.Logger) *Service {
	return &Service{
		oracle:  oracle,
		trainer: trainer,
		store:   store,
		log:     log.With().Str("service", "forecast").Logger(),
		memo:    make(map[string]memoEntry),
		now:     time.Now,
		sample:  rand.Float64,
	}
}

// Forecast returns the business-day trajectory covering the next horizonDays
// calendar days for the symbol. The first successful computation per ticker
// always spans the full window and is pinned for the process lifetime; calls
// with a smaller horizon get the matching cut of the pinned trajectory and
// never trigger a recompute. Forecast never fails: when the trained path is
// unavailable it falls back to the synthetic one.
//
// forceSynthetic bypasses the trained model entirely and leaves the pinned
// result untouched.
func (s *Service) Forecast(symbol domain.Symbol, horizonDays int, forceSynthetic bool) domain.ForecastResult {
	if horizonDays > maxHorizonDays {
		horizonDays = maxHorizonDays
	}
	if horizonDays < 1 {
		horizonDays = 1
	}

	if forceSynthetic {
		from := s.now()
		anchor := s.oracle.Resolve(symbol).Price
		return SyntheticForecast(symbol, anchor, horizonDays, from)
	}

	key := symbol.String()

	s.mu.Lock()
	if entry, ok := s.memo[key]; ok {
		s.mu.Unlock()
		return windowed(entry.result, entry.from, horizonDays)
	}
	s.mu.Unlock()

	from := s.now()
	result := s.compute(symbol, from)

	s.mu.Lock()
	if existing, ok := s.memo[key]; ok {
		// A concurrent call won the race; its pin stands.
		result, from = existing.result, existing.from
		s.mu.Unlock()
		return windowed(result, from, horizonDays)
	}
	s.memo[key] = memoEntry{result: result, from: from}
	s.mu.Unlock()

	if s.store != nil && s.sample() < persistSampleRate {
		if err := s.store.Save(result); err != nil {
			s.log.Warn().Err(err).Str("ticker", symbol.Ticker).Msg("Failed to persist forecast sample")
		}
	}

	return windowed(result, from, horizonDays)
}

// Invalidate drops the pinned forecast for a symbol.
func (s *Service) Invalidate(symbol domain.Symbol) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.memo, symbol.String())
}

// compute builds the full-window trajectory anchored on from.
func (s *Service) compute(symbol domain.Symbol, from time.Time) domain.ForecastResult {
	if s.trainer != nil {
		result, err := s.trainer.Predict(symbol, maxHorizonDays, from)
		if err == nil {
			return result
		}
		s.log.Debug().Err(err).Str("ticker", symbol.Ticker).Msg("Trained forecast unavailable, using synthetic path")
	}

	anchor := s.oracle.Resolve(symbol).Price
	return SyntheticForecast(symbol, anchor, maxHorizonDays, from)
}

// windowed cuts a pinned full-window result down to the points falling
// within horizonDays calendar days of its anchor date.
func windowed(result domain.ForecastResult, from time.Time, horizonDays int) domain.ForecastResult {
	if horizonDays >= maxHorizonDays {
		return result
	}
	cutoff := from.AddDate(0, 0, horizonDays)
	n := 0
	for n < len(result.Points) && !result.Points[n].Date.After(cutoff) {
		n++
	}
	out := result
	out.Points = result.Points[:n]
	return out
}

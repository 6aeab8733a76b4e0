// Package pricing implements the price oracle: it resolves a current price
// for any symbol through an ordered chain of live sources, degrading to
// deterministic synthetic data so that resolution never fails.
package pricing

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stockpulse/stockpulse/internal/clients/yahoo"
	"github.com/stockpulse/stockpulse/internal/domain"
	"github.com/stockpulse/stockpulse/internal/synth"
)

// PrimarySource is the first live source tried (most-recent daily bar).
type PrimarySource interface {
	GetLatestDailyBar(ticker string) (*yahoo.DailyBar, error)
}

// SecondarySource is the quote-endpoint fallback.
type SecondarySource interface {
	GetQuote(ticker string) (float64, error)
}

// PersistentQuoteStore is an optional second-level cache that survives
// restarts. Failures are logged and ignored; it never blocks resolution.
type PersistentQuoteStore interface {
	GetFresh(symbol string) (*domain.PriceQuote, error)
	Store(symbol string, quote domain.PriceQuote, ttl time.Duration) error
}

// Service resolves prices. Both caches are owned by the instance; nothing
// here touches ambient process state.
type Service struct {
	primary   PrimarySource
	secondary SecondarySource
	cache     *QuoteCache
	store     PersistentQuoteStore // may be nil
	storeTTL  time.Duration
	log       zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-symbol resolution locks
}

// NewService creates a price oracle. store may be nil to disable the
// persistent cache layer.
func NewService(
	primary PrimarySource,
	secondary SecondarySource,
	cache *QuoteCache,
	store PersistentQuoteStore,
	storeTTL time.Duration,
	log zerolog.Logger,
) *Service {
	return &Service{
		primary:   primary,
		secondary: secondary,
		cache:     cache,
		store:     store,
		storeTTL:  storeTTL,
		log:       log.With().Str("service", "pricing").Logger(),
		locks:     make(map[string]*sync.Mutex),
	}
}

// Resolve returns a current price quote for the symbol. It never fails:
// when both live sources are unavailable it synthesizes a reproducible
// quote instead. Concurrent resolutions for the same symbol are serialized
// so they cannot race the cache into divergent entries.
func (s *Service) Resolve(symbol domain.Symbol) domain.PriceQuote {
	key := symbol.String()

	if quote, ok := s.cache.Get(key); ok {
		return quote
	}

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	// Another request may have populated the cache while we waited.
	if quote, ok := s.cache.Get(key); ok {
		return quote
	}

	quote := s.resolveUncached(symbol)
	s.cache.Put(key, quote)

	if s.store != nil {
		if err := s.store.Store(key, quote, s.storeTTL); err != nil {
			s.log.Warn().Err(err).Str("symbol", key).Msg("Failed to persist quote to cache store")
		}
	}

	return quote
}

// resolveUncached runs the source chain: persistent cache, primary live,
// secondary live, synthetic.
func (s *Service) resolveUncached(symbol domain.Symbol) domain.PriceQuote {
	key := symbol.String()

	if s.store != nil {
		cached, err := s.store.GetFresh(key)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", key).Msg("Persistent quote cache read failed")
		} else if cached != nil {
			return *cached
		}
	}

	suffixed := symbol.Suffixed()

	bar, err := s.primary.GetLatestDailyBar(suffixed)
	if err == nil && bar != nil && bar.Close > 0 {
		return domain.PriceQuote{
			Symbol:    symbol,
			Price:     bar.Close,
			Timestamp: time.Now(),
			Source:    domain.SourceLivePrimary,
		}
	}
	s.log.Debug().Err(err).Str("symbol", key).Msg("Primary source failed, trying secondary")

	price, err := s.secondary.GetQuote(suffixed)
	if err == nil && price > 0 {
		return domain.PriceQuote{
			Symbol:    symbol,
			Price:     price,
			Timestamp: time.Now(),
			Source:    domain.SourceLiveSecondary,
		}
	}
	s.log.Debug().Err(err).Str("symbol", key).Msg("Secondary source failed, synthesizing price")

	return domain.PriceQuote{
		Symbol:    symbol,
		Price:     SyntheticPrice(symbol.Ticker),
		Timestamp: time.Now(),
		Source:    domain.SourceSynthetic,
	}
}

// Invalidate removes a symbol from the in-memory cache.
func (s *Service) Invalidate(symbol domain.Symbol) {
	s.cache.Invalidate(symbol.String())
}

// keyLock returns the mutex serializing resolution for one symbol.
func (s *Service) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// Base price bands for synthetic quotes. Recognized large caps get higher
// bands so synthetic values stay plausible.
var (
	largeCapTickers = map[string]bool{
		"RELIANCE": true, "TCS": true, "HDFC": true, "HDFCBANK": true,
		"INFY": true, "ITC": true, "ICICIBANK": true, "KOTAKBANK": true,
	}
	midCapTickers = map[string]bool{
		"SBIN": true, "BHARTIARTL": true, "AXISBANK": true,
		"LT": true, "MARUTI": true, "HINDUNILVR": true,
	}
)

// SyntheticPrice derives a reproducible price from the unsuffixed ticker.
// The same ticker always yields the same price.
func SyntheticPrice(ticker string) float64 {
	seed := synth.SeedFrom(ticker)

	var base float64
	switch {
	case largeCapTickers[ticker]:
		base = 1500 + float64(seed%3500)
	case midCapTickers[ticker]:
		base = 800 + float64(seed%1200)
	default:
		base = 500 + float64(seed%1500)
	}

	return domain.RoundCents(base * (1 + float64(seed%100)/2500))
}

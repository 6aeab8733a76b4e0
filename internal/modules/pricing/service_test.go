package pricing

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpulse/stockpulse/internal/clients/yahoo"
	"github.com/stockpulse/stockpulse/internal/domain"
)

type stubPrimary struct {
	mu    sync.Mutex
	bar   *yahoo.DailyBar
	err   error
	calls int
	seen  []string
}

func (s *stubPrimary) GetLatestDailyBar(ticker string) (*yahoo.DailyBar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.seen = append(s.seen, ticker)
	return s.bar, s.err
}

type stubSecondary struct {
	price float64
	err   error
	calls int
}

func (s *stubSecondary) GetQuote(ticker string) (float64, error) {
	s.calls++
	return s.price, s.err
}

type stubStore struct {
	fresh  map[string]*domain.PriceQuote
	stored map[string]domain.PriceQuote
	getErr error
	putErr error
}

func newStubStore() *stubStore {
	return &stubStore{
		fresh:  make(map[string]*domain.PriceQuote),
		stored: make(map[string]domain.PriceQuote),
	}
}

func (s *stubStore) GetFresh(symbol string) (*domain.PriceQuote, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.fresh[symbol], nil
}

func (s *stubStore) Store(symbol string, quote domain.PriceQuote, _ time.Duration) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.stored[symbol] = quote
	return nil
}

func newTestService(primary PrimarySource, secondary SecondarySource, store PersistentQuoteStore) *Service {
	return NewService(primary, secondary, NewQuoteCache(10*time.Minute, 16), store, 10*time.Minute, zerolog.Nop())
}

func TestResolvePrimarySource(t *testing.T) {
	primary := &stubPrimary{bar: &yahoo.DailyBar{Close: 3742.80}}
	secondary := &stubSecondary{}
	svc := newTestService(primary, secondary, nil)

	quote := svc.Resolve(domain.MustSymbol("TCS", domain.ExchangeNSE))

	assert.Equal(t, domain.SourceLivePrimary, quote.Source)
	assert.InDelta(t, 3742.80, quote.Price, 0.0001)
	assert.Equal(t, []string{"TCS.NS"}, primary.seen)
	assert.Zero(t, secondary.calls)
}

func TestResolveFallsBackToSecondary(t *testing.T) {
	primary := &stubPrimary{err: errors.New("upstream down")}
	secondary := &stubSecondary{price: 1520.55}
	svc := newTestService(primary, secondary, nil)

	quote := svc.Resolve(domain.MustSymbol("ITC", domain.ExchangeBSE))

	assert.Equal(t, domain.SourceLiveSecondary, quote.Source)
	assert.InDelta(t, 1520.55, quote.Price, 0.0001)
	assert.Equal(t, 1, secondary.calls)
}

func TestResolveNeverFails(t *testing.T) {
	primary := &stubPrimary{err: errors.New("upstream down")}
	secondary := &stubSecondary{err: errors.New("rate limited")}
	svc := newTestService(primary, secondary, nil)

	quote := svc.Resolve(domain.MustSymbol("ZZZUNKNOWN", domain.ExchangeNSE))

	assert.Equal(t, domain.SourceSynthetic, quote.Source)
	assert.Greater(t, quote.Price, 0.0)
}

func TestResolveSyntheticDeterministic(t *testing.T) {
	primary := &stubPrimary{err: errors.New("down")}
	secondary := &stubSecondary{err: errors.New("down")}

	first := newTestService(primary, secondary, nil).Resolve(domain.MustSymbol("TCS", domain.ExchangeNSE))
	second := newTestService(primary, secondary, nil).Resolve(domain.MustSymbol("TCS", domain.ExchangeNSE))

	assert.Equal(t, first.Price, second.Price)
}

func TestSyntheticPricesDivergeAcrossTickers(t *testing.T) {
	assert.NotEqual(t, SyntheticPrice("TCS"), SyntheticPrice("INFY"))
	assert.NotEqual(t, SyntheticPrice("RELIANCE"), SyntheticPrice("SBIN"))
}

func TestSyntheticPriceBands(t *testing.T) {
	// Recognized large caps land above the generic floor.
	assert.GreaterOrEqual(t, SyntheticPrice("TCS"), 1500.0)
	assert.GreaterOrEqual(t, SyntheticPrice("SBIN"), 800.0)
	assert.GreaterOrEqual(t, SyntheticPrice("SOMESTOCK"), 500.0)
}

func TestResolveCachesResult(t *testing.T) {
	primary := &stubPrimary{bar: &yahoo.DailyBar{Close: 100.0}}
	svc := newTestService(primary, &stubSecondary{}, nil)
	sym := domain.MustSymbol("TCS", domain.ExchangeNSE)

	svc.Resolve(sym)
	svc.Resolve(sym)
	svc.Resolve(sym)

	assert.Equal(t, 1, primary.calls)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	primary := &stubPrimary{bar: &yahoo.DailyBar{Close: 100.0}}
	svc := newTestService(primary, &stubSecondary{}, nil)
	sym := domain.MustSymbol("TCS", domain.ExchangeNSE)

	svc.Resolve(sym)
	svc.Invalidate(sym)
	svc.Resolve(sym)

	assert.Equal(t, 2, primary.calls)
}

func TestResolveUsesPersistentStore(t *testing.T) {
	primary := &stubPrimary{bar: &yahoo.DailyBar{Close: 100.0}}
	store := newStubStore()
	cached := domain.PriceQuote{
		Symbol:    domain.MustSymbol("TCS", domain.ExchangeNSE),
		Price:     3690.10,
		Timestamp: time.Now(),
		Source:    domain.SourceLivePrimary,
	}
	store.fresh["TCS:NSE"] = &cached

	svc := newTestService(primary, &stubSecondary{}, store)
	quote := svc.Resolve(domain.MustSymbol("TCS", domain.ExchangeNSE))

	assert.InDelta(t, 3690.10, quote.Price, 0.0001)
	assert.Zero(t, primary.calls)
}

func TestResolveWritesThroughToStore(t *testing.T) {
	primary := &stubPrimary{bar: &yahoo.DailyBar{Close: 250.5}}
	store := newStubStore()
	svc := newTestService(primary, &stubSecondary{}, store)

	svc.Resolve(domain.MustSymbol("INFY", domain.ExchangeNSE))

	stored, ok := store.stored["INFY:NSE"]
	require.True(t, ok)
	assert.InDelta(t, 250.5, stored.Price, 0.0001)
}

func TestResolveStoreFailuresAreSwallowed(t *testing.T) {
	primary := &stubPrimary{bar: &yahoo.DailyBar{Close: 250.5}}
	store := newStubStore()
	store.getErr = errors.New("db locked")
	store.putErr = errors.New("db locked")
	svc := newTestService(primary, &stubSecondary{}, store)

	quote := svc.Resolve(domain.MustSymbol("INFY", domain.ExchangeNSE))
	assert.InDelta(t, 250.5, quote.Price, 0.0001)
}

func TestResolveConcurrentSingleFetch(t *testing.T) {
	primary := &stubPrimary{bar: &yahoo.DailyBar{Close: 100.0}}
	svc := newTestService(primary, &stubSecondary{}, nil)
	sym := domain.MustSymbol("TCS", domain.ExchangeNSE)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Resolve(sym)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, primary.calls)
}

func TestSearchCoversAllListings(t *testing.T) {
	primary := &stubPrimary{bar: &yahoo.DailyBar{Close: 3700}}
	svc := newTestService(primary, &stubSecondary{}, nil)

	results, err := svc.Search("tcs")
	require.NoError(t, err)
	require.Len(t, results, 3)

	exchanges := make(map[domain.Exchange]bool)
	for _, d := range results {
		assert.Equal(t, "TCS", d.Symbol.Ticker)
		exchanges[d.Symbol.Exchange] = true
	}
	assert.True(t, exchanges[domain.ExchangeNSE])
	assert.True(t, exchanges[domain.ExchangeBSE])
	assert.True(t, exchanges[domain.ExchangeUnspecified])

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].MarketCap, results[i].MarketCap)
	}
}

func TestSearchRejectsInvalidQuery(t *testing.T) {
	svc := newTestService(&stubPrimary{}, &stubSecondary{}, nil)

	_, err := svc.Search("bad ticker")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDetailsForDeterministic(t *testing.T) {
	sym := domain.MustSymbol("TCS", domain.ExchangeNSE)

	a := DetailsFor(sym, 3700)
	b := DetailsFor(sym, 3700)

	assert.Equal(t, a, b)
	assert.Equal(t, "Tata Consultancy Services Ltd", a.Name)
	assert.Greater(t, a.YearHigh, a.Price)
	assert.Less(t, a.YearLow, a.Price)
	assert.Greater(t, a.PERatio, 0.0)
}

func TestDetailsForUnknownTicker(t *testing.T) {
	sym := domain.MustSymbol("WIDGETCO", domain.ExchangeUnspecified)

	d := DetailsFor(sym, 640)
	assert.Equal(t, "Widgetco Ltd", d.Name)
	assert.NotEmpty(t, d.Sector)
	assert.NotEmpty(t, d.Industry)
	assert.NotEmpty(t, d.Description)
}

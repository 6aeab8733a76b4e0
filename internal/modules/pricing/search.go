package pricing

import (
	"sort"

	"github.com/stockpulse/stockpulse/internal/domain"
)

// Search resolves a ticker query against both regional exchanges plus the
// unsuffixed US listing, and returns the detail records, largest market cap
// first. The query must be a syntactically valid ticker; resolution itself
// never fails.
func (s *Service) Search(query string) ([]domain.StockDetails, error) {
	results := make([]domain.StockDetails, 0, 3)
	for _, exchange := range []domain.Exchange{domain.ExchangeNSE, domain.ExchangeBSE, domain.ExchangeUnspecified} {
		symbol, err := domain.NewSymbol(query, exchange)
		if err != nil {
			return nil, err
		}
		results = append(results, s.ResolveDetailed(symbol))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].MarketCap > results[j].MarketCap
	})

	return results, nil
}

// Package market provides the market overview surface: index quotes,
// trending stocks, and headlines, with fixture fallbacks when the live
// source is unavailable.
package market

// IndexQuote is one market index snapshot.
type IndexQuote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

// TrendingStock is one entry in the trending list.
type TrendingStock struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
}

// NewsItem is one market headline.
type NewsItem struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Source  string `json:"source"`
	Date    string `json:"date"`
	URL     string `json:"url"`
}

package yahoo

import "time"

// DailyBar is a single OHLCV observation from the chart API.
type DailyBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

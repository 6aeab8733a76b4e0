// Package ledger implements simulated portfolio accounts: cash balances,
// holdings, watchlists, and an append-only transaction history.
package ledger

import (
	"time"
)

// TxType is the side of an executed trade.
type TxType string

const (
	TxBuy  TxType = "BUY"
	TxSell TxType = "SELL"
)

// Account is a simulated trading account. Holdings are sparse: a ticker is
// present only while its quantity is positive.
type Account struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Name         string         `json:"name"`
	PasswordHash string         `json:"-"`
	CashBalance  float64        `json:"cash_balance"`
	Holdings     map[string]int `json:"holdings"`
	Watchlist    []string       `json:"watchlist"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Transaction is one executed trade. Records are append-only.
type Transaction struct {
	ID         string    `json:"id"`
	AccountID  string    `json:"account_id"`
	Type       TxType    `json:"type"`
	Ticker     string    `json:"ticker"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
	Total      float64   `json:"total"`
	ExecutedAt time.Time `json:"executed_at"`
}

// Position is one valued holding inside a portfolio snapshot.
type Position struct {
	Ticker   string  `json:"ticker"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Value    float64 `json:"value"`
	// Source records where the valuation price came from, so degraded
	// (synthetic) valuations are visible to the caller.
	Source string `json:"source"`
}

// Valuation is a point-in-time portfolio snapshot.
type Valuation struct {
	AccountID     string     `json:"account_id"`
	CashBalance   float64    `json:"cash_balance"`
	Positions     []Position `json:"positions"`
	HoldingsValue float64    `json:"holdings_value"`
	TotalValue    float64    `json:"total_value"`
	AsOf          time.Time  `json:"as_of"`
}

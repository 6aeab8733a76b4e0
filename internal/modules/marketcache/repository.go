// Package marketcache provides persistent caching for resolved market data.
// Quotes are stored as JSON blobs with expiration timestamps so a restart
// does not force a round of live-source calls for recently seen symbols.
package marketcache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stockpulse/stockpulse/internal/domain"
)

// TTLQuote is the default freshness window for cached quotes.
const TTLQuote = 10 * time.Minute

// Repository provides cache operations over the marketdata database.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new market cache repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Store saves a quote with expiration = now + ttl.
// Uses INSERT OR REPLACE to upsert.
func (r *Repository) Store(symbol string, quote domain.PriceQuote, ttl time.Duration) error {
	jsonData, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	expiresAt := time.Now().Add(ttl).Unix()

	_, err = r.db.Exec(
		"INSERT OR REPLACE INTO quotes (symbol, data, expires_at) VALUES (?, ?, ?)",
		symbol, string(jsonData), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store quote for %s: %w", symbol, err)
	}

	return nil
}

// GetFresh returns the cached quote only if expires_at > now.
// Returns nil, nil when the symbol is absent or the entry has expired.
func (r *Repository) GetFresh(symbol string) (*domain.PriceQuote, error) {
	now := time.Now().Unix()

	var data string
	err := r.db.QueryRow(
		"SELECT data FROM quotes WHERE symbol = ? AND expires_at > ?",
		symbol, now,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}

	var quote domain.PriceQuote
	if err := json.Unmarshal([]byte(data), &quote); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote for %s: %w", symbol, err)
	}

	return &quote, nil
}

// Delete removes a specific entry.
func (r *Repository) Delete(symbol string) error {
	_, err := r.db.Exec("DELETE FROM quotes WHERE symbol = ?", symbol)
	if err != nil {
		return fmt.Errorf("failed to delete quote for %s: %w", symbol, err)
	}
	return nil
}

// DeleteExpired removes all rows where expires_at < now.
// Returns the number of rows deleted.
func (r *Repository) DeleteExpired() (int64, error) {
	now := time.Now().Unix()

	result, err := r.db.Exec("DELETE FROM quotes WHERE expires_at < ?", now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired quotes: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

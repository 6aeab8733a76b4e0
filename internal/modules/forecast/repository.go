package forecast

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/stockpulse/stockpulse/internal/domain"
)

// Repository persists sampled forecasts. Trajectories are stored as msgpack
// blobs; the scalar columns stay queryable for offline analysis.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a forecast repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save writes one forecast. It implements Store.
func (r *Repository) Save(result domain.ForecastResult) error {
	blob, err := msgpack.Marshal(result.Points)
	if err != nil {
		return fmt.Errorf("failed to encode trajectory: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO forecasts (id, ticker, anchor_price, confidence, trained, trajectory, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		result.Symbol.Ticker,
		result.AnchorPrice,
		result.Confidence,
		boolToInt(result.Trained),
		blob,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store forecast: %w", err)
	}

	return nil
}

// GetLatest returns the most recently stored forecast for a ticker, or
// nil when none exists.
func (r *Repository) GetLatest(ticker string) (*domain.ForecastResult, error) {
	var (
		anchor     float64
		confidence float64
		trained    int
		blob       []byte
	)
	err := r.db.QueryRow(
		`SELECT anchor_price, confidence, trained, trajectory
		 FROM forecasts WHERE ticker = ? ORDER BY created_at DESC LIMIT 1`,
		ticker,
	).Scan(&anchor, &confidence, &trained, &blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load forecast for %s: %w", ticker, err)
	}

	var points []domain.ForecastPoint
	if err := msgpack.Unmarshal(blob, &points); err != nil {
		return nil, fmt.Errorf("failed to decode trajectory for %s: %w", ticker, err)
	}

	symbol, err := domain.NewSymbol(ticker, domain.ExchangeUnspecified)
	if err != nil {
		return nil, err
	}

	return &domain.ForecastResult{
		Symbol:      symbol,
		AnchorPrice: anchor,
		Points:      points,
		Confidence:  confidence,
		Trained:     trained != 0,
	}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package forecast

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/stockpulse/stockpulse/internal/domain"
	"github.com/stockpulse/stockpulse/pkg/formulas"
)

const (
	// windowSize is the number of trailing closes the model trains on.
	windowSize = 60
	// lagOrder is how many prior days feed each prediction.
	lagOrder = 5
	// validationSize rows are held out to estimate model error.
	validationSize = 5
	// smoothPeriod is the EMA period applied to the raw closes.
	smoothPeriod = 5

	confidenceFloor = 0.50
	confidenceCeil  = 0.95
	confidenceDecay = 0.95
)

// HistoricalSource provides historical daily closes for model training.
type HistoricalSource interface {
	GetHistoricalCloses(ticker, period string) ([]float64, error)
}

// LinearTrainer fits a least-squares autoregressor on a trailing window of
// historical closes and rolls it forward to produce a trajectory. It
// implements Trainer.
type LinearTrainer struct {
	source HistoricalSource
}

// NewLinearTrainer creates a trainer backed by the given historical source.
func NewLinearTrainer(source HistoricalSource) *LinearTrainer {
	return &LinearTrainer{source: source}
}

// Predict trains on the most recent window of closes and rolls the model
// forward over the next horizonDays calendar days from `from`, emitting a
// point per business day. Returns an error when historical data is
// unavailable or too short to train; callers fail over to the synthetic
// path.
func (t *LinearTrainer) Predict(symbol domain.Symbol, horizonDays int, from time.Time) (domain.ForecastResult, error) {
	if horizonDays > maxHorizonDays {
		horizonDays = maxHorizonDays
	}
	if horizonDays < 1 {
		horizonDays = 1
	}

	closes, err := t.source.GetHistoricalCloses(symbol.Suffixed(), "1y")
	if err != nil {
		return domain.ForecastResult{}, fmt.Errorf("historical closes unavailable: %w", err)
	}
	if len(closes) < windowSize {
		return domain.ForecastResult{}, fmt.Errorf("%w: %d closes, need %d", domain.ErrUpstreamUnavailable, len(closes), windowSize)
	}

	smoothed := formulas.EMASmooth(closes, smoothPeriod)
	window := smoothed[len(smoothed)-windowSize:]

	lo, hi := formulas.MinMax(window)
	if hi <= lo {
		return domain.ForecastResult{}, fmt.Errorf("degenerate price window for %s", symbol)
	}
	scaled := make([]float64, len(window))
	for i, v := range window {
		scaled[i] = (v - lo) / (hi - lo)
	}

	coef, valErr, err := fitAutoregressor(scaled)
	if err != nil {
		return domain.ForecastResult{}, err
	}

	// Roll the model forward, re-feeding each prediction as input.
	state := append([]float64(nil), scaled[len(scaled)-lagOrder:]...)
	anchor := closes[len(closes)-1]

	points := make([]domain.ForecastPoint, 0, horizonDays)
	for offset := 1; offset <= horizonDays; offset++ {
		date := from.AddDate(0, 0, offset)
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}

		next := predictNext(coef, state)
		state = append(state[1:], next)

		price := domain.RoundCents(lo + next*(hi-lo))
		if price <= 0 {
			price = 0.01
		}
		points = append(points, domain.ForecastPoint{Date: date, Price: price})
	}

	// Report the mean of the per-day decayed confidences: day one carries
	// the validation-derived score, each later day 0.95 of the previous.
	confidence := confidenceFromError(valErr)
	if n := len(points); n > 0 {
		var decaySum float64
		for i := 0; i < n; i++ {
			decaySum += math.Pow(confidenceDecay, float64(i))
		}
		confidence *= decaySum / float64(n)
	}

	return domain.ForecastResult{
		Symbol:      symbol,
		AnchorPrice: anchor,
		Points:      points,
		Confidence:  confidence,
		Trained:     true,
	}, nil
}

// fitAutoregressor solves the least-squares AR(lagOrder) fit over the scaled
// series, holding out the last validationSize rows, and returns the
// coefficient vector (intercept first) and the held-out mean absolute error.
func fitAutoregressor(scaled []float64) ([]float64, float64, error) {
	rows := len(scaled) - lagOrder
	if rows <= validationSize+lagOrder {
		return nil, 0, fmt.Errorf("window too short to fit: %d usable rows", rows)
	}
	trainRows := rows - validationSize

	a := mat.NewDense(trainRows, lagOrder+1, nil)
	b := mat.NewVecDense(trainRows, nil)
	for r := 0; r < trainRows; r++ {
		a.Set(r, 0, 1)
		for l := 0; l < lagOrder; l++ {
			a.Set(r, l+1, scaled[r+l])
		}
		b.SetVec(r, scaled[r+lagOrder])
	}

	var qr mat.QR
	qr.Factorize(a)

	var sol mat.Dense
	if err := qr.SolveTo(&sol, false, b); err != nil {
		return nil, 0, fmt.Errorf("least squares solve failed: %w", err)
	}

	coef := make([]float64, lagOrder+1)
	for i := range coef {
		coef[i] = sol.At(i, 0)
	}

	// Held-out one-step error.
	var absErr float64
	for r := trainRows; r < rows; r++ {
		pred := predictNext(coef, scaled[r:r+lagOrder])
		absErr += math.Abs(pred - scaled[r+lagOrder])
	}
	valErr := absErr / float64(validationSize)

	return coef, valErr, nil
}

// predictNext applies the fitted coefficients to the last lagOrder values.
func predictNext(coef, state []float64) float64 {
	v := coef[0]
	for l := 0; l < lagOrder; l++ {
		v += coef[l+1] * state[l]
	}
	// Keep the rollout inside the scaled space.
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

// confidenceFromError maps a scaled validation error to a day-one
// confidence, clamped to [confidenceFloor, confidenceCeil].
func confidenceFromError(valErr float64) float64 {
	conf := 1 - valErr
	if conf < confidenceFloor {
		conf = confidenceFloor
	}
	if conf > confidenceCeil {
		conf = confidenceCeil
	}
	return conf
}

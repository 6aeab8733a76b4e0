// Package handlers provides HTTP handlers for price forecasts.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/stockpulse/stockpulse/internal/domain"
	"github.com/stockpulse/stockpulse/internal/modules/forecast"
)

const defaultHorizonDays = 7

// Handler handles forecast HTTP requests.
type Handler struct {
	service *forecast.Service
	log     zerolog.Logger
}

// NewHandler creates a new forecast handler.
func NewHandler(service *forecast.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "forecast").Logger(),
	}
}

// RegisterRoutes registers the forecast routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/predict/{ticker}", h.HandlePredict)
}

// HandlePredict handles GET /api/predict/{ticker}
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	exchange := domain.Exchange(r.URL.Query().Get("exchange"))
	if exchange == "" {
		exchange = domain.ExchangeNSE
	}

	symbol, err := domain.NewSymbol(chi.URLParam(r, "ticker"), exchange)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	horizon := defaultHorizonDays
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		if parsed, err := strconv.Atoi(daysStr); err == nil && parsed > 0 {
			horizon = parsed
		}
	}

	forceSynthetic := false
	if v := r.URL.Query().Get("synthetic"); v != "" {
		forceSynthetic, _ = strconv.ParseBool(v)
	}

	result := h.service.Forecast(symbol, horizon, forceSynthetic)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

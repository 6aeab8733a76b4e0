// Package handlers provides HTTP handlers for price and stock detail
// lookups.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/stockpulse/stockpulse/internal/domain"
	"github.com/stockpulse/stockpulse/internal/modules/pricing"
)

// Handler handles pricing HTTP requests.
type Handler struct {
	service *pricing.Service
	log     zerolog.Logger
}

// NewHandler creates a new pricing handler.
func NewHandler(service *pricing.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "pricing").Logger(),
	}
}

// RegisterRoutes registers search and stock detail routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/search", h.HandleSearch)
	r.Get("/stock/{ticker}", h.HandleGetStock)
}

type searchRequest struct {
	Query string `json:"query"`
}

// HandleSearch handles POST /api/search
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	results, err := h.service.Search(req.Query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// HandleGetStock handles GET /api/stock/{ticker}
func (h *Handler) HandleGetStock(w http.ResponseWriter, r *http.Request) {
	exchange := domain.Exchange(r.URL.Query().Get("exchange"))
	if exchange == "" {
		exchange = domain.ExchangeNSE
	}

	symbol, err := domain.NewSymbol(chi.URLParam(r, "ticker"), exchange)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, h.service.ResolveDetailed(symbol))
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

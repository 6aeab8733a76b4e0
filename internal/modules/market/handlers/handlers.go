// Package handlers provides HTTP handlers for the market overview.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/stockpulse/stockpulse/internal/modules/market"
)

// Handler handles market overview HTTP requests.
type Handler struct {
	service *market.Service
	log     zerolog.Logger
}

// NewHandler creates a new market handler.
func NewHandler(service *market.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "market").Logger(),
	}
}

// RegisterRoutes registers all market overview routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/market", func(r chi.Router) {
		r.Get("/indices", h.HandleGetIndices)
		r.Get("/trending", h.HandleGetTrending)
		r.Get("/news", h.HandleGetNews)
	})
}

// HandleGetIndices handles GET /api/market/indices
func (h *Handler) HandleGetIndices(w http.ResponseWriter, r *http.Request) {
	indices := h.service.Indices()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"indices": indices,
		"count":   len(indices),
	})
}

// HandleGetTrending handles GET /api/market/trending
func (h *Handler) HandleGetTrending(w http.ResponseWriter, r *http.Request) {
	trending := h.service.Trending()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"trending": trending,
		"count":    len(trending),
	})
}

// HandleGetNews handles GET /api/market/news
func (h *Handler) HandleGetNews(w http.ResponseWriter, r *http.Request) {
	news := h.service.News()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"news":  news,
		"count": len(news),
	})
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

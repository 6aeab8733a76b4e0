package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all account and trading routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)

	r.Post("/buy", h.HandleBuy)
	r.Post("/sell", h.HandleSell)
	r.Post("/trade", h.HandleTrade)

	r.Get("/portfolio", h.HandleGetPortfolio)
	r.Get("/transactions", h.HandleGetTransactions)

	r.Get("/watchlist", h.HandleGetWatchlist)
	r.Post("/watchlist", h.HandleWatchlistAdd)
	r.Delete("/watchlist/{ticker}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleWatchlistRemove(w, r, chi.URLParam(r, "ticker"))
	})
}

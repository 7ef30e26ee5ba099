package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter builds the API router. Every route requires the static
// bearer token.
func NewRouter(h *Handler, apiToken string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(RequireToken(apiToken))

	r.Route("/v1", func(v1 chi.Router) {
		v1.Route("/transactions", func(tr chi.Router) {
			tr.Get("/", h.ListTransactions)
			tr.Post("/", h.CreateTransaction)
			tr.Patch("/{id}", h.UpdateTransaction)
			tr.Delete("/{id}", h.DeleteTransaction)
		})

		v1.Route("/wallets", func(wr chi.Router) {
			wr.Get("/", h.ListWallets)
			wr.Post("/", h.CreateWallet)
			wr.Patch("/{id}", h.UpdateWallet)
			wr.Delete("/{id}", h.DeleteWallet)
			wr.Get("/{id}/report", h.GetMonthlyReport)
		})

		v1.Route("/trades", func(tr chi.Router) {
			tr.Get("/", h.ListTrades)
			tr.Post("/", h.OpenTrade)
			tr.Post("/{id}/close", h.CloseTrade)
			tr.Delete("/{id}", h.DeleteTrade)
		})
	})

	return r
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hskhan/scrapledger/internal/http/importlegacy"
	"github.com/hskhan/scrapledger/internal/http/reports"
	"github.com/hskhan/scrapledger/internal/http/transaction"
)

func New(
	transactionsV1 *transaction.Handler,
	reportsV1 *reports.Handler,
	importV1 *importlegacy.Handler,
	jwtSecret string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	router.Use(BearerAuth(jwtSecret))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		reportsV1.Routes(r)

		r.Route("/import", importV1.Routes)
	})

	return router
}

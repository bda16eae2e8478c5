package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/money-ledger/internal/catalog"
	"github.com/frahmantamala/money-ledger/internal/importer"
	"github.com/frahmantamala/money-ledger/internal/ledger"
	"github.com/frahmantamala/money-ledger/internal/transport/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, catalogHandler *catalog.Handler, ledgerHandler *ledger.Handler, importHandler *importer.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Everything below is owner-scoped.
		r.Group(func(or chi.Router) {
			or.Use(middleware.OwnerContext)

			or.Route("/accounts", func(ar chi.Router) {
				ar.Get("/", catalogHandler.ListAccounts)
				ar.Get("/{id}", catalogHandler.GetAccount)
				ar.Post("/resolve", catalogHandler.ResolveAccount)
			})

			or.Route("/categories", func(cr chi.Router) {
				cr.Get("/", catalogHandler.ListCategories)
				cr.Post("/resolve", catalogHandler.ResolveCategory)
				cr.Get("/{id}/subcategories", catalogHandler.ListSubCategories)
			})
			or.Post("/subcategories/resolve", catalogHandler.ResolveSubCategory)

			or.Route("/transactions", func(tr chi.Router) {
				tr.Post("/", ledgerHandler.CreateTransaction)
				tr.Get("/", ledgerHandler.ListTransactions)
				tr.Get("/{id}", ledgerHandler.GetTransaction)
				tr.Put("/{id}", ledgerHandler.EditTransaction)
				tr.Delete("/{id}", ledgerHandler.DeleteTransaction)
			})

			or.Post("/import", importHandler.Import)
		})
	})
}

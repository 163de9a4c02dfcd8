package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bankledger/internal/app/handler"
	mw "bankledger/internal/app/middleware"
)

func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(mw.Log(a.logger))

	auth := mw.Auth(a.session)

	sh := handler.NewSessionHandler(a.session, a.config.Operator)
	ah := handler.NewAccountHandler(a.ledger, a.accounts)
	th := handler.NewTransactionHandler(a.ledger, a.accounts)

	r.Post("/session", sh.Create)

	r.Route("/accounts", func(r chi.Router) {
		r.Use(auth)
		r.Post("/", ah.Open)
		r.Get("/", ah.List)
		r.Route("/{accountID}", func(r chi.Router) {
			r.Get("/", ah.Read)
			r.Delete("/", ah.Close)
			r.Post("/deposit", th.Deposit)
			r.Post("/withdraw", th.Withdraw)
			r.Get("/balance", th.Balance)
			r.Get("/transactions", th.ListByAccount)
		})
	})

	r.With(auth).Get("/transactions", th.List)

	return r
}

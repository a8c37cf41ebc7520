package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/tally/internal/http/adjustment"
	"github.com/MrJamesThe3rd/tally/internal/http/invoice"
	"github.com/MrJamesThe3rd/tally/internal/http/payment"
)

type Options struct {
	AllowedOrigins []string
	// AuthSecret signs bearer tokens. Empty disables authentication.
	AuthSecret string
}

func New(
	opts Options,
	invoicesV1 *invoice.Handler,
	paymentsV1 *payment.Handler,
	adjustmentsV1 *adjustment.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.AuthSecret != "" {
			r.Use(Authenticate([]byte(opts.AuthSecret)))
		}

		r.Route("/invoices", func(r chi.Router) {
			r.Route("/{id}/adjustments", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				adjustmentsV1.Routes(r)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				invoicesV1.Routes(r)
			})
		})

		r.Route("/payments", paymentsV1.Routes)
	})

	return router
}

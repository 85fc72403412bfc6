package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/MrJamesThe3rd/washrent/internal/http/auth"
	"github.com/MrJamesThe3rd/washrent/internal/http/capital"
	"github.com/MrJamesThe3rd/washrent/internal/http/expense"
	"github.com/MrJamesThe3rd/washrent/internal/http/ledger"
	"github.com/MrJamesThe3rd/washrent/internal/http/matching"
	"github.com/MrJamesThe3rd/washrent/internal/http/order"
	"github.com/MrJamesThe3rd/washrent/internal/observability"
)

type Options struct {
	Timeout    time.Duration
	RateLimit  int
	Origins    []string
	Production bool
	// JWTSecret enables bearer-token auth. When empty the X-Operator header
	// is trusted instead.
	JWTSecret []byte
	Metrics   *observability.Metrics
}

type Handlers struct {
	Capital  *capital.Handler
	Ledger   *ledger.Handler
	Expense  *expense.Handler
	Order    *order.Handler
	Matching *matching.Handler
}

func New(opts Options, h Handlers) http.Handler {
	router := chi.NewRouter()

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		ReferrerPolicy:     "no-referrer",
		SSLRedirect:        opts.Production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !opts.Production,
	})

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(secureMiddleware.Handler)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.Origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Operator"},
		MaxAge:         300,
	}))

	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
		router.Handle("/metrics", opts.Metrics.Handler())
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.Timeout > 0 {
			r.Use(middleware.Timeout(opts.Timeout))
		}

		if opts.RateLimit > 0 {
			r.Use(httprate.Limit(opts.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		}

		if len(opts.JWTSecret) > 0 {
			r.Use(auth.Middleware(opts.JWTSecret))
		} else {
			slog.Warn("JWT_SECRET not set, trusting X-Operator header")
			r.Use(auth.HeaderMiddleware)
		}

		r.Route("/capital", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Capital.Routes(r)
		})

		r.Route("/expenses", h.Expense.Routes)
		r.Route("/maintenance", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Expense.MaintenanceRoutes(r)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Order.Routes(r)
		})

		r.Route("/matching", h.Matching.Routes)

		r.Group(h.Ledger.Routes)
	})

	return router
}

package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"aportes/internal/http/handlers"
	"aportes/internal/infra"
	"aportes/internal/middleware"
	"aportes/web"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	writeLimit := middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)

	r.Get("/healthz", app.Health)

	r.Route("/investimentos", func(r chi.Router) {
		r.Get("/", app.InvestmentsList)
		r.Get("/historico", app.InvestmentsHistory)
		r.With(writeLimit).Post("/", app.InvestmentsCreate)
		r.With(writeLimit).Post("/lote", app.InvestmentsBatch)
		r.With(writeLimit).Delete("/{id}", app.InvestmentsDelete)
	})

	r.Get("/anos_investimentos", app.YearsList)

	// Embedded front end.
	r.Handle("/*", web.Handler())

	return r
}

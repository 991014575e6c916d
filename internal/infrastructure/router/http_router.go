package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"uas-projects-service/internal/interface/handler"
	"uas-projects-service/pkg/logger"
	"uas-projects-service/pkg/metrics"
)

// Options controls the optional parts of the HTTP surface
type Options struct {
	// StaticDir is served at / when non-empty
	StaticDir string
	// MetricsHandler defaults to promhttp.Handler()
	MetricsHandler http.Handler
}

// NewRouter wires the project API, probes and metrics onto a chi mux
func NewRouter(projects *handler.ProjectHandler, health *handler.HealthHandler, log logger.Logger, m *metrics.Metrics, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestLogger(log))
	r.Use(PrometheusMiddleware(m))
	r.Use(Recoverer(log))
	r.Use(CORS)

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projects.List)
			r.Post("/", projects.Save)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", projects.Get)
				r.Delete("/", projects.Delete)
				r.Get("/totals", projects.Totals)
				r.Get("/suggestions", projects.Suggestions)
				r.Get("/flights.csv", projects.FlightLogCSV)
			})
		})
		r.Get("/summary", projects.Summary)
		r.Get("/export", projects.Export)
		r.Post("/import", projects.Import)
	})

	r.Get("/health", health.Health)
	r.Get("/ready", health.Ready)

	metricsHandler := opts.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)

	if opts.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
	}

	return r
}

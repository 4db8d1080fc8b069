package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/litescript/ls-moonphase/internal/logging"
)

// NewRouter configures all HTTP routes.
//
//	GET /health
//	GET /api/v1/phase?date=YYYY-MM-DD&source=local|ephemeris|almanac
//	GET /api/v1/anchors?date=YYYY-MM-DD
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)

	r.NotFound(h.NotFound)
	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SetHeader("Access-Control-Allow-Origin", "*"))
		r.Get("/phase", h.GetPhase)
		r.Get("/anchors", h.GetAnchors)
	})

	return r
}

// requestLogger logs one line per request at info level.
func requestLogger(log *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.Info("%s %s %d %s request_id=%s",
				r.Method, r.URL.RequestURI(), ww.Status(), time.Since(start).Round(time.Microsecond),
				middleware.GetReqID(r.Context()))
		})
	}
}

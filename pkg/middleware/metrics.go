package middleware

import (
	"net/http"
	"time"

	"github.com/marlogas/caja-api/internal/metrics"
)

// MetricsMiddleware registra a duração da requisição usando o padrão da rota
// como rótulo, nunca o caminho com IDs.
func MetricsMiddleware(m *metrics.Metrics, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := newLoggingResponseWriter(w)

			next.ServeHTTP(lrw, r)

			m.ObserveHTTPRequest(r.Method, route, lrw.statusCode, time.Since(start))
		})
	}
}

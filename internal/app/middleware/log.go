package middleware

import (
	"net/http"
	"time"

	"github.com/rs/xid"

	"bankledger/internal/app/logger"
)

// Log attaches a request-scoped logger carrying a request id to the
// context and writes one access line per request.
func Log(l logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := xid.New().String()

			rl := l.With().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()

			w.Header().Set("X-Request-Id", requestID)
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r.WithContext(rl.WithContext(r.Context())))

			rl.Info().
				Int("status", ww.status).
				Dur("duration", time.Since(start)).
				Msg("Request handled")
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

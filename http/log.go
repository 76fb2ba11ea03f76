package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader is the response header carrying the id of a request.
const RequestIDHeader = "X-Request-ID"

// logRequest tags every request with an id, attaches a logger carrying that id
// to the request context and logs the request once it has been handled.
func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		w.Header().Set(RequestIDHeader, id)

		logger := s.log.With().Str("request_id", id).Logger()
		ctx := logger.WithContext(r.Context())
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// withRequestID tags every request with an id and logs it on completion.
func (s *HTTPServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger := s.log.With().Str("request_id", requestID).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects requests above the configured rate.
func (s *HTTPServer) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withAuth requires a known x-api-key. An empty key set disables the check
// for local development.
func (s *HTTPServer) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(s.keys) > 0 {
			key := r.Header.Get("x-api-key")
			if key == "" || !s.keys[key] {
				zerolog.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("unauthorized request")
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

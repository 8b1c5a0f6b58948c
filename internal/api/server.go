// Package api exposes the reservation system over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"meetmate/internal/booking"
	"meetmate/internal/config"
	"meetmate/internal/models"
	"meetmate/internal/rooms"
)

// ScheduleStore reads bookings for the schedule and export endpoints.
type ScheduleStore interface {
	BookingsForDateRange(ctx context.Context, from, to time.Time) ([]models.Booking, error)
	UserBookings(ctx context.Context, userID int64) ([]models.Booking, error)
}

// HTTPServer serves the reservation API.
type HTTPServer struct {
	bookings *booking.Service
	rooms    *rooms.Service
	schedule ScheduleStore
	log      *zerolog.Logger

	keys    map[string]bool
	limiter *rate.Limiter

	rdb      *redis.Client
	cacheTTL time.Duration

	now func() time.Time
	srv *http.Server
}

func NewHTTPServer(
	cfg config.ServerConfig,
	bookings *booking.Service,
	roomSvc *rooms.Service,
	schedule ScheduleStore,
	logger *zerolog.Logger,
) *HTTPServer {
	keys := make(map[string]bool, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		keys[k] = true
	}

	s := &HTTPServer{
		bookings: bookings,
		rooms:    roomSvc,
		schedule: schedule,
		log:      logger,
		keys:     keys,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		now:      time.Now,
	}
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// UseRedisCache enables caching of room listings.
func (s *HTTPServer) UseRedisCache(rdb *redis.Client, ttl time.Duration) {
	s.rdb = rdb
	s.cacheTTL = ttl
}

// Handler builds the route table wrapped in the middleware chain.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/availability", s.handleAvailability)
	mux.HandleFunc("/api/rooms", s.handleRooms)
	mux.HandleFunc("/api/rooms/", s.handleRoomByID)
	mux.HandleFunc("/api/bookings", s.handleBookings)
	mux.HandleFunc("/api/bookings/", s.handleBookingByID)
	mux.HandleFunc("/api/schedule", s.handleSchedule)
	mux.HandleFunc("/api/export", s.handleExport)

	return s.withRequestID(s.withRateLimit(s.withAuth(mux)))
}

// Start runs the server until ctx is cancelled.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(ctxShutdown)
	}()

	s.log.Info().Str("addr", s.srv.Addr).Msg("api server started")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// writeBookingError maps service errors onto HTTP statuses.
func (s *HTTPServer) writeBookingError(w http.ResponseWriter, err error) {
	switch {
	case booking.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case booking.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.log.Error().Err(err).Msg("booking request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// identityFrom reads the caller identity set by the authenticating proxy.
func identityFrom(r *http.Request) (models.Identity, error) {
	var id models.Identity
	if _, err := fmt.Sscanf(r.Header.Get("X-User-ID"), "%d", &id.UserID); err != nil || id.UserID <= 0 {
		return id, fmt.Errorf("missing or invalid X-User-ID header")
	}
	id.Role = r.Header.Get("X-User-Role")
	if id.Role == "" {
		id.Role = models.RoleUser
	}
	return id, nil
}

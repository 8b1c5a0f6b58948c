package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meetmate/internal/events"
	"meetmate/internal/metrics"
	"meetmate/internal/models"

	"github.com/rs/zerolog"
)

// BookingStore is the storage surface the service needs. The database
// package implements it.
type BookingStore interface {
	Store
	InsertBooking(ctx context.Context, b *models.Booking) (int64, error)
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

// EventPublisher publishes domain events; *events.Bus satisfies it.
type EventPublisher interface {
	Publish(event events.Event)
}

// ErrNotOwner is returned when a non-admin tries to cancel someone else's
// booking.
var ErrNotOwner = errors.New("booking belongs to another user")

// ErrNotFound is returned when the requested booking does not exist.
var ErrNotFound = errors.New("booking not found")

// Rules caps what a single request may ask for.
type Rules struct {
	// MaxSeriesCount limits recurrence_count per request.
	MaxSeriesCount int
}

// DefaultRules returns the service defaults.
func DefaultRules() Rules {
	return Rules{MaxSeriesCount: 52}
}

// Service coordinates availability checks with booking writes. All writes
// for one room run under that room's mutex, so the re-check immediately
// before insert is authoritative rather than best-effort.
type Service struct {
	store   BookingStore
	checker *Checker
	bus     EventPublisher
	rules   Rules
	locks   *roomLocks
	logger  *zerolog.Logger
}

// NewService creates the booking service.
func NewService(store BookingStore, bus EventPublisher, rules Rules, logger *zerolog.Logger) *Service {
	if rules.MaxSeriesCount <= 0 {
		rules.MaxSeriesCount = DefaultRules().MaxSeriesCount
	}
	return &Service{
		store:   store,
		checker: NewChecker(store),
		bus:     bus,
		rules:   rules,
		locks:   newRoomLocks(),
		logger:  logger,
	}
}

// Checker exposes the availability checker for read-only callers.
func (s *Service) Checker() *Checker {
	return s.checker
}

// IsAvailable answers the UI-facing availability question. It takes no lock;
// the answer is advisory and is re-validated at creation time.
func (s *Service) IsAvailable(ctx context.Context, slot Slot, excludeID int64) (bool, error) {
	return s.checker.SlotAvailable(ctx, slot, excludeID)
}

// Request describes one booking to create. OwnerID is who the room is
// reserved for; AdminID is set when an administrator books on the owner's
// behalf.
type Request struct {
	OwnerID int64
	Slot    Slot
	AdminID int64
	Notes   string
}

// CreateBooking validates the request, re-checks availability under the room
// lock and inserts the booking. It returns ConflictError when the slot is
// taken and PersistenceError when the store rejects the write.
func (s *Service) CreateBooking(ctx context.Context, req Request) (*models.Booking, error) {
	if req.OwnerID <= 0 {
		return nil, validationErr("owner_id", "must be a positive user id")
	}
	if err := req.Slot.Validate(); err != nil {
		return nil, err
	}

	b, err := s.createLocked(ctx, req)
	if err != nil {
		return nil, err
	}

	kind := "self"
	if req.AdminID > 0 {
		kind = "admin"
	}
	metrics.IncBookingCreated(kind)
	s.publish(events.TypeBookingCreated, b)

	s.logger.Info().
		Int64("booking_id", b.ID).
		Int64("room_id", b.RoomID).
		Int64("user_id", b.UserID).
		Str("date", b.Date.Format(models.DateLayout)).
		Str("start", b.TimeStart.String()).
		Str("end", b.TimeEnd.String()).
		Bool("admin_booking", b.IsAdminBooking()).
		Msg("booking created")

	return b, nil
}

// createLocked performs the re-check + insert pair under the room mutex.
// Validation is the caller's responsibility.
func (s *Service) createLocked(ctx context.Context, req Request) (*models.Booking, error) {
	lock := s.locks.get(req.Slot.RoomID)
	lock.Lock()
	defer lock.Unlock()

	available, err := s.checker.SlotAvailable(ctx, req.Slot, 0)
	if err != nil {
		return nil, &PersistenceError{Op: "check availability", Err: err}
	}
	if !available {
		metrics.IncBookingConflict()
		return nil, &ConflictError{
			RoomID: req.Slot.RoomID,
			Date:   req.Slot.Date.Format(models.DateLayout),
			Start:  req.Slot.Start,
			End:    req.Slot.End,
		}
	}

	b := &models.Booking{
		UserID:    req.OwnerID,
		RoomID:    req.Slot.RoomID,
		Date:      req.Slot.Date,
		TimeStart: req.Slot.Start,
		TimeEnd:   req.Slot.End,
		Notes:     req.Notes,
		CreatedAt: time.Now(),
	}
	if req.AdminID > 0 {
		adminID := req.AdminID
		b.BookingAdminID = &adminID
	}

	id, err := s.store.InsertBooking(ctx, b)
	if err != nil {
		return nil, &PersistenceError{Op: "insert booking", Err: err}
	}
	b.ID = id
	return b, nil
}

// SeriesRequest describes a recurring booking series: the base occurrence
// plus Count-1 repetitions at the same room and time of day.
type SeriesRequest struct {
	Request
	Recurrence Recurrence
	Count      int
}

// SeriesResult reports what a series expansion actually created. A
// partially-filled series is an expected outcome, not an error.
type SeriesResult struct {
	CreatedIDs []int64
	AllCreated bool
}

// CreateSeries creates the base booking, then walks occurrences 1..count-1:
// each is availability-checked and inserted independently. Occurrences whose
// slot is taken, or whose insert fails, are skipped without aborting the
// rest of the series or rolling back earlier ones. An error is returned only
// when the request is invalid or the base occurrence itself cannot be
// created.
func (s *Service) CreateSeries(ctx context.Context, req SeriesRequest) (SeriesResult, error) {
	if _, err := ParseRecurrence(string(req.Recurrence)); err != nil {
		return SeriesResult{}, err
	}
	if req.Count < 1 {
		return SeriesResult{}, validationErr("recurrence_count", "must be at least 1")
	}
	if req.Count > s.rules.MaxSeriesCount {
		return SeriesResult{}, validationErr("recurrence_count", "must not exceed %d", s.rules.MaxSeriesCount)
	}

	base, err := s.CreateBooking(ctx, req.Request)
	if err != nil {
		return SeriesResult{}, err
	}

	result := SeriesResult{CreatedIDs: []int64{base.ID}, AllCreated: true}

	for i := 1; i < req.Count; i++ {
		occ := req.Request
		occ.Slot.Date = OccurrenceDate(req.Slot.Date, req.Recurrence, i)
		occ.Notes = fmt.Sprintf("%s (Recurring %d/%d)", req.Notes, i+1, req.Count)

		b, err := s.createLocked(ctx, occ)
		switch {
		case err == nil:
			metrics.IncSeriesOccurrence("created")
			metrics.IncBookingCreated("recurring")
			s.publish(events.TypeBookingCreated, b)
			result.CreatedIDs = append(result.CreatedIDs, b.ID)
		case IsConflict(err):
			metrics.IncSeriesOccurrence("skipped")
			result.AllCreated = false
			s.logger.Info().
				Int64("room_id", occ.Slot.RoomID).
				Str("date", occ.Slot.Date.Format(models.DateLayout)).
				Int("occurrence", i+1).
				Msg("series occurrence skipped, slot taken")
		default:
			metrics.IncSeriesOccurrence("failed")
			result.AllCreated = false
			s.logger.Error().Err(err).
				Int64("room_id", occ.Slot.RoomID).
				Str("date", occ.Slot.Date.Format(models.DateLayout)).
				Int("occurrence", i+1).
				Msg("series occurrence failed")
		}
	}

	s.publish(events.TypeSeriesCreated, base)
	return result, nil
}

// CancelBooking deletes a booking. The owner may cancel their own bookings;
// admins may cancel any.
func (s *Service) CancelBooking(ctx context.Context, id int64, actor models.Identity) error {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return &PersistenceError{Op: "get booking", Err: err}
	}
	if b == nil {
		return ErrNotFound
	}
	if b.UserID != actor.UserID && !actor.IsAdmin() {
		return ErrNotOwner
	}

	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return &PersistenceError{Op: "delete booking", Err: err}
	}

	metrics.IncBookingCancelled()
	s.publish(events.TypeBookingCancelled, b)

	s.logger.Info().
		Int64("booking_id", id).
		Int64("cancelled_by", actor.UserID).
		Msg("booking cancelled")
	return nil
}

func (s *Service) publish(eventType string, b *models.Booking) {
	if s.bus == nil {
		return
	}
	var adminID int64
	if b.BookingAdminID != nil {
		adminID = *b.BookingAdminID
	}
	s.bus.Publish(events.Event{
		Type:      eventType,
		BookingID: b.ID,
		RoomID:    b.RoomID,
		UserID:    b.UserID,
		AdminID:   adminID,
		Date:      b.Date.Format(models.DateLayout),
	})
}

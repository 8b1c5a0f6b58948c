package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"meetmate/internal/booking"
	"meetmate/internal/metrics"
	"meetmate/internal/models"
)

// AvailabilityRequest is the body for POST /api/availability.
type AvailabilityRequest struct {
	RoomID    int64  `json:"room_id"`
	Date      string `json:"date"`       // YYYY-MM-DD
	TimeStart string `json:"time_start"` // HH:MM
	TimeEnd   string `json:"time_end"`   // HH:MM
}

// BookingRequest is the body for POST /api/bookings. Recurrence is
// optional; when present the whole series is created in one call.
type BookingRequest struct {
	RoomID     int64           `json:"room_id"`
	Date       string          `json:"date"`
	TimeStart  string          `json:"time_start"`
	TimeEnd    string          `json:"time_end"`
	Notes      string          `json:"notes,omitempty"`
	OwnerID    int64           `json:"owner_id,omitempty"` // admin only
	Recurrence *RecurrenceSpec `json:"recurrence,omitempty"`
}

type RecurrenceSpec struct {
	Pattern string `json:"pattern"` // weekly, biweekly, monthly
	Count   int    `json:"count"`
}

// BookingResponse is returned for a single created booking.
type BookingResponse struct {
	BookingID        int64  `json:"booking_id"`
	ConfirmationCode string `json:"confirmation_code"`
}

// SeriesResponse is returned when a recurrence was requested.
type SeriesResponse struct {
	CreatedIDs       []int64 `json:"created_ids"`
	AllCreated       bool    `json:"all_created"`
	ConfirmationCode string  `json:"confirmation_code"`
}

// handleAvailability checks whether a slot is free.
// POST /api/availability
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req AvailabilityRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	slot, err := booking.ParseSlot(req.RoomID, req.Date, req.TimeStart, req.TimeEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	available, err := s.bookings.IsAvailable(r.Context(), slot, 0)
	if err != nil {
		s.log.Error().Err(err).Int64("room_id", req.RoomID).Msg("availability check failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"available": available})
}

// handleBookings lists the caller's bookings or creates one.
// GET /api/bookings
// POST /api/bookings
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listBookings(w, r)
	case http.MethodPost:
		s.createBooking(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_list")

	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.schedule.UserBookings(r.Context(), identity.UserID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", identity.UserID).Msg("failed to list bookings")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"bookings": toBookingViews(bookings)})
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_create")

	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req BookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	slot, err := booking.ParseSlot(req.RoomID, req.Date, req.TimeStart, req.TimeEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Admins may book on behalf of another user; the booking then records
	// who placed it.
	request := booking.Request{
		OwnerID: identity.UserID,
		Slot:    slot,
		Notes:   req.Notes,
	}
	if req.OwnerID != 0 && req.OwnerID != identity.UserID {
		if !identity.IsAdmin() {
			writeError(w, http.StatusForbidden, "only admins can book for other users")
			return
		}
		request.OwnerID = req.OwnerID
		request.AdminID = identity.UserID
	}

	if req.Recurrence != nil {
		s.createSeries(w, r, request, req.Recurrence)
		return
	}

	created, err := s.bookings.CreateBooking(r.Context(), request)
	if err != nil {
		s.writeBookingError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, BookingResponse{
		BookingID:        created.ID,
		ConfirmationCode: created.ConfirmationCode(s.now()),
	})
}

func (s *HTTPServer) createSeries(w http.ResponseWriter, r *http.Request, request booking.Request, spec *RecurrenceSpec) {
	rec, err := booking.ParseRecurrence(spec.Pattern)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.bookings.CreateSeries(r.Context(), booking.SeriesRequest{
		Request:    request,
		Recurrence: rec,
		Count:      spec.Count,
	})
	if err != nil {
		s.writeBookingError(w, err)
		return
	}

	resp := SeriesResponse{
		CreatedIDs: result.CreatedIDs,
		AllCreated: result.AllCreated,
	}
	if len(result.CreatedIDs) > 0 {
		base := models.Booking{ID: result.CreatedIDs[0]}
		resp.ConfirmationCode = base.ConfirmationCode(s.now())
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleBookingByID cancels a booking.
// DELETE /api/bookings/{id}
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_cancel")
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, err := pathID(r.URL.Path, "/api/bookings/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.bookings.CancelBooking(r.Context(), id, identity)
	switch {
	case errors.Is(err, booking.ErrNotFound):
		writeError(w, http.StatusNotFound, "booking not found")
		return
	case errors.Is(err, booking.ErrNotOwner):
		writeError(w, http.StatusForbidden, "not allowed to cancel this booking")
		return
	case err != nil:
		s.log.Error().Err(err).Int64("booking_id", id).Msg("failed to cancel booking")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// BookingView is the JSON shape of a booking.
type BookingView struct {
	ID        int64  `json:"id"`
	RoomID    int64  `json:"room_id"`
	UserID    int64  `json:"user_id"`
	Date      string `json:"date"`
	TimeStart string `json:"time_start"`
	TimeEnd   string `json:"time_end"`
	AdminID   *int64 `json:"booking_admin_id,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

func toBookingViews(bookings []models.Booking) []BookingView {
	views := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, BookingView{
			ID:        b.ID,
			RoomID:    b.RoomID,
			UserID:    b.UserID,
			Date:      b.Date.Format(models.DateLayout),
			TimeStart: b.TimeStart.String(),
			TimeEnd:   b.TimeEnd.String(),
			AdminID:   b.BookingAdminID,
			Notes:     b.Notes,
		})
	}
	return views
}

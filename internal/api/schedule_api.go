package api

import (
	"fmt"
	"net/http"
	"time"

	"meetmate/internal/export"
	"meetmate/internal/metrics"
	"meetmate/internal/models"
)

// MaxScheduleDaysRange caps the date range for schedule and export queries.
const MaxScheduleDaysRange = 90

// RoomSchedule is one room's bookings within the requested period.
type RoomSchedule struct {
	Room     models.Room   `json:"room"`
	Bookings []BookingView `json:"bookings"`
}

// ScheduleResponse is the response for GET /api/schedule.
type ScheduleResponse struct {
	Rooms  []RoomSchedule `json:"rooms"`
	Period struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"period"`
}

// handleSchedule returns every room's bookings for a date range.
// GET /api/schedule?from=YYYY-MM-DD&to=YYYY-MM-DD
func (s *HTTPServer) handleSchedule(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("schedule")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from, to, err := parseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	roomList, err := s.rooms.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list rooms")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	bookings, err := s.schedule.BookingsForDateRange(r.Context(), from, to)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to query schedule")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	byRoom := make(map[int64][]BookingView)
	for _, b := range bookings {
		byRoom[b.RoomID] = append(byRoom[b.RoomID], toBookingViews([]models.Booking{b})[0])
	}

	resp := ScheduleResponse{Rooms: make([]RoomSchedule, 0, len(roomList))}
	for _, room := range roomList {
		views := byRoom[room.ID]
		if views == nil {
			views = []BookingView{}
		}
		resp.Rooms = append(resp.Rooms, RoomSchedule{Room: room, Bookings: views})
	}
	resp.Period.Start = from.Format(models.DateLayout)
	resp.Period.End = to.Format(models.DateLayout)

	writeJSON(w, http.StatusOK, resp)
}

// handleExport streams the schedule as an xlsx workbook.
// GET /api/export?from=YYYY-MM-DD&to=YYYY-MM-DD (admin)
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !identity.IsAdmin() {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	from, to, err := parseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	roomList, err := s.rooms.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list rooms")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	bookings, err := s.schedule.BookingsForDateRange(r.Context(), from, to)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to query bookings for export")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	filename := fmt.Sprintf("schedule_%s_%s.xlsx", from.Format(models.DateLayout), to.Format(models.DateLayout))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.WriteSchedule(w, roomList, bookings); err != nil {
		s.log.Error().Err(err).Msg("failed to write export")
	}
}

func parseDateRange(fromStr, toStr string) (from, to time.Time, err error) {
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("from and to are required")
	}

	from, err = time.ParseInLocation(models.DateLayout, fromStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date; expected YYYY-MM-DD")
	}
	to, err = time.ParseInLocation(models.DateLayout, toStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to date; expected YYYY-MM-DD")
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("from must be before or equal to to")
	}
	if int(to.Sub(from).Hours()/24) > MaxScheduleDaysRange {
		return time.Time{}, time.Time{}, fmt.Errorf("date range exceeds maximum of %d days", MaxScheduleDaysRange)
	}
	return from, to, nil
}

package booking

import (
	"time"

	"meetmate/internal/models"
)

// Booking duration limits in whole hours.
const (
	MinDurationHours = 1
	MaxDurationHours = 8
)

// Slot is a (room, date, start, end) tuple being requested for reservation.
type Slot struct {
	RoomID int64
	Date   time.Time // calendar date, midnight UTC
	Start  models.TimeOfDay
	End    models.TimeOfDay
}

// DurationHours returns the slot length in whole hours (0 when the interval
// is empty, inverted or not hour-aligned).
func (s Slot) DurationHours() int {
	minutes := s.End.Minutes() - s.Start.Minutes()
	if minutes <= 0 || minutes%60 != 0 {
		return 0
	}
	return minutes / 60
}

// ParseSlot builds a Slot from the form-shaped primitives the web layer
// supplies (date as YYYY-MM-DD, times as HH:MM) and validates it. All
// failures are ValidationErrors; nothing is read from storage here.
func ParseSlot(roomID int64, dateStr, startStr, endStr string) (Slot, error) {
	if roomID <= 0 {
		return Slot{}, validationErr("room_id", "must be a positive room id")
	}

	date, err := time.Parse(models.DateLayout, dateStr)
	if err != nil {
		return Slot{}, validationErr("date", "invalid date %q; expected YYYY-MM-DD", dateStr)
	}

	start, err := models.ParseTimeOfDay(startStr)
	if err != nil {
		return Slot{}, validationErr("time_start", "invalid time %q; expected HH:MM", startStr)
	}
	end, err := models.ParseTimeOfDay(endStr)
	if err != nil {
		return Slot{}, validationErr("time_end", "invalid time %q; expected HH:MM", endStr)
	}

	slot := Slot{RoomID: roomID, Date: date, Start: start, End: end}
	if err := slot.Validate(); err != nil {
		return Slot{}, err
	}
	return slot, nil
}

// Validate enforces the interval invariants: start strictly before end and a
// whole-hour duration between 1 and 8 hours inclusive.
func (s Slot) Validate() error {
	if !s.Start.Before(s.End) {
		return validationErr("time_end", "end time %s must be after start time %s", s.End, s.Start)
	}

	minutes := s.End.Minutes() - s.Start.Minutes()
	if minutes%60 != 0 {
		return validationErr("time_end", "booking must cover whole hours")
	}
	hours := minutes / 60
	if hours < MinDurationHours || hours > MaxDurationHours {
		return validationErr("time_end",
			"booking duration must be between %d and %d hours (you selected %d hours)",
			MinDurationHours, MaxDurationHours, hours)
	}
	return nil
}

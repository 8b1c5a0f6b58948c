package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date form persisted in the bookings table.
const DateLayout = "2006-01-02"

// Booking represents a room reservation record.
type Booking struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	RoomID         int64     `json:"room_id"`
	Date           time.Time `json:"date"`       // calendar date, midnight UTC
	TimeStart      TimeOfDay `json:"time_start"` // wall clock, same day
	TimeEnd        TimeOfDay `json:"time_end"`   // exclusive bound
	BookingAdminID *int64    `json:"booking_admin_id,omitempty"` // set when an admin booked on behalf of the owner
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsAdminBooking reports whether this booking was created by an
// administrator on behalf of the owner.
func (b *Booking) IsAdminBooking() bool {
	return b.BookingAdminID != nil
}

// Overlaps checks whether the booking's interval intersects [start, end).
// Uses half-open interval semantics: the end bound is exclusive, so
// back-to-back bookings do not overlap.
func (b *Booking) Overlaps(start, end TimeOfDay) bool {
	// [a, b) and [c, d) overlap iff a < d && c < b
	return b.TimeStart < end && start < b.TimeEnd
}

// DurationHours returns the booking length in whole hours, or 0 when the
// interval is not an exact number of hours.
func (b *Booking) DurationHours() int {
	minutes := b.TimeEnd.Minutes() - b.TimeStart.Minutes()
	if minutes <= 0 || minutes%60 != 0 {
		return 0
	}
	return minutes / 60
}

// ConfirmationCode builds the user-facing reference for a created booking,
// e.g. "MEET-42-250830".
func (b *Booking) ConfirmationCode(now time.Time) string {
	return fmt.Sprintf("MEET-%d-%s", b.ID, now.Format("060102"))
}

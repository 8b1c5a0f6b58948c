package booking

import (
	"context"
	"time"

	"meetmate/internal/models"
)

// Store provides read access to existing bookings for conflict checks.
type Store interface {
	// BookingsForRoomDate returns all bookings for (roomID, date), skipping
	// excludeID when it is non-zero.
	BookingsForRoomDate(ctx context.Context, roomID int64, date time.Time, excludeID int64) ([]models.Booking, error)
}

// Checker answers whether a room is free for a requested interval.
type Checker struct {
	store Store
}

// NewChecker creates an availability checker over the booking store.
func NewChecker(store Store) *Checker {
	return &Checker{store: store}
}

// IsAvailable reports whether the room is free for [start, end) on the given
// date. excludeID, when non-zero, removes that booking from the conflict
// scan; it exists for re-validating a slot the same logical booking already
// occupies. Room existence is the caller's responsibility: an unknown room
// simply matches zero bookings and reads as available.
func (c *Checker) IsAvailable(ctx context.Context, roomID int64, date time.Time, start, end models.TimeOfDay, excludeID int64) (bool, error) {
	existing, err := c.store.BookingsForRoomDate(ctx, roomID, date, excludeID)
	if err != nil {
		return false, err
	}

	for i := range existing {
		if existing[i].Overlaps(start, end) {
			return false, nil
		}
	}
	return true, nil
}

// SlotAvailable is IsAvailable for an already-parsed Slot.
func (c *Checker) SlotAvailable(ctx context.Context, slot Slot, excludeID int64) (bool, error) {
	return c.IsAvailable(ctx, slot.RoomID, slot.Date, slot.Start, slot.End, excludeID)
}

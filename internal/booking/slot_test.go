package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSlot(t *testing.T) {
	tests := []struct {
		name    string
		roomID  int64
		date    string
		start   string
		end     string
		wantErr string
	}{
		{name: "valid one hour", roomID: 1, date: "2025-06-02", start: "09:00", end: "10:00"},
		{name: "valid eight hours", roomID: 1, date: "2025-06-02", start: "09:00", end: "17:00"},
		{name: "zero room id", roomID: 0, date: "2025-06-02", start: "09:00", end: "10:00", wantErr: "room_id"},
		{name: "bad date", roomID: 1, date: "02-06-2025", start: "09:00", end: "10:00", wantErr: "date"},
		{name: "bad start time", roomID: 1, date: "2025-06-02", start: "9am", end: "10:00", wantErr: "time_start"},
		{name: "bad end time", roomID: 1, date: "2025-06-02", start: "09:00", end: "ten", wantErr: "time_end"},
		{name: "end equals start", roomID: 1, date: "2025-06-02", start: "09:00", end: "09:00", wantErr: "time_end"},
		{name: "end before start", roomID: 1, date: "2025-06-02", start: "10:00", end: "09:00", wantErr: "time_end"},
		{name: "nine hours rejected", roomID: 1, date: "2025-06-02", start: "09:00", end: "18:00", wantErr: "time_end"},
		{name: "half hour rejected", roomID: 1, date: "2025-06-02", start: "09:00", end: "09:30", wantErr: "time_end"},
		{name: "fractional duration rejected", roomID: 1, date: "2025-06-02", start: "09:00", end: "10:30", wantErr: "time_end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := ParseSlot(tt.roomID, tt.date, tt.start, tt.end)
			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.True(t, IsValidation(err), "expected a validation error, got %v", err)
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantErr, ve.Field)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.roomID, slot.RoomID)
			assert.Equal(t, tt.date, slot.Date.Format("2006-01-02"))
		})
	}
}

func TestSlot_DurationHours(t *testing.T) {
	slot, err := ParseSlot(1, "2025-06-02", "09:00", "12:00")
	assert.NoError(t, err)
	assert.Equal(t, 3, slot.DurationHours())
}

func TestSlot_DateIsMidnightUTC(t *testing.T) {
	slot, err := ParseSlot(1, "2025-06-02", "09:00", "10:00")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), slot.Date)
}

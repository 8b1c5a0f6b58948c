package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetmate/internal/models"
)

func TestRoomsEndpoint(t *testing.T) {
	s, store := newTestServer(t)
	seedRoom(t, store, "Boardroom")
	seedRoom(t, store, "Huddle A")

	w := doRequest(t, s, http.MethodGet, "/api/rooms", nil, asUser(1))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rooms []models.Room `json:"rooms"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Rooms, 2)
}

func TestCreateRoomEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	req := RoomRequest{Name: "Roundtable", Location: "Floor 2", Capacity: 8, RoomType: models.RoomTypeCircle}

	// Regular users cannot create rooms.
	w := doRequest(t, s, http.MethodPost, "/api/rooms", req, asUser(5))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, s, http.MethodPost, "/api/rooms", req, asAdmin(1))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotZero(t, decodeBody(t, w)["room_id"])

	// Validation failures surface as 400.
	w = doRequest(t, s, http.MethodPost, "/api/rooms",
		RoomRequest{Name: "", Location: "Floor 2", Capacity: 8}, asAdmin(1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateRoomEndpoint(t *testing.T) {
	s, store := newTestServer(t)
	roomID := seedRoom(t, store, "Boardroom")

	req := RoomRequest{Name: "Boardroom", Location: "Floor 3", Capacity: 14, RoomType: models.RoomTypeLong}

	w := doRequest(t, s, http.MethodPut, fmt.Sprintf("/api/rooms/%d", roomID), req, asAdmin(1))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Floor 3", store.rooms[roomID].Location)

	w = doRequest(t, s, http.MethodPut, "/api/rooms/999", req, asAdmin(1))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRoomEndpoint(t *testing.T) {
	s, store := newTestServer(t)
	roomID := seedRoom(t, store, "Boardroom")

	// An upcoming booking blocks deletion.
	w := doRequest(t, s, http.MethodPost, "/api/bookings", BookingRequest{
		RoomID:    roomID,
		Date:      "2099-01-01",
		TimeStart: "10:00",
		TimeEnd:   "11:00",
	}, asUser(5))
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := int64(decodeBody(t, w)["booking_id"].(float64))

	w = doRequest(t, s, http.MethodDelete, fmt.Sprintf("/api/rooms/%d", roomID), nil, asAdmin(1))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(t, s, http.MethodDelete, fmt.Sprintf("/api/bookings/%d", bookingID), nil, asUser(5))
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodDelete, fmt.Sprintf("/api/rooms/%d", roomID), nil, asAdmin(1))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, s, http.MethodDelete, fmt.Sprintf("/api/rooms/%d", roomID), nil, asAdmin(1))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleEndpoint(t *testing.T) {
	s, store := newTestServer(t)
	roomA := seedRoom(t, store, "Boardroom")
	seedRoom(t, store, "Huddle A")

	w := doRequest(t, s, http.MethodPost, "/api/bookings", BookingRequest{
		RoomID:    roomA,
		Date:      "2025-09-02",
		TimeStart: "10:00",
		TimeEnd:   "11:00",
	}, asUser(5))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/schedule?from=2025-09-01&to=2025-09-07", nil, asUser(5))
	require.Equal(t, http.StatusOK, w.Code)

	var resp ScheduleResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Rooms, 2)
	assert.Equal(t, "2025-09-01", resp.Period.Start)

	total := 0
	for _, rs := range resp.Rooms {
		total += len(rs.Bookings)
		if rs.Room.ID == roomA {
			require.Len(t, rs.Bookings, 1)
			assert.Equal(t, "2025-09-02", rs.Bookings[0].Date)
		}
	}
	assert.Equal(t, 1, total)

	// Oversized and malformed ranges are rejected.
	w = doRequest(t, s, http.MethodGet, "/api/schedule?from=2025-01-01&to=2025-12-31", nil, asUser(5))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doRequest(t, s, http.MethodGet, "/api/schedule?from=2025-09-07&to=2025-09-01", nil, asUser(5))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doRequest(t, s, http.MethodGet, "/api/schedule", nil, asUser(5))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportEndpoint(t *testing.T) {
	s, store := newTestServer(t)
	seedRoom(t, store, "Boardroom")

	w := doRequest(t, s, http.MethodGet, "/api/export?from=2025-09-01&to=2025-09-07", nil, asUser(5))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, s, http.MethodGet, "/api/export?from=2025-09-01&to=2025-09-07", nil, asAdmin(1))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schedule_2025-09-01_2025-09-07.xlsx")
	assert.NotZero(t, w.Body.Len())
}

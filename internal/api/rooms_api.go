package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"meetmate/internal/metrics"
	"meetmate/internal/models"
	"meetmate/internal/rooms"
)

const roomsCacheKey = "rooms:list"

// RoomRequest is the body for creating or updating a room.
type RoomRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
	RoomType string `json:"room_type,omitempty"`
}

// handleRooms lists rooms or creates one.
// GET /api/rooms
// POST /api/rooms (admin)
func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listRooms(w, r)
	case http.MethodPost:
		s.createRoom(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listRooms(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("rooms_list")

	var cached []models.Room
	if s.readCache(r.Context(), roomsCacheKey, &cached) {
		writeJSON(w, http.StatusOK, map[string]any{"rooms": cached})
		return
	}

	list, err := s.rooms.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list rooms")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.writeCache(r.Context(), roomsCacheKey, list)
	writeJSON(w, http.StatusOK, map[string]any{"rooms": list})
}

func (s *HTTPServer) createRoom(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("rooms_create")

	identity, err := identityFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !identity.IsAdmin() {
		writeError(w, http.StatusForbidden, "admin role required")
		return
	}

	var req RoomRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	room := models.Room{
		Name:     req.Name,
		Location: req.Location,
		Capacity: req.Capacity,
		RoomType: req.RoomType,
	}

	id, err := s.rooms.Create(r.Context(), &room)
	if err != nil {
		var verr *rooms.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		s.log.Error().Err(err).Msg("failed to create room")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.invalidateCache(r.Context(), roomsCacheKey)
	writeJSON(w, http.StatusCreated, map[string]any{"room_id": id})
}

// handleRoomByID updates or deletes a single room.
// PUT /api/rooms/{id} (admin)
// DELETE /api/rooms/{id} (admin)
func (s *HTTPServer) handleRoomByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/api/rooms/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid room id")
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

	switch r.Method {
	case http.MethodPut:
		s.updateRoom(w, r, id)
	case http.MethodDelete:
		s.deleteRoom(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) updateRoom(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("rooms_update")

	var req RoomRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	room := models.Room{
		ID:       id,
		Name:     req.Name,
		Location: req.Location,
		Capacity: req.Capacity,
		RoomType: req.RoomType,
	}

	err := s.rooms.Update(r.Context(), &room)
	switch {
	case errors.Is(err, rooms.ErrNotFound):
		writeError(w, http.StatusNotFound, "room not found")
		return
	case err != nil:
		var verr *rooms.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		s.log.Error().Err(err).Int64("room_id", id).Msg("failed to update room")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.invalidateCache(r.Context(), roomsCacheKey)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *HTTPServer) deleteRoom(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("rooms_delete")

	err := s.rooms.Delete(r.Context(), id)
	switch {
	case errors.Is(err, rooms.ErrNotFound):
		writeError(w, http.StatusNotFound, "room not found")
		return
	case errors.Is(err, rooms.ErrHasBookings):
		writeError(w, http.StatusConflict, "room has current or upcoming bookings")
		return
	case err != nil:
		s.log.Error().Err(err).Int64("room_id", id).Msg("failed to delete room")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.invalidateCache(r.Context(), roomsCacheKey)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func pathID(path, prefix string) (int64, error) {
	raw := strings.TrimPrefix(path, prefix)
	return strconv.ParseInt(raw, 10, 64)
}

func (s *HTTPServer) readCache(ctx context.Context, key string, out any) bool {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return false
	}
	val, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (s *HTTPServer) writeCache(ctx context.Context, key string, val any) {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = s.rdb.Set(ctx, key, data, s.cacheTTL).Err()
}

func (s *HTTPServer) invalidateCache(ctx context.Context, key string) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, key).Err()
}

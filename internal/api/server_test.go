package api

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"meetmate/internal/booking"
	"meetmate/internal/config"
	"meetmate/internal/database"
	"meetmate/internal/events"
	"meetmate/internal/models"
	"meetmate/internal/rooms"
)

// memStore is an in-memory stand-in for the database, backing both the
// booking service and the schedule endpoints.
type memStore struct {
	mu       sync.Mutex
	bookings      map[int64]models.Booking
	rooms         map[int64]models.Room
	nextBookingID int64
	nextRoomID    int64
}

func newMemStore() *memStore {
	return &memStore{
		bookings:      make(map[int64]models.Booking),
		rooms:         make(map[int64]models.Room),
		nextBookingID: 1,
		nextRoomID:    1,
	}
}

func (m *memStore) BookingsForRoomDate(_ context.Context, roomID int64, date time.Time, excludeID int64) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Booking
	for _, b := range m.bookings {
		if b.RoomID == roomID && b.Date.Equal(date) && b.ID != excludeID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) InsertBooking(_ context.Context, b *models.Booking) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextBookingID
	m.nextBookingID++
	stored := *b
	stored.ID = id
	m.bookings[id] = stored
	return id, nil
}

func (m *memStore) GetBooking(_ context.Context, id int64) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memStore) DeleteBooking(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bookings, id)
	return nil
}

func (m *memStore) BookingsForDateRange(_ context.Context, from, to time.Time) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Booking
	for _, b := range m.bookings {
		if !b.Date.Before(from) && !b.Date.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) UserBookings(_ context.Context, userID int64) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) CreateRoom(_ context.Context, room *models.Room) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextRoomID
	m.nextRoomID++
	room.ID = id
	m.rooms[id] = *room
	return id, nil
}

func (m *memStore) GetRoom(_ context.Context, id int64) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[id]
	if !ok {
		return nil, database.ErrRoomNotFound
	}
	return &room, nil
}

func (m *memStore) ListRooms(_ context.Context) ([]models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Room
	for _, room := range m.rooms {
		out = append(out, room)
	}
	return out, nil
}

func (m *memStore) UpdateRoom(_ context.Context, room *models.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[room.ID]; !ok {
		return database.ErrRoomNotFound
	}
	m.rooms[room.ID] = *room
	return nil
}

func (m *memStore) DeleteRoom(_ context.Context, id int64, today time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[id]; !ok {
		return database.ErrRoomNotFound
	}
	for _, b := range m.bookings {
		if b.RoomID == id && !b.Date.Before(today) {
			return database.ErrRoomHasBookings
		}
	}
	delete(m.rooms, id)
	return nil
}

const testAPIKey = "test-key"

func newTestServer(t *testing.T) (*HTTPServer, *memStore) {
	t.Helper()

	store := newMemStore()
	logger := zerolog.New(io.Discard)

	svc := booking.NewService(store, events.NewBus(), booking.DefaultRules(), &logger)
	roomSvc := rooms.NewService(store, &logger)

	cfg := config.ServerConfig{
		Port:           0,
		APIKeys:        []string{testAPIKey},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
	s := NewHTTPServer(cfg, svc, roomSvc, store, &logger)
	s.now = func() time.Time { return time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC) }
	return s, store
}

func seedRoom(t *testing.T, store *memStore, name string) int64 {
	t.Helper()
	id, err := store.CreateRoom(context.Background(), &models.Room{
		Name:     name,
		Location: "Floor 1",
		Capacity: 8,
		RoomType: models.RoomTypeSquare,
	})
	require.NoError(t, err)
	return id
}

package rooms

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetmate/internal/database"
	"meetmate/internal/models"
)

type fakeStore struct {
	rooms       map[int64]models.Room
	nextID      int64
	deleteBlock bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{rooms: make(map[int64]models.Room), nextID: 1}
}

func (s *fakeStore) CreateRoom(_ context.Context, room *models.Room) (int64, error) {
	id := s.nextID
	s.nextID++
	room.ID = id
	s.rooms[id] = *room
	return id, nil
}

func (s *fakeStore) GetRoom(_ context.Context, id int64) (*models.Room, error) {
	room, ok := s.rooms[id]
	if !ok {
		return nil, database.ErrRoomNotFound
	}
	return &room, nil
}

func (s *fakeStore) ListRooms(_ context.Context) ([]models.Room, error) {
	var out []models.Room
	for _, room := range s.rooms {
		out = append(out, room)
	}
	return out, nil
}

func (s *fakeStore) UpdateRoom(_ context.Context, room *models.Room) error {
	if _, ok := s.rooms[room.ID]; !ok {
		return database.ErrRoomNotFound
	}
	s.rooms[room.ID] = *room
	return nil
}

func (s *fakeStore) DeleteRoom(_ context.Context, id int64, _ time.Time) error {
	if _, ok := s.rooms[id]; !ok {
		return database.ErrRoomNotFound
	}
	if s.deleteBlock {
		return database.ErrRoomHasBookings
	}
	delete(s.rooms, id)
	return nil
}

func newTestService(store Store) *Service {
	logger := zerolog.New(io.Discard)
	return NewService(store, &logger)
}

func TestService_Create(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	id, err := svc.Create(ctx, &models.Room{Name: "Boardroom", Location: "Floor 1", Capacity: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	tests := []struct {
		name string
		room models.Room
	}{
		{"empty name", models.Room{Location: "Floor 1", Capacity: 4}},
		{"blank name", models.Room{Name: "   ", Location: "Floor 1", Capacity: 4}},
		{"empty location", models.Room{Name: "Huddle", Capacity: 4}},
		{"zero capacity", models.Room{Name: "Huddle", Location: "Floor 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &tt.room)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestService_Update(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	id, err := svc.Create(ctx, &models.Room{Name: "Boardroom", Location: "Floor 1", Capacity: 10})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, &models.Room{ID: id, Name: "Boardroom", Location: "Floor 2", Capacity: 12}))

	room, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Floor 2", room.Location)

	err = svc.Update(ctx, &models.Room{ID: 99, Name: "Ghost", Location: "Nowhere", Capacity: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	id, err := svc.Create(ctx, &models.Room{Name: "Boardroom", Location: "Floor 1", Capacity: 10})
	require.NoError(t, err)

	store.deleteBlock = true
	assert.ErrorIs(t, svc.Delete(ctx, id), ErrHasBookings)

	store.deleteBlock = false
	require.NoError(t, svc.Delete(ctx, id))
	assert.ErrorIs(t, svc.Delete(ctx, id), ErrNotFound)
}

func TestSortRooms(t *testing.T) {
	rooms := []models.Room{
		{Name: "Zeta", RoomType: "Standing Desk"},
		{Name: "Boardroom", RoomType: models.RoomTypeLong},
		{Name: "Roundtable", RoomType: models.RoomTypeCircle},
		{Name: "Huddle B", RoomType: models.RoomTypeSquare},
		{Name: "Huddle A", RoomType: models.RoomTypeSquare},
		{Name: "Alpha", RoomType: "Booth"},
	}

	SortRooms(rooms)

	var got []string
	for _, r := range rooms {
		got = append(got, r.Name)
	}
	// Canonical types first in their fixed order, then other types
	// alphabetically, names breaking ties.
	assert.Equal(t, []string{"Huddle A", "Huddle B", "Roundtable", "Boardroom", "Alpha", "Zeta"}, got)
}

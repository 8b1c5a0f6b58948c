// Package rooms manages the meeting-room catalog.
package rooms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"meetmate/internal/database"
	"meetmate/internal/models"
)

var (
	ErrNotFound = errors.New("room not found")
	// ErrHasBookings means the room cannot be deleted while bookings dated
	// today or later exist.
	ErrHasBookings = errors.New("room has current or upcoming bookings")
)

// ValidationError reports an invalid room attribute.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Store is the persistence surface the service needs.
type Store interface {
	CreateRoom(ctx context.Context, room *models.Room) (int64, error)
	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id int64, today time.Time) error
}

type Service struct {
	store  Store
	logger *zerolog.Logger
	now    func() time.Time
}

func NewService(store Store, logger *zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func validateRoom(room *models.Room) error {
	if strings.TrimSpace(room.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(room.Location) == "" {
		return &ValidationError{Field: "location", Reason: "must not be empty"}
	}
	if room.Capacity < 1 {
		return &ValidationError{Field: "capacity", Reason: "must be at least 1"}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, room *models.Room) (int64, error) {
	if err := validateRoom(room); err != nil {
		return 0, err
	}

	id, err := s.store.CreateRoom(ctx, room)
	if err != nil {
		return 0, fmt.Errorf("failed to create room: %w", err)
	}

	s.logger.Info().Int64("room_id", id).Str("name", room.Name).Msg("room created")
	return id, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Room, error) {
	room, err := s.store.GetRoom(ctx, id)
	if errors.Is(err, database.ErrRoomNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *Service) Update(ctx context.Context, room *models.Room) error {
	if err := validateRoom(room); err != nil {
		return err
	}

	err := s.store.UpdateRoom(ctx, room)
	if errors.Is(err, database.ErrRoomNotFound) {
		return ErrNotFound
	}
	return err
}

// List returns all rooms sorted by room type, then name.
func (s *Service) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	SortRooms(rooms)
	return rooms, nil
}

// Delete removes a room. Rooms that still have bookings dated today or later
// cannot be deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	today := s.now().UTC().Truncate(24 * time.Hour)

	err := s.store.DeleteRoom(ctx, id, today)
	switch {
	case errors.Is(err, database.ErrRoomHasBookings):
		return ErrHasBookings
	case errors.Is(err, database.ErrRoomNotFound):
		return ErrNotFound
	case err != nil:
		return err
	}

	s.logger.Info().Int64("room_id", id).Msg("room deleted")
	return nil
}

// typeRank pins the canonical room types ahead of everything else; unknown
// types sort after them, alphabetically.
func typeRank(roomType string) int {
	switch roomType {
	case models.RoomTypeSquare:
		return 0
	case models.RoomTypeCircle:
		return 1
	case models.RoomTypeLong:
		return 2
	default:
		return 3
	}
}

// SortRooms orders rooms by type rank, then type name, then room name.
func SortRooms(rooms []models.Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		ri, rj := typeRank(rooms[i].RoomType), typeRank(rooms[j].RoomType)
		if ri != rj {
			return ri < rj
		}
		if rooms[i].RoomType != rooms[j].RoomType {
			return rooms[i].RoomType < rooms[j].RoomType
		}
		return rooms[i].Name < rooms[j].Name
	})
}

package database

import (
	"context"
	"errors"
	"fmt"

	"meetmate/internal/models"
)

// Seed creates the default admin and test accounts plus a starter set of
// rooms. It is idempotent: existing data is left untouched.
func (db *DB) Seed(ctx context.Context) error {
	users := []models.User{
		{Username: "admin", Email: "admin@meetmate.local", Firstname: "Admin", Lastname: "User", Role: models.RoleAdmin},
		{Username: "testuser", Email: "test@meetmate.local", Firstname: "Test", Lastname: "User", Role: models.RoleUser},
	}
	for i := range users {
		_, err := db.GetUserByUsername(ctx, users[i].Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrUserNotFound) {
			return fmt.Errorf("error checking seed user: %w", err)
		}
		if _, err := db.CreateUser(ctx, &users[i]); err != nil {
			return fmt.Errorf("error seeding user %s: %w", users[i].Username, err)
		}
	}

	existing, err := db.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("error checking seed rooms: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	rooms := []models.Room{
		{Name: "Boardroom", Location: "Floor 1", Capacity: 12, RoomType: models.RoomTypeLong},
		{Name: "Huddle A", Location: "Floor 1", Capacity: 4, RoomType: models.RoomTypeSquare},
		{Name: "Huddle B", Location: "Floor 2", Capacity: 4, RoomType: models.RoomTypeSquare},
		{Name: "Roundtable", Location: "Floor 2", Capacity: 8, RoomType: models.RoomTypeCircle},
	}
	for i := range rooms {
		if _, err := db.CreateRoom(ctx, &rooms[i]); err != nil {
			return fmt.Errorf("error seeding room %s: %w", rooms[i].Name, err)
		}
	}

	if db.logger != nil {
		db.logger.Info().Int("rooms", len(rooms)).Msg("database seeded")
	}
	return nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"meetmate/internal/models"
)

// CreateRoom stores a room and returns its generated id.
func (db *DB) CreateRoom(ctx context.Context, room *models.Room) (int64, error) {
	query := `INSERT INTO rooms (name, location, capacity, room_type) VALUES (?, ?, ?, ?)`

	result, err := db.ExecContext(ctx, query, room.Name, room.Location, room.Capacity, room.RoomType)
	if err != nil {
		return 0, fmt.Errorf("error creating room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error getting room id: %w", err)
	}
	return id, nil
}

// GetRoom returns a room by id. Returns ErrRoomNotFound when it does not
// exist.
func (db *DB) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	query := `SELECT id, name, location, capacity, room_type, created_at FROM rooms WHERE id = ?`

	var (
		room      models.Room
		createdAt sql.NullTime
	)
	err := db.QueryRowContext(ctx, query, id).
		Scan(&room.ID, &room.Name, &room.Location, &room.Capacity, &room.RoomType, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting room: %w", err)
	}
	if createdAt.Valid {
		room.CreatedAt = createdAt.Time
	}
	return &room, nil
}

// ListRooms returns all rooms ordered by name.
func (db *DB) ListRooms(ctx context.Context) ([]models.Room, error) {
	query := `SELECT id, name, location, capacity, room_type, created_at FROM rooms ORDER BY name`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying rooms: %w", err)
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var (
			room      models.Room
			createdAt sql.NullTime
		)
		if err := rows.Scan(&room.ID, &room.Name, &room.Location, &room.Capacity, &room.RoomType, &createdAt); err != nil {
			return nil, fmt.Errorf("error scanning room: %w", err)
		}
		if createdAt.Valid {
			room.CreatedAt = createdAt.Time
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}
	return rooms, nil
}

// UpdateRoom rewrites a room's attributes.
func (db *DB) UpdateRoom(ctx context.Context, room *models.Room) error {
	query := `UPDATE rooms SET name = ?, location = ?, capacity = ?, room_type = ? WHERE id = ?`

	result, err := db.ExecContext(ctx, query, room.Name, room.Location, room.Capacity, room.RoomType, room.ID)
	if err != nil {
		return fmt.Errorf("error updating room: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking updated rows: %w", err)
	}
	if affected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// DeleteRoom removes a room unless it still has bookings dated today or
// later.
func (db *DB) DeleteRoom(ctx context.Context, id int64, today time.Time) error {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE room_id = ? AND date >= ?`,
		id, today.Format(models.DateLayout),
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("error checking room bookings: %w", err)
	}
	if count > 0 {
		return ErrRoomHasBookings
	}

	result, err := db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting room: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

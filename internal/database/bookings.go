package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"meetmate/internal/models"
)

// InsertBooking stores a booking and returns its generated id.
func (db *DB) InsertBooking(ctx context.Context, b *models.Booking) (int64, error) {
	query := `INSERT INTO bookings (user_id, room_id, date, time_start, time_end, booking_admin_id, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	var adminID sql.NullInt64
	if b.BookingAdminID != nil {
		adminID = sql.NullInt64{Int64: *b.BookingAdminID, Valid: true}
	}

	result, err := db.ExecContext(ctx, query,
		b.UserID,
		b.RoomID,
		b.Date.Format(models.DateLayout),
		b.TimeStart.String(),
		b.TimeEnd.String(),
		adminID,
		b.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("error inserting booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error getting booking id: %w", err)
	}
	return id, nil
}

// GetBooking returns a booking by id, or nil when it does not exist.
func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT id, user_id, room_id, date, time_start, time_end, booking_admin_id, notes, created_at
		FROM bookings WHERE id = ?`

	b, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting booking: %w", err)
	}
	return b, nil
}

// DeleteBooking removes a booking. Returns ErrBookingNotFound when no row
// matches.
func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting booking: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// BookingsForRoomDate returns all bookings for a room on a given day.
// excludeID, when non-zero, omits that booking from the result so an edit can
// be checked against everything but itself.
func (db *DB) BookingsForRoomDate(ctx context.Context, roomID int64, date time.Time, excludeID int64) ([]models.Booking, error) {
	query := `SELECT id, user_id, room_id, date, time_start, time_end, booking_admin_id, notes, created_at
		FROM bookings
		WHERE room_id = ? AND date = ? AND id != ?
		ORDER BY time_start`

	rows, err := db.QueryContext(ctx, query, roomID, date.Format(models.DateLayout), excludeID)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// UserBookings returns a user's bookings ordered most recent day first.
func (db *DB) UserBookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	query := `SELECT id, user_id, room_id, date, time_start, time_end, booking_admin_id, notes, created_at
		FROM bookings
		WHERE user_id = ?
		ORDER BY date DESC, time_start`

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying user bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// BookingsForDateRange returns every booking with from <= date <= to, for
// building the schedule grid and exports.
func (db *DB) BookingsForDateRange(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	query := `SELECT id, user_id, room_id, date, time_start, time_end, booking_admin_id, notes, created_at
		FROM bookings
		WHERE date >= ? AND date <= ?
		ORDER BY date, room_id, time_start`

	rows, err := db.QueryContext(ctx, query, from.Format(models.DateLayout), to.Format(models.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("error querying bookings range: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		b         models.Booking
		dateStr   string
		startStr  string
		endStr    string
		adminID   sql.NullInt64
		notes     sql.NullString
		createdAt sql.NullTime
	)

	err := row.Scan(&b.ID, &b.UserID, &b.RoomID, &dateStr, &startStr, &endStr, &adminID, &notes, &createdAt)
	if err != nil {
		return nil, err
	}

	b.Date, err = time.ParseInLocation(models.DateLayout, dateStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("error parsing booking date %q: %w", dateStr, err)
	}
	b.TimeStart, err = models.ParseTimeOfDay(startStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing booking start %q: %w", startStr, err)
	}
	b.TimeEnd, err = models.ParseTimeOfDay(endStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing booking end %q: %w", endStr, err)
	}
	if adminID.Valid {
		b.BookingAdminID = &adminID.Int64
	}
	if notes.Valid {
		b.Notes = notes.String
	}
	if createdAt.Valid {
		b.CreatedAt = createdAt.Time
	}
	return &b, nil
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return bookings, nil
}

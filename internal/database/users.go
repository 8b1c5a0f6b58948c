package database

import (
	"context"
	"database/sql"
	"fmt"

	"meetmate/internal/models"
)

// CreateUser stores a user and returns its generated id.
func (db *DB) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	query := `INSERT INTO users (username, email, firstname, lastname, role) VALUES (?, ?, ?, ?, ?)`

	result, err := db.ExecContext(ctx, query, user.Username, user.Email, user.Firstname, user.Lastname, user.Role)
	if err != nil {
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error getting user id: %w", err)
	}
	return id, nil
}

// GetUser returns a user by id. Returns ErrUserNotFound when it does not
// exist.
func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, username, email, firstname, lastname, role, created_at FROM users WHERE id = ?`
	return db.getUser(ctx, query, id)
}

// GetUserByUsername returns a user by username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, email, firstname, lastname, role, created_at FROM users WHERE username = ?`
	return db.getUser(ctx, query, username)
}

func (db *DB) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		user      models.User
		firstname sql.NullString
		lastname  sql.NullString
		createdAt sql.NullTime
	)
	err := db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Email, &firstname, &lastname, &user.Role, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	user.Firstname = firstname.String
	user.Lastname = lastname.String
	if createdAt.Valid {
		user.CreatedAt = createdAt.Time
	}
	return &user, nil
}

// ListUsers returns every user ordered by username.
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, username, email, firstname, lastname, role, created_at FROM users ORDER BY username`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var (
			user      models.User
			firstname sql.NullString
			lastname  sql.NullString
			createdAt sql.NullTime
		)
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &firstname, &lastname, &user.Role, &createdAt); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		user.Firstname = firstname.String
		user.Lastname = lastname.String
		if createdAt.Valid {
			user.CreatedAt = createdAt.Time
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

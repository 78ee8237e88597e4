package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateUser registers a new user and issues its API token.
func (s *Store) CreateUser(username string) (*User, error) {
	now := formatTime(time.Now())
	res, err := s.db.Exec(
		`INSERT INTO users (public_id, username, token, created_on, modified_on) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), username, uuid.NewString(), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetUser(id)
}

func (s *Store) GetUser(id int64) (*User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, public_id, username, token, is_active, created_on, modified_on FROM users WHERE id = ?`, id,
	))
}

// GetUserByToken resolves a bearer token to its active owner.
func (s *Store) GetUserByToken(token string) (*User, error) {
	return s.scanUser(s.db.QueryRow(
		`SELECT id, public_id, username, token, is_active, created_on, modified_on
		 FROM users WHERE token = ? AND is_active = 1`, token,
	))
}

func (s *Store) scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	var active int
	var createdOn, modifiedOn string
	err := row.Scan(&u.ID, &u.PublicID, &u.Username, &u.Token, &active, &createdOn, &modifiedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.IsActive = active == 1
	u.CreatedOn = parseTime(createdOn)
	u.ModifiedOn = parseTime(modifiedOn)
	return u, nil
}

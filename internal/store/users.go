package store

import (
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) CreateUser(u User) (*User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := s.db.Exec(
		`INSERT INTO users (id, name, avatar, position) VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM users))`,
		u.ID, u.Name, u.Avatar,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.GetUser(u.ID)
}

func (s *Store) GetUser(id string) (*User, error) {
	u := &User{}
	err := s.db.QueryRow(`SELECT id, name, avatar FROM users WHERE id = ?`, id).Scan(&u.ID, &u.Name, &u.Avatar)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, notFound(err))
	}
	return u, nil
}

func (s *Store) ListUsers() ([]User, error) {
	rows, err := s.db.Query(`SELECT id, name, avatar FROM users ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Avatar); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteUser removes a user. Task assignments referencing it are left alone.
func (s *Store) DeleteUser(id string) error {
	res, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete user %s: %w", id, ErrNotFound)
	}
	return nil
}

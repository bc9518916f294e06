package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

const userColumns = `id, username, email, first_name, last_name, password_hash, created_at`

// CreateUser inserts a new user and returns its ID. A duplicate username
// returns ErrConflict.
func CreateUser(ctx context.Context, q Querier, u *model.User) (int, error) {
	res, err := q.ExecContext(ctx,
		`INSERT INTO users (username, email, first_name, last_name, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("username %q: %w", u.Username, ErrConflict)
		}
		return 0, fmt.Errorf("inserting user: %w", err)
	}

	id64, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return int(id64), nil
}

// GetUser retrieves a user by ID.
func GetUser(ctx context.Context, q Querier, id int) (*model.User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByUsername retrieves a user by exact username.
func GetUserByUsername(ctx context.Context, q Querier, username string) (*model.User, error) {
	row := q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// LookupUserIDs returns the IDs of users named username. At most limit IDs
// are returned so callers can detect more than one match without reading
// the whole table.
func LookupUserIDs(ctx context.Context, q Querier, username string, limit int) ([]int, error) {
	return lookupIDs(ctx, q, `SELECT id FROM users WHERE username = ? ORDER BY id LIMIT ?`, username, limit)
}

// ListUsers returns every user ordered by ID.
func ListUsers(ctx context.Context, q Querier) ([]*model.User, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		u, err := scanUserFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}
	return users, nil
}

// DeleteUser removes a user. Foreign keys cascade to the user's sessions,
// projects, contributor rows and authored issues; authored comments are kept
// with a NULL author.
func DeleteUser(ctx context.Context, q Querier, id int) error {
	res, err := q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return expectAffected(res)
}

func scanUserFrom(s scanner) (*model.User, error) {
	var u model.User
	var createdAt string
	if err := s.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime("created_at", createdAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	u, err := scanUserFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return u, nil
}

// lookupIDs runs a single-column id query and collects the results.
func lookupIDs(ctx context.Context, q Querier, query string, args ...any) ([]int, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("looking up ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// expectAffected returns ErrNotFound when a statement touched no rows.
func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

// CreateSession stores an issued bearer token.
func CreateSession(ctx context.Context, q Querier, s *model.Session) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		s.Token, s.UserID, now(), s.ExpiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("session token: %w", ErrConflict)
		}
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by token. Expired sessions are returned
// as-is; callers decide whether to honor them.
func GetSession(ctx context.Context, q Querier, token string) (*model.Session, error) {
	var s model.Session
	var expiresAt string
	err := q.QueryRowContext(ctx,
		`SELECT token, user_id, expires_at FROM sessions WHERE token = ?`, token,
	).Scan(&s.Token, &s.UserID, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	t, err := parseTime("expires_at", expiresAt)
	if err != nil {
		return nil, err
	}
	s.ExpiresAt = t
	return &s, nil
}

// DeleteSession revokes a token.
func DeleteSession(ctx context.Context, q Querier, token string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return expectAffected(res)
}

// PruneSessions deletes sessions that expired before the given time and
// returns how many were removed.
func PruneSessions(ctx context.Context, q Querier, before time.Time) (int, error) {
	res, err := q.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, before.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("pruning sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return int(n), nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ALT-F4-LLC/softdesk/internal/db"
	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,max=32"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// LoginInput is the payload for exchanging credentials for a token.
type LoginInput struct {
	Username string `json:"username" validate:"required,max=32"`
	Password string `json:"password" validate:"required,max=72"`
}

// CreateUser validates in and stores a user with a bcrypt-hashed password.
func (s *Service) CreateUser(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := s.check(in); err != nil {
		return nil, err
	}
	if isNumeric(in.Password) {
		return nil, &FieldError{Field: "password", Reason: "must not be entirely numeric"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	id, err := db.CreateUser(ctx, s.conn, &model.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}
	return db.GetUser(ctx, s.conn, id)
}

// Register creates a user and issues a token for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, *model.Session, error) {
	user, err := s.CreateUser(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Login verifies credentials and issues a new token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*model.Session, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	user, err := db.GetUserByUsername(ctx, s.conn, in.Username)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrBadCredentials
	}

	return s.issue(ctx, user.ID)
}

// Logout revokes a token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := db.DeleteSession(ctx, s.conn, token); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrUnauthenticated
		}
		return err
	}
	return nil
}

// Authenticate returns the user owning a live token. Expired tokens are
// deleted and rejected.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	session, err := db.GetSession(ctx, s.conn, token)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	if !s.now().Before(session.ExpiresAt) {
		if err := db.DeleteSession(ctx, s.conn, token); err != nil && !errors.Is(err, db.ErrNotFound) {
			return nil, err
		}
		return nil, ErrUnauthenticated
	}

	user, err := db.GetUser(ctx, s.conn, session.UserID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	return user, err
}

// PruneSessions deletes every expired token and reports how many were removed.
func (s *Service) PruneSessions(ctx context.Context) (int, error) {
	return db.PruneSessions(ctx, s.conn, s.now())
}

func (s *Service) issue(ctx context.Context, userID int) (*model.Session, error) {
	session := &model.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.tokenTTL).UTC(),
	}
	if err := db.CreateSession(ctx, s.conn, session); err != nil {
		return nil, err
	}
	return session, nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRegisterValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"missing username", RegisterInput{Password: "correct-horse"}, "username"},
		{"long username", RegisterInput{Username: "abcdefghijklmnopqrstuvwxyz0123456", Password: "correct-horse"}, "username"},
		{"short password", RegisterInput{Username: "alice", Password: "short"}, "password"},
		{"numeric password", RegisterInput{Username: "alice", Password: "12345678"}, "password"},
		{"bad email", RegisterInput{Username: "alice", Password: "correct-horse", Email: "nope"}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Register(ctx, tt.in)
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("err = %v, want *FieldError", err)
			}
			if fe.Field != tt.field {
				t.Errorf("Field = %q, want %q", fe.Field, tt.field)
			}
		})
	}

	mustRegister(t, s, "alice")
	if _, _, err := s.Register(ctx, RegisterInput{Username: "alice", Password: "another-pass"}); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate register err = %v, want ErrConflict", err)
	}
}

func TestLoginWithLongPassword(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	password := strings.Repeat("a", 40)
	if _, _, err := s.Register(ctx, RegisterInput{Username: "carol", Password: password}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := s.Login(ctx, LoginInput{Username: "carol", Password: password}); err != nil {
		t.Errorf("Login with the registered password: %v", err)
	}

	var fe *FieldError
	_, err := s.Login(ctx, LoginInput{Username: "carol", Password: strings.Repeat("a", 73)})
	if !errors.As(err, &fe) || fe.Field != "password" {
		t.Errorf("73-character password err = %v, want password FieldError", err)
	}
}

func TestLoginAuthenticateLogout(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	alice := mustRegister(t, s, "alice")

	if _, err := s.Login(ctx, LoginInput{Username: "alice", Password: "wrong-horse"}); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password err = %v, want ErrBadCredentials", err)
	}
	if _, err := s.Login(ctx, LoginInput{Username: "nobody", Password: "correct-horse"}); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown user err = %v, want ErrValidation", err)
	}

	session, err := s.Login(ctx, LoginInput{Username: "alice", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("empty token")
	}

	u, err := s.Authenticate(ctx, session.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.ID != alice.ID {
		t.Errorf("user = %d, want %d", u.ID, alice.ID)
	}

	if err := s.Logout(ctx, session.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := s.Authenticate(ctx, session.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("after logout err = %v, want ErrUnauthenticated", err)
	}
	if _, err := s.Authenticate(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("empty token err = %v, want ErrUnauthenticated", err)
	}
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	mustRegister(t, s, "alice")

	session, err := s.Login(ctx, LoginInput{Username: "alice", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := s.Authenticate(ctx, session.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expired token err = %v, want ErrUnauthenticated", err)
	}

	s.now = time.Now
	if _, err := s.Authenticate(ctx, session.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expired token was not deleted: %v", err)
	}
}

func TestPruneSessions(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	mustRegister(t, s, "alice")

	live, err := s.Login(ctx, LoginInput{Username: "alice", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// The register token and the login token both expire an hour out.
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	n, err := s.PruneSessions(ctx)
	if err != nil {
		t.Fatalf("PruneSessions: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned %d sessions, want 2", n)
	}

	s.now = time.Now
	if _, err := s.Authenticate(ctx, live.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("pruned token still authenticates: %v", err)
	}
}

func TestCreateUserIssuesNoToken(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, RegisterInput{Username: "  carol ", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Username != "carol" {
		t.Errorf("username = %q, want trimmed", user.Username)
	}

	n, err := s.PruneSessions(ctx)
	if err != nil {
		t.Fatalf("PruneSessions: %v", err)
	}
	if n != 0 {
		t.Errorf("pruned %d sessions, want 0", n)
	}
}

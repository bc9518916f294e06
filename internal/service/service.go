// Package service implements the project, contributor, issue and comment
// operations. Each operation resolves human keys, authorizes the caller and
// then performs a single storage mutation.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/ALT-F4-LLC/softdesk/internal/access"
	"github.com/ALT-F4-LLC/softdesk/internal/db"
)

// DefaultTokenTTL is how long an issued token stays valid when no TTL is configured.
const DefaultTokenTTL = 24 * time.Hour

// Resolver maps usernames and project titles to IDs.
type Resolver interface {
	User(ctx context.Context, q db.Querier, username string) (int, error)
	Project(ctx context.Context, q db.Querier, title string) (int, error)
}

// Evaluator decides whether a user may act on a resource.
type Evaluator interface {
	RequireAuthor(userID int, r access.Authored) error
	RequireContributor(ctx context.Context, q db.Querier, userID, projectID int) error
}

// Service composes storage, identity resolution and authorization.
type Service struct {
	conn     *sql.DB
	resolve  Resolver
	access   Evaluator
	validate *validator.Validate
	tokenTTL time.Duration
	hashCost int
	now      func() time.Time
}

// New returns a Service backed by conn. A non-positive tokenTTL uses DefaultTokenTTL.
func New(conn *sql.DB, r Resolver, e Evaluator, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{
		conn:     conn,
		resolve:  r,
		access:   e,
		validate: newValidator(),
		tokenTTL: tokenTTL,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// newValidator returns a validator that reports fields by their json name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check validates struct tags on in and converts the first failure to a FieldError.
func (s *Service) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &FieldError{Field: fe.Field(), Reason: reason(fe)}
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// inTx runs fn in one storage transaction. Lookups, the authorization check
// and the mutation of an update or delete all go through fn's tx.
func (s *Service) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return db.WithTx(ctx, s.conn, fn)
}

// trimPtr trims the string p points at, if any.
func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*p)
	return &trimmed
}

// enumError wraps a model Validate* failure as a FieldError.
func enumError(field string, err error) error {
	if err == nil {
		return nil
	}
	return &FieldError{Field: field, Reason: err.Error()}
}

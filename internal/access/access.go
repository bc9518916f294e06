// Package access holds the two authorization predicates. Both fail with
// ErrForbidden instead of returning a bool so a caller cannot ignore the result.
//
// A project's author has full control over what they authored. Any
// contributor may read and create issues and comments under the project.
// Contributor.Permission is not consulted.
package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/ALT-F4-LLC/softdesk/internal/db"
)

// ErrForbidden is returned when an authenticated user may not perform an action.
var ErrForbidden = errors.New("forbidden")

// Authored is implemented by resources that record their author.
// The bool is false when the author no longer exists.
type Authored interface {
	AuthoredBy() (int, bool)
}

// Evaluator implements the authorization predicates.
type Evaluator struct{}

// New returns an Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// RequireAuthor fails unless userID authored r.
func (e *Evaluator) RequireAuthor(userID int, r Authored) error {
	author, ok := r.AuthoredBy()
	if !ok || author != userID {
		return ErrForbidden
	}
	return nil
}

// RequireContributor fails unless userID has a contributor row on projectID.
func (e *Evaluator) RequireContributor(ctx context.Context, q db.Querier, userID, projectID int) error {
	ok, err := db.IsContributor(ctx, q, userID, projectID)
	if err != nil {
		return fmt.Errorf("checking contributor: %w", err)
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

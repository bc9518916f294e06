// Package resolve maps human-readable keys (usernames, project titles) to
// internal IDs before any write touches the database.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/ALT-F4-LLC/softdesk/internal/db"
)

// ErrAmbiguous is returned when a key that should be unique matches more than
// one row. It indicates a broken storage invariant, not bad input.
var ErrAmbiguous = errors.New("ambiguous match")

// ErrNotFound is returned when no row matches the key.
var ErrNotFound = db.ErrNotFound

// Resolver performs read-only identity lookups.
type Resolver struct{}

// New returns a Resolver.
func New() *Resolver {
	return &Resolver{}
}

// User returns the ID of the user with the given username.
func (r *Resolver) User(ctx context.Context, q db.Querier, username string) (int, error) {
	ids, err := db.LookupUserIDs(ctx, q, username, 2)
	if err != nil {
		return 0, err
	}
	return one("user", username, ids)
}

// Project returns the ID of the project with the given title.
func (r *Resolver) Project(ctx context.Context, q db.Querier, title string) (int, error) {
	ids, err := db.LookupProjectIDs(ctx, q, title, 2)
	if err != nil {
		return 0, err
	}
	return one("project", title, ids)
}

// one collapses a lookup result to a single ID. It never picks among
// several matches.
func one(kind, key string, ids []int) (int, error) {
	switch len(ids) {
	case 0:
		return 0, fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
	case 1:
		return ids[0], nil
	default:
		return 0, fmt.Errorf("%s %q: %w", kind, key, ErrAmbiguous)
	}
}

package service

import (
	"context"
	"database/sql"

	"github.com/ALT-F4-LLC/softdesk/internal/db"
	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

// ContributorInput names the user and project by human keys.
type ContributorInput struct {
	Username     string `json:"username" validate:"required,max=32"`
	ProjectTitle string `json:"project_title" validate:"required,max=128"`
}

// AddContributor adds a user as a collaborator. Only the project's author
// may add contributors. Adding the same user twice returns ErrConflict.
func (s *Service) AddContributor(ctx context.Context, actor *model.User, in ContributorInput) (*model.Contributor, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	projectID, err := s.resolve.Project(ctx, s.conn, in.ProjectTitle)
	if err != nil {
		return nil, err
	}
	p, err := db.GetProject(ctx, s.conn, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireAuthor(actor.ID, p); err != nil {
		return nil, err
	}

	// Usernames are resolved only for the project author.
	userID, err := s.resolve.User(ctx, s.conn, in.Username)
	if err != nil {
		return nil, err
	}

	c := &model.Contributor{
		UserID:     userID,
		Username:   in.Username,
		ProjectID:  projectID,
		Permission: model.PermissionCollaborator,
	}
	id, err := db.AddContributor(ctx, s.conn, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// ListContributors returns a project's contributors. The caller must be one.
func (s *Service) ListContributors(ctx context.Context, actor *model.User, projectID int) ([]*model.Contributor, error) {
	if _, err := db.GetProject(ctx, s.conn, projectID); err != nil {
		return nil, err
	}
	if err := s.access.RequireContributor(ctx, s.conn, actor.ID, projectID); err != nil {
		return nil, err
	}
	return db.ListContributors(ctx, s.conn, projectID)
}

// RemoveContributor unlinks userID from a project authored by actor. The
// author's own row cannot be removed.
func (s *Service) RemoveContributor(ctx context.Context, actor *model.User, projectID, userID int) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		p, err := db.GetProject(ctx, tx, projectID)
		if err != nil {
			return err
		}
		if err := s.access.RequireAuthor(actor.ID, p); err != nil {
			return err
		}
		if userID == p.AuthorID {
			return &FieldError{Field: "user_id", Reason: "is the project author and cannot be removed"}
		}
		return db.RemoveContributor(ctx, tx, projectID, userID)
	})
}

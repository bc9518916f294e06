package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ALT-F4-LLC/softdesk/internal/db"
	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

// ProjectInput is the payload for creating a project. The author is always
// the caller and cannot be supplied.
type ProjectInput struct {
	Title       string            `json:"title" validate:"required,max=128"`
	Description string            `json:"description" validate:"required,max=512"`
	Type        model.ProjectType `json:"type" validate:"max=32"`
}

// ProjectPatch is a partial project update. Nil fields are left unchanged.
type ProjectPatch struct {
	Title       *string            `json:"title" validate:"omitnil,min=1,max=128"`
	Description *string            `json:"description" validate:"omitnil,min=1,max=512"`
	Type        *model.ProjectType `json:"type"`
}

// ListProjects returns every project. Any authenticated user may list them.
func (s *Service) ListProjects(ctx context.Context, actor *model.User) ([]*model.Project, error) {
	return db.ListProjects(ctx, s.conn)
}

// GetProject returns a project by ID. Any authenticated user may read it.
func (s *Service) GetProject(ctx context.Context, actor *model.User, id int) (*model.Project, error) {
	return db.GetProject(ctx, s.conn, id)
}

// CreateProject stores a project authored by actor. The owner contributor
// row is created in the same transaction.
func (s *Service) CreateProject(ctx context.Context, actor *model.User, in ProjectInput) (*model.Project, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := s.check(in); err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = model.DefaultProjectType
	}
	if err := enumError("type", model.ValidateProjectType(in.Type)); err != nil {
		return nil, err
	}

	id, err := db.CreateProject(ctx, s.conn, &model.Project{
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		AuthorID:    actor.ID,
	})
	if err != nil {
		return nil, err
	}
	return db.GetProject(ctx, s.conn, id)
}

// UpdateProject applies patch to a project authored by actor.
func (s *Service) UpdateProject(ctx context.Context, actor *model.User, id int, patch ProjectPatch) (*model.Project, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		p, err := db.GetProject(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.access.RequireAuthor(actor.ID, p); err != nil {
			return err
		}

		patch.Title = trimPtr(patch.Title)
		patch.Description = trimPtr(patch.Description)
		if err := s.check(patch); err != nil {
			return err
		}

		updates := make(map[string]any)
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if patch.Type != nil {
			if err := enumError("type", model.ValidateProjectType(*patch.Type)); err != nil {
				return err
			}
			updates["type"] = string(*patch.Type)
		}
		return db.UpdateProject(ctx, tx, id, updates)
	})
	if err != nil {
		return nil, err
	}
	return db.GetProject(ctx, s.conn, id)
}

// DeleteProject removes a project authored by actor along with its
// contributors, issues and comments.
func (s *Service) DeleteProject(ctx context.Context, actor *model.User, id int) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		p, err := db.GetProject(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.access.RequireAuthor(actor.ID, p); err != nil {
			return err
		}
		return db.DeleteProject(ctx, tx, id)
	})
}

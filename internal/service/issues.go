package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ALT-F4-LLC/softdesk/internal/db"
	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

// IssueInput is the payload for creating an issue. Omitted enums take their
// defaults. An empty AssigneeUsername assigns the issue to its author.
type IssueInput struct {
	Title            string         `json:"title" validate:"required,max=32"`
	Description      string         `json:"description" validate:"required,max=512"`
	Tag              model.Tag      `json:"tag"`
	Priority         model.Priority `json:"priority"`
	Status           model.Status   `json:"status"`
	AssigneeUsername string         `json:"assignee_username" validate:"max=32"`
}

// IssuePatch is a partial issue update. Nil fields are left unchanged.
type IssuePatch struct {
	Title            *string         `json:"title" validate:"omitnil,min=1,max=32"`
	Description      *string         `json:"description" validate:"omitnil,min=1,max=512"`
	Tag              *model.Tag      `json:"tag"`
	Priority         *model.Priority `json:"priority"`
	Status           *model.Status   `json:"status"`
	AssigneeUsername *string         `json:"assignee_username" validate:"omitnil,min=1,max=32"`
}

// ListIssues returns a project's issues. The caller must be a contributor.
func (s *Service) ListIssues(ctx context.Context, actor *model.User, projectID int) ([]*model.Issue, error) {
	if _, err := db.GetProject(ctx, s.conn, projectID); err != nil {
		return nil, err
	}
	if err := s.access.RequireContributor(ctx, s.conn, actor.ID, projectID); err != nil {
		return nil, err
	}
	return db.ListIssues(ctx, s.conn, projectID)
}

// CreateIssue stores an issue under projectID authored by actor. The caller
// must be a contributor of the project.
func (s *Service) CreateIssue(ctx context.Context, actor *model.User, projectID int, in IssueInput) (*model.Issue, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := s.check(in); err != nil {
		return nil, err
	}
	if in.Tag == "" {
		in.Tag = model.DefaultTag
	}
	if in.Priority == "" {
		in.Priority = model.DefaultPriority
	}
	if in.Status == "" {
		in.Status = model.DefaultStatus
	}
	if err := validateIssueEnums(&in.Tag, &in.Priority, &in.Status); err != nil {
		return nil, err
	}

	if _, err := db.GetProject(ctx, s.conn, projectID); err != nil {
		return nil, err
	}
	if err := s.access.RequireContributor(ctx, s.conn, actor.ID, projectID); err != nil {
		return nil, err
	}

	issue := &model.Issue{
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		Tag:         in.Tag,
		Priority:    in.Priority,
		Status:      in.Status,
		AuthorID:    actor.ID,
	}
	if in.AssigneeUsername != "" {
		assignee, err := s.resolve.User(ctx, s.conn, in.AssigneeUsername)
		if err != nil {
			return nil, err
		}
		issue.AssigneeID = &assignee
	}

	id, err := db.CreateIssue(ctx, s.conn, issue, actor.Username)
	if err != nil {
		return nil, err
	}
	return db.GetIssue(ctx, s.conn, id)
}

// GetIssue returns an issue. The caller must contribute to its project.
func (s *Service) GetIssue(ctx context.Context, actor *model.User, id int) (*model.Issue, error) {
	issue, err := db.GetIssue(ctx, s.conn, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireContributor(ctx, s.conn, actor.ID, issue.ProjectID); err != nil {
		return nil, err
	}
	return issue, nil
}

// UpdateIssue applies patch to an issue authored by actor. Each changed
// field is recorded in the activity log.
func (s *Service) UpdateIssue(ctx context.Context, actor *model.User, id int, patch IssuePatch) (*model.Issue, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		issue, err := db.GetIssue(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.access.RequireAuthor(actor.ID, issue); err != nil {
			return err
		}

		patch.Title = trimPtr(patch.Title)
		patch.Description = trimPtr(patch.Description)
		if err := s.check(patch); err != nil {
			return err
		}
		if err := validateIssueEnums(patch.Tag, patch.Priority, patch.Status); err != nil {
			return err
		}

		updates := make(map[string]any)
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if patch.Tag != nil {
			updates["tag"] = string(*patch.Tag)
		}
		if patch.Priority != nil {
			updates["priority"] = string(*patch.Priority)
		}
		if patch.Status != nil {
			updates["status"] = string(*patch.Status)
		}
		if patch.AssigneeUsername != nil {
			assignee, err := s.resolve.User(ctx, tx, *patch.AssigneeUsername)
			if err != nil {
				return err
			}
			updates["assignee_user_id"] = assignee
		}

		return db.ApplyIssueUpdates(ctx, tx, id, updates, actor.Username)
	})
	if err != nil {
		return nil, err
	}
	return db.GetIssue(ctx, s.conn, id)
}

// DeleteIssue removes an issue authored by actor and its comments.
func (s *Service) DeleteIssue(ctx context.Context, actor *model.User, id int) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		issue, err := db.GetIssue(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.access.RequireAuthor(actor.ID, issue); err != nil {
			return err
		}
		return db.DeleteIssue(ctx, tx, id)
	})
}

// IssueActivity returns the change log of an issue, newest first. A
// non-positive limit returns everything.
func (s *Service) IssueActivity(ctx context.Context, actor *model.User, id, limit int) ([]model.Activity, error) {
	issue, err := s.GetIssue(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return db.GetActivity(ctx, s.conn, issue.ID, limit)
}

// validateIssueEnums checks the non-nil enum fields.
func validateIssueEnums(tag *model.Tag, priority *model.Priority, status *model.Status) error {
	if tag != nil {
		if err := enumError("tag", model.ValidateTag(*tag)); err != nil {
			return err
		}
	}
	if priority != nil {
		if err := enumError("priority", model.ValidatePriority(*priority)); err != nil {
			return err
		}
	}
	if status != nil {
		if err := enumError("status", model.ValidateStatus(*status)); err != nil {
			return err
		}
	}
	return nil
}

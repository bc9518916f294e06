package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ALT-F4-LLC/softdesk/internal/db"
	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

// CommentInput is the payload for creating or replacing a comment.
type CommentInput struct {
	Description string `json:"description" validate:"required,max=512"`
}

// ListComments returns the comments on an issue. The caller must contribute
// to the issue's project.
func (s *Service) ListComments(ctx context.Context, actor *model.User, issueID int) ([]*model.Comment, error) {
	if _, err := s.GetIssue(ctx, actor, issueID); err != nil {
		return nil, err
	}
	return db.ListComments(ctx, s.conn, issueID)
}

// CreateComment adds a comment authored by actor to an issue. The caller
// must contribute to the issue's project.
func (s *Service) CreateComment(ctx context.Context, actor *model.User, issueID int, in CommentInput) (*model.Comment, error) {
	in.Description = strings.TrimSpace(in.Description)
	if err := s.check(in); err != nil {
		return nil, err
	}
	if _, err := s.GetIssue(ctx, actor, issueID); err != nil {
		return nil, err
	}

	author := actor.ID
	id, err := db.CreateComment(ctx, s.conn, &model.Comment{
		IssueID:     issueID,
		Description: in.Description,
		AuthorID:    &author,
	}, actor.Username)
	if err != nil {
		return nil, err
	}
	return db.GetComment(ctx, s.conn, id)
}

// UpdateComment replaces the description of a comment authored by actor.
func (s *Service) UpdateComment(ctx context.Context, actor *model.User, id int, in CommentInput) (*model.Comment, error) {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		c, err := db.GetComment(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.access.RequireAuthor(actor.ID, c); err != nil {
			return err
		}

		in.Description = strings.TrimSpace(in.Description)
		if err := s.check(in); err != nil {
			return err
		}
		return db.UpdateComment(ctx, tx, id, in.Description)
	})
	if err != nil {
		return nil, err
	}
	return db.GetComment(ctx, s.conn, id)
}

// DeleteComment removes a comment authored by actor.
func (s *Service) DeleteComment(ctx context.Context, actor *model.User, id int) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		c, err := db.GetComment(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.access.RequireAuthor(actor.ID, c); err != nil {
			return err
		}
		return db.DeleteComment(ctx, tx, id)
	})
}

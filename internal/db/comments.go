package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

const commentSelect = `SELECT c.id, c.issue_id, c.description, c.author_user_id, u.username, c.created_time
	FROM comments c LEFT JOIN users u ON u.id = c.author_user_id`

// CreateComment inserts a new comment for an issue, records activity, and
// returns its ID. The insert and activity log are wrapped in a single
// transaction so they succeed or fail together.
func CreateComment(ctx context.Context, db *sql.DB, comment *model.Comment, changedBy string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM issues WHERE id = ?)`, comment.IssueID,
	).Scan(&exists); err != nil {
		return 0, fmt.Errorf("checking issue existence: %w", err)
	}
	if !exists {
		return 0, ErrNotFound
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO comments (issue_id, description, author_user_id, created_time) VALUES (?, ?, ?, ?)`,
		comment.IssueID, comment.Description, nilIfZeroPtr(comment.AuthorID), now(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting comment: %w", err)
	}

	id64, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	if err := RecordActivity(ctx, tx, comment.IssueID, "comment_added", "", comment.Description, changedBy); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return int(id64), nil
}

// ListComments retrieves all comments for an issue, ordered by creation time ascending.
func ListComments(ctx context.Context, q Querier, issueID int) ([]*model.Comment, error) {
	rows, err := q.QueryContext(ctx, commentSelect+` WHERE c.issue_id = ? ORDER BY c.created_time ASC, c.id ASC`, issueID)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0)
	for rows.Next() {
		c, err := scanCommentFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comment rows: %w", err)
	}
	return comments, nil
}

// GetComment retrieves a comment by ID.
func GetComment(ctx context.Context, q Querier, id int) (*model.Comment, error) {
	row := q.QueryRowContext(ctx, commentSelect+` WHERE c.id = ?`, id)
	c, err := scanCommentFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning comment: %w", err)
	}
	return c, nil
}

// UpdateComment replaces a comment's description. Author and created_time
// are never touched.
func UpdateComment(ctx context.Context, q Querier, id int, description string) error {
	res, err := q.ExecContext(ctx, `UPDATE comments SET description = ? WHERE id = ?`, description, id)
	if err != nil {
		return fmt.Errorf("updating comment: %w", err)
	}
	return expectAffected(res)
}

// DeleteComment removes a comment by ID.
func DeleteComment(ctx context.Context, q Querier, id int) error {
	res, err := q.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return expectAffected(res)
}

// scanCommentFrom scans a single comment from any scanner (*sql.Row or *sql.Rows).
func scanCommentFrom(s scanner) (*model.Comment, error) {
	var c model.Comment
	var author sql.NullInt64
	var username sql.NullString
	var createdTime string

	if err := s.Scan(&c.ID, &c.IssueID, &c.Description, &author, &username, &createdTime); err != nil {
		return nil, err
	}

	c.AuthorID = intPtr(author)
	c.Author = username.String

	t, err := parseTime("created_time", createdTime)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = t
	return &c, nil
}

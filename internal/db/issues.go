package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

// validIssueUpdateFields is the set of columns allowed in UpdateIssue.
// project_id, author_user_id and created_time are never updatable.
var validIssueUpdateFields = map[string]bool{
	"title":            true,
	"description":      true,
	"tag":              true,
	"priority":         true,
	"status":           true,
	"assignee_user_id": true,
}

const issueSelect = `SELECT i.id, i.project_id, i.title, i.description, i.tag, i.priority, i.status,
	i.author_user_id, i.assignee_user_id, i.created_time, au.username, asg.username
	FROM issues i
	JOIN users au ON au.id = i.author_user_id
	LEFT JOIN users asg ON asg.id = i.assignee_user_id`

// CreateIssue inserts a new issue and returns its ID. A nil AssigneeID is
// stored as the author. The creation is recorded in the activity log within
// the same transaction.
func CreateIssue(ctx context.Context, db *sql.DB, issue *model.Issue, changedBy string) (int, error) {
	assignee := issue.AssigneeID
	if assignee == nil {
		author := issue.AuthorID
		assignee = &author
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO issues (project_id, title, description, tag, priority, status, author_user_id, assignee_user_id, created_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		issue.ProjectID,
		issue.Title,
		issue.Description,
		string(issue.Tag),
		string(issue.Priority),
		string(issue.Status),
		issue.AuthorID,
		nilIfZeroPtr(assignee),
		now(),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting issue: %w", err)
	}

	id64, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	id := int(id64)

	if err := RecordActivity(ctx, tx, id, "created", "", issue.Title, changedBy); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

// GetIssue retrieves an issue by ID with author and assignee names joined.
func GetIssue(ctx context.Context, q Querier, id int) (*model.Issue, error) {
	row := q.QueryRowContext(ctx, issueSelect+` WHERE i.id = ?`, id)
	issue, err := scanIssueFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning issue: %w", err)
	}
	return issue, nil
}

// ListIssues returns a project's issues, oldest first.
func ListIssues(ctx context.Context, q Querier, projectID int) ([]*model.Issue, error) {
	return queryIssues(ctx, q, issueSelect+` WHERE i.project_id = ? ORDER BY i.created_time ASC, i.id ASC`, projectID)
}

// ListAllIssues returns every issue across projects, optionally filtered by status.
func ListAllIssues(ctx context.Context, q Querier, status model.Status) ([]*model.Issue, error) {
	if status == "" {
		return queryIssues(ctx, q, issueSelect+` ORDER BY i.project_id ASC, i.id ASC`)
	}
	return queryIssues(ctx, q, issueSelect+` WHERE i.status = ? ORDER BY i.project_id ASC, i.id ASC`, string(status))
}

func queryIssues(ctx context.Context, q Querier, query string, args ...any) ([]*model.Issue, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying issues: %w", err)
	}
	defer rows.Close()

	issues := make([]*model.Issue, 0)
	for rows.Next() {
		issue, err := scanIssueFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning issue row: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating issue rows: %w", err)
	}
	return issues, nil
}

// UpdateIssue updates an existing issue. Only keys present in the updates map
// are modified. Activity is recorded for each changed field within the same
// transaction.
//
// Field names are validated against validIssueUpdateFields, but callers are
// responsible for validating field values before calling this function.
func UpdateIssue(ctx context.Context, db *sql.DB, id int, updates map[string]any, changedBy string) error {
	if len(updates) == 0 {
		return nil
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		return ApplyIssueUpdates(ctx, tx, id, updates, changedBy)
	})
}

// ApplyIssueUpdates is UpdateIssue for a caller that already holds a
// transaction. q should be a *sql.Tx so the row and its activity commit together.
func ApplyIssueUpdates(ctx context.Context, q Querier, id int, updates map[string]any, changedBy string) error {
	if len(updates) == 0 {
		return nil
	}

	old, err := GetIssue(ctx, q, id)
	if err != nil {
		return err
	}

	// Sort keys for deterministic query generation.
	fields := make([]string, 0, len(updates))
	for field := range updates {
		if !validIssueUpdateFields[field] {
			return fmt.Errorf("invalid update field %q", field)
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	setClauses := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for _, field := range fields {
		setClauses = append(setClauses, field+" = ?")
		args = append(args, updates[field])
	}
	args = append(args, id)

	res, err := q.ExecContext(ctx,
		fmt.Sprintf("UPDATE issues SET %s WHERE id = ?", strings.Join(setClauses, ", ")),
		args...,
	)
	if err != nil {
		return fmt.Errorf("updating issue: %w", err)
	}
	if err := expectAffected(res); err != nil {
		return err
	}

	for _, field := range fields {
		oldVal := issueFieldValue(old, field)
		newVal := formatValue(updates[field])
		if oldVal != newVal {
			if err := RecordActivity(ctx, q, id, field, oldVal, newVal, changedBy); err != nil {
				return err
			}
		}
	}

	return nil
}

// issueFieldValue extracts a string representation of a field for activity logging.
func issueFieldValue(issue *model.Issue, field string) string {
	switch field {
	case "title":
		return issue.Title
	case "description":
		return issue.Description
	case "tag":
		return string(issue.Tag)
	case "priority":
		return string(issue.Priority)
	case "status":
		return string(issue.Status)
	case "assignee_user_id":
		if issue.AssigneeID != nil {
			return strconv.Itoa(*issue.AssigneeID)
		}
		return ""
	default:
		return ""
	}
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case *int:
		if x == nil {
			return ""
		}
		return strconv.Itoa(*x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// DeleteIssue removes an issue by ID. Foreign key cascades remove its
// comments and activity.
func DeleteIssue(ctx context.Context, q Querier, id int) error {
	res, err := q.ExecContext(ctx, `DELETE FROM issues WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting issue: %w", err)
	}
	return expectAffected(res)
}

// scanIssueFrom scans a single issue from any scanner (*sql.Row or *sql.Rows).
func scanIssueFrom(s scanner) (*model.Issue, error) {
	var i model.Issue
	var assignee sql.NullInt64
	var assigneeName sql.NullString
	var createdTime string

	err := s.Scan(
		&i.ID, &i.ProjectID, &i.Title, &i.Description,
		&i.Tag, &i.Priority, &i.Status,
		&i.AuthorID, &assignee, &createdTime,
		&i.AuthorName, &assigneeName,
	)
	if err != nil {
		return nil, err
	}

	i.AssigneeID = intPtr(assignee)
	i.AssigneeName = assigneeName.String

	t, err := parseTime("created_time", createdTime)
	if err != nil {
		return nil, err
	}
	i.CreatedAt = t

	return &i, nil
}

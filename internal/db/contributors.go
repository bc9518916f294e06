package db

import (
	"context"
	"fmt"

	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

// AddContributor links a user to a project and returns the row ID. A second
// row for the same (user, project) pair returns ErrConflict.
func AddContributor(ctx context.Context, q Querier, c *model.Contributor) (int, error) {
	perm := c.Permission
	if perm == "" {
		perm = model.PermissionCollaborator
	}
	if err := model.ValidatePermission(perm); err != nil {
		return 0, err
	}

	res, err := q.ExecContext(ctx,
		`INSERT INTO contributors (user_id, project_id, permission) VALUES (?, ?, ?)`,
		c.UserID, c.ProjectID, string(perm),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("user %d on project %d: %w", c.UserID, c.ProjectID, ErrConflict)
		}
		return 0, fmt.Errorf("inserting contributor: %w", err)
	}

	id64, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return int(id64), nil
}

// IsContributor reports whether a contributor row exists for the pair.
func IsContributor(ctx context.Context, q Querier, userID, projectID int) (bool, error) {
	var found bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM contributors WHERE user_id = ? AND project_id = ?)`,
		userID, projectID,
	).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("checking contributor: %w", err)
	}
	return found, nil
}

// ListContributors returns a project's contributors with usernames, owner first.
func ListContributors(ctx context.Context, q Querier, projectID int) ([]*model.Contributor, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT c.id, c.user_id, u.username, c.project_id, c.permission
		 FROM contributors c JOIN users u ON u.id = c.user_id
		 WHERE c.project_id = ?
		 ORDER BY CASE c.permission WHEN 'owner' THEN 0 ELSE 1 END, c.id ASC`, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying contributors: %w", err)
	}
	defer rows.Close()

	contributors := make([]*model.Contributor, 0)
	for rows.Next() {
		var c model.Contributor
		if err := rows.Scan(&c.ID, &c.UserID, &c.Username, &c.ProjectID, &c.Permission); err != nil {
			return nil, fmt.Errorf("scanning contributor row: %w", err)
		}
		contributors = append(contributors, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contributor rows: %w", err)
	}
	return contributors, nil
}

// RemoveContributor unlinks a user from a project.
func RemoveContributor(ctx context.Context, q Querier, projectID, userID int) error {
	res, err := q.ExecContext(ctx,
		`DELETE FROM contributors WHERE project_id = ? AND user_id = ?`, projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting contributor: %w", err)
	}
	return expectAffected(res)
}

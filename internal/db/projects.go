package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

// validProjectUpdateFields is the set of columns allowed in UpdateProject.
// author_user_id is deliberately absent.
var validProjectUpdateFields = map[string]bool{
	"title":       true,
	"description": true,
	"type":        true,
}

const projectColumns = `id, title, description, type, author_user_id`

// CreateProject inserts a project and its owner contributor row in one
// transaction and returns the project ID. Either both rows exist afterwards
// or neither does. A duplicate title returns ErrConflict.
func CreateProject(ctx context.Context, db *sql.DB, p *model.Project) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO projects (title, description, type, author_user_id) VALUES (?, ?, ?, ?)`,
		p.Title, p.Description, string(p.Type), p.AuthorID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("project title %q: %w", p.Title, ErrConflict)
		}
		return 0, fmt.Errorf("inserting project: %w", err)
	}

	id64, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	id := int(id64)

	if _, err := AddContributor(ctx, tx, &model.Contributor{
		UserID:     p.AuthorID,
		ProjectID:  id,
		Permission: model.PermissionOwner,
	}); err != nil {
		return 0, fmt.Errorf("adding owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

// GetProject retrieves a project by ID.
func GetProject(ctx context.Context, q Querier, id int) (*model.Project, error) {
	row := q.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProjectFrom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return p, nil
}

// LookupProjectIDs returns up to limit IDs of projects with the given title.
func LookupProjectIDs(ctx context.Context, q Querier, title string, limit int) ([]int, error) {
	return lookupIDs(ctx, q, `SELECT id FROM projects WHERE title = ? ORDER BY id LIMIT ?`, title, limit)
}

// ListProjects returns every project ordered by ID.
func ListProjects(ctx context.Context, q Querier) ([]*model.Project, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*model.Project, 0)
	for rows.Next() {
		p, err := scanProjectFrom(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}
	return projects, nil
}

// UpdateProject updates the given columns of a project. Keys must be in
// validProjectUpdateFields; callers validate the values.
func UpdateProject(ctx context.Context, q Querier, id int, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}

	fields := make([]string, 0, len(updates))
	for field := range updates {
		if !validProjectUpdateFields[field] {
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
		fmt.Sprintf("UPDATE projects SET %s WHERE id = ?", strings.Join(setClauses, ", ")),
		args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("project title: %w", ErrConflict)
		}
		return fmt.Errorf("updating project: %w", err)
	}
	return expectAffected(res)
}

// DeleteProject removes a project. Contributors, issues and their comments
// are removed by foreign key cascades.
func DeleteProject(ctx context.Context, q Querier, id int) error {
	res, err := q.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return expectAffected(res)
}

func scanProjectFrom(s scanner) (*model.Project, error) {
	var p model.Project
	if err := s.Scan(&p.ID, &p.Title, &p.Description, &p.Type, &p.AuthorID); err != nil {
		return nil, err
	}
	return &p, nil
}

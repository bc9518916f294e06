package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

// RecordActivity logs a field change on an issue. Pass the transaction that
// performs the change so the log entry commits with it.
func RecordActivity(ctx context.Context, q Querier, issueID int, field, oldVal, newVal, changedBy string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO activity_log (issue_id, field_changed, old_value, new_value, changed_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		issueID, field, oldVal, newVal, changedBy, now(),
	)
	if err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}
	return nil
}

// GetActivity retrieves activity log entries for an issue, most recent first.
func GetActivity(ctx context.Context, q Querier, issueID int, limit int) ([]model.Activity, error) {
	query := `SELECT id, issue_id, field_changed, old_value, new_value, changed_by, created_at
	          FROM activity_log
	          WHERE issue_id = ?
	          ORDER BY created_at DESC, id DESC`
	args := []any{issueID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activity: %w", err)
	}
	defer rows.Close()

	activities := make([]model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		var oldVal, newVal, changedBy sql.NullString
		var createdAt string
		if err := rows.Scan(&a.ID, &a.IssueID, &a.FieldChanged, &oldVal, &newVal, &changedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		a.OldValue = oldVal.String
		a.NewValue = newVal.String
		a.ChangedBy = changedBy.String

		t, err := parseTime("activity created_at", createdAt)
		if err != nil {
			return nil, err
		}
		a.CreatedAt = t

		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity rows: %w", err)
	}
	return activities, nil
}

package db

import (
	"context"
	"fmt"
)

// Counts holds row totals for the stats command.
type Counts struct {
	Users        int `json:"users"`
	Projects     int `json:"projects"`
	Contributors int `json:"contributors"`
	Issues       int `json:"issues"`
	Comments     int `json:"comments"`
}

// CountAll returns the number of rows in each entity table.
func CountAll(ctx context.Context, q Querier) (Counts, error) {
	var c Counts
	targets := []struct {
		table string
		dest  *int
	}{
		{"users", &c.Users},
		{"projects", &c.Projects},
		{"contributors", &c.Contributors},
		{"issues", &c.Issues},
		{"comments", &c.Comments},
	}
	for _, t := range targets {
		// Table names are constants above, never user input.
		if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+t.table).Scan(t.dest); err != nil {
			return Counts{}, fmt.Errorf("counting %s: %w", t.table, err)
		}
	}
	return c, nil
}

// countIssuesByColumn returns a map of value -> count for the given issues column.
func countIssuesByColumn(ctx context.Context, q Querier, column string) (map[string]int, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(`SELECT %s, COUNT(*) FROM issues GROUP BY %s`, column, column))
	if err != nil {
		return nil, fmt.Errorf("counting by %s: %w", column, err)
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("scanning %s count: %w", column, err)
		}
		result[key] = count
	}
	return result, rows.Err()
}

// CountByStatus returns a map of status -> count for all issues.
func CountByStatus(ctx context.Context, q Querier) (map[string]int, error) {
	return countIssuesByColumn(ctx, q, "status")
}

// CountByPriority returns a map of priority -> count for all issues.
func CountByPriority(ctx context.Context, q Querier) (map[string]int, error) {
	return countIssuesByColumn(ctx, q, "priority")
}

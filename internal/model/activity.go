package model

import "time"

// Activity represents a change record for an issue field.
type Activity struct {
	ID           int       `json:"id"`
	IssueID      int       `json:"issue_id"`
	FieldChanged string    `json:"field_changed"`
	OldValue     string    `json:"old_value"`
	NewValue     string    `json:"new_value"`
	ChangedBy    string    `json:"changed_by"`
	CreatedAt    time.Time `json:"created_at"`
}

package model

import (
	"encoding/json"
	"time"
)

// Comment represents a comment on an issue. AuthorID is nil once the
// author's account has been deleted.
type Comment struct {
	ID          int
	IssueID     int
	Description string
	AuthorID    *int
	Author      string // username, joined for display
	CreatedAt   time.Time
}

// AuthoredBy reports the comment's author, if it still exists.
func (c Comment) AuthoredBy() (int, bool) {
	if c.AuthorID == nil {
		return 0, false
	}
	return *c.AuthorID, true
}

// AuthorOrAnonymous returns the author name, falling back to "anonymous"
// when the field is empty.
func (c Comment) AuthorOrAnonymous() string {
	if c.Author == "" {
		return "anonymous"
	}
	return c.Author
}

// commentJSON is the JSON wire format for Comment.
type commentJSON struct {
	ID          int    `json:"id"`
	IssueID     int    `json:"issue_id"`
	Description string `json:"description"`
	AuthorID    *int   `json:"author_user_id"`
	CreatedTime string `json:"created_time"`
}

// MarshalJSON implements custom JSON serialization for Comment.
func (c Comment) MarshalJSON() ([]byte, error) {
	return json.Marshal(commentJSON{
		ID:          c.ID,
		IssueID:     c.IssueID,
		Description: c.Description,
		AuthorID:    c.AuthorID,
		CreatedTime: c.CreatedAt.UTC().Format(time.RFC3339),
	})
}

package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status represents the workflow state of an issue.
type Status string

const (
	StatusTodo       Status = "to-do"
	StatusInProgress Status = "in progress"
	StatusCompleted  Status = "completed"
)

var validStatuses = []Status{
	StatusTodo,
	StatusInProgress,
	StatusCompleted,
}

// ValidateStatus returns an error if s is not a recognized status.
func ValidateStatus(s Status) error {
	for _, v := range validStatuses {
		if s == v {
			return nil
		}
	}
	return fmt.Errorf("invalid status %q: must be one of %q", s, validStatuses)
}

// Color returns a color name string suitable for terminal rendering.
func (s Status) Color() string {
	switch s {
	case StatusTodo:
		return "blue"
	case StatusInProgress:
		return "yellow"
	case StatusCompleted:
		return "green"
	default:
		return "white"
	}
}

// Icon returns a single-character glyph for the status.
func (s Status) Icon() string {
	switch s {
	case StatusTodo:
		return "○"
	case StatusInProgress:
		return "◑"
	case StatusCompleted:
		return "✔"
	default:
		return "?"
	}
}

// Priority represents the urgency of an issue.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var validPriorities = []Priority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
}

// ValidatePriority returns an error if p is not a recognized priority.
func ValidatePriority(p Priority) error {
	for _, v := range validPriorities {
		if p == v {
			return nil
		}
	}
	return fmt.Errorf("invalid priority %q: must be one of %q", p, validPriorities)
}

// Color returns a color name string suitable for terminal rendering.
func (p Priority) Color() string {
	switch p {
	case PriorityHigh:
		return "red"
	case PriorityMedium:
		return "yellow"
	case PriorityLow:
		return "gray"
	default:
		return "white"
	}
}

// Tag represents the category of an issue.
type Tag string

const (
	TagTag         Tag = "tag"
	TagEnhancement Tag = "enhancement"
	TagTask        Tag = "task"
)

var validTags = []Tag{
	TagTag,
	TagEnhancement,
	TagTask,
}

// ValidateTag returns an error if t is not a recognized tag.
func ValidateTag(t Tag) error {
	for _, v := range validTags {
		if t == v {
			return nil
		}
	}
	return fmt.Errorf("invalid tag %q: must be one of %q", t, validTags)
}

// Color returns a color name string suitable for terminal rendering.
func (t Tag) Color() string {
	switch t {
	case TagEnhancement:
		return "magenta"
	case TagTask:
		return "blue"
	default:
		return "white"
	}
}

// Defaults applied when an issue is created without the field.
const (
	DefaultTag      = TagTag
	DefaultPriority = PriorityMedium
	DefaultStatus   = StatusTodo
)

// ParseID parses a positive numeric resource ID.
func ParseID(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("empty ID")
	}

	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q: %w", input, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid ID %q: must be positive", input)
	}

	return id, nil
}

// Issue represents a tracked issue inside a project.
type Issue struct {
	ID          int
	ProjectID   int
	Title       string
	Description string
	Tag         Tag
	Priority    Priority
	Status      Status
	AuthorID    int
	AssigneeID  *int
	CreatedAt   time.Time

	// Populated by joins for display; never written.
	AuthorName   string
	AssigneeName string
}

// AuthoredBy reports the issue's author.
func (i Issue) AuthoredBy() (int, bool) {
	return i.AuthorID, true
}

// issueJSON is the JSON wire format for Issue.
type issueJSON struct {
	ID          int    `json:"id"`
	ProjectID   int    `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Tag         string `json:"tag"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	AuthorID    int    `json:"author_user_id"`
	AssigneeID  *int   `json:"assignee_user_id"`
	CreatedTime string `json:"created_time"`
}

// MarshalJSON implements custom JSON serialization for Issue.
func (i Issue) MarshalJSON() ([]byte, error) {
	return json.Marshal(issueJSON{
		ID:          i.ID,
		ProjectID:   i.ProjectID,
		Title:       i.Title,
		Description: i.Description,
		Tag:         string(i.Tag),
		Priority:    string(i.Priority),
		Status:      string(i.Status),
		AuthorID:    i.AuthorID,
		AssigneeID:  i.AssigneeID,
		CreatedTime: i.CreatedAt.UTC().Format(time.RFC3339),
	})
}

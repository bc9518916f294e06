package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	humanize "github.com/dustin/go-humanize"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

const maxTitleWidth = 40

// StatusOrder is the display order for issue statuses.
var StatusOrder = []model.Status{model.StatusTodo, model.StatusInProgress, model.StatusCompleted}

// PriorityOrder is the display order for issue priorities, most urgent first.
var PriorityOrder = []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow}

// ColorsEnabled reports whether output may carry ANSI styling. NO_COLOR set
// to any value, or TERM=dumb, turns it off.
func ColorsEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// StyledText applies a lipgloss style to text when colors are enabled.
// When colors are disabled, it returns the plain text unchanged.
func StyledText(text string, style lipgloss.Style) string {
	if ColorsEnabled() {
		return style.Render(text)
	}
	return text
}

// ColorFromName maps model color name strings to lipgloss colors.
func ColorFromName(name string) lipgloss.Color {
	switch name {
	case "red":
		return lipgloss.Color("9")
	case "yellow":
		return lipgloss.Color("11")
	case "blue":
		return lipgloss.Color("12")
	case "green":
		return lipgloss.Color("10")
	case "magenta":
		return lipgloss.Color("13")
	case "gray":
		return lipgloss.Color("8")
	default:
		return lipgloss.Color("15")
	}
}

// truncate shortens a string to maxLen runes, appending an ellipsis if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// statusLabel returns a status string with icon, e.g. "✔ completed".
func statusLabel(s model.Status) string {
	return s.Icon() + " " + string(s)
}

// orDash returns "-" for empty strings so table cells never collapse.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// EmptyState renders a styled empty-state message with an optional contextual hint.
// When colors are enabled the message is rendered in dim gray and the hint is italic.
// When quiet is true the hint is suppressed.
func EmptyState(message, hint string, quiet bool) string {
	if !ColorsEnabled() {
		if quiet || hint == "" {
			return message
		}
		return message + "\n" + hint
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)

	result := dimStyle.Render(message)
	if !quiet && hint != "" {
		result += "\n" + hintStyle.Render(hint)
	}
	return result
}

// newTable returns a bordered table with bold headers. cell styles the
// body cell at (row, col); it may be nil.
func newTable(headers []string, rows [][]string, cell func(row, col int, s lipgloss.Style) lipgloss.Style) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(lipgloss.Color("15"))
			}
			if cell == nil || row < 0 || row >= len(rows) {
				return s
			}
			return cell(row, col, s)
		})
}

// RenderIssueTable renders a list of issues as a formatted table.
func RenderIssueTable(issues []*model.Issue) string {
	if len(issues) == 0 {
		return EmptyState("No issues found.", "Issues are filed through the HTTP API.", false)
	}

	if !ColorsEnabled() {
		return renderPlainIssueTable(issues)
	}

	headers := []string{"ID", "Project", "Status", "Priority", "Tag", "Title", "Assignee", "Created"}

	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, issueToRow(issue))
	}

	t := newTable(headers, rows, func(row, col int, s lipgloss.Style) lipgloss.Style {
		issue := issues[row]
		switch col {
		case 0:
			return s.Foreground(lipgloss.Color("15"))
		case 2:
			return s.Foreground(ColorFromName(issue.Status.Color()))
		case 3:
			return s.Foreground(ColorFromName(issue.Priority.Color()))
		case 4:
			return s.Foreground(ColorFromName(issue.Tag.Color()))
		case 5:
			return s.Bold(true)
		default:
			return s
		}
	})

	return t.Render()
}

func issueToRow(issue *model.Issue) []string {
	return []string{
		strconv.Itoa(issue.ID),
		strconv.Itoa(issue.ProjectID),
		statusLabel(issue.Status),
		string(issue.Priority),
		string(issue.Tag),
		truncate(issue.Title, maxTitleWidth),
		orDash(issue.AssigneeName),
		humanize.Time(issue.CreatedAt),
	}
}

func renderPlainIssueTable(issues []*model.Issue) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-6s %-8s %-14s %-8s %-12s %-32s %-15s %s\n",
		"ID", "Project", "Status", "Priority", "Tag", "Title", "Assignee", "Created")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 110))

	for _, issue := range issues {
		row := issueToRow(issue)
		fmt.Fprintf(&b, "%-6s %-8s %-14s %-8s %-12s %-32s %-15s %s\n",
			row[0], row[1], row[2], row[3], row[4], row[5], row[6], row[7])
	}

	return b.String()
}

// RenderProjectTable renders projects with their author's user id.
func RenderProjectTable(projects []*model.Project) string {
	if len(projects) == 0 {
		return EmptyState("No projects found.", "Projects are created through the HTTP API.", false)
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			strconv.Itoa(p.ID),
			truncate(p.Title, maxTitleWidth),
			string(p.Type),
			strconv.Itoa(p.AuthorID),
		})
	}

	if !ColorsEnabled() {
		var b strings.Builder
		fmt.Fprintf(&b, "%-6s %-40s %-10s %s\n", "ID", "Title", "Type", "Author")
		fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 66))
		for _, r := range rows {
			fmt.Fprintf(&b, "%-6s %-40s %-10s %s\n", r[0], r[1], r[2], r[3])
		}
		return b.String()
	}

	return newTable([]string{"ID", "Title", "Type", "Author"}, rows, func(_, col int, s lipgloss.Style) lipgloss.Style {
		if col == 1 {
			return s.Bold(true)
		}
		return s
	}).Render()
}

// RenderUserTable renders user accounts.
func RenderUserTable(users []*model.User) string {
	if len(users) == 0 {
		return EmptyState("No users found.", "Create one with: softdesk user create", false)
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		rows = append(rows, []string{
			strconv.Itoa(u.ID),
			u.Username,
			orDash(name),
			orDash(u.Email),
			humanize.Time(u.CreatedAt),
		})
	}

	if !ColorsEnabled() {
		var b strings.Builder
		fmt.Fprintf(&b, "%-6s %-32s %-24s %-30s %s\n", "ID", "Username", "Name", "Email", "Joined")
		fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 108))
		for _, r := range rows {
			fmt.Fprintf(&b, "%-6s %-32s %-24s %-30s %s\n", r[0], r[1], r[2], r[3], r[4])
		}
		return b.String()
	}

	return newTable([]string{"ID", "Username", "Name", "Email", "Joined"}, rows, nil).Render()
}

package render

import (
	"fmt"
	"strings"

	humanize "github.com/dustin/go-humanize"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/ALT-F4-LLC/softdesk/internal/model"
)

// RenderIssueDetail renders a full issue detail view including metadata,
// description, comments, and recent activity.
func RenderIssueDetail(issue *model.Issue, comments []*model.Comment, activity []model.Activity) string {
	if !ColorsEnabled() {
		return renderPlainIssueDetail(issue, comments, activity)
	}

	sections := []string{renderIssueHeader(issue), renderIssueMetadata(issue)}

	if issue.Description != "" {
		sections = append(sections, renderDescription(issue.Description))
	}
	if len(comments) > 0 {
		sections = append(sections, renderComments(comments))
	}
	if len(activity) > 0 {
		sections = append(sections, renderActivity(activity))
	}

	return strings.Join(sections, "\n\n")
}

func renderIssueHeader(issue *model.Issue) string {
	idStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	titleStyle := lipgloss.NewStyle().Bold(true)
	statusStyle := lipgloss.NewStyle().
		Foreground(ColorFromName(issue.Status.Color())).
		Bold(true)
	priorityStyle := lipgloss.NewStyle().
		Foreground(ColorFromName(issue.Priority.Color())).
		Bold(true)

	return fmt.Sprintf("%s  %s\n%s  %s",
		idStyle.Render(fmt.Sprintf("#%d", issue.ID)),
		titleStyle.Render(issue.Title),
		statusStyle.Render(statusLabel(issue.Status)),
		priorityStyle.Render(string(issue.Priority)),
	)
}

func renderIssueMetadata(issue *model.Issue) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	tagStyle := lipgloss.NewStyle().Foreground(ColorFromName(issue.Tag.Color()))

	lines := []string{
		fmt.Sprintf("%s %d", labelStyle.Render("Project:"), issue.ProjectID),
		fmt.Sprintf("%s %s", labelStyle.Render("Tag:"), tagStyle.Render(string(issue.Tag))),
		fmt.Sprintf("%s %s", labelStyle.Render("Author:"), orDash(issue.AuthorName)),
	}
	if issue.AssigneeName != "" {
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Assignee:"), issue.AssigneeName))
	}
	lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render("Created:"), humanize.Time(issue.CreatedAt)))

	return strings.Join(lines, "\n")
}

// bodyWidth is the wrap width for issue and comment descriptions.
const bodyWidth = 80

// renderBody renders a description as markdown wrapped to bodyWidth and
// shifted right by indent spaces. If glamour fails the text is kept as written.
func renderBody(text string, indent int) string {
	out := text
	r, err := glamour.NewTermRenderer(
		glamour.WithEnvironmentConfig(),
		glamour.WithWordWrap(bodyWidth-indent),
	)
	if err == nil {
		if rendered, err := r.Render(text); err == nil {
			out = strings.TrimSpace(rendered)
		}
	}
	if indent == 0 {
		return out
	}
	pad := strings.Repeat(" ", indent)
	return pad + strings.ReplaceAll(out, "\n", "\n"+pad)
}

func renderDescription(description string) string {
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	return sectionStyle.Render("Description") + "\n" + renderBody(description, 0)
}

func renderComments(comments []*model.Comment) string {
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	authorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	header := sectionStyle.Render("Comments")

	var parts []string
	for _, c := range comments {
		body := renderBody(c.Description, 2)

		commentHeader := fmt.Sprintf("%s  %s",
			authorStyle.Render(c.AuthorOrAnonymous()),
			timeStyle.Render(humanize.Time(c.CreatedAt)),
		)

		parts = append(parts, commentHeader+"\n"+body)
	}

	return header + "\n" + strings.Join(parts, "\n\n")
}

// activityIcon returns a semantic icon for an activity entry.
func activityIcon(a model.Activity) string {
	switch a.FieldChanged {
	case "created":
		return "✨" // ✨
	case "comment_added":
		return "✍" // ✍
	case "status":
		if a.NewValue != "" {
			return model.Status(a.NewValue).Icon()
		}
		return "○" // ○
	}
	return "✎" // ✎
}

// activityLine describes one activity entry without styling.
func activityLine(a model.Activity) string {
	actor := a.ChangedBy
	if actor == "" {
		actor = "system"
	}
	switch a.FieldChanged {
	case "created":
		return fmt.Sprintf("Issue created by %s", actor)
	case "comment_added":
		return fmt.Sprintf("%s commented", actor)
	}

	var detail string
	switch {
	case a.OldValue != "" && a.NewValue != "":
		detail = fmt.Sprintf("%s -> %s", a.OldValue, a.NewValue)
	case a.NewValue != "":
		detail = fmt.Sprintf("set %s", a.NewValue)
	case a.OldValue != "":
		detail = fmt.Sprintf("cleared %s", a.OldValue)
	}
	return fmt.Sprintf("%s changed %s: %s", actor, a.FieldChanged, detail)
}

func renderActivity(activity []model.Activity) string {
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	timeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	header := sectionStyle.Render("Activity")

	lines := make([]string, 0, len(activity))
	for _, a := range activity {
		lines = append(lines, fmt.Sprintf("  %s %s  %s",
			activityIcon(a),
			activityLine(a),
			timeStyle.Render(humanize.Time(a.CreatedAt)),
		))
	}

	return header + "\n" + strings.Join(lines, "\n")
}

// renderPlainIssueDetail renders a detail view without any color or styling.
func renderPlainIssueDetail(issue *model.Issue, comments []*model.Comment, activity []model.Activity) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#%d  %s\n", issue.ID, issue.Title)
	fmt.Fprintf(&b, "%s  %s\n", statusLabel(issue.Status), issue.Priority)

	b.WriteString("\n")
	fmt.Fprintf(&b, "Project: %d\n", issue.ProjectID)
	fmt.Fprintf(&b, "Tag: %s\n", issue.Tag)
	fmt.Fprintf(&b, "Author: %s\n", orDash(issue.AuthorName))
	if issue.AssigneeName != "" {
		fmt.Fprintf(&b, "Assignee: %s\n", issue.AssigneeName)
	}
	fmt.Fprintf(&b, "Created: %s\n", humanize.Time(issue.CreatedAt))

	if issue.Description != "" {
		fmt.Fprintf(&b, "\nDescription\n%s\n", issue.Description)
	}

	if len(comments) > 0 {
		b.WriteString("\nComments\n")
		for _, c := range comments {
			fmt.Fprintf(&b, "  %s (%s): %s\n", c.AuthorOrAnonymous(), humanize.Time(c.CreatedAt), c.Description)
		}
	}

	if len(activity) > 0 {
		b.WriteString("\nActivity\n")
		for _, a := range activity {
			fmt.Fprintf(&b, "  %s  %s\n", activityLine(a), humanize.Time(a.CreatedAt))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderProjectDetail renders a project with its contributors as a tree and
// its issues as a table.
func RenderProjectDetail(p *model.Project, contributors []*model.Contributor, issues []*model.Issue) string {
	if !ColorsEnabled() {
		return renderPlainProjectDetail(p, contributors, issues)
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ownerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))

	sections := []string{
		fmt.Sprintf("%s  %s\n%s %s",
			titleStyle.Render(fmt.Sprintf("#%d", p.ID)),
			titleStyle.Render(p.Title),
			labelStyle.Render("Type:"),
			string(p.Type),
		),
	}
	if p.Description != "" {
		sections = append(sections, renderDescription(p.Description))
	}

	t := tree.New().Root(titleStyle.Render("Contributors"))
	for _, c := range contributors {
		name := c.Username
		if c.Permission == model.PermissionOwner {
			name = ownerStyle.Render(name + " (owner)")
		}
		t.Child(name)
	}
	sections = append(sections, t.String())
	sections = append(sections, titleStyle.Render("Issues")+"\n"+RenderIssueTable(issues))

	return strings.Join(sections, "\n\n")
}

func renderPlainProjectDetail(p *model.Project, contributors []*model.Contributor, issues []*model.Issue) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#%d  %s\n", p.ID, p.Title)
	fmt.Fprintf(&b, "Type: %s\n", p.Type)
	if p.Description != "" {
		fmt.Fprintf(&b, "\nDescription\n%s\n", p.Description)
	}

	b.WriteString("\nContributors\n")
	for _, c := range contributors {
		fmt.Fprintf(&b, "  %s (%s)\n", c.Username, c.Permission)
	}

	b.WriteString("\nIssues\n")
	b.WriteString(RenderIssueTable(issues))

	return strings.TrimRight(b.String(), "\n")
}

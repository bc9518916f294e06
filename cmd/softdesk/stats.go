package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/softdesk/internal/db"
	"github.com/ALT-F4-LLC/softdesk/internal/output"
	"github.com/ALT-F4-LLC/softdesk/internal/render"
)

type statsResult struct {
	db.Counts
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show summary statistics for the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		conn := getDB(cmd)
		ctx := cmd.Context()

		counts, err := db.CountAll(ctx, conn)
		if err != nil {
			return cmdErr(fmt.Errorf("counting rows: %w", err), output.ErrGeneral)
		}

		byStatus, err := db.CountByStatus(ctx, conn)
		if err != nil {
			return cmdErr(fmt.Errorf("counting by status: %w", err), output.ErrGeneral)
		}

		byPriority, err := db.CountByPriority(ctx, conn)
		if err != nil {
			return cmdErr(fmt.Errorf("counting by priority: %w", err), output.ErrGeneral)
		}

		result := statsResult{Counts: counts, ByStatus: byStatus, ByPriority: byPriority}

		var message string
		if !w.JSONMode {
			message = renderStats(result)
		}
		w.Success(result, message)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// renderStats renders the stats result as a styled human-readable string.
func renderStats(s statsResult) string {
	if !render.ColorsEnabled() {
		return renderPlainStats(s)
	}

	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle := lipgloss.NewStyle().Bold(true)

	line := func(label string, n int, style lipgloss.Style) string {
		return fmt.Sprintf("  %s %s", labelStyle.Render(fmt.Sprintf("%-14s", label+":")), style.Render(fmt.Sprintf("%d", n)))
	}

	overview := []string{
		sectionStyle.Render("Overview"),
		line("Users", s.Users, valueStyle),
		line("Projects", s.Projects, valueStyle),
		line("Contributors", s.Contributors, valueStyle),
		line("Issues", s.Issues, valueStyle),
		line("Comments", s.Comments, valueStyle),
	}

	statusLines := []string{sectionStyle.Render("By Status")}
	for _, status := range render.StatusOrder {
		style := lipgloss.NewStyle().Bold(true).Foreground(render.ColorFromName(status.Color()))
		statusLines = append(statusLines, line(string(status), s.ByStatus[string(status)], style))
	}

	priorityLines := []string{sectionStyle.Render("By Priority")}
	for _, priority := range render.PriorityOrder {
		style := lipgloss.NewStyle().Bold(true).Foreground(render.ColorFromName(priority.Color()))
		priorityLines = append(priorityLines, line(string(priority), s.ByPriority[string(priority)], style))
	}

	return strings.Join([]string{
		strings.Join(overview, "\n"),
		strings.Join(statusLines, "\n"),
		strings.Join(priorityLines, "\n"),
	}, "\n\n")
}

// renderPlainStats renders the stats result as plain text without styling.
func renderPlainStats(s statsResult) string {
	var b strings.Builder

	b.WriteString("Overview\n")
	fmt.Fprintf(&b, "  %-14s %d\n", "Users:", s.Users)
	fmt.Fprintf(&b, "  %-14s %d\n", "Projects:", s.Projects)
	fmt.Fprintf(&b, "  %-14s %d\n", "Contributors:", s.Contributors)
	fmt.Fprintf(&b, "  %-14s %d\n", "Issues:", s.Issues)
	fmt.Fprintf(&b, "  %-14s %d\n", "Comments:", s.Comments)

	b.WriteString("\nBy Status\n")
	for _, status := range render.StatusOrder {
		fmt.Fprintf(&b, "  %-14s %d\n", string(status)+":", s.ByStatus[string(status)])
	}

	b.WriteString("\nBy Priority\n")
	for _, priority := range render.PriorityOrder {
		fmt.Fprintf(&b, "  %-14s %d\n", string(priority)+":", s.ByPriority[string(priority)])
	}

	return b.String()
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/softdesk/internal/db"
	"github.com/ALT-F4-LLC/softdesk/internal/model"
	"github.com/ALT-F4-LLC/softdesk/internal/output"
	"github.com/ALT-F4-LLC/softdesk/internal/render"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Inspect issues",
}

type issueListResult struct {
	Issues []*model.Issue `json:"issues"`
	Total  int            `json:"total"`
}

var issueListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List issues across projects",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		conn := getDB(cmd)
		ctx := cmd.Context()

		status, _ := cmd.Flags().GetString("status")
		projectID, _ := cmd.Flags().GetInt("project")

		if status != "" {
			if err := model.ValidateStatus(model.Status(status)); err != nil {
				return cmdErr(err, output.ErrValidation)
			}
		}

		var issues []*model.Issue
		var err error
		if projectID > 0 {
			if _, err := db.GetProject(ctx, conn, projectID); err != nil {
				return lookupErr("project", fmt.Sprint(projectID), err)
			}
			issues, err = db.ListIssues(ctx, conn, projectID)
			if err == nil && status != "" {
				issues = filterByStatus(issues, model.Status(status))
			}
		} else {
			issues, err = db.ListAllIssues(ctx, conn, model.Status(status))
		}
		if err != nil {
			return cmdErr(fmt.Errorf("listing issues: %w", err), output.ErrGeneral)
		}

		var message string
		if !w.JSONMode {
			message = render.RenderIssueTable(issues)
		}
		w.Success(issueListResult{Issues: issues, Total: len(issues)}, message)
		return nil
	},
}

func filterByStatus(issues []*model.Issue, status model.Status) []*model.Issue {
	out := make([]*model.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.Status == status {
			out = append(out, issue)
		}
	}
	return out
}

type issueDetail struct {
	Issue    *model.Issue     `json:"issue"`
	Comments []*model.Comment `json:"comments"`
	Activity []model.Activity `json:"activity"`
}

var issueShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an issue with its comments and activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		conn := getDB(cmd)
		ctx := cmd.Context()

		limit, _ := cmd.Flags().GetInt("activity")

		id, err := model.ParseID(args[0])
		if err != nil {
			return cmdErr(fmt.Errorf("invalid issue ID: %w", err), output.ErrValidation)
		}

		issue, err := db.GetIssue(ctx, conn, id)
		if err != nil {
			return lookupErr("issue", args[0], err)
		}

		comments, err := db.ListComments(ctx, conn, id)
		if err != nil {
			return cmdErr(fmt.Errorf("listing comments: %w", err), output.ErrGeneral)
		}

		activity, err := db.GetActivity(ctx, conn, id, limit)
		if err != nil {
			return cmdErr(fmt.Errorf("fetching activity: %w", err), output.ErrGeneral)
		}

		var message string
		if !w.JSONMode {
			message = render.RenderIssueDetail(issue, comments, activity)
		}
		w.Success(issueDetail{Issue: issue, Comments: comments, Activity: activity}, message)
		return nil
	},
}

func init() {
	issueListCmd.Flags().StringP("status", "s", "", "Filter by status (to-do, in progress, completed)")
	issueListCmd.Flags().IntP("project", "p", 0, "Only list issues in this project")
	issueShowCmd.Flags().Int("activity", 10, "Number of activity entries to show (0 for all)")

	issueCmd.AddCommand(issueListCmd, issueShowCmd)
	rootCmd.AddCommand(issueCmd)
}

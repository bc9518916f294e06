package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/softdesk/internal/db"
	"github.com/ALT-F4-LLC/softdesk/internal/model"
	"github.com/ALT-F4-LLC/softdesk/internal/output"
	"github.com/ALT-F4-LLC/softdesk/internal/render"
	"github.com/ALT-F4-LLC/softdesk/internal/resolve"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Inspect projects",
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List every project",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)

		projects, err := db.ListProjects(cmd.Context(), getDB(cmd))
		if err != nil {
			return cmdErr(fmt.Errorf("listing projects: %w", err), output.ErrGeneral)
		}

		var message string
		if !w.JSONMode {
			message = render.RenderProjectTable(projects)
		}
		w.Success(projects, message)
		return nil
	},
}

type projectDetail struct {
	*model.Project
	Contributors []*model.Contributor `json:"contributors"`
	Issues       []*model.Issue       `json:"issues"`
}

var projectShowCmd = &cobra.Command{
	Use:   "show <id|title>",
	Short: "Show a project with its contributors and issues",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		conn := getDB(cmd)
		ctx := cmd.Context()

		id, err := model.ParseID(args[0])
		if err != nil {
			id, err = resolve.New().Project(ctx, conn, args[0])
			if err != nil {
				return lookupErr("project", args[0], err)
			}
		}

		p, err := db.GetProject(ctx, conn, id)
		if err != nil {
			return lookupErr("project", args[0], err)
		}

		contributors, err := db.ListContributors(ctx, conn, id)
		if err != nil {
			return cmdErr(fmt.Errorf("listing contributors: %w", err), output.ErrGeneral)
		}

		issues, err := db.ListIssues(ctx, conn, id)
		if err != nil {
			return cmdErr(fmt.Errorf("listing issues: %w", err), output.ErrGeneral)
		}

		var message string
		if !w.JSONMode {
			message = render.RenderProjectDetail(p, contributors, issues)
		}
		w.Success(projectDetail{Project: p, Contributors: contributors, Issues: issues}, message)
		return nil
	},
}

// lookupErr reports a failed lookup of key, mapping missing rows to NOT_FOUND.
func lookupErr(kind, key string, err error) *CmdError {
	if errors.Is(err, db.ErrNotFound) {
		return cmdErr(fmt.Errorf("%s %q not found", kind, key), output.ErrNotFound)
	}
	return cmdErr(fmt.Errorf("fetching %s: %w", kind, err), output.CodeFor(err))
}

func init() {
	projectCmd.AddCommand(projectListCmd, projectShowCmd)
	rootCmd.AddCommand(projectCmd)
}

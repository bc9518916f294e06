package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/softdesk/internal/config"
	"github.com/ALT-F4-LLC/softdesk/internal/db"
	"github.com/ALT-F4-LLC/softdesk/internal/output"
	"github.com/ALT-F4-LLC/softdesk/internal/render"
	"github.com/ALT-F4-LLC/softdesk/internal/service"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create [username]",
	Short: "Create a user account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)

		in := service.RegisterInput{Username: config.DefaultUsername()}
		if len(args) == 1 {
			in.Username = args[0]
		}
		in.Email, _ = cmd.Flags().GetString("email")
		in.FirstName, _ = cmd.Flags().GetString("first-name")
		in.LastName, _ = cmd.Flags().GetString("last-name")

		fromStdin, _ := cmd.Flags().GetBool("password-stdin")
		switch {
		case fromStdin:
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return cmdErr(fmt.Errorf("reading password from stdin: %w", err), output.ErrValidation)
			}
			in.Password = strings.TrimRight(line, "\r\n")
		case w.JSONMode:
			return cmdErr(fmt.Errorf("--password-stdin is required in JSON mode"), output.ErrValidation)
		default:
			password, err := promptPassword(in.Username)
			if errors.Is(err, huh.ErrUserAborted) {
				w.Info("Cancelled.")
				return nil
			}
			if err != nil {
				return cmdErr(fmt.Errorf("interactive form failed: %w", err), output.ErrGeneral)
			}
			in.Password = password
		}

		user, err := getService(cmd).CreateUser(cmd.Context(), in)
		if err != nil {
			return svcErr(err)
		}

		w.Success(user, fmt.Sprintf("Created user %s (id %d)", user.Username, user.ID))
		return nil
	},
}

// promptPassword asks for a password twice and returns it once both match.
func promptPassword(username string) (string, error) {
	var password, confirm string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Password for %s", username)).
				EchoMode(huh.EchoModePassword).
				Value(&password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s != password {
						return errors.New("passwords do not match")
					}
					return nil
				}).
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return password, nil
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List user accounts",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)

		users, err := db.ListUsers(cmd.Context(), getDB(cmd))
		if err != nil {
			return cmdErr(fmt.Errorf("listing users: %w", err), output.ErrGeneral)
		}

		var message string
		if !w.JSONMode {
			message = render.RenderUserTable(users)
		}
		w.Success(users, message)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete a user account",
	Long: `Delete a user account. Projects and issues the user authored are deleted
with it; comments they wrote are kept without an author and issues
assigned to them become unassigned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		conn := getDB(cmd)
		ctx := cmd.Context()

		force, _ := cmd.Flags().GetBool("force")

		user, err := db.GetUserByUsername(ctx, conn, args[0])
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return cmdErr(fmt.Errorf("user %q not found", args[0]), output.ErrNotFound)
			}
			return cmdErr(fmt.Errorf("fetching user: %w", err), output.ErrGeneral)
		}

		if !force {
			if w.JSONMode {
				return cmdErr(fmt.Errorf("deleting %q requires --force in JSON mode", user.Username), output.ErrValidation)
			}
			var confirmed bool
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Delete user %s and everything they authored?", user.Username)).
						Affirmative("Delete").
						Negative("Cancel").
						Value(&confirmed),
				),
			)
			if err := form.Run(); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					w.Info("Cancelled.")
					return nil
				}
				return cmdErr(fmt.Errorf("interactive form failed: %w", err), output.ErrGeneral)
			}
			if !confirmed {
				w.Info("Cancelled.")
				return nil
			}
		}

		if err := db.DeleteUser(ctx, conn, user.ID); err != nil {
			return cmdErr(fmt.Errorf("deleting user: %w", err), output.ErrGeneral)
		}

		w.Success(struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
		}{user.ID, user.Username}, fmt.Sprintf("Deleted user %s", user.Username))
		return nil
	},
}

func init() {
	userCreateCmd.Flags().String("email", "", "Email address")
	userCreateCmd.Flags().String("first-name", "", "First name")
	userCreateCmd.Flags().String("last-name", "", "Last name")
	userCreateCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")
	userDeleteCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")

	userCmd.AddCommand(userCreateCmd, userListCmd, userDeleteCmd)
	rootCmd.AddCommand(userCmd)
}

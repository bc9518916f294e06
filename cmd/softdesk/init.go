package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/softdesk/internal/db"
	"github.com/ALT-F4-LLC/softdesk/internal/output"
	"github.com/ALT-F4-LLC/softdesk/internal/render"
)

type initResult struct {
	Path          string `json:"path"`
	DBPath        string `json:"db_path"`
	ConfigPath    string `json:"config_path"`
	SchemaVersion int    `json:"schema_version"`
	Created       bool   `json:"created"`
}

var initCmd = &cobra.Command{
	Use:         "init",
	Short:       "Initialize a new softdesk database",
	Annotations: map[string]string{"skipDB": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		cfg := getCfg(cmd)

		exists, err := cfg.Exists()
		if err != nil {
			return cmdErr(fmt.Errorf("checking database: %w", err), output.ErrGeneral)
		}

		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return cmdErr(fmt.Errorf("creating directory: %w", err), output.ErrGeneral)
		}

		conn, err := db.Open(cfg.DBPath)
		if err != nil {
			return cmdErr(fmt.Errorf("opening database: %w", err), output.ErrGeneral)
		}
		defer conn.Close()

		if !exists {
			if err := db.Initialize(conn); err != nil {
				return cmdErr(fmt.Errorf("initializing schema: %w", err), output.ErrGeneral)
			}
		}
		if err := db.Migrate(conn); err != nil {
			return cmdErr(fmt.Errorf("migrating schema: %w", err), output.ErrGeneral)
		}

		schemaVersion, err := db.SchemaVersion(conn)
		if err != nil {
			return cmdErr(fmt.Errorf("reading schema version: %w", err), output.ErrGeneral)
		}

		if _, err := os.Stat(cfg.ConfigPath); os.IsNotExist(err) {
			if err := cfg.WriteFile(); err != nil {
				return cmdErr(fmt.Errorf("writing config: %w", err), output.ErrGeneral)
			}
			w.Info("Wrote default settings to %s", cfg.ConfigPath)
		}

		result := initResult{
			Path:          cfg.Dir,
			DBPath:        cfg.DBPath,
			ConfigPath:    cfg.ConfigPath,
			SchemaVersion: schemaVersion,
			Created:       !exists,
		}

		if exists {
			w.Warn("Database already exists at %s", cfg.DBPath)
			w.Success(result, render.StyledText("Database already initialized", lipgloss.NewStyle().Foreground(lipgloss.Color("3"))))
			return nil
		}

		w.Success(result, render.StyledText("Initialized softdesk database", lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))))
		w.Info("Database created at %s", cfg.DBPath)
		w.Info("Create the first account with: softdesk user create")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

package main

import (
	"fmt"
	"os"
	"strings"

	humanize "github.com/dustin/go-humanize"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ALT-F4-LLC/softdesk/internal/db"
	"github.com/ALT-F4-LLC/softdesk/internal/output"
	"github.com/ALT-F4-LLC/softdesk/internal/render"
)

type configInfo struct {
	DBPath          string `json:"db_path"`
	DBSizeBytes     int64  `json:"db_size_bytes"`
	SchemaVersion   int    `json:"schema_version"`
	ConfigPath      string `json:"config_path"`
	Addr            string `json:"addr"`
	TokenTTL        string `json:"token_ttl"`
	LogLevel        string `json:"log_level"`
	SoftdeskPathEnv string `json:"softdesk_path_env"`
	SoftdeskPathSet bool   `json:"softdesk_path_set"`
}

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Display softdesk configuration",
	Annotations: map[string]string{"skipDB": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		cfg := getCfg(cmd)

		info := configInfo{
			DBPath:          cfg.DBPath,
			ConfigPath:      cfg.ConfigPath,
			Addr:            cfg.Addr,
			TokenTTL:        cfg.TokenTTL.String(),
			LogLevel:        cfg.LogLevel,
			SoftdeskPathEnv: os.Getenv("SOFTDESK_PATH"),
			SoftdeskPathSet: cfg.EnvVarSet,
		}

		exists, err := cfg.Exists()
		if err != nil {
			return cmdErr(fmt.Errorf("checking database: %w", err), output.ErrGeneral)
		}

		if !exists {
			w.Warn("No softdesk database found. Run 'softdesk init' to create one.")
			w.Success(info, formatConfigHuman(info, true))
			return nil
		}

		conn, err := db.Open(cfg.DBPath)
		if err != nil {
			return cmdErr(fmt.Errorf("opening database: %w", err), output.ErrGeneral)
		}
		defer conn.Close()

		info.SchemaVersion, err = db.SchemaVersion(conn)
		if err != nil {
			return cmdErr(fmt.Errorf("reading schema version: %w", err), output.ErrGeneral)
		}

		stat, err := os.Stat(cfg.DBPath)
		if err != nil {
			return cmdErr(fmt.Errorf("reading database file: %w", err), output.ErrGeneral)
		}
		info.DBSizeBytes = stat.Size()

		w.Success(info, formatConfigHuman(info, false))
		return nil
	},
}

func formatEnvValue(val string) string {
	if val == "" {
		return "(not set)"
	}
	return val
}

// configRows returns label/value pairs in display order.
func configRows(info configInfo, notFound bool) [][2]string {
	dbPath := info.DBPath
	if notFound {
		dbPath += " (not found)"
	}
	rows := [][2]string{{"Database path:", dbPath}}
	if !notFound {
		rows = append(rows,
			[2]string{"Database size:", humanize.Bytes(uint64(info.DBSizeBytes))},
			[2]string{"Schema version:", fmt.Sprintf("%d", info.SchemaVersion)},
		)
	}
	return append(rows,
		[2]string{"Config file:", info.ConfigPath},
		[2]string{"Listen address:", info.Addr},
		[2]string{"Token lifetime:", info.TokenTTL},
		[2]string{"Log level:", info.LogLevel},
		[2]string{"SOFTDESK_PATH:", formatEnvValue(info.SoftdeskPathEnv)},
	)
}

func formatConfigHuman(info configInfo, notFound bool) string {
	rows := configRows(info, notFound)

	if !render.ColorsEnabled() {
		var b strings.Builder
		for _, r := range rows {
			fmt.Fprintf(&b, "%-16s %s\n", r[0], r[1])
		}
		return strings.TrimRight(b.String(), "\n")
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(16)
	valStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))

	indicator := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("●")
	if notFound {
		indicator = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("●")
	}

	lines := []string{headerStyle.Render("Softdesk Configuration"), ""}
	for i, r := range rows {
		val := valStyle.Render(r[1])
		if i == 0 {
			val = indicator + " " + val
		}
		lines = append(lines, fmt.Sprintf("  %s %s", keyStyle.Render(r[0]), val))
	}
	return strings.Join(lines, "\n")
}

func init() {
	rootCmd.AddCommand(configCmd)
}

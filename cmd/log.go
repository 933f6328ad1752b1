package cmd

import (
	"fmt"

	"github.com/aroha-labs/rata/internal/audit"
	"github.com/aroha-labs/rata/internal/ui"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the credentials operation log",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := currentSettings()

		entries, err := audit.ReadEntries(settings.AuditLogPath())
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read operation log: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No operations recorded yet.")
			return nil
		}

		for _, entry := range entries {
			line := entry.Timestamp + "  " + ui.Highlight.Sprint(entry.Operation)
			if entry.User != "" {
				line += "  by " + entry.User
			}
			if entry.Path != "" {
				line += "  " + ui.Path.Sprint(entry.Path)
			}
			if entry.Operation == "edit" && !entry.Committed {
				line += "  (no changes)"
			}
			fmt.Println(line)
		}
		return nil
	},
}

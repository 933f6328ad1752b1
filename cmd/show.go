package cmd

import (
	"fmt"

	"github.com/aroha-labs/rata/internal/workflows"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the decrypted credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting show command")

		content, err := workflows.Show(cmd.Context(), workflows.ShowOptions{
			Settings: currentSettings(),
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to show credentials: %w", err)
		}

		fmt.Print(string(content))
		return nil
	},
}

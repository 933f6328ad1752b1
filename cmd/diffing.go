package cmd

import (
	"fmt"

	"github.com/aroha-labs/rata/internal/ui"
	"github.com/aroha-labs/rata/internal/workflows"

	"github.com/spf13/cobra"
)

var diffingCmd = &cobra.Command{
	Use:   "diffing",
	Short: "Manage git diff integration for the encrypted credentials",
}

func init() {
	diffingCmd.AddCommand(diffingEnrollCmd)
	diffingCmd.AddCommand(diffingDisenrollCmd)
}

var diffingEnrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Enroll the project in decrypted credentials diffing",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting diffing enroll command")

		result, err := workflows.EnrollDiffing(cmd.Context(), workflows.DiffingOptions{
			Settings: currentSettings(),
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to enroll in credentials diffing: %w", err)
		}

		if result.AlreadyEnrolled {
			fmt.Println("Project is already enrolled in credentials diffing.")
		} else {
			fmt.Println(ui.Success.Sprint("✓") + " Enrolled project in credentials diffing via " + ui.Path.Sprint(result.AttributesPath))
		}
		if !result.DriverConfigured {
			Logger.WarnfUser("Could not register the git diff driver. Is this a git repository?")
		}
		return nil
	},
}

var diffingDisenrollCmd = &cobra.Command{
	Use:   "disenroll",
	Short: "Disenroll the project from decrypted credentials diffing",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting diffing disenroll command")

		result, err := workflows.DisenrollDiffing(cmd.Context(), workflows.DiffingOptions{
			Settings: currentSettings(),
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to disenroll from credentials diffing: %w", err)
		}

		if result.NotEnrolled {
			fmt.Println("Project is not enrolled in credentials diffing.")
		} else {
			fmt.Println(ui.Success.Sprint("✓") + " Disenrolled project from credentials diffing")
		}
		return nil
	},
}

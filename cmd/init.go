package cmd

import (
	"github.com/aroha-labs/rata/internal/ui"
	"github.com/aroha-labs/rata/internal/workflows"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var initSkipDiffing bool

func init() {
	initCmd.Flags().BoolVar(&initSkipDiffing, "skip-diffing", false, "do not enroll the project in git credentials diffing")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up encrypted credentials for this project",
	Long: `Creates a master key (unless one is already available), an empty
encrypted credentials document, and git diff enrollment in one step.
Running init on an already-initialized project changes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")
		spinner, cleanup := startSpinner("Initializing credentials...", verbose)
		defer cleanup()

		result, err := workflows.Init(cmd.Context(), workflows.InitOptions{
			Settings:    currentSettings(),
			SkipDiffing: initSkipDiffing,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to initialize credentials: %w", err)
		}

		finalMessage := ""
		if result.KeyGenerated {
			finalMessage += ui.Success.Sprint("✓") + " Master key " + ui.Highlight.Sprint(result.Key) + " created at " + ui.Path.Sprint(result.KeyPath) + "\n" +
				ui.Warning.Sprint("  Keep this key out of version control!") + "\n"
		}
		if result.CredentialsCreated {
			finalMessage += ui.Success.Sprint("✓") + " Created empty encrypted credentials at " + ui.Path.Sprint(result.CredentialsPath) + "\n"
		}
		if result.Diffing != nil && !result.Diffing.AlreadyEnrolled {
			finalMessage += ui.Success.Sprint("✓") + " Enrolled project in credentials diffing\n"
		}
		if finalMessage == "" {
			finalMessage = "Project is already initialized.\n"
		} else {
			finalMessage += ui.Info.Sprint("→ ") + "Run " + ui.Code.Sprint("rata edit") + " to add your first secrets"
		}
		spinner.FinalMSG = finalMessage

		if result.KeyGenerated && !verbose && !debug {
			spinner.Stop()
			banner := figure.NewColorFigure("Rata", "alligator2", "green", true)
			banner.Print()
			spinner.Restart()
		}

		return nil
	},
}

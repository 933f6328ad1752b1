package cmd

import (
	"errors"

	rerrors "github.com/aroha-labs/rata/internal/errors"
	logger "github.com/aroha-labs/rata/internal/logging"
	"github.com/aroha-labs/rata/internal/ui"
	"github.com/aroha-labs/rata/internal/workflows"

	"github.com/spf13/cobra"
)

var generateKeyForce bool

func init() {
	generateKeyCmd.Flags().BoolVarP(&generateKeyForce, "force", "f", false, "overwrite an existing master key file")
}

// resetGenerateKeyState resets the generate-key command's flags for testing.
func resetGenerateKeyState() {
	generateKeyForce = false
}

var generateKeyCmd = &cobra.Command{
	Use:   "generate-key",
	Short: "Generate a new master key file",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting generate-key command")
		spinner, cleanup := startSpinner("Generating master key...", verbose)
		defer cleanup()

		settings := currentSettings()

		if generateKeyForce {
			Logger.WarnfUser("Overwriting the master key makes existing encrypted credentials unreadable")
		}

		result, err := workflows.GenerateKey(cmd.Context(), workflows.GenerateKeyOptions{
			Settings: settings,
			Force:    generateKeyForce,
		})
		if errors.Is(err, rerrors.ErrMasterKeyExists) {
			spinner.FinalMSG = ui.Error.Sprint("✗ ") + "A master key already exists at " + ui.Path.Sprint(settings.MasterKeyPath) + "\n" +
				ui.Info.Sprint("→ ") + "To replace it, run: " + ui.Code.Sprint("rata generate-key --force")
			return logger.MarkReported(err)
		}
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to generate master key: %w", err)
		}

		Logger.Infof("Master key written to %s", result.Path)
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Master key " + ui.Highlight.Sprint(result.Key) + " created at " + ui.Path.Sprint(result.Path) + "\n" +
			ui.Warning.Sprint("Keep this key out of version control!") + "\n" +
			ui.Info.Sprint("→ ") + "Teammates can instead set it as " + ui.Highlight.Sprint(settings.MasterKeyEnv)
		return nil
	},
}

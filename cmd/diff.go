package cmd

import (
	"os"

	"github.com/aroha-labs/rata/internal/workflows"

	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff <path>",
	Short: "Decrypt an encrypted file to stdout for git diffing",
	Long: `Decrypts the given encrypted file and streams the plaintext to stdout.
Intended as a git textconv driver (see ` + "`rata diffing enroll`" + `), so diffs
against history show decrypted content without plaintext touching disk.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Debugf("Rendering decrypted diff for %s", args[0])

		err := workflows.Diff(cmd.Context(), workflows.DiffOptions{
			Settings: currentSettings(),
			Path:     args[0],
			Out:      os.Stdout,
		})
		if err != nil {
			// Be loud: a silent failure here corrupts diff output.
			return Logger.ErrorfAndReturn("Failed to render decrypted diff: %w", err)
		}
		return nil
	},
}

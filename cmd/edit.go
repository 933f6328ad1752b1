package cmd

import (
	"fmt"
	"os"

	"github.com/aroha-labs/rata/internal/ui"
	"github.com/aroha-labs/rata/internal/utils"
	"github.com/aroha-labs/rata/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	editEditor  string
	editPretend bool
)

func init() {
	editCmd.Flags().StringVar(&editEditor, "editor", "", "editor command to use (defaults to $VISUAL, then $EDITOR)")
	editCmd.Flags().BoolVar(&editPretend, "pretend", false, "stage the credentials but do not edit or save")
}

// resetEditState resets the edit command's flags for testing.
func resetEditState() {
	editEditor = ""
	editPretend = false
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the credentials in your editor",
	Long: `Decrypts the credentials into a private temporary file, opens your editor
on it, and re-encrypts the result when you save and quit. The temporary
plaintext is scrubbed afterwards no matter how the session ends.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting edit command")
		settings := currentSettings()
		settings.Editor = editEditor

		opts := workflows.EditOptions{
			Settings: settings,
			Pretend:  editPretend,
		}
		if utils.IsTerminal() {
			// Parse failures re-open the editor instead of discarding the
			// user's edits.
			opts.RetryOnMalformed = func(parseErr error) bool {
				fmt.Fprintln(os.Stderr, ui.Warning.Sprint("! ")+"Your edits are not valid YAML: "+parseErr.Error())
				fmt.Fprintln(os.Stderr, ui.Info.Sprint("→ ")+"Press Enter to re-open the editor, or Ctrl-C to abort")
				return utils.WaitForEnter() == nil
			}
		}

		result, err := workflows.Edit(cmd.Context(), opts)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to edit credentials: %w", err)
		}

		switch {
		case result.Pretend:
			fmt.Println(ui.Info.Sprint("→ ") + "Pretend mode: nothing was edited or saved")
		case result.Created:
			fmt.Println(ui.Success.Sprint("✓") + " Created encrypted credentials at " + ui.Path.Sprint(result.Path))
		case result.Changed:
			fmt.Println(ui.Success.Sprint("✓") + " Credentials updated")
		default:
			fmt.Println("No changes made.")
		}
		return nil
	},
}

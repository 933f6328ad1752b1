package cmd

import (
	"fmt"

	"github.com/aroha-labs/rata/internal/workflows"

	"github.com/spf13/cobra"
)

var fetchDefault string

func init() {
	fetchCmd.Flags().StringVar(&fetchDefault, "default", "", "value to print when the key path does not exist")
}

// resetFetchState resets the fetch command's flags for testing.
func resetFetchState() {
	fetchDefault = ""
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <key-path>",
	Short: "Print a single credentials value for scripting",
	Long: `Resolves a dotted key path like ` + "`aws.s3.secret_key`" + ` in the decrypted
credentials and prints the value. Missing paths are an error unless
--default is given, so scripts never receive a silent empty value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Debugf("Fetching key path %s", args[0])

		value, err := workflows.Fetch(cmd.Context(), workflows.FetchOptions{
			Settings:    currentSettings(),
			KeyPath:     args[0],
			HasFallback: cmd.Flags().Changed("default"),
			Fallback:    fetchDefault,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to fetch %s: %w", args[0], err)
		}

		fmt.Println(value)
		return nil
	},
}

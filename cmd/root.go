package cmd

import (
	"github.com/aroha-labs/rata/internal/configs"
	logger "github.com/aroha-labs/rata/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose         bool
	debug           bool
	credentialsPath string
	masterKeyPath   string
	Logger          logger.Logger

	RootCmd = &cobra.Command{
		Use:   "rata",
		Short: "Manage encrypted project credentials",
		Long: `Rata keeps a single document of sensitive configuration encrypted at rest
in version control. Only holders of the master key can decrypt it, and
editing never leaves a plaintext copy on disk.

The master key is read from $` + configs.MasterKeyEnv + ` or ` + configs.DefaultMasterKeyPath + `.
Keep the key file out of version control; commit the encrypted file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing rata with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&credentialsPath, "credentials-path", "", "path to the encrypted credentials file")
	RootCmd.PersistentFlags().StringVar(&masterKeyPath, "master-key-path", "", "path to the master key file")

	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(generateKeyCmd)
	RootCmd.AddCommand(editCmd)
	RootCmd.AddCommand(showCmd)
	RootCmd.AddCommand(diffCmd)
	RootCmd.AddCommand(fetchCmd)
	RootCmd.AddCommand(diffingCmd)
	RootCmd.AddCommand(logCmd)
}

// currentSettings builds per-invocation settings from the persistent flags.
func currentSettings() *configs.Settings {
	return configs.NewSettings(credentialsPath, masterKeyPath)
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global flag variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	credentialsPath = ""
	masterKeyPath = ""
	resetGenerateKeyState()
	resetEditState()
	resetFetchState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears the Changed marker on every flag to prevent
// test pollution between command invocations.
func resetCobraFlagState(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetCobraFlagState(sub)
	}
}

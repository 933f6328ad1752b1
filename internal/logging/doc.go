// Package logger provides leveled logging for Rata CLI commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is prefixed and colored with fatih/color.
//
// # Verbosity Levels
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details
//
// Without flags, only warnings and errors are shown.
//
// # Usage
//
// Commands create a logger in their PersistentPreRun:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Staged credentials at %s", path)
package logger

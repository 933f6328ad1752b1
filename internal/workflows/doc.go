// Package workflows provides high-level orchestration for Rata commands.
//
// Workflows coordinate operations across packages (configs, credentials,
// audit) to implement complete user-facing features, independent of CLI
// concerns like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Resolving settings and the master key
//   - Performing the core operation
//   - Recording audit trail entries
//
// # Error Handling
//
// Workflows return sentinel errors from the internal/errors package,
// allowing the CLI layer to provide appropriate user-facing messages and
// exit codes without string matching:
//
//	result, err := workflows.Edit(ctx, opts)
//	if errors.Is(err, rerrors.ErrMasterKeyMissing) {
//	    // Show how to provide a key.
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first
// parameter. The editor launch is the only long-running step and is bound
// to that context.
package workflows

package workflows

import (
	"context"

	"github.com/aroha-labs/rata/internal/audit"
	"github.com/aroha-labs/rata/internal/configs"
	"github.com/aroha-labs/rata/internal/credentials"
)

// GenerateKeyOptions configures the generate-key workflow.
type GenerateKeyOptions struct {
	Settings *configs.Settings

	// Force overwrites an existing master key file.
	Force bool
}

// GenerateKeyResult contains the outcome of a generate-key operation.
type GenerateKeyResult struct {
	// Key is the encoded master key, for display to the user exactly once.
	Key string

	// Path is where the key file was written.
	Path string
}

// GenerateKey mints a new random master key and writes it to the key file
// with owner-only permissions.
//
// Returns ErrMasterKeyExists if a key file is already present and Force is
// not set, so an existing key is never silently destroyed.
func GenerateKey(ctx context.Context, opts GenerateKeyOptions) (*GenerateKeyResult, error) {
	encoded, err := credentials.GenerateKey()
	if err != nil {
		return nil, err
	}

	if err := credentials.WriteKeyFile(opts.Settings.MasterKeyPath, encoded, opts.Force); err != nil {
		return nil, err
	}

	entry := audit.NewEntry("generate-key")
	entry.KeyPath = opts.Settings.MasterKeyPath
	audit.Log(opts.Settings.AuditLogPath(), entry)

	return &GenerateKeyResult{
		Key:  encoded,
		Path: opts.Settings.MasterKeyPath,
	}, nil
}

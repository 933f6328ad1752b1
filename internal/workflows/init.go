package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aroha-labs/rata/internal/audit"
	"github.com/aroha-labs/rata/internal/configs"
	"github.com/aroha-labs/rata/internal/credentials"
	rerrors "github.com/aroha-labs/rata/internal/errors"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	Settings *configs.Settings

	// SkipDiffing leaves git diff enrollment to a later
	// `rata diffing enroll`.
	SkipDiffing bool
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// KeyGenerated reports whether a new master key file was written.
	// Key holds the encoded key in that case, for one-time display.
	KeyGenerated bool
	Key          string
	KeyPath      string

	// CredentialsCreated reports whether an empty encrypted document was
	// created.
	CredentialsCreated bool
	CredentialsPath    string

	// Diffing is the enrollment outcome, nil when skipped.
	Diffing *DiffingResult
}

// Init sets up a project in one step: a master key (unless one is already
// resolvable), an empty encrypted credentials document (unless one
// exists), and git diff enrollment. Every step is idempotent, so running
// init on an already-initialized project changes nothing.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	result := &InitResult{
		KeyPath:         opts.Settings.MasterKeyPath,
		CredentialsPath: opts.Settings.CredentialsPath,
	}

	key, err := credentials.ResolveKey(opts.Settings)
	if errors.Is(err, rerrors.ErrMasterKeyMissing) {
		encoded, err := credentials.GenerateKey()
		if err != nil {
			return nil, err
		}
		if err := credentials.WriteKeyFile(opts.Settings.MasterKeyPath, encoded, false); err != nil {
			return nil, err
		}
		key, err = credentials.ParseMasterKey(encoded)
		if err != nil {
			return nil, err
		}
		result.KeyGenerated = true
		result.Key = encoded
	} else if err != nil {
		return nil, err
	}

	if _, err := os.Stat(opts.Settings.CredentialsPath); os.IsNotExist(err) {
		plaintext, err := credentials.NewDocument().Serialize()
		if err != nil {
			return nil, err
		}
		envelope, err := credentials.Encrypt(plaintext, key)
		if err != nil {
			return nil, err
		}
		if err := credentials.WriteEnvelopeAtomic(opts.Settings.CredentialsPath, envelope); err != nil {
			return nil, err
		}
		result.CredentialsCreated = true
	} else if err != nil {
		return nil, fmt.Errorf("failed to check credentials file: %w", err)
	}

	if !opts.SkipDiffing {
		diffing, err := EnrollDiffing(ctx, DiffingOptions{Settings: opts.Settings})
		if err != nil {
			return nil, err
		}
		result.Diffing = diffing
	}

	entry := audit.NewEntry("init")
	entry.Path = opts.Settings.CredentialsPath
	audit.Log(opts.Settings.AuditLogPath(), entry)

	return result, nil
}

package workflows

import (
	"bytes"
	"context"

	"github.com/aroha-labs/rata/internal/configs"
	"github.com/aroha-labs/rata/internal/credentials"
)

// ShowOptions configures the show workflow.
type ShowOptions struct {
	Settings *configs.Settings
}

// Show decrypts the credentials and returns them as normalized YAML.
// Nothing is written to disk.
//
// Returns ErrCredentialsNotFound if the encrypted file does not exist,
// ErrMasterKeyMissing/ErrMasterKeyInvalid if no usable key is available,
// and ErrAuthenticationFailed if the envelope cannot be opened.
func Show(ctx context.Context, opts ShowOptions) ([]byte, error) {
	doc, err := loadDocument(opts.Settings)
	if err != nil {
		return nil, err
	}
	return doc.Serialize()
}

// loadDocument resolves the key, reads the envelope, and decrypts and
// parses the credentials document. Shared by the read-only workflows.
func loadDocument(settings *configs.Settings) (*credentials.Document, error) {
	key, err := credentials.ResolveKey(settings)
	if err != nil {
		return nil, err
	}

	envelope, err := credentials.ReadEnvelope(settings.CredentialsPath)
	if err != nil {
		return nil, err
	}

	var plaintext []byte
	if len(bytes.TrimSpace(envelope)) > 0 {
		plaintext, err = credentials.Decrypt(envelope, key)
		if err != nil {
			return nil, err
		}
	}

	return credentials.ParseDocument(plaintext)
}

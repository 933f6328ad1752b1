package workflows

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aroha-labs/rata/internal/configs"
	"github.com/aroha-labs/rata/internal/credentials"
)

// DiffOptions configures the diff workflow.
type DiffOptions struct {
	Settings *configs.Settings

	// Path is the encrypted file to render. Git passes this as the
	// textconv argument, so it may name a blob staged outside the
	// configured credentials path.
	Path string

	// Out receives the decrypted plaintext.
	Out io.Writer
}

// Diff decrypts the envelope at Path and streams the plaintext to Out for
// use as a git textconv driver. It is stateless: no plaintext is written
// to disk anywhere.
//
// A missing or invalid master key is a hard error: emitting nothing, or
// worse the raw ciphertext, would silently corrupt the diff output.
func Diff(ctx context.Context, opts DiffOptions) error {
	key, err := credentials.ResolveKey(opts.Settings)
	if err != nil {
		return err
	}

	envelope, err := credentials.ReadEnvelope(opts.Path)
	if err != nil {
		return err
	}

	if len(bytes.TrimSpace(envelope)) == 0 {
		return nil
	}

	plaintext, err := credentials.Decrypt(envelope, key)
	if err != nil {
		return err
	}

	if _, err := opts.Out.Write(plaintext); err != nil {
		return fmt.Errorf("failed to write decrypted content: %w", err)
	}
	return nil
}

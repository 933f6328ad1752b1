package credentials

import (
	"fmt"
	"os"
	"path/filepath"

	rerrors "github.com/aroha-labs/rata/internal/errors"
)

// ReadEnvelope reads the encrypted credentials file.
//
// Returns ErrCredentialsNotFound if the file does not exist.
func ReadEnvelope(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", rerrors.ErrCredentialsNotFound, path)
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return data, nil
}

// WriteEnvelopeAtomic replaces the credentials file via a temporary file in
// the same directory: write, fsync, then rename. A crash mid-write leaves
// the previous file untouched; the temp file is the only possible casualty.
func WriteEnvelopeAtomic(path string, envelope []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = tmp.Chmod(0600); err != nil {
		return fmt.Errorf("failed to restrict permissions on %s: %w", tmpPath, err)
	}
	if _, err = tmp.Write(envelope); err != nil {
		return fmt.Errorf("failed to write envelope: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to flush envelope: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace credentials file: %w", err)
	}

	return nil
}

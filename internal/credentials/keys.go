package credentials

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aroha-labs/rata/internal/configs"
	rerrors "github.com/aroha-labs/rata/internal/errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// masterKeyBytes is the raw entropy behind a master key. The encoded
	// form is 44 characters of URL-safe base64.
	masterKeyBytes = 32

	kdfIterations = 100_000
)

// kdfSalt is fixed: the master key itself is full-entropy random, so the
// KDF only serves to stretch it into the secretbox key shape.
var kdfSalt = []byte("rata.credentials.v1")

// MasterKey is the resolved secret used to seal and open envelopes. It is
// held only in memory and never logged.
type MasterKey struct {
	cipherKey [32]byte
}

// GenerateKey produces a new random master key in its encoded form.
func GenerateKey() (string, error) {
	raw := make([]byte, masterKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate master key: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

// ParseMasterKey validates an encoded master key and derives the cipher key
// from it. Surrounding whitespace is ignored.
func ParseMasterKey(encoded string) (MasterKey, error) {
	trimmed := strings.TrimSpace(encoded)
	if trimmed == "" {
		return MasterKey{}, fmt.Errorf("%w: key is empty", rerrors.ErrMasterKeyInvalid)
	}

	raw, err := base64.URLEncoding.DecodeString(trimmed)
	if err != nil {
		return MasterKey{}, fmt.Errorf("%w: not URL-safe base64", rerrors.ErrMasterKeyInvalid)
	}
	if len(raw) != masterKeyBytes {
		return MasterKey{}, fmt.Errorf("%w: expected %d key bytes, got %d", rerrors.ErrMasterKeyInvalid, masterKeyBytes, len(raw))
	}

	var key MasterKey
	derived := pbkdf2.Key([]byte(trimmed), kdfSalt, kdfIterations, 32, sha256.New)
	copy(key.cipherKey[:], derived)
	return key, nil
}

// ResolveKey locates the master key, trying the environment variable first
// and the key file second.
//
// Returns ErrMasterKeyMissing when neither source yields a value and
// ErrMasterKeyInvalid when a value is present but malformed.
func ResolveKey(settings *configs.Settings) (MasterKey, error) {
	if value := os.Getenv(settings.MasterKeyEnv); strings.TrimSpace(value) != "" {
		return ParseMasterKey(value)
	}

	data, err := os.ReadFile(settings.MasterKeyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return MasterKey{}, fmt.Errorf("%w: set %s or create %s",
				rerrors.ErrMasterKeyMissing, settings.MasterKeyEnv, settings.MasterKeyPath)
		}
		return MasterKey{}, fmt.Errorf("failed to read master key file: %w", err)
	}

	return ParseMasterKey(string(data))
}

// WriteKeyFile persists an encoded master key with owner-only permissions.
//
// Returns ErrMasterKeyExists if a key file is already present and force is
// not set.
func WriteKeyFile(path string, encoded string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", rerrors.ErrMasterKeyExists, path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(encoded+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write master key file: %w", err)
	}
	// WriteFile does not change the mode of a pre-existing file.
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to restrict key file permissions: %w", err)
	}

	return nil
}

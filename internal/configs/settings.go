package configs

import (
	"os"
	"path/filepath"
	"strings"
)

// Defaults for the on-disk layout. Both paths are relative to the project
// root, which keeps the encrypted file committable and the key file easy
// to gitignore.
const (
	DefaultCredentialsPath = "config/credentials.yml.enc"
	DefaultMasterKeyPath   = "config/master.key"

	// MasterKeyEnv is the canonical environment variable consulted before
	// the key file.
	MasterKeyEnv = "RATA_MASTER_KEY"

	// DiffDriverName is the git diff driver registered by `rata diffing enroll`.
	DiffDriverName = "rata_credentials"
)

// Settings carries the resolved paths and editor choice for one invocation.
// It is constructed once per command and passed to workflows explicitly;
// there is no process-wide mutable state.
type Settings struct {
	// CredentialsPath is the location of the encrypted credentials file.
	CredentialsPath string

	// MasterKeyPath is the location of the master key file.
	MasterKeyPath string

	// MasterKeyEnv is the environment variable holding the master key.
	MasterKeyEnv string

	// Editor overrides $VISUAL/$EDITOR when non-empty.
	Editor string
}

// NewSettings builds settings from CLI overrides, falling back to defaults.
func NewSettings(credentialsPath, masterKeyPath string) *Settings {
	if credentialsPath == "" {
		credentialsPath = DefaultCredentialsPath
	}
	if masterKeyPath == "" {
		masterKeyPath = DefaultMasterKeyPath
	}
	return &Settings{
		CredentialsPath: credentialsPath,
		MasterKeyPath:   masterKeyPath,
		MasterKeyEnv:    MasterKeyEnv,
	}
}

// EditorCommand returns the editor argv to launch, honoring the explicit
// override first, then $VISUAL, then $EDITOR, then vi. The value is split
// on whitespace so entries like "code --wait" work.
func (s *Settings) EditorCommand() []string {
	for _, candidate := range []string{s.Editor, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// AuditLogPath returns the operation log location, kept beside the
// credentials file so it travels with the project.
func (s *Settings) AuditLogPath() string {
	return filepath.Join(filepath.Dir(s.CredentialsPath), "credentials.audit.jsonl")
}

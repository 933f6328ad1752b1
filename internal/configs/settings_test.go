package configs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSettingsDefaults(t *testing.T) {
	settings := NewSettings("", "")

	assert.Equal(t, "config/credentials.yml.enc", settings.CredentialsPath)
	assert.Equal(t, "config/master.key", settings.MasterKeyPath)
	assert.Equal(t, "RATA_MASTER_KEY", settings.MasterKeyEnv)
}

func TestNewSettingsOverrides(t *testing.T) {
	settings := NewSettings("secrets/prod.yml.enc", "secrets/prod.key")

	assert.Equal(t, "secrets/prod.yml.enc", settings.CredentialsPath)
	assert.Equal(t, "secrets/prod.key", settings.MasterKeyPath)
}

func TestEditorCommandPrecedence(t *testing.T) {
	t.Setenv("VISUAL", "code --wait")
	t.Setenv("EDITOR", "nano")

	settings := NewSettings("", "")
	assert.Equal(t, []string{"code", "--wait"}, settings.EditorCommand())

	settings.Editor = "vim -n"
	assert.Equal(t, []string{"vim", "-n"}, settings.EditorCommand())
}

func TestEditorCommandFallbacks(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "nano")

	settings := NewSettings("", "")
	assert.Equal(t, []string{"nano"}, settings.EditorCommand())

	t.Setenv("EDITOR", "")
	assert.Equal(t, []string{"vi"}, settings.EditorCommand())
}

func TestAuditLogPathSitsBesideCredentials(t *testing.T) {
	settings := NewSettings(filepath.Join("deep", "nested", "creds.yml.enc"), "")
	assert.Equal(t, filepath.Join("deep", "nested", "credentials.audit.jsonl"), settings.AuditLogPath())
}

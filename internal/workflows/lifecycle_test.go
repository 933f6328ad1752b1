package workflows

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aroha-labs/rata/internal/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCredentialsLifecycle walks the full happy path the way a user would:
// generate a key, edit in a document, read it back three different ways.
func TestCredentialsLifecycle(t *testing.T) {
	settings := testSettings(t)
	require.NoError(t, os.Remove(settings.MasterKeyPath))

	keyResult, err := GenerateKey(context.Background(), GenerateKeyOptions{Settings: settings})
	require.NoError(t, err)
	require.Len(t, keyResult.Key, 44)

	scriptEditor(t, settings, "api:\n  token: abc\n")
	editResult, err := Edit(context.Background(), EditOptions{Settings: settings})
	require.NoError(t, err)
	assert.True(t, editResult.Changed)
	assert.True(t, editResult.Created)

	// The envelope on disk is text and carries no plaintext.
	envelope, err := os.ReadFile(settings.CredentialsPath)
	require.NoError(t, err)
	assert.NotContains(t, string(envelope), "abc")
	assert.NotContains(t, string(envelope), "token")

	content, err := Show(context.Background(), ShowOptions{Settings: settings})
	require.NoError(t, err)
	assert.Equal(t, "api:\n  token: abc\n", string(content))

	configDir := filepath.Dir(settings.CredentialsPath)
	before, err := os.ReadDir(configDir)
	require.NoError(t, err)

	var diffed bytes.Buffer
	require.NoError(t, Diff(context.Background(), DiffOptions{
		Settings: settings,
		Path:     settings.CredentialsPath,
		Out:      &diffed,
	}))
	assert.Equal(t, string(content), diffed.String(), "diff and show must agree")

	after, err := os.ReadDir(configDir)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))

	value, err := Fetch(context.Background(), FetchOptions{Settings: settings, KeyPath: "api.token"})
	require.NoError(t, err)
	assert.Equal(t, "abc", value)
}

func TestLifecycleWritesAuditTrail(t *testing.T) {
	settings := testSettings(t)
	require.NoError(t, os.Remove(settings.MasterKeyPath))

	_, err := GenerateKey(context.Background(), GenerateKeyOptions{Settings: settings})
	require.NoError(t, err)

	scriptEditor(t, settings, "token: abc\n")
	_, err = Edit(context.Background(), EditOptions{Settings: settings})
	require.NoError(t, err)

	entries, err := audit.ReadEntries(settings.AuditLogPath())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "generate-key", entries[0].Operation)
	assert.Equal(t, "edit", entries[1].Operation)
	assert.True(t, entries[1].Committed)

	// The log records operations, never content.
	raw, err := os.ReadFile(settings.AuditLogPath())
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "abc"), "audit log must not contain plaintext")
}

package credentials

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/aroha-labs/rata/internal/configs"
	rerrors "github.com/aroha-labs/rata/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeyShape(t *testing.T) {
	first, err := GenerateKey()
	require.NoError(t, err)
	second, err := GenerateKey()
	require.NoError(t, err)

	assert.Len(t, first, 44, "32 random bytes encode to 44 base64 characters")
	assert.NotEqual(t, first, second)

	_, err = ParseMasterKey(first)
	assert.NoError(t, err, "generated keys must parse")
}

func TestParseMasterKeyTrimsWhitespace(t *testing.T) {
	encoded, err := GenerateKey()
	require.NoError(t, err)

	bare, err := ParseMasterKey(encoded)
	require.NoError(t, err)
	padded, err := ParseMasterKey("  " + encoded + "\n")
	require.NoError(t, err)

	assert.Equal(t, bare, padded)
}

func TestParseMasterKeyRejectsInvalid(t *testing.T) {
	for _, encoded := range []string{
		"",
		"   \n",
		"not!base64@@",
		"c2hvcnQ=", // decodes to 5 bytes
	} {
		_, err := ParseMasterKey(encoded)
		assert.ErrorIs(t, err, rerrors.ErrMasterKeyInvalid, "key %q must be rejected", encoded)
	}
}

func testSettings(t *testing.T) *configs.Settings {
	t.Helper()
	dir := t.TempDir()
	return &configs.Settings{
		CredentialsPath: filepath.Join(dir, "config", "credentials.yml.enc"),
		MasterKeyPath:   filepath.Join(dir, "config", "master.key"),
		MasterKeyEnv:    "RATA_MASTER_KEY",
	}
}

func TestResolveKeyPrefersEnvironment(t *testing.T) {
	settings := testSettings(t)

	envKey, err := GenerateKey()
	require.NoError(t, err)
	fileKey, err := GenerateKey()
	require.NoError(t, err)
	require.NoError(t, WriteKeyFile(settings.MasterKeyPath, fileKey, false))

	t.Setenv(settings.MasterKeyEnv, envKey)

	resolved, err := ResolveKey(settings)
	require.NoError(t, err)

	expected, err := ParseMasterKey(envKey)
	require.NoError(t, err)
	assert.Equal(t, expected, resolved)
}

func TestResolveKeyFallsBackToFile(t *testing.T) {
	settings := testSettings(t)
	t.Setenv(settings.MasterKeyEnv, "")

	encoded, err := GenerateKey()
	require.NoError(t, err)
	require.NoError(t, WriteKeyFile(settings.MasterKeyPath, encoded, false))

	resolved, err := ResolveKey(settings)
	require.NoError(t, err)

	expected, err := ParseMasterKey(encoded)
	require.NoError(t, err)
	assert.Equal(t, expected, resolved)
}

func TestResolveKeyMissingEverywhere(t *testing.T) {
	settings := testSettings(t)
	t.Setenv(settings.MasterKeyEnv, "")

	_, err := ResolveKey(settings)
	assert.ErrorIs(t, err, rerrors.ErrMasterKeyMissing)
}

func TestResolveKeyInvalidInFile(t *testing.T) {
	settings := testSettings(t)
	t.Setenv(settings.MasterKeyEnv, "")

	require.NoError(t, os.MkdirAll(filepath.Dir(settings.MasterKeyPath), 0755))
	require.NoError(t, os.WriteFile(settings.MasterKeyPath, []byte("garbage"), 0600))

	_, err := ResolveKey(settings)
	assert.ErrorIs(t, err, rerrors.ErrMasterKeyInvalid)
}

func TestWriteKeyFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on Windows")
	}
	settings := testSettings(t)

	encoded, err := GenerateKey()
	require.NoError(t, err)
	require.NoError(t, WriteKeyFile(settings.MasterKeyPath, encoded, false))

	info, err := os.Stat(settings.MasterKeyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteKeyFileRefusesToOverwrite(t *testing.T) {
	settings := testSettings(t)

	first, err := GenerateKey()
	require.NoError(t, err)
	require.NoError(t, WriteKeyFile(settings.MasterKeyPath, first, false))

	second, err := GenerateKey()
	require.NoError(t, err)
	err = WriteKeyFile(settings.MasterKeyPath, second, false)
	assert.ErrorIs(t, err, rerrors.ErrMasterKeyExists)

	data, err := os.ReadFile(settings.MasterKeyPath)
	require.NoError(t, err)
	assert.Equal(t, first+"\n", string(data), "existing key must be untouched")

	require.NoError(t, WriteKeyFile(settings.MasterKeyPath, second, true))
	data, err = os.ReadFile(settings.MasterKeyPath)
	require.NoError(t, err)
	assert.Equal(t, second+"\n", string(data))
}

package workflows

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aroha-labs/rata/internal/configs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diffingOptions(t *testing.T) DiffingOptions {
	t.Helper()
	return DiffingOptions{
		Settings:    configs.NewSettings("", ""),
		ProjectRoot: t.TempDir(),
	}
}

func TestEnrollDiffingCreatesAttributes(t *testing.T) {
	opts := diffingOptions(t)

	result, err := EnrollDiffing(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.AlreadyEnrolled)

	data, err := os.ReadFile(filepath.Join(opts.ProjectRoot, ".gitattributes"))
	require.NoError(t, err)
	assert.Equal(t, "config/credentials.yml.enc diff=rata_credentials\n", string(data))
}

func TestEnrollDiffingIsIdempotent(t *testing.T) {
	opts := diffingOptions(t)

	_, err := EnrollDiffing(context.Background(), opts)
	require.NoError(t, err)
	result, err := EnrollDiffing(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, result.AlreadyEnrolled)

	data, err := os.ReadFile(filepath.Join(opts.ProjectRoot, ".gitattributes"))
	require.NoError(t, err)
	assert.Equal(t, "config/credentials.yml.enc diff=rata_credentials\n", string(data), "enrolling twice must not duplicate the entry")
}

func TestEnrollDiffingPreservesOtherEntries(t *testing.T) {
	opts := diffingOptions(t)
	attrPath := filepath.Join(opts.ProjectRoot, ".gitattributes")
	// #nosec G306 -- committed project file.
	require.NoError(t, os.WriteFile(attrPath, []byte("*.png binary\n"), 0644))

	_, err := EnrollDiffing(context.Background(), opts)
	require.NoError(t, err)

	data, err := os.ReadFile(attrPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "*.png binary\n")
	assert.Contains(t, string(data), "config/credentials.yml.enc diff=rata_credentials\n")
}

func TestDisenrollDiffingRemovesEntry(t *testing.T) {
	opts := diffingOptions(t)
	attrPath := filepath.Join(opts.ProjectRoot, ".gitattributes")
	// #nosec G306 -- committed project file.
	require.NoError(t, os.WriteFile(attrPath, []byte("*.png binary\nconfig/credentials.yml.enc diff=rata_credentials\n"), 0644))

	result, err := DisenrollDiffing(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.NotEnrolled)

	data, err := os.ReadFile(attrPath)
	require.NoError(t, err)
	assert.Equal(t, "*.png binary\n", string(data))
}

func TestDisenrollDiffingRemovesEmptiedFile(t *testing.T) {
	opts := diffingOptions(t)

	_, err := EnrollDiffing(context.Background(), opts)
	require.NoError(t, err)

	result, err := DisenrollDiffing(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.NotEnrolled)
	assert.NoFileExists(t, filepath.Join(opts.ProjectRoot, ".gitattributes"))
}

func TestEnrollDiffingDetectsEntryWithoutTrailingNewline(t *testing.T) {
	opts := diffingOptions(t)
	attrPath := filepath.Join(opts.ProjectRoot, ".gitattributes")
	// Hand-added enrollment with no final newline.
	// #nosec G306 -- committed project file.
	require.NoError(t, os.WriteFile(attrPath, []byte("config/credentials.yml.enc diff=rata_credentials"), 0644))

	result, err := EnrollDiffing(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, result.AlreadyEnrolled)

	data, err := os.ReadFile(attrPath)
	require.NoError(t, err)
	assert.Equal(t, "config/credentials.yml.enc diff=rata_credentials", string(data), "a recognized entry must not be duplicated")
}

func TestEnrollDiffingAppendsOnOwnLine(t *testing.T) {
	opts := diffingOptions(t)
	attrPath := filepath.Join(opts.ProjectRoot, ".gitattributes")
	// #nosec G306 -- committed project file.
	require.NoError(t, os.WriteFile(attrPath, []byte("*.png binary"), 0644))

	_, err := EnrollDiffing(context.Background(), opts)
	require.NoError(t, err)

	data, err := os.ReadFile(attrPath)
	require.NoError(t, err)
	assert.Equal(t, "*.png binary\nconfig/credentials.yml.enc diff=rata_credentials\n", string(data), "the entry must land on its own line")
}

func TestDisenrollDiffingEntryWithoutTrailingNewline(t *testing.T) {
	opts := diffingOptions(t)
	attrPath := filepath.Join(opts.ProjectRoot, ".gitattributes")
	// #nosec G306 -- committed project file.
	require.NoError(t, os.WriteFile(attrPath, []byte("*.png binary\nconfig/credentials.yml.enc diff=rata_credentials"), 0644))

	result, err := DisenrollDiffing(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.NotEnrolled)

	data, err := os.ReadFile(attrPath)
	require.NoError(t, err)
	assert.Equal(t, "*.png binary\n", string(data))
}

func TestDisenrollDiffingWhenNotEnrolled(t *testing.T) {
	opts := diffingOptions(t)

	result, err := DisenrollDiffing(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, result.NotEnrolled)
}

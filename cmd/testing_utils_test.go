// Testing utilities shared between the command integration tests: building
// isolated project layouts, fake editors, and capturing command output.
package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/aroha-labs/rata/internal/credentials"
)

// setupTestProject creates an isolated project layout with a master key on
// disk and returns the path overrides pointing at it.
func setupTestProject(t *testing.T) (credentialsPath, masterKeyPath string) {
	t.Helper()
	dir := t.TempDir()
	credentialsPath = filepath.Join(dir, "config", "credentials.yml.enc")
	masterKeyPath = filepath.Join(dir, "config", "master.key")
	t.Setenv("RATA_MASTER_KEY", "")

	encoded, err := credentials.GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate master key: %v", err)
	}
	if err := credentials.WriteKeyFile(masterKeyPath, encoded, false); err != nil {
		t.Fatalf("Failed to write master key: %v", err)
	}
	return credentialsPath, masterKeyPath
}

// writeFakeEditor writes a shell script that replaces the file it is given
// with content, standing in for a real interactive editor.
func writeFakeEditor(t *testing.T, content string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake editors are shell scripts")
	}

	path := filepath.Join(t.TempDir(), "editor.sh")
	script := "#!/bin/sh\nprintf '%s' '" + content + "' > \"$1\"\n"
	// #nosec G306 -- the script must be executable.
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("Failed to write fake editor: %v", err)
	}
	return path
}

// runCommand executes the root command with the given arguments, capturing
// combined stdout and stderr. Global flag state is reset first so tests do
// not pollute each other.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ResetGlobalState()

	cmd := GetRootCmd()
	cmd.SetArgs(args)
	return captureOutput(func() error {
		return cmd.Execute()
	})
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	// Channel to collect output
	outputChan := make(chan string, 2)

	// Start goroutines to read from pipes
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, stdoutReader)
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, stderrReader)
		outputChan <- buf.String()
	}()

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	// Collect output
	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

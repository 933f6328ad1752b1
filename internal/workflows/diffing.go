package workflows

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/aroha-labs/rata/internal/audit"
	"github.com/aroha-labs/rata/internal/configs"
)

// DiffingOptions configures the diffing enrollment workflows.
type DiffingOptions struct {
	Settings *configs.Settings

	// ProjectRoot is where .gitattributes lives. Defaults to the current
	// directory.
	ProjectRoot string
}

// DiffingResult contains the outcome of an enroll or disenroll operation.
type DiffingResult struct {
	// AttributesPath is the .gitattributes file that was inspected.
	AttributesPath string

	// AlreadyEnrolled reports that enroll found the entry present.
	AlreadyEnrolled bool

	// NotEnrolled reports that disenroll found no entry to remove.
	NotEnrolled bool

	// DriverConfigured reports whether the git textconv driver is
	// registered. False usually means the directory is not a git repo;
	// the .gitattributes entry is still managed either way.
	DriverConfigured bool
}

// attributesEntry is the .gitattributes line binding the credentials file
// to the rata diff driver.
func attributesEntry(credentialsPath string) string {
	return fmt.Sprintf("%s diff=%s\n", filepath.ToSlash(credentialsPath), configs.DiffDriverName)
}

// hasAttributesEntry reports whether any line of the file matches the
// enrollment entry. Matching is per-line so a hand-added entry without a
// trailing newline still counts.
func hasAttributesEntry(existing string, entry string) bool {
	want := strings.TrimSpace(entry)
	for _, line := range strings.Split(existing, "\n") {
		if strings.TrimSpace(line) == want {
			return true
		}
	}
	return false
}

// EnrollDiffing registers the credentials file for decrypted diffs: it
// adds a .gitattributes entry pointing at the rata diff driver and
// registers `rata diff` as that driver's textconv command. Running history
// diffs then shows decrypted content without plaintext ever entering the
// repository. Enrolling twice is a no-op.
func EnrollDiffing(ctx context.Context, opts DiffingOptions) (*DiffingResult, error) {
	root := opts.ProjectRoot
	if root == "" {
		root = "."
	}

	result := &DiffingResult{
		AttributesPath: filepath.Join(root, ".gitattributes"),
	}
	entry := attributesEntry(opts.Settings.CredentialsPath)

	existing, err := os.ReadFile(result.AttributesPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", result.AttributesPath, err)
	}

	if hasAttributesEntry(string(existing), entry) {
		result.AlreadyEnrolled = true
	} else {
		appended := entry
		// A final line without a newline must not swallow the entry.
		if len(existing) > 0 && existing[len(existing)-1] != '\n' {
			appended = "\n" + entry
		}
		// #nosec G306 -- .gitattributes is a committed project file.
		f, err := os.OpenFile(result.AttributesPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", result.AttributesPath, err)
		}
		if _, err := f.WriteString(appended); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to update %s: %w", result.AttributesPath, err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("failed to update %s: %w", result.AttributesPath, err)
		}
	}

	result.DriverConfigured = configureDiffDriver(ctx, root)

	auditEntry := audit.NewEntry("diffing-enroll")
	auditEntry.Path = opts.Settings.CredentialsPath
	audit.Log(opts.Settings.AuditLogPath(), auditEntry)

	return result, nil
}

// DisenrollDiffing removes the .gitattributes entry and unregisters the
// textconv driver. An emptied .gitattributes is deleted.
func DisenrollDiffing(ctx context.Context, opts DiffingOptions) (*DiffingResult, error) {
	root := opts.ProjectRoot
	if root == "" {
		root = "."
	}

	result := &DiffingResult{
		AttributesPath: filepath.Join(root, ".gitattributes"),
	}
	entry := attributesEntry(opts.Settings.CredentialsPath)

	existing, err := os.ReadFile(result.AttributesPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.NotEnrolled = true
			return result, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", result.AttributesPath, err)
	}

	want := strings.TrimSpace(entry)
	removed := false
	var kept []string
	for _, line := range strings.Split(string(existing), "\n") {
		if strings.TrimSpace(line) == want {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		result.NotEnrolled = true
		return result, nil
	}

	updated := strings.Join(kept, "\n")
	if updated != "" && updated[len(updated)-1] != '\n' {
		updated += "\n"
	}
	if strings.TrimSpace(updated) == "" {
		if err := os.Remove(result.AttributesPath); err != nil {
			return nil, fmt.Errorf("failed to remove %s: %w", result.AttributesPath, err)
		}
	} else {
		// #nosec G306 -- .gitattributes is a committed project file.
		if err := os.WriteFile(result.AttributesPath, []byte(updated), 0644); err != nil {
			return nil, fmt.Errorf("failed to update %s: %w", result.AttributesPath, err)
		}
	}

	// Best effort: the repo may never have had the driver registered.
	unset := exec.CommandContext(ctx, "git", "config", "--unset", "diff."+configs.DiffDriverName+".textconv")
	unset.Dir = root
	_ = unset.Run()

	auditEntry := audit.NewEntry("diffing-disenroll")
	auditEntry.Path = opts.Settings.CredentialsPath
	audit.Log(opts.Settings.AuditLogPath(), auditEntry)

	return result, nil
}

// configureDiffDriver registers `rata diff` as the textconv command for
// the rata diff driver, returning whether the driver ended up configured.
// Failure is not fatal: the directory may not be a git repository yet.
func configureDiffDriver(ctx context.Context, root string) bool {
	check := exec.CommandContext(ctx, "git", "config", "--get", "diff."+configs.DiffDriverName+".textconv")
	check.Dir = root
	if check.Run() == nil {
		return true
	}

	set := exec.CommandContext(ctx, "git", "config", "diff."+configs.DiffDriverName+".textconv", "rata diff")
	set.Dir = root
	return set.Run() == nil
}

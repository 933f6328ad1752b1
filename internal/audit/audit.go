package audit

import (
	"encoding/json"
	"os"
	"os/user"
	"time"
)

// Entry represents a single audit log entry. Entries record which
// operation touched the credentials and when, never any decrypted
// content.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // OS username performing the action.
	Operation string `json:"op"`   // Operation name.

	// Optional fields depending on operation.
	Path      string `json:"path,omitempty"`       // Credentials file affected.
	KeyPath   string `json:"key_path,omitempty"`   // Master key file, for generate-key.
	Committed bool   `json:"committed,omitempty"`  // For edit: whether a new envelope was written.
}

// NewEntry builds an entry for an operation, stamped with the current user.
func NewEntry(op string) Entry {
	entry := Entry{
		Operation: op,
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000000Z"),
	}
	if current, err := user.Current(); err == nil {
		entry.User = current.Username
	}
	return entry
}

// Log appends an entry to the audit log at logPath.
// Operations should not fail just because audit logging failed, so errors
// here are swallowed.
func Log(logPath string, entry Entry) {
	if logPath == "" {
		return
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	// #nosec G306 -- the audit log holds no secrets and should be committable.
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(logPath string) ([]Entry, error) {
	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

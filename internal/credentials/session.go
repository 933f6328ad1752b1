package credentials

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	rerrors "github.com/aroha-labs/rata/internal/errors"
)

// SessionState tracks where an edit session is in its lifecycle.
type SessionState int

const (
	StateIdle SessionState = iota
	StateStaged
	StateEditing
	StateVerifying
	StateCommitted
	StateAborted
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStaged:
		return "staged"
	case StateEditing:
		return "editing"
	case StateVerifying:
		return "verifying"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// EditSession owns the decrypt → edit → re-encrypt workflow for one
// invocation. The decrypted document is staged in a private temporary file
// for the editor; Close scrubs and removes that file on every exit path,
// which is the property the whole tool depends on.
type EditSession struct {
	path    string
	key     MasterKey
	existed bool

	stagePath string
	original  []byte

	// mu guards state and closed: Close may be called from a signal
	// handler while another goroutine is mid-edit.
	mu     sync.Mutex
	state  SessionState
	closed bool
}

// OpenSession decrypts the credentials at path and stages the plaintext in
// a temporary file with owner-only permissions.
//
// A missing credentials file starts an empty session rather than failing,
// so the first edit creates the document. Callers must Close the session,
// typically with defer, immediately after a successful open.
func OpenSession(path string, key MasterKey) (*EditSession, error) {
	session := &EditSession{path: path, key: key, state: StateIdle}

	envelope, err := ReadEnvelope(path)
	switch {
	case err == nil:
		session.existed = true
	case errors.Is(err, rerrors.ErrCredentialsNotFound):
		// New document.
	default:
		return nil, err
	}

	var plaintext []byte
	if session.existed && len(bytes.TrimSpace(envelope)) > 0 {
		plaintext, err = Decrypt(envelope, key)
		if err != nil {
			return nil, err
		}
	}

	// Normalize through a parse/serialize round trip so the editor always
	// sees canonical YAML.
	doc, err := ParseDocument(plaintext)
	if err != nil {
		return nil, err
	}
	staged, err := doc.Serialize()
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "credentials-*.yml")
	if err != nil {
		return nil, fmt.Errorf("failed to stage credentials: %w", err)
	}
	session.stagePath = tmp.Name()

	if _, err := tmp.Write(staged); err != nil {
		_ = tmp.Close()
		_ = session.Close()
		return nil, fmt.Errorf("failed to stage credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to stage credentials: %w", err)
	}

	session.original = staged
	session.state = StateStaged
	return session, nil
}

// State returns the session's current lifecycle state.
func (s *EditSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// begin checks that the session is open and in one of the allowed states,
// then transitions to next.
func (s *EditSession) begin(next SessionState, allowed ...SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return rerrors.ErrSessionClosed
	}
	for _, state := range allowed {
		if s.state == state {
			s.state = next
			return nil
		}
	}
	return fmt.Errorf("cannot enter %s from %s state", next, s.state)
}

// StagePath returns the location of the staged plaintext file.
func (s *EditSession) StagePath() string {
	return s.stagePath
}

// Existed reports whether an encrypted document was present when the
// session opened.
func (s *EditSession) Existed() bool {
	return s.existed
}

// RunEditor launches the editor against the staged file and blocks until
// it exits. There is deliberately no timeout: the user owns this step.
//
// Returns ErrEditorFailed if the editor cannot be started or exits
// non-zero. The staged file survives an editor failure so Close can still
// scrub it.
func (s *EditSession) RunEditor(ctx context.Context, editor []string) error {
	if len(editor) == 0 {
		return fmt.Errorf("%w: no editor configured", rerrors.ErrEditorFailed)
	}
	if err := s.begin(StateEditing, StateStaged, StateVerifying); err != nil {
		return err
	}

	args := append(append([]string{}, editor[1:]...), s.stagePath)
	cmd := exec.CommandContext(ctx, editor[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", rerrors.ErrEditorFailed, editor[0], err)
	}

	return nil
}

// Verify re-reads the staged file and parses it as a credentials document.
// The changed result reports whether the staged bytes differ from what the
// session originally staged.
//
// On ErrMalformedDocument the session stays in the verifying state, so an
// interactive caller may RunEditor again without losing the user's edits.
func (s *EditSession) Verify() (doc *Document, changed bool, err error) {
	if err := s.begin(StateVerifying, StateEditing); err != nil {
		return nil, false, err
	}

	edited, err := os.ReadFile(s.stagePath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read staged credentials: %w", err)
	}

	doc, err = ParseDocument(edited)
	if err != nil {
		return nil, false, err
	}

	return doc, !bytes.Equal(edited, s.original), nil
}

// Commit re-encrypts the verified document and atomically replaces the
// credentials file. It reports whether a file was written: a brand-new
// document that is still empty commits nothing, so aborting out of a first
// edit leaves no file behind.
func (s *EditSession) Commit(doc *Document) (bool, error) {
	if !s.existed && doc.IsEmpty() {
		if err := s.begin(StateAborted, StateVerifying); err != nil {
			return false, err
		}
		return false, nil
	}

	plaintext, err := doc.Serialize()
	if err != nil {
		return false, err
	}
	envelope, err := Encrypt(plaintext, s.key)
	if err != nil {
		return false, err
	}

	if err := s.begin(StateCommitted, StateVerifying); err != nil {
		return false, err
	}
	if err := WriteEnvelopeAtomic(s.path, envelope); err != nil {
		s.mu.Lock()
		s.state = StateAborted
		s.mu.Unlock()
		return false, err
	}

	return true, nil
}

// Close scrubs and removes the staged plaintext file. It is idempotent and
// must run on every exit path, including interrupts. A session that never
// committed ends aborted.
func (s *EditSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.state != StateCommitted {
		s.state = StateAborted
	}

	if s.stagePath == "" {
		return nil
	}
	return scrub(s.stagePath)
}

// scrub overwrites a file with zeros before removing it, so the plaintext
// does not linger in the file's blocks after deletion.
func scrub(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat staged file: %w", err)
	}

	if info.Size() > 0 {
		if f, err := os.OpenFile(path, os.O_WRONLY, 0); err == nil {
			zeros := make([]byte, info.Size())
			_, _ = f.Write(zeros)
			_ = f.Sync()
			_ = f.Close()
		}
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove staged file: %w", err)
	}
	return nil
}

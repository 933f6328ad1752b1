package workflows

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/aroha-labs/rata/internal/audit"
	"github.com/aroha-labs/rata/internal/configs"
	"github.com/aroha-labs/rata/internal/credentials"
	rerrors "github.com/aroha-labs/rata/internal/errors"
)

// EditOptions configures the edit workflow.
type EditOptions struct {
	Settings *configs.Settings

	// Pretend stages the decrypted credentials and reports what would
	// happen, without launching the editor or writing anything.
	Pretend bool

	// RetryOnMalformed is consulted when the edited file does not parse.
	// Returning true relaunches the editor with the user's edits intact.
	// When nil (non-interactive runs), parse failures surface as
	// ErrMalformedDocument.
	RetryOnMalformed func(parseErr error) bool

	// exit replaces os.Exit in the interrupt handler. Tests override it to
	// observe the cleanup without killing the process.
	exit func(code int)
}

// EditResult contains the outcome of an edit operation.
type EditResult struct {
	// Path is the encrypted credentials file.
	Path string

	// Changed reports whether a new envelope was committed.
	Changed bool

	// Created reports whether this edit created the document.
	Created bool

	// Pretend reports whether this was a pretend run.
	Pretend bool
}

// Edit runs the full decrypt → edit → re-encrypt cycle: it stages the
// decrypted document in a private temporary file, blocks on the external
// editor, verifies the result parses, then commits it atomically.
//
// The staged plaintext is scrubbed on every exit path, including an
// interrupt while the editor is open. An unchanged save commits nothing,
// and a brand-new document left empty creates no file.
//
// Returns ErrMasterKeyMissing/ErrMasterKeyInvalid if no usable key is
// available, ErrAuthenticationFailed if the existing envelope cannot be
// opened, ErrEditorFailed if the editor exits abnormally, and
// ErrMalformedDocument if the edited file does not parse and no retry was
// requested.
func Edit(ctx context.Context, opts EditOptions) (*EditResult, error) {
	key, err := credentials.ResolveKey(opts.Settings)
	if err != nil {
		return nil, err
	}

	session, err := credentials.OpenSession(opts.Settings.CredentialsPath, key)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = session.Close()
	}()

	// An interrupt during the editor step must still scrub the staged
	// plaintext before the process dies.
	exit := opts.exit
	if exit == nil {
		exit = os.Exit
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	defer func() {
		signal.Stop(sigCh)
		close(done)
	}()
	go func() {
		select {
		case <-sigCh:
			_ = session.Close()
			exit(130)
		case <-done:
		}
	}()

	result := &EditResult{
		Path:    opts.Settings.CredentialsPath,
		Pretend: opts.Pretend,
	}

	if opts.Pretend {
		return result, nil
	}

	editor := opts.Settings.EditorCommand()
	for {
		if err := session.RunEditor(ctx, editor); err != nil {
			return nil, err
		}

		doc, changed, err := session.Verify()
		if err != nil {
			if errors.Is(err, rerrors.ErrMalformedDocument) && opts.RetryOnMalformed != nil && opts.RetryOnMalformed(err) {
				continue
			}
			return nil, err
		}

		if changed {
			committed, err := session.Commit(doc)
			if err != nil {
				return nil, err
			}
			result.Changed = committed
			result.Created = committed && !session.Existed()
		}

		entry := audit.NewEntry("edit")
		entry.Path = opts.Settings.CredentialsPath
		entry.Committed = result.Changed
		audit.Log(opts.Settings.AuditLogPath(), entry)

		return result, nil
	}
}

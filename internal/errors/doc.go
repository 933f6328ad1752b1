// Package errors defines sentinel errors shared across Rata packages.
//
// Workflows wrap these with fmt.Errorf("%w: ...") to add context while
// keeping them matchable. The CLI layer uses errors.Is to pick user-facing
// messages and exit codes, so no string matching is ever needed:
//
//	_, err := workflows.Show(ctx, opts)
//	if errors.Is(err, rerrors.ErrMasterKeyMissing) {
//	    // Tell the user how to provide a key.
//	}
package errors

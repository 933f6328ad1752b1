package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aroha-labs/rata/cmd"
	rerrors "github.com/aroha-labs/rata/internal/errors"
	logger "github.com/aroha-labs/rata/internal/logging"
)

// Exit codes are distinct per failure class so calling scripts can branch
// without parsing stderr.
const (
	exitFailure           = 1
	exitMissingKey        = 2
	exitAuthentication    = 3
	exitMalformedDocument = 4
	exitEditorFailed      = 5
	exitNotFound          = 6
	exitKeyPathNotFound   = 7
)

func exitCode(err error) int {
	switch {
	case errors.Is(err, rerrors.ErrMasterKeyMissing), errors.Is(err, rerrors.ErrMasterKeyInvalid):
		return exitMissingKey
	case errors.Is(err, rerrors.ErrAuthenticationFailed):
		return exitAuthentication
	case errors.Is(err, rerrors.ErrMalformedDocument):
		return exitMalformedDocument
	case errors.Is(err, rerrors.ErrEditorFailed):
		return exitEditorFailed
	case errors.Is(err, rerrors.ErrCredentialsNotFound):
		return exitNotFound
	case errors.Is(err, rerrors.ErrKeyPathNotFound):
		return exitKeyPathNotFound
	default:
		return exitFailure
	}
}

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		// Command handlers print their own errors; anything else, like a
		// flag parse failure, still needs to surface.
		if !logger.Reported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aroha-labs/rata/internal/configs"
	rerrors "github.com/aroha-labs/rata/internal/errors"

	"gopkg.in/yaml.v3"
)

// FetchOptions configures the fetch workflow.
type FetchOptions struct {
	Settings *configs.Settings

	// KeyPath is the dotted path to resolve, e.g. "aws.s3.secret_key".
	KeyPath string

	// HasFallback enables Fallback when the path does not exist. Tracked
	// separately so an explicit empty-string default is distinguishable
	// from no default at all.
	HasFallback bool
	Fallback    string
}

// Fetch resolves a dotted key path in the decrypted credentials and
// returns its value formatted for scripting: scalars print bare, nested
// values print as YAML.
//
// Returns ErrKeyPathNotFound when the path cannot be resolved, unless a
// fallback was provided.
func Fetch(ctx context.Context, opts FetchOptions) (string, error) {
	doc, err := loadDocument(opts.Settings)
	if err != nil {
		return "", err
	}

	value, err := doc.Get(opts.KeyPath)
	if err != nil {
		if errors.Is(err, rerrors.ErrKeyPathNotFound) && opts.HasFallback {
			return opts.Fallback, nil
		}
		return "", err
	}

	return formatValue(value)
}

// formatValue renders a credentials value for stdout. Scalars come out
// bare so `rata fetch db.password` is pipeable; mappings and sequences
// come out as YAML.
func formatValue(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprintf("%v", v), nil
	}

	rendered, err := yaml.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to render value: %w", err)
	}
	return strings.TrimRight(string(rendered), "\n"), nil
}

package credentials

import (
	"bytes"
	"fmt"
	"strings"

	rerrors "github.com/aroha-labs/rata/internal/errors"

	"gopkg.in/yaml.v3"
)

// Document is the decrypted credentials: a YAML mapping with string keys
// and arbitrarily nested values. It exists only in memory (and, during an
// edit session, in the session's staged file).
type Document struct {
	root map[string]interface{}
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{root: map[string]interface{}{}}
}

// ParseDocument parses plaintext YAML into a document.
//
// Empty input yields an empty document. Input that parses but is not a
// mapping at the top level returns ErrMalformedDocument.
func ParseDocument(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewDocument(), nil
	}

	var value interface{}
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("%w: %v", rerrors.ErrMalformedDocument, err)
	}

	switch root := value.(type) {
	case nil:
		return NewDocument(), nil
	case map[string]interface{}:
		return &Document{root: root}, nil
	default:
		return nil, fmt.Errorf("%w: top level is %T, expected a mapping", rerrors.ErrMalformedDocument, value)
	}
}

// IsEmpty reports whether the document has no keys.
func (d *Document) IsEmpty() bool {
	return len(d.root) == 0
}

// Get resolves a dotted key path like "aws.s3.secret_key" by descending
// through nested mappings.
//
// Returns ErrKeyPathNotFound when any segment is absent or when an
// intermediate segment is not itself a mapping. It never returns a silent
// nil for a missing key; use GetDefault for that.
func (d *Document) Get(path string) (interface{}, error) {
	segments := strings.Split(path, ".")
	if path == "" {
		return nil, fmt.Errorf("%w: empty key path", rerrors.ErrKeyPathNotFound)
	}

	current := interface{}(d.root)
	for i, segment := range segments {
		mapping, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a mapping", rerrors.ErrKeyPathNotFound, strings.Join(segments[:i], "."))
		}
		value, ok := mapping[segment]
		if !ok {
			return nil, fmt.Errorf("%w: %q", rerrors.ErrKeyPathNotFound, strings.Join(segments[:i+1], "."))
		}
		current = value
	}

	return current, nil
}

// GetDefault resolves a dotted key path, returning fallback when the path
// does not exist.
func (d *Document) GetDefault(path string, fallback interface{}) interface{} {
	value, err := d.Get(path)
	if err != nil {
		return fallback
	}
	return value
}

// Serialize renders the document as YAML. Multiline strings use literal
// block style so values like PEM keys survive edit round trips readably.
// An empty document serializes to no bytes at all.
func (d *Document) Serialize() ([]byte, error) {
	if d.IsEmpty() {
		return []byte{}, nil
	}

	var node yaml.Node
	if err := node.Encode(d.root); err != nil {
		return nil, fmt.Errorf("failed to serialize credentials: %w", err)
	}
	blockStyleMultiline(&node)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&node); err != nil {
		return nil, fmt.Errorf("failed to serialize credentials: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to serialize credentials: %w", err)
	}

	return buf.Bytes(), nil
}

// blockStyleMultiline marks every multiline string scalar for literal (|)
// block style. The encoder falls back to quoting where literal style
// cannot represent the value exactly.
func blockStyleMultiline(node *yaml.Node) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!str" && strings.Contains(node.Value, "\n") {
		node.Style = yaml.LiteralStyle
	}
	for _, child := range node.Content {
		blockStyleMultiline(child)
	}
}

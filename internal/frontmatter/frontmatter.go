// Package frontmatter composes and splits `---` delimited YAML metadata blocks
// on document artifacts.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

var delimiter = []byte("---\n")

// ErrMissingClosingDelimiter indicates the document started with a frontmatter
// delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("frontmatter opening delimiter found but closing delimiter is missing")

// Compose serializes fields to YAML and prefixes the body with the delimited
// block. Field order follows the struct declaration, keeping artifacts stable
// across runs.
func Compose(fields any, body string) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fields); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(delimiter)*2+buf.Len()+len(body)+1)
	out = append(out, delimiter...)
	out = append(out, buf.Bytes()...)
	out = append(out, delimiter...)
	out = append(out, []byte(body)...)
	if len(body) > 0 && body[len(body)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, nil
}

// Split separates the YAML frontmatter from the body. If the document does not
// start with a delimiter, had is false and body is the full input.
func Split(content []byte) (frontmatter, body []byte, had bool, err error) {
	if !bytes.HasPrefix(content, delimiter) {
		return nil, content, false, nil
	}

	rest := content[len(delimiter):]
	idx := bytes.Index(rest, []byte("\n---\n"))
	if idx < 0 {
		if bytes.HasPrefix(rest, delimiter) {
			// Empty frontmatter block.
			return []byte{}, rest[len(delimiter):], true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	return rest[:idx+1], rest[idx+len("\n---\n"):], true, nil
}

// Parse unmarshals raw frontmatter (without delimiters) into a map.
func Parse(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

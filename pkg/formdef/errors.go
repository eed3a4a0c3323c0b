package formdef

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedDefinition marks payloads that cannot be decoded or that break
// the ordered-children invariant. Callers typically respond by rendering
// nothing instead of failing loudly.
var ErrMalformedDefinition = errors.New("formdef: malformed definition")

// InvariantError reports a container whose `:itemsOrder` is not a permutation
// of its `:items` keys.
type InvariantError struct {
	Path      string
	Missing   []string
	Extra     []string
	Duplicate []string
}

func (e *InvariantError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "order references unknown keys "+strings.Join(e.Missing, ","))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "items missing from order "+strings.Join(e.Extra, ","))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, "duplicate order keys "+strings.Join(e.Duplicate, ","))
	}
	path := e.Path
	if path == "" {
		path = "<root>"
	}
	return fmt.Sprintf("formdef: container %s: %s", path, strings.Join(parts, "; "))
}

func (e *InvariantError) Unwrap() error {
	return ErrMalformedDefinition
}

func malformed(reason string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrMalformedDefinition, reason)
	}
	return fmt.Errorf("%w: %s: %v", ErrMalformedDefinition, reason, err)
}

package tui

import (
	"fmt"
	"strconv"
	"strings"
)

// State tracks collected values and server-provided errors keyed by dotted
// paths. It is intentionally small; higher-level orchestration lives in the
// renderer.
type State struct {
	values map[string]any
	errors map[string][]string
}

// NewState seeds the state with prefilled values and errors.
func NewState(prefill map[string]any, errs map[string][]string) *State {
	return &State{
		values: cloneValues(prefill),
		errors: cloneErrors(errs),
	}
}

// Values returns the current value map (mutable).
func (s *State) Values() map[string]any {
	if s == nil {
		return nil
	}
	return s.values
}

// Errors returns the current errors map (mutable).
func (s *State) Errors() map[string][]string {
	if s == nil {
		return nil
	}
	return s.errors
}

// ErrorsFor returns the errors attached to a dotted path.
func (s *State) ErrorsFor(path string) []string {
	if s == nil || len(s.errors) == 0 {
		return nil
	}
	return s.errors[path]
}

// GetValue resolves a dotted path into the values map.
func (s *State) GetValue(path string) (any, bool) {
	if s == nil {
		return nil, false
	}
	return getPath(s.values, path)
}

// SetValue writes a value using a dotted path, creating intermediate maps/slices
// as needed.
func (s *State) SetValue(path string, value any) error {
	if s == nil {
		return fmt.Errorf("tui: state is nil")
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	return setPath(s.values, path, value)
}

func cloneValues(src map[string]any) map[string]any {
	if len(src) == 0 {
		return make(map[string]any)
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func cloneErrors(src map[string][]string) map[string][]string {
	if len(src) == 0 {
		return make(map[string][]string)
	}
	out := make(map[string][]string, len(src))
	for k, v := range src {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}

func getPath(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	current := any(root)
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// setPath writes value at a dotted path. Numeric segments index into
// slices, which grow as needed.
func setPath(root map[string]any, path string, value any) error {
	if root == nil {
		return fmt.Errorf("tui: root map is nil")
	}
	if path == "" {
		return fmt.Errorf("tui: path is empty")
	}
	segments := strings.Split(path, ".")
	updated, err := assign(root, segments, value)
	if err != nil {
		return err
	}
	if _, ok := updated.(map[string]any); !ok {
		return fmt.Errorf("tui: path %q does not start with a key", path)
	}
	return nil
}

// assign sets value below container and returns the container, which may be
// a new or grown slice the caller must store back.
func assign(container any, segments []string, value any) (any, error) {
	segment := segments[0]
	rest := segments[1:]

	if idx, err := strconv.Atoi(segment); err == nil {
		if idx < 0 {
			return nil, fmt.Errorf("tui: negative index %d", idx)
		}
		list, _ := container.([]any)
		if len(list) <= idx {
			list = append(list, make([]any, idx+1-len(list))...)
		}
		if len(rest) == 0 {
			list[idx] = value
			return list, nil
		}
		child, err := assign(list[idx], rest, value)
		if err != nil {
			return nil, err
		}
		list[idx] = child
		return list, nil
	}

	node, ok := container.(map[string]any)
	if !ok || node == nil {
		node = make(map[string]any)
	}
	if len(rest) == 0 {
		node[segment] = value
		return node, nil
	}
	child, err := assign(node[segment], rest, value)
	if err != nil {
		return nil, err
	}
	node[segment] = child
	return node, nil
}

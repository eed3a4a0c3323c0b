package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formrender/pkg/decorate"
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// FormErrorsClass marks the block listing form-level messages.
const FormErrorsClass = "form-errors"

// ErrorMapping splits a server error payload into messages per field id and
// form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapErrorPayload resolves payload keys to field ids. Keys may be field ids,
// dotted name paths (panel names included) or JSON pointers; wrapper
// segments such as "body" or "data" and list indexes are ignored when
// matching. Keys that match nothing become form-level messages.
func MapErrorPayload(def *formdef.Field, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		return mapping
	}

	index := fieldIndex(def)
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		messages := normalizeMessages(payload[key])
		if len(messages) == 0 {
			continue
		}
		id := index.resolve(key)
		if id == "" {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[id] = append(mapping.Fields[id], messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// ApplyErrors maps payload onto the rendered form: field messages replace
// the field's help text (see decorate.SetFieldError) and form-level messages
// are listed in a block at the top of the form.
func ApplyErrors(form Form, payload map[string][]string) ErrorMapping {
	mapping := MapErrorPayload(form.Definition, payload)
	if form.Tree == nil {
		return mapping
	}
	ids := make([]string, 0, len(mapping.Fields))
	for id := range mapping.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		messages := mapping.Fields[id]
		wrapper := form.Wrapper(id)
		if wrapper == nil {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		decorate.SetFieldError(wrapper, strings.Join(messages, " "))
	}
	mapping.Form = normalizeMessages(mapping.Form)
	if len(mapping.Form) > 0 {
		block := ui.Element("div", ui.A("class", FormErrorsClass), ui.A("role", "alert"))
		for _, message := range mapping.Form {
			block.Append(ui.Element("p").SetText(message))
		}
		form.Tree.Prepend(block)
	}
	return mapping
}

type fieldPaths map[string]string

func fieldIndex(def *formdef.Field) fieldPaths {
	index := make(fieldPaths)
	var walk func(field *formdef.Field, prefix string)
	walk = func(field *formdef.Field, prefix string) {
		for _, child := range append(field.OrderedChildren(), field.List...) {
			if child == nil {
				continue
			}
			path := prefix
			if name := strings.TrimSpace(child.Name); name != "" {
				path = joinPath(prefix, name)
				if _, taken := index[path]; !taken && !child.IsPanel() {
					index[path] = child.ID
				}
			}
			if child.ID != "" && !child.IsPanel() {
				index["#"+child.ID] = child.ID
			}
			walk(child, path)
		}
	}
	if def != nil {
		walk(def, "")
	}
	return index
}

func (p fieldPaths) resolve(key string) string {
	trimmed := strings.TrimSpace(key)
	if isFormLevelKey(trimmed) {
		return ""
	}
	if id, ok := p["#"+trimmed]; ok {
		return id
	}
	segments := parsePathSegments(trimmed)
	best, bestLen := "", 0
	for _, variant := range segmentVariants(segments) {
		for end := len(variant); end > bestLen; end-- {
			if id, ok := p[strings.Join(variant[:end], ".")]; ok {
				best, bestLen = id, end
				break
			}
		}
	}
	return best
}

func normalizeMessages(messages []string) []string {
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parsePathSegments(path string) []string {
	clean := strings.TrimLeft(strings.TrimSpace(path), "#/.$")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		out = append(out, strings.ReplaceAll(part, "~0", "~"))
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

func segmentVariants(segments []string) [][]string {
	unwrapped := segments
	for len(unwrapped) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(unwrapped[0])]; !ok {
			break
		}
		unwrapped = unwrapped[1:]
	}
	return [][]string{
		segments,
		unwrapped,
		dropIndexes(segments),
		dropIndexes(unwrapped),
	}
}

func dropIndexes(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(key) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}

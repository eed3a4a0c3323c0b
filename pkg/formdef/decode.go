package formdef

import (
	"bytes"
	"encoding/json"
	"regexp"

	"github.com/tidwall/jsonc"
)

var cleanupPattern = regexp.MustCompile(`\x83\n|\n|\s\s+`)

// Decode parses a raw definition payload into a generic tree. A payload that
// is itself a JSON string is treated as a double-encoded definition and
// unwrapped; anything else is converted from JSONC and stripped of control
// sequences, newlines and whitespace runs before parsing.
func Decode(raw []byte) (map[string]any, error) {
	content := bytes.TrimSpace(raw)
	if len(content) == 0 {
		return nil, malformed("empty payload", nil)
	}

	if len(content) > 1 && content[0] == '"' && content[len(content)-1] == '"' {
		var inner string
		if err := json.Unmarshal(content, &inner); err != nil {
			return nil, malformed("decode string wrapper", err)
		}
		return decodeObject([]byte(inner))
	}

	content = jsonc.ToJSON(content)
	content = cleanupPattern.ReplaceAll(content, nil)
	return decodeObject(content)
}

func decodeObject(data []byte) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, malformed("decode json", err)
	}
	if out == nil {
		return nil, malformed("definition is not an object", nil)
	}
	return out, nil
}

// FromMap converts a generic tree into a Field.
func FromMap(def map[string]any) (*Field, error) {
	if def == nil {
		return nil, malformed("nil definition", nil)
	}
	payload, err := json.Marshal(def)
	if err != nil {
		return nil, malformed("encode definition", err)
	}
	var field Field
	if err := json.Unmarshal(payload, &field); err != nil {
		return nil, malformed("decode field", err)
	}
	return &field, nil
}

// ToMap converts the field back into its generic wire representation.
func (f *Field) ToMap() (map[string]any, error) {
	if f == nil {
		return nil, nil
	}
	payload, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IsDocumentBased reports a spreadsheet-backed definition: `:type` is
// "sheet" and a data block is present.
func IsDocumentBased(def map[string]any) bool {
	if def == nil {
		return false
	}
	kind, _ := def[KeyType].(string)
	return kind == "sheet" && def["data"] != nil
}

// IsAlternateShape reports a tree carrying its children as an `items` array
// instead of the :items/:itemsOrder pair.
func IsAlternateShape(def map[string]any) bool {
	if def == nil {
		return false
	}
	if _, ok := def[KeyItems]; ok {
		return false
	}
	_, ok := ItemList(def[KeyItemList])
	return ok
}

// ItemList returns an `items` value as []any. Decoded JSON yields []any;
// definitions assembled in Go often use []map[string]any.
func ItemList(value any) ([]any, bool) {
	switch list := value.(type) {
	case []any:
		return list, true
	case []map[string]any:
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = item
		}
		return out, true
	}
	return nil, false
}

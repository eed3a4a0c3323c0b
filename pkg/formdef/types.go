package formdef

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field type tags understood by the built-in builders. Unknown tags are valid
// and resolve to the generic input builder.
const (
	FieldTypeText          = "text"
	FieldTypeDropDown      = "drop-down"
	FieldTypePlainText     = "plain-text"
	FieldTypeCheckbox      = "checkbox"
	FieldTypeButton        = "button"
	FieldTypeMultiline     = "multiline"
	FieldTypePanel         = "panel"
	FieldTypeRadio         = "radio"
	FieldTypeRadioGroup    = "radio-group"
	FieldTypeCheckboxGroup = "checkbox-group"
	FieldTypeImage         = "image"
	FieldTypeHeading       = "heading"
	FieldTypeCaptcha       = "captcha"
	FieldTypeForm          = "form"
)

// Namespaced property keys.
const (
	PropertyDor      = "fd:dor"
	PropertyPath     = "fd:path"
	PropertyCaptcha  = "fd:captcha"
	PropertyRepoPath = "fd:repoPath"
	PropertyColSpan  = "colspan"
	PropertyVariant  = "variant"
	PropertyLayout   = "afs:layout"

	// NamespacePrefix marks metadata that never leaks into rendered attributes.
	NamespacePrefix = "fd:"

	// VariantNoButtons suppresses add/remove controls on repeatable panels.
	VariantNoButtons = "noButtons"
)

// Wire keys for the canonical and alternate child containers.
const (
	KeyItems      = ":items"
	KeyItemsOrder = ":itemsOrder"
	KeyItemList   = "items"
	KeyType       = ":type"
	KeyColumnSpan = "Column Span"
)

// Label describes the caption attached to a field.
type Label struct {
	Value    string `json:"value,omitempty"`
	Visible  *bool  `json:"visible,omitempty"`
	RichText bool   `json:"richText,omitempty"`
}

// Field is the canonical form definition node. Containers (panels and the
// form root) carry children in Items keyed by child id and ordered by
// ItemsOrder; the run-time state shape carries them in List instead.
type Field struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
	FieldType     string `json:"fieldType,omitempty"`
	Type          string `json:"type,omitempty"`
	ComponentType string `json:":type,omitempty"`

	Value                  any    `json:"value,omitempty"`
	Default                any    `json:"default,omitempty"`
	DisplayFormat          string `json:"displayFormat,omitempty"`
	DisplayValue           any    `json:"displayValue,omitempty"`
	DisplayValueExpression string `json:"displayValueExpression,omitempty"`

	Label       *Label `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	Tooltip     string `json:"tooltip,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	RichText    bool   `json:"richText,omitempty"`
	AltText     string `json:"altText,omitempty"`

	Required     bool   `json:"required,omitempty"`
	Enabled      *bool  `json:"enabled,omitempty"`
	ReadOnly     bool   `json:"readOnly,omitempty"`
	Visible      *bool  `json:"visible,omitempty"`
	AutoComplete string `json:"autoComplete,omitempty"`

	Repeatable bool `json:"repeatable,omitempty"`
	Index      *int `json:"index,omitempty"`

	Enum      []any `json:"enum,omitempty"`
	EnumNames []any `json:"enumNames,omitempty"`

	MinItems    any    `json:"minItems,omitempty"`
	MaxItems    any    `json:"maxItems,omitempty"`
	MaxFileSize any    `json:"maxFileSize,omitempty"`
	MinLength   any    `json:"minLength,omitempty"`
	MaxLength   any    `json:"maxLength,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	Minimum     any    `json:"minimum,omitempty"`
	Maximum     any    `json:"maximum,omitempty"`
	Step        any    `json:"step,omitempty"`
	Accept      any    `json:"accept,omitempty"`
	MinOccur    any    `json:"minOccur,omitempty"`
	MaxOccur    any    `json:"maxOccur,omitempty"`

	ButtonType           string `json:"buttonType,omitempty"`
	AppliedCSSClassNames string `json:"appliedCssClassNames,omitempty"`
	ColumnSpan           any    `json:"-"`

	URI     string `json:"uri,omitempty"`
	Version string `json:"version,omitempty"`
	DataRef string `json:"dataRef,omitempty"`

	Action      string `json:"action,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
	ThankYouMsg string `json:"thankYouMsg,omitempty"`

	Rules              map[string]string `json:"rules,omitempty"`
	Properties         map[string]any    `json:"properties,omitempty"`
	ConstraintMessages map[string]string `json:"constraintMessages,omitempty"`

	Items      map[string]*Field `json:":items,omitempty"`
	ItemsOrder []string          `json:":itemsOrder,omitempty"`
	List       []*Field          `json:"items,omitempty"`
}

type fieldAlias Field

// UnmarshalJSON decodes the wire format, including keys that cannot be
// expressed as struct tags.
func (f *Field) UnmarshalJSON(data []byte) error {
	var alias fieldAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields[KeyColumnSpan]; ok {
		if err := json.Unmarshal(raw, &alias.ColumnSpan); err != nil {
			return fmt.Errorf("formdef: decode %q: %w", KeyColumnSpan, err)
		}
	}
	*f = Field(alias)
	return nil
}

// MarshalJSON encodes the field back into the wire format.
func (f Field) MarshalJSON() ([]byte, error) {
	payload, err := json.Marshal(fieldAlias(f))
	if err != nil {
		return nil, err
	}
	if f.ColumnSpan == nil {
		return payload, nil
	}
	var out map[string]any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	out[KeyColumnSpan] = f.ColumnSpan
	return json.Marshal(out)
}

// RenderType resolves the concrete render/dispatch tag: the field type with a
// trailing "-input" removed, defaulting to "text".
func (f *Field) RenderType() string {
	if f == nil || strings.TrimSpace(f.FieldType) == "" {
		return FieldTypeText
	}
	return strings.TrimSuffix(f.FieldType, "-input")
}

// IsPanel reports whether the field is a panel container.
func (f *Field) IsPanel() bool {
	return f != nil && f.FieldType == FieldTypePanel
}

// IsCaptcha reports whether the field is the CAPTCHA placeholder.
func (f *Field) IsCaptcha() bool {
	return f != nil && f.FieldType == FieldTypeCaptcha
}

// CoerceValue replaces an absent value with the empty string.
func (f *Field) CoerceValue() {
	if f != nil && f.Value == nil {
		f.Value = ""
	}
}

// StringValue formats the field value for attribute binding.
func (f *Field) StringValue() string {
	if f == nil {
		return ""
	}
	return FormatValue(f.Value)
}

// LabelText returns the label caption or an empty string.
func (f *Field) LabelText() string {
	if f == nil || f.Label == nil {
		return ""
	}
	return f.Label.Value
}

// LabelHidden reports whether the label is explicitly hidden.
func (f *Field) LabelHidden() bool {
	return f != nil && f.Label != nil && f.Label.Visible != nil && !*f.Label.Visible
}

// Disabled reports an explicit enabled=false.
func (f *Field) Disabled() bool {
	return f != nil && f.Enabled != nil && !*f.Enabled
}

// Hidden reports an explicit visible=false.
func (f *Field) Hidden() bool {
	return f != nil && f.Visible != nil && !*f.Visible
}

// InstanceIndex returns the repeatable instance index, 0 when unset.
func (f *Field) InstanceIndex() int {
	if f == nil || f.Index == nil {
		return 0
	}
	return *f.Index
}

// Property returns a raw property value.
func (f *Field) Property(key string) any {
	if f == nil || f.Properties == nil {
		return nil
	}
	return f.Properties[key]
}

// StringProperty returns a property formatted as a string.
func (f *Field) StringProperty(key string) string {
	return FormatValue(f.Property(key))
}

// Variant returns properties.variant.
func (f *Field) Variant() string {
	return f.StringProperty(PropertyVariant)
}

// FormatValue renders scalar and list values the way they appear in markup
// attributes: integral floats without exponent, lists comma separated.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, FormatValue(item))
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(v, ",")
	default:
		return fmt.Sprint(v)
	}
}

// Truthy mirrors the loose truthiness used by definition authors: nil, false,
// zero, and empty strings/lists are false.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case float32:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case []any:
		return true
	default:
		return true
	}
}

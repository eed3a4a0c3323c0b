package builders

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// Builder produces the root UI node for a field.
type Builder interface {
	Build(field *formdef.Field) (*ui.Node, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(field *formdef.Field) (*ui.Node, error)

func (fn BuilderFunc) Build(field *formdef.Field) (*ui.Node, error) {
	return fn(field)
}

func pure(fn func(*formdef.Field) *ui.Node) Builder {
	return BuilderFunc(func(field *formdef.Field) (*ui.Node, error) {
		return fn(field), nil
	})
}

// Registry stores builders by dispatch tag. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
	fallback Builder
}

// NewRegistry returns a registry populated with the built-in builders.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry returns a registry with only the generic input fallback.
func NewEmptyRegistry() *Registry {
	return &Registry{
		builders: make(map[string]Builder),
		fallback: pure(Input),
	}
}

func (r *Registry) registerBuiltins() {
	r.MustRegister(formdef.FieldTypeDropDown, pure(Select))
	r.MustRegister(formdef.FieldTypePlainText, pure(PlainText))
	r.MustRegister(formdef.FieldTypeCheckbox, pure(RadioOrCheckbox))
	r.MustRegister(formdef.FieldTypeButton, pure(Button))
	r.MustRegister(formdef.FieldTypeMultiline, pure(TextArea))
	r.MustRegister(formdef.FieldTypePanel, pure(FieldSet))
	r.MustRegister(formdef.FieldTypeRadio, pure(RadioOrCheckbox))
	r.MustRegister(formdef.FieldTypeRadioGroup, pure(RadioOrCheckboxGroup))
	r.MustRegister(formdef.FieldTypeCheckboxGroup, pure(RadioOrCheckboxGroup))
	r.MustRegister(formdef.FieldTypeImage, pure(Image))
	r.MustRegister(formdef.FieldTypeHeading, pure(Heading))
}

// Register adds a builder for tag. Duplicate tags return an error.
func (r *Registry) Register(tag string, builder Builder) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("builders: tag is required")
	}
	if builder == nil {
		return fmt.Errorf("builders: builder for %q is required", tag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.builders[tag]; exists {
		return fmt.Errorf("builders: tag %q already registered", tag)
	}
	r.builders[tag] = builder
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(tag string, builder Builder) {
	if err := r.Register(tag, builder); err != nil {
		panic(err)
	}
}

// Replace registers builder for tag, overriding an existing entry.
func (r *Registry) Replace(tag string, builder Builder) {
	if builder == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[tag] = builder
}

// SetFallback overrides the builder used for unknown tags.
func (r *Registry) SetFallback(builder Builder) {
	if builder == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = builder
}

// Lookup returns the builder registered for an exact tag.
func (r *Registry) Lookup(tag string) (Builder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	builder, ok := r.builders[tag]
	return builder, ok
}

// Dispatch resolves the builder for a raw field type: a trailing "-input" is
// stripped, an empty tag means "text", and unknown tags yield the fallback.
// The second return value reports whether a dedicated builder matched.
func (r *Registry) Dispatch(fieldType string) (Builder, bool) {
	tag := (&formdef.Field{FieldType: fieldType}).RenderType()
	if builder, ok := r.Lookup(tag); ok {
		return builder, true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback, false
}

// Build dispatches on the field type and runs the builder.
func (r *Registry) Build(field *formdef.Field) (*ui.Node, error) {
	if field == nil {
		return nil, fmt.Errorf("builders: field is required")
	}
	builder, _ := r.Dispatch(field.FieldType)
	node, err := builder.Build(field)
	if err != nil {
		return nil, fmt.Errorf("builders: build %q (%s): %w", field.ID, field.FieldType, err)
	}
	return node, nil
}

// Names returns the registered tags in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &Registry{builders: make(map[string]Builder, len(r.builders)), fallback: r.fallback}
	for tag, builder := range r.builders {
		out.builders[tag] = builder
	}
	return out
}

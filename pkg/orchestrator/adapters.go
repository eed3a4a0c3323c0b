package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formrender/pkg/formdef"
	pkgopenapi "github.com/goliatone/go-formrender/pkg/openapi"
	"github.com/goliatone/go-formrender/pkg/sheet"
)

// Adapter names registered by default.
const (
	AdapterSheet   = "sheet"
	AdapterOpenAPI = "openapi"
)

// AdaptInput is the payload handed to a FormatAdapter. Definition is nil
// when the raw document is not a JSON object.
type AdaptInput struct {
	Document    formdef.Document
	Definition  map[string]any
	OperationID string
}

// Adapted is a definition rewritten into the alternate or canonical shape.
type Adapted struct {
	Definition map[string]any
	// Source labels the form origin in its data-source attribute.
	Source string
	// DisableRules marks forms whose rules must not be evaluated.
	DisableRules bool
}

// FormatAdapter converts a foreign document format into a form definition.
type FormatAdapter interface {
	Name() string
	Detect(in AdaptInput) bool
	Adapt(ctx context.Context, in AdaptInput) (Adapted, error)
}

// AdapterRegistry stores format adapters by name.
type AdapterRegistry struct {
	mu       sync.RWMutex
	adapters map[string]FormatAdapter
}

// NewAdapterRegistry creates an empty adapter registry.
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{
		adapters: make(map[string]FormatAdapter),
	}
}

// Register adds an adapter by its Name(). Duplicate names return an error.
func (r *AdapterRegistry) Register(adapter FormatAdapter) error {
	if adapter == nil {
		return fmt.Errorf("orchestrator: adapter is required")
	}
	name := normalizeAdapterName(adapter.Name())
	if name == "" {
		return fmt.Errorf("orchestrator: adapter name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("orchestrator: adapter %q already registered", name)
	}
	r.adapters[name] = adapter
	return nil
}

// MustRegister panics on registration failure.
func (r *AdapterRegistry) MustRegister(adapter FormatAdapter) {
	if err := r.Register(adapter); err != nil {
		panic(err)
	}
}

// Get retrieves an adapter by name.
func (r *AdapterRegistry) Get(name string) (FormatAdapter, error) {
	key := normalizeAdapterName(name)
	if key == "" {
		return nil, fmt.Errorf("orchestrator: adapter name is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[key]
	if !ok {
		return nil, fmt.Errorf("orchestrator: adapter %q not found", key)
	}
	return adapter, nil
}

// List returns a sorted list of adapter names.
func (r *AdapterRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect returns all adapters that match the payload, ordered by name.
func (r *AdapterRegistry) Detect(in AdaptInput) []FormatAdapter {
	if r == nil {
		return nil
	}
	var matches []FormatAdapter
	for _, name := range r.List() {
		r.mu.RLock()
		adapter := r.adapters[name]
		r.mu.RUnlock()
		if adapter != nil && adapter.Detect(in) {
			matches = append(matches, adapter)
		}
	}
	return matches
}

// resolve picks the adapter for in. An explicit format wins; otherwise
// detection must be unambiguous. A nil adapter means the payload is already
// a form definition.
func (r *AdapterRegistry) resolve(format string, in AdaptInput) (FormatAdapter, error) {
	if strings.TrimSpace(format) != "" {
		return r.Get(format)
	}
	matches := r.Detect(in)
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		names := make([]string, 0, len(matches))
		for _, adapter := range matches {
			names = append(names, adapter.Name())
		}
		return nil, fmt.Errorf("orchestrator: multiple adapters matched payload (%s), specify format", strings.Join(names, ", "))
	}
}

func normalizeAdapterName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SheetAdapter converts document-based (spreadsheet) forms.
type SheetAdapter struct {
	Converter *sheet.Converter
}

func (SheetAdapter) Name() string { return AdapterSheet }

func (SheetAdapter) Detect(in AdaptInput) bool {
	return formdef.IsDocumentBased(in.Definition)
}

func (a SheetAdapter) Adapt(ctx context.Context, in AdaptInput) (Adapted, error) {
	if err := ctx.Err(); err != nil {
		return Adapted{}, err
	}
	if in.Definition == nil {
		return Adapted{}, fmt.Errorf("orchestrator: sheet adapter: definition is not an object")
	}
	converter := a.Converter
	if converter == nil {
		converter = sheet.New()
	}
	def, err := converter.Convert(in.Definition)
	if err != nil {
		return Adapted{}, fmt.Errorf("orchestrator: sheet adapter: %w", err)
	}
	return Adapted{Definition: def, Source: AdapterSheet, DisableRules: true}, nil
}

// OpenAPIAdapter renders the request body of one OpenAPI operation.
type OpenAPIAdapter struct {
	Parser  pkgopenapi.Parser
	Options []pkgopenapi.DefinitionOption
}

func (OpenAPIAdapter) Name() string { return AdapterOpenAPI }

func (OpenAPIAdapter) Detect(in AdaptInput) bool {
	if in.Definition == nil {
		return bytes.HasPrefix(bytes.TrimSpace(in.Document.Raw()), []byte("openapi:"))
	}
	_, ok := in.Definition["openapi"].(string)
	return ok
}

func (a OpenAPIAdapter) Adapt(ctx context.Context, in AdaptInput) (Adapted, error) {
	if a.Parser == nil {
		return Adapted{}, fmt.Errorf("orchestrator: openapi adapter: parser is nil")
	}
	operations, err := a.Parser.Operations(ctx, in.Document)
	if err != nil {
		return Adapted{}, fmt.Errorf("orchestrator: parse operations: %w", err)
	}
	op, err := pkgopenapi.Select(operations, in.OperationID)
	if err != nil {
		return Adapted{}, fmt.Errorf("orchestrator: %w", err)
	}
	return Adapted{Definition: pkgopenapi.Definition(op, a.Options...), Source: AdapterOpenAPI}, nil
}

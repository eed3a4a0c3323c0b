// Package components decorates rendered fields with richer client
// components (file drop zones, range read-outs, ...) chosen per field. A
// Registry plugs into the rendering engine as its enrichment hook.
package components

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// PropertyViewType names a component explicitly.
const PropertyViewType = "fd:viewType"

// Built-in component identifiers.
const (
	ComponentFile  = "file"
	ComponentRange = "range"
)

// Matcher decides whether a component should handle the supplied field.
type Matcher func(field *formdef.Field) bool

// Component decorates the node rendered for field. parent is nil when node
// is a container.
type Component interface {
	Decorate(ctx context.Context, node *ui.Node, field *formdef.Field, parent *ui.Node, formID string) error
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(ctx context.Context, node *ui.Node, field *formdef.Field, parent *ui.Node, formID string) error

func (fn ComponentFunc) Decorate(ctx context.Context, node *ui.Node, field *formdef.Field, parent *ui.Node, formID string) error {
	return fn(ctx, node, field, parent, formID)
}

type rule struct {
	name      string
	priority  int
	match     Matcher
	component Component
	order     int
}

// Registry selects components for fields from explicit hints or registered
// matchers. Higher priority wins; ties fall back to registration order.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry returns a registry with the built-in components.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry returns a registry without components.
func NewEmptyRegistry() *Registry {
	return &Registry{}
}

// Register adds a component. A nil matcher makes it reachable through
// explicit hints only. Re-registering a name replaces the earlier entry.
func (r *Registry) Register(name string, priority int, match Matcher, component Component) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("components: name is required")
	}
	if component == nil {
		return fmt.Errorf("components: component %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	entry := rule{name: name, priority: priority, match: match, component: component, order: len(r.rules)}
	for i, existing := range r.rules {
		if existing.name == name {
			entry.order = existing.order
			r.rules[i] = entry
			return nil
		}
	}
	r.rules = append(r.rules, entry)
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(name string, priority int, match Matcher, component Component) {
	if err := r.Register(name, priority, match, component); err != nil {
		panic(err)
	}
}

// Names returns registered component names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.rules))
	for _, entry := range r.rules {
		names = append(names, entry.name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the component name for field. The fd:viewType property,
// then the last segment of the :type resource path, are honoured before
// matchers when they name a registered component.
func (r *Registry) Resolve(field *formdef.Field) (string, bool) {
	entry, ok := r.resolve(field)
	return entry.name, ok
}

func (r *Registry) resolve(field *formdef.Field) (rule, bool) {
	if r == nil || field == nil {
		return rule{}, false
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	for _, hint := range explicitHints(field) {
		for _, entry := range rules {
			if entry.name == hint {
				return entry, true
			}
		}
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match != nil && entry.match(field) {
			return entry, true
		}
	}
	return rule{}, false
}

// Enrich runs the component resolved for field, if any. It satisfies the
// rendering engine's Enricher contract.
func (r *Registry) Enrich(ctx context.Context, node *ui.Node, field *formdef.Field, parent *ui.Node, formID string) error {
	entry, ok := r.resolve(field)
	if !ok {
		return nil
	}
	if err := entry.component.Decorate(ctx, node, field, parent, formID); err != nil {
		return fmt.Errorf("components: %s: %w", entry.name, err)
	}
	return nil
}

func explicitHints(field *formdef.Field) []string {
	var hints []string
	if view := strings.TrimSpace(field.StringProperty(PropertyViewType)); view != "" {
		hints = append(hints, view)
	}
	if resource := strings.TrimSpace(field.ComponentType); resource != "" {
		hints = append(hints, resource[strings.LastIndex(resource, "/")+1:])
	}
	return hints
}

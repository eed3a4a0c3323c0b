// Package normalize converts items-array form definitions into the canonical
// :items/:itemsOrder shape and annotates fields with layout metadata
// templates.
package normalize

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formrender/pkg/formdef"
)

// Keys written under properties.fd:dor.
const (
	KeyDorContainer = "dorContainer"
	KeyPageTemplate = "pageTemplate"
	KeyBind         = "bind"
)

var defaultKinds = map[string]string{
	"date": KindDateTimeField,
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithTemplateStore replaces the embedded template store.
func WithTemplateStore(store *TemplateStore) Option {
	return func(n *Normalizer) {
		if store != nil {
			n.store = store
		}
	}
}

// WithTemplateKind maps an additional field type to a template kind.
func WithTemplateKind(fieldType, kind string) Option {
	return func(n *Normalizer) {
		fieldType = strings.TrimSpace(fieldType)
		if fieldType != "" && kind != "" {
			n.kinds[fieldType] = kind
		}
	}
}

// WithoutPageTemplate disables the root page template annotation.
func WithoutPageTemplate() Option {
	return func(n *Normalizer) {
		n.pageTemplate = false
	}
}

// Normalizer reshapes definitions. It is pure and safe for concurrent use.
type Normalizer struct {
	store        *TemplateStore
	kinds        map[string]string
	pageTemplate bool
}

// New builds a normalizer backed by the embedded templates unless a store is
// supplied.
func New(opts ...Option) (*Normalizer, error) {
	n := &Normalizer{
		kinds:        make(map[string]string, len(defaultKinds)),
		pageTemplate: true,
	}
	for fieldType, kind := range defaultKinds {
		n.kinds[fieldType] = kind
	}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	if n.store == nil {
		store, err := DefaultStore()
		if err != nil {
			return nil, fmt.Errorf("normalize: load default templates: %w", err)
		}
		n.store = store
	}
	return n, nil
}

// MustNew panics when New fails.
func MustNew(opts ...Option) *Normalizer {
	n, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return n
}

// Normalize returns a canonical copy of node. Every property is copied; an
// "items" array is replaced by :items (keyed by item id) and :itemsOrder
// (array order), each item normalized first and then annotated with its
// field type's container template. Empty arrays are dropped. The page
// template is attached once, at the root. The input is never modified.
func (n *Normalizer) Normalize(node map[string]any) map[string]any {
	if node == nil {
		return nil
	}
	result := n.transform(node)
	if n.pageTemplate {
		if page, ok := n.store.Template(KindPageTemplate); ok {
			dor(result)[KeyPageTemplate] = page
		}
	}
	return result
}

func (n *Normalizer) transform(node map[string]any) map[string]any {
	result := make(map[string]any, len(node)+1)
	for key, value := range node {
		if list, ok := formdef.ItemList(value); ok && key == formdef.KeyItemList {
			n.transformItems(result, list)
			continue
		}
		result[key] = DeepCopy(value)
	}
	return result
}

func (n *Normalizer) transformItems(result map[string]any, list []any) {
	if len(list) == 0 {
		return
	}
	items := make(map[string]any, len(list))
	order := make([]any, 0, len(list))
	for i, raw := range list {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		key := itemKey(item, i, items)
		child := n.transform(item)
		n.annotate(child)
		items[key] = child
		order = append(order, key)
	}
	if len(order) == 0 {
		return
	}
	result[formdef.KeyItems] = items
	result[formdef.KeyItemsOrder] = order
}

// itemKey returns the item's id, synthesising one for items without an id
// and suffixing repeated ids so the order stays a permutation of the keys.
func itemKey(item map[string]any, index int, taken map[string]any) string {
	key := formdef.FormatValue(item["id"])
	if key == "" {
		key = fmt.Sprintf("item-%d", index)
	}
	base := key
	for n := 1; ; n++ {
		if _, exists := taken[key]; !exists {
			return key
		}
		key = fmt.Sprintf("%s-%d", base, n)
	}
}

func (n *Normalizer) annotate(item map[string]any) {
	kind, ok := n.kindFor(formdef.FormatValue(item["fieldType"]))
	if !ok {
		return
	}
	template, ok := n.store.Template(kind)
	if !ok {
		return
	}
	container, ok := template.(map[string]any)
	if !ok {
		dor(item)[KeyDorContainer] = template
		return
	}
	if ref := formdef.FormatValue(item["dataRef"]); ref != "" {
		container[KeyBind] = map[string]any{"ref": ref, "match": "dataRef"}
	}
	dor(item)[KeyDorContainer] = container
}

func (n *Normalizer) kindFor(fieldType string) (string, bool) {
	if kind, ok := n.kinds[fieldType]; ok {
		return kind, true
	}
	kind, ok := n.kinds[strings.TrimSuffix(fieldType, "-input")]
	return kind, ok
}

// dor returns properties.fd:dor, creating both levels as needed.
func dor(node map[string]any) map[string]any {
	props, ok := node["properties"].(map[string]any)
	if !ok {
		props = make(map[string]any)
		node["properties"] = props
	}
	block, ok := props[formdef.PropertyDor].(map[string]any)
	if !ok {
		block = make(map[string]any)
		props[formdef.PropertyDor] = block
	}
	return block
}

// Normalize runs the default normalizer.
func Normalize(node map[string]any) (map[string]any, error) {
	n, err := New()
	if err != nil {
		return nil, err
	}
	return n.Normalize(node), nil
}

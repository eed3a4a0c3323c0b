package render

import (
	"context"

	"github.com/goliatone/go-formrender/pkg/decorate"
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// Enricher augments a rendered node after its structure is built. It is
// called once per rendered field and once per container after the
// container's children are attached. It may mutate node but must not move
// it. parent is nil for containers.
type Enricher interface {
	Enrich(ctx context.Context, node *ui.Node, field *formdef.Field, parent *ui.Node, formID string) error
}

// EnricherFunc adapts a function to Enricher.
type EnricherFunc func(ctx context.Context, node *ui.Node, field *formdef.Field, parent *ui.Node, formID string) error

func (fn EnricherFunc) Enrich(ctx context.Context, node *ui.Node, field *formdef.Field, parent *ui.Node, formID string) error {
	return fn(ctx, node, field, parent, formID)
}

// NopEnricher does nothing.
type NopEnricher struct{}

func (NopEnricher) Enrich(context.Context, *ui.Node, *formdef.Field, *ui.Node, string) error {
	return nil
}

// Chain runs enrichers in order and stops at the first error.
type Chain []Enricher

func (c Chain) Enrich(ctx context.Context, node *ui.Node, field *formdef.Field, parent *ui.Node, formID string) error {
	for _, enricher := range c {
		if enricher == nil {
			continue
		}
		if err := enricher.Enrich(ctx, node, field, parent, formID); err != nil {
			return err
		}
	}
	return nil
}

// RepeatGroup inserts repeatable-instance controls and, once the form is
// complete, materialises sibling instances from their template instance.
type RepeatGroup interface {
	decorate.ControlRequester
	Transfer(form *ui.Node)
}

// ChildExtractor returns the ordered children of a container.
type ChildExtractor func(*formdef.Field) []*formdef.Field

// OrderedChildren reads :items in :itemsOrder order.
func OrderedChildren(field *formdef.Field) []*formdef.Field {
	return field.OrderedChildren()
}

// ItemList reads the run-time items array.
func ItemList(field *formdef.Field) []*formdef.Field {
	if field == nil {
		return nil
	}
	return field.List
}

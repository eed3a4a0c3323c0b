package decorate

import (
	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/ui"
)

// Decorator transforms an already built field node in place.
type Decorator interface {
	Decorate(field *formdef.Field, node *ui.Node)
}

// DecoratorFunc adapts a function to Decorator.
type DecoratorFunc func(field *formdef.Field, node *ui.Node)

func (fn DecoratorFunc) Decorate(field *formdef.Field, node *ui.Node) {
	fn(field, node)
}

// Pipeline applies decorators in order.
type Pipeline []Decorator

// Apply runs every decorator against node.
func (p Pipeline) Apply(field *formdef.Field, node *ui.Node) {
	if field == nil || node == nil {
		return
	}
	for _, decorator := range p {
		if decorator != nil {
			decorator.Decorate(field, node)
		}
	}
}

// With returns a copy of the pipeline with extra decorators appended.
func (p Pipeline) With(decorators ...Decorator) Pipeline {
	out := make(Pipeline, 0, len(p)+len(decorators))
	out = append(out, p...)
	return append(out, decorators...)
}

// Default returns the field pipeline: structural, input attributes,
// description.
func Default() Pipeline {
	return Pipeline{
		DecoratorFunc(Structural),
		DecoratorFunc(InputAttributes),
		DecoratorFunc(Description),
	}
}

// Package expr evaluates the small boolean rule language used in form
// definitions:
//
//	country == "DE"
//	age >= 18 && consent
//	!(plan == 'free' || extras.trial)
//
// Identifiers resolve against rules.Scope.Values with dot-path traversal and
// against rules.Scope.Extras through the `extras.` prefix. A bare identifier
// on the right-hand side of a comparison resolves the same way and falls back
// to its literal text when nothing is bound to it.
package expr

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-formrender/pkg/rules"
)

// Evaluator parses and evaluates rule expressions. Parsed expressions are
// cached, so one Evaluator can serve every field of a form concurrently.
type Evaluator struct {
	mu    sync.RWMutex
	cache map[string]node
}

var _ rules.Evaluator = (*Evaluator)(nil)

// New returns an Evaluator with an empty parse cache.
func New() *Evaluator {
	return &Evaluator{cache: make(map[string]node)}
}

// Eval evaluates rule within scope. An empty rule holds.
func (e *Evaluator) Eval(fieldID, rule string, scope rules.Scope) (bool, error) {
	compiled, err := e.compile(rule)
	if err != nil {
		return false, withField(err, fieldID)
	}
	if compiled == nil {
		return true, nil
	}
	ok, err := compiled.eval(scope)
	if err != nil {
		return false, withField(err, fieldID)
	}
	return ok, nil
}

func withField(err error, fieldID string) error {
	if fieldID == "" {
		return err
	}
	return fmt.Errorf("%w (field %q)", err, fieldID)
}

// Check parses rule without evaluating it.
func (e *Evaluator) Check(rule string) error {
	_, err := e.compile(rule)
	return err
}

func (e *Evaluator) compile(rule string) (node, error) {
	e.mu.RLock()
	cached, ok := e.cache[rule]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	lexemes, err := lex(rule)
	if err != nil {
		return nil, err
	}
	var compiled node
	if len(lexemes) > 0 {
		compiled, err = parse(lexemes)
		if err != nil {
			return nil, err
		}
	}

	e.mu.Lock()
	e.cache[rule] = compiled
	e.mu.Unlock()
	return compiled, nil
}

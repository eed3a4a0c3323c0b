package expr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formrender/pkg/formdef"
	"github.com/goliatone/go-formrender/pkg/rules"
)

type node interface {
	eval(scope rules.Scope) (bool, error)
}

type anyOf [2]node

func (n anyOf) eval(scope rules.Scope) (bool, error) {
	ok, err := n[0].eval(scope)
	if err != nil || ok {
		return ok, err
	}
	return n[1].eval(scope)
}

type allOf [2]node

func (n allOf) eval(scope rules.Scope) (bool, error) {
	ok, err := n[0].eval(scope)
	if err != nil || !ok {
		return false, err
	}
	return n[1].eval(scope)
}

type negate struct {
	inner node
}

func (n negate) eval(scope rules.Scope) (bool, error) {
	ok, err := n.inner.eval(scope)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type truthy struct {
	path string
}

func (n truthy) eval(scope rules.Scope) (bool, error) {
	value, _ := resolve(scope, n.path)
	return formdef.Truthy(normalise(value)), nil
}

type compare struct {
	path string
	op   kind
	rhs  lexeme
}

func (n compare) eval(scope rules.Scope) (bool, error) {
	left, _ := resolve(scope, n.path)
	left = normalise(left)

	switch n.rhs.kind {
	case kindNull:
		return n.equality(left == nil)
	case kindBool:
		return n.equality(asBool(left) == (n.rhs.text == "true"))
	case kindNumber:
		want, _ := strconv.ParseFloat(n.rhs.text, 64)
		got, ok := asNumber(left)
		if !ok {
			return n.op == kindNeq, nil
		}
		return n.order(compareFloat(got, want))
	case kindIdent:
		right, ok := resolve(scope, n.rhs.text)
		if !ok {
			return n.strings(formdef.FormatValue(left), n.rhs.text)
		}
		return n.values(left, normalise(right))
	default:
		return n.strings(formdef.FormatValue(left), n.rhs.text)
	}
}

func (n compare) values(left, right any) (bool, error) {
	if l, ok := asNumber(left); ok {
		if r, ok := asNumber(right); ok {
			return n.order(compareFloat(l, r))
		}
	}
	return n.strings(formdef.FormatValue(left), formdef.FormatValue(right))
}

func (n compare) strings(left, right string) (bool, error) {
	return n.order(strings.Compare(left, right))
}

func (n compare) equality(equal bool) (bool, error) {
	switch n.op {
	case kindEq:
		return equal, nil
	case kindNeq:
		return !equal, nil
	default:
		return false, fmt.Errorf("rules/expr: operator %q does not apply to %s", symbols[n.op], n.rhs.text)
	}
}

func (n compare) order(cmp int) (bool, error) {
	switch n.op {
	case kindEq:
		return cmp == 0, nil
	case kindNeq:
		return cmp != 0, nil
	case kindLt:
		return cmp < 0, nil
	case kindLte:
		return cmp <= 0, nil
	case kindGt:
		return cmp > 0, nil
	case kindGte:
		return cmp >= 0, nil
	}
	return false, fmt.Errorf("rules/expr: unsupported operator %q", symbols[n.op])
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// normalise maps the empty string to nil so unanswered fields compare equal
// to null.
func normalise(value any) any {
	if s, ok := value.(string); ok && s == "" {
		return nil
	}
	return value
}

func asBool(value any) bool {
	if s, ok := value.(string); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return parsed
		}
	}
	return formdef.Truthy(value)
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func resolve(scope rules.Scope, path string) (any, bool) {
	if rest, ok := cutPrefixFold(path, "extras."); ok {
		return lookup(scope.Extras, rest)
	}
	return lookup(scope.Values, path)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

// lookup prefers a flattened dotted key over nested traversal.
func lookup(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}
	var current any = values
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok || segment == "" {
			return nil, false
		}
		if current, ok = m[segment]; !ok {
			return nil, false
		}
	}
	return current, true
}

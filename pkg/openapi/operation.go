package openapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Operation is the subset of an OpenAPI operation needed to build a form.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	RequestBody Schema
	Extensions  map[string]any
}

// NewOperation validates the identity of an operation.
func NewOperation(id, method, path string, body Schema) (Operation, error) {
	if id == "" {
		return Operation{}, errors.New("openapi: operation id is required")
	}
	if method == "" {
		return Operation{}, errors.New("openapi: operation method is required")
	}
	if path == "" {
		return Operation{}, errors.New("openapi: operation path is required")
	}
	return Operation{ID: id, Method: strings.ToUpper(method), Path: path, RequestBody: body}, nil
}

// Schema is a request body schema node, decoupled from kin-openapi types.
type Schema struct {
	Ref         string
	Type        string
	Format      string
	Title       string
	Description string
	Default     any
	Enum        []any
	Required    []string
	Properties  map[string]Schema
	Items       *Schema
	Minimum     *float64
	Maximum     *float64
	MinLength   *int
	MaxLength   *int
	MinItems    *int
	MaxItems    *int
	Pattern     string
	ReadOnly    bool
	Extensions  map[string]any
}

// IsRequired reports whether property name is listed as required.
func (s Schema) IsRequired(name string) bool {
	for _, required := range s.Required {
		if required == name {
			return true
		}
	}
	return false
}

// Select returns the operation with id, listing the available ids when it is
// missing.
func Select(operations map[string]Operation, id string) (Operation, error) {
	if op, ok := operations[id]; ok {
		return op, nil
	}
	ids := make([]string, 0, len(operations))
	for key := range operations {
		ids = append(ids, key)
	}
	sort.Strings(ids)
	if id == "" && len(ids) == 1 {
		return operations[ids[0]], nil
	}
	return Operation{}, fmt.Errorf("openapi: operation %q not found (available: %s)", id, strings.Join(ids, ", "))
}

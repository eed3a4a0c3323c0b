package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formrender/pkg/formdef"
	pkgopenapi "github.com/goliatone/go-formrender/pkg/openapi"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) pkgopenapi.Parser {
	return &Parser{options: options}
}

var requestMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Operations converts a Document into a map keyed by operationId. Operations
// without an id are keyed as "<method>:<path>".
func (p *Parser) Operations(ctx context.Context, doc formdef.Document) (map[string]pkgopenapi.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}

	if spec.Paths == nil || spec.Paths.Len() == 0 {
		if !p.options.AllowPartialDocuments {
			return nil, errors.New("openapi parser: document does not contain any paths")
		}
	}
	if p.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	operations := make(map[string]pkgopenapi.Operation)
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			for method, operation := range item.Operations() {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				collect(operations, method, path, operation)
			}
		}
	}

	if len(operations) == 0 && !p.options.AllowPartialDocuments {
		return nil, errors.New("openapi parser: no operations extracted")
	}
	return operations, nil
}

func collect(target map[string]pkgopenapi.Operation, method, path string, operation *openapi3.Operation) {
	if operation == nil {
		return
	}
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	op, err := pkgopenapi.NewOperation(id, method, path, requestSchema(operation.RequestBody))
	if err != nil {
		return
	}
	op.Summary = operation.Summary
	op.Description = operation.Description
	op.Extensions = extensions(operation.Extensions)
	target[id] = op
}

func requestSchema(body *openapi3.RequestBodyRef) pkgopenapi.Schema {
	if body == nil {
		return pkgopenapi.Schema{}
	}
	if body.Value == nil {
		return pkgopenapi.Schema{Ref: body.Ref}
	}
	content := body.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil {
			return convertSchema(mt.Schema)
		}
	}
	for _, mt := range content {
		if mt != nil {
			return convertSchema(mt.Schema)
		}
	}
	return pkgopenapi.Schema{}
}

func convertSchema(ref *openapi3.SchemaRef) pkgopenapi.Schema {
	return convert(ref, make(map[*openapi3.Schema]bool))
}

// convert walks ref depth first. A schema already on the current path is
// emitted as a bare reference so recursive component graphs terminate.
func convert(ref *openapi3.SchemaRef, visiting map[*openapi3.Schema]bool) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	src := ref.Value
	if src == nil || visiting[src] {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}
	visiting[src] = true
	defer delete(visiting, src)

	schema := pkgopenapi.Schema{
		Ref:         ref.Ref,
		Type:        schemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Pattern:     src.Pattern,
		ReadOnly:    src.ReadOnly,
		Extensions:  extensions(src.Extensions),
	}
	if len(src.Required) > 0 {
		schema.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		schema.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		schema.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		for name, property := range src.Properties {
			schema.Properties[name] = convert(property, visiting)
		}
	}
	if src.Items != nil {
		items := convert(src.Items, visiting)
		schema.Items = &items
	}
	schema.Minimum = copyFloat(src.Min)
	schema.Maximum = copyFloat(src.Max)
	if src.MinLength != 0 {
		schema.MinLength = intPtr(src.MinLength)
	}
	if src.MaxLength != nil {
		schema.MaxLength = intPtr(*src.MaxLength)
	}
	if src.MinItems != 0 {
		schema.MinItems = intPtr(src.MinItems)
	}
	if src.MaxItems != nil {
		schema.MaxItems = intPtr(*src.MaxItems)
	}

	for _, part := range src.AllOf {
		mergeAllOf(&schema, convert(part, visiting))
	}
	return schema
}

// mergeAllOf folds an allOf member into target without overriding values
// target already declares.
func mergeAllOf(target *pkgopenapi.Schema, part pkgopenapi.Schema) {
	if target.Type == "" {
		target.Type = part.Type
	}
	if target.Format == "" {
		target.Format = part.Format
	}
	if target.Title == "" {
		target.Title = part.Title
	}
	if target.Description == "" {
		target.Description = part.Description
	}
	target.Required = append(target.Required, part.Required...)
	for name, prop := range part.Properties {
		if target.Properties == nil {
			target.Properties = make(map[string]pkgopenapi.Schema)
		}
		if _, ok := target.Properties[name]; !ok {
			target.Properties[name] = prop
		}
	}
	for key, value := range part.Extensions {
		if target.Extensions == nil {
			target.Extensions = make(map[string]any)
		}
		if _, ok := target.Extensions[key]; !ok {
			target.Extensions[key] = value
		}
	}
}

func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != "null" {
			return value
		}
	}
	return ""
}

func extensions(raw map[string]any) map[string]any {
	result := make(map[string]any)
	for key, value := range raw {
		if key != pkgopenapi.ExtensionNamespace && !strings.HasPrefix(key, pkgopenapi.ExtensionNamespace+"-") {
			continue
		}
		if mapped, ok := value.(map[string]any); ok {
			cloned := make(map[string]any, len(mapped))
			for k, v := range mapped {
				cloned[k] = v
			}
			value = cloned
		}
		result[key] = value
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func copyFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func intPtr(value uint64) *int {
	v := int(value)
	return &v
}

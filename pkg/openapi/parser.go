package openapi

import (
	"context"

	"github.com/goliatone/go-formrender/pkg/formdef"
)

// Parser extracts operations from an OpenAPI document keyed by operationId.
type Parser interface {
	Operations(ctx context.Context, doc formdef.Document) (map[string]Operation, error)
}

// ParserOptions configures a Parser.
type ParserOptions struct {
	// ResolveReferences validates the document and allows external $refs.
	ResolveReferences bool

	// AllowPartialDocuments accepts documents without paths or operations.
	AllowPartialDocuments bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithReferenceResolution toggles reference resolution.
func WithReferenceResolution(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = enabled
	}
}

// WithPartialDocuments toggles support for documents without operations.
func WithPartialDocuments(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowPartialDocuments = enabled
	}
}

// NewParserOptions applies options over the defaults.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{ResolveReferences: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

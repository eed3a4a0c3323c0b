// Package openapi turns OpenAPI operations into form definitions. A parser
// (internal/openapi/parser, backed by kin-openapi) extracts Operation values
// from a document; Definition converts an operation's request body into the
// alternate `items` shape that the normalizer reshapes into a canonical form.
package openapi

// Package builders maps field type tags to the functions that produce a
// field's UI subtree. Unknown tags resolve to a generic wrapped input.
//
// Builders only construct structure. Attribute binding, descriptions and
// repeatable policy are applied afterwards by the decoration pipeline, and
// panel children are appended by the rendering engine.
package builders

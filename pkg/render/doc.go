// Package render walks a canonical form definition and produces the UI tree.
//
// Engine.Render builds every child of a container concurrently, joins them
// and appends the results in definition order, so the output never depends
// on which child finished first. Each produced field node goes through the
// builder registry and the decoration pipeline; panels recurse, other fields
// and every finished container are handed to the Enricher.
//
// The package also defines the output side: Renderer implementations turn a
// finished tree into bytes and are looked up by name in a Registry.
package render

// Package ui holds the backend-agnostic element tree produced by the
// rendering engine. Nodes carry a tag, ordered attributes, text and children;
// HTML serialisation lives in html.go and is only one of several consumers.
package ui

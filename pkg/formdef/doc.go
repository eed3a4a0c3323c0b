// Package formdef defines the canonical form definition model consumed by the
// rendering engine. A definition is an ordered tree: container nodes carry
// their children as a `:items` map plus an `:itemsOrder` key sequence, and the
// order sequence is authoritative. The package also owns decoding of raw
// definition payloads (cleanup, double-encoded wrappers, JSONC tolerance) and
// the Source/Document wrappers used by loaders.
package formdef

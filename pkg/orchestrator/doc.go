// Package orchestrator wires the loader → adapter → normalizer → render
// engine → output renderer pipeline behind a single Generate call.
//
// Run-time mode finishes the rendered form the way a browser page would:
// CAPTCHA attachment, validation wiring, repeatable group transfer and the
// lazily loaded rule engine. Authoring mode renders the bare tree.
package orchestrator

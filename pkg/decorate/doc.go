// Package decorate holds the post-build transforms applied to field nodes.
//
// Field nodes go through Structural, InputAttributes and Description in that
// order (see Default). Panels additionally receive RepeatablePanel when they
// are built and PanelContainer once their children are attached. Every
// decorator is a no-op when the data it reads is absent.
package decorate

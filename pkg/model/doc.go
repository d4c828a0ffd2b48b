// Package model exposes the typed object model built from parsed TL
// declarations: namespaces, base-type unions, concrete constructors, and
// resolved parameter type references. The implementation lives under
// internal/model; this package re-exports the public surface.
package model

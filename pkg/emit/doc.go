// Package emit defines the renderer seam between the object model and
// generated output: the Renderer contract, the generated File unit, and a
// registry for renderer discovery. The Go renderer lives under
// internal/emit/golang.
package emit

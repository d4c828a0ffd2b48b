// Package schema defines the public contracts for loading and parsing TL
// schema text: Source/Document wrappers, the raw Declaration list produced by
// parsing, and the Parser and Loader seams implemented under internal/schema.
package schema

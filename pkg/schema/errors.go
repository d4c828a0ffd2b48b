package schema

import "fmt"

// SyntaxError reports malformed schema text. It is always fatal for a
// generation run: the schema author has to fix the input.
type SyntaxError struct {
	// Line is the 1-based line number of the offending declaration.
	Line int
	// Token is the offending token, possibly empty when the whole line is
	// malformed.
	Token string
	// Reason describes what was expected.
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("schema: line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("schema: line %d: %s (near %q)", e.Line, e.Reason, e.Token)
}

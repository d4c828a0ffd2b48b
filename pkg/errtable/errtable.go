package errtable

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Entry is one row of an error source: the pattern identifier and its
// human description. An `X` token inside the identifier marks a numeric
// placeholder, so `FLOOD_WAIT_X` matches `FLOOD_WAIT_30`.
type Entry struct {
	ID      string
	Message string
}

// Source is one code group of entries, typically loaded from a
// `CODE_NAME.tsv` file.
type Source struct {
	Code    int
	Name    string
	Entries []Entry
}

// Kind is the resolved classification of an RPC error message.
type Kind struct {
	// Code is the numeric error code the kind belongs to.
	Code int
	// ID is the pattern that matched; empty for generic kinds.
	ID string
	// Name is the exported-style kind name, e.g. FloodWait.
	Name string
	// Description is the table's human text for the matched pattern.
	Description string
	// Value carries the numeric placeholder capture when HasValue is set.
	Value    int
	HasValue bool
	// Generic marks kinds synthesized for unmatched messages.
	Generic bool
	// Message is the raw server message as received.
	Message string
}

// pattern is one compiled entry: exact, or prefix/suffix around the number.
type pattern struct {
	entry    Entry
	code     int
	name     string
	wildcard bool
	prefix   string
	suffix   string
	order    int
}

type group struct {
	code     int
	name     string
	exact    map[string]pattern
	wildcard []pattern
}

// Table is the compiled two-level lookup: code first, then pattern.
type Table struct {
	groups map[int]*group
	order  []int
}

// Compile builds a Table from ordered sources. Identical patterns repeated
// under one code are rejected with a PatternAmbiguityError, since resolution
// between them could never be meaningful.
func Compile(sources []Source) (*Table, error) {
	t := &Table{groups: make(map[int]*group)}

	next := 0
	for _, src := range sources {
		g, ok := t.groups[src.Code]
		if !ok {
			g = &group{
				code:  src.Code,
				name:  camel(src.Name),
				exact: make(map[string]pattern),
			}
			t.groups[src.Code] = g
			t.order = append(t.order, src.Code)
		}

		for _, entry := range src.Entries {
			p := pattern{
				entry: entry,
				code:  src.Code,
				name:  kindName(entry.ID),
				order: next,
			}
			next++

			prefix, suffix, wildcard := splitPlaceholder(entry.ID)
			if wildcard {
				for _, existing := range g.wildcard {
					if existing.entry.ID == entry.ID {
						return nil, &PatternAmbiguityError{Code: src.Code, Pattern: entry.ID}
					}
				}
				p.wildcard = true
				p.prefix = prefix
				p.suffix = suffix
				g.wildcard = append(g.wildcard, p)
				continue
			}

			if _, dup := g.exact[entry.ID]; dup {
				return nil, &PatternAmbiguityError{Code: src.Code, Pattern: entry.ID}
			}
			g.exact[entry.ID] = p
		}
	}

	return t, nil
}

// MustCompile panics on compile failure. Generated artifacts use it at
// package init, where a bad table is a build defect.
func MustCompile(sources []Source) *Table {
	t, err := Compile(sources)
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve classifies one (code, message) pair. Exact patterns win, then the
// longest matching wildcard with its captured value, then a generic kind for
// the code, then a fully generic kind. Ties between equally long wildcards
// go to the earlier source row, so resolution is order-stable.
func (t *Table) Resolve(code int, message string) Kind {
	g, ok := t.groups[code]
	if !ok {
		return Kind{
			Code:    code,
			Name:    "Unknown",
			Generic: true,
			Message: message,
		}
	}

	if p, ok := g.exact[message]; ok {
		return Kind{
			Code:        code,
			ID:          p.entry.ID,
			Name:        p.name,
			Description: p.entry.Message,
			Message:     message,
		}
	}

	var (
		best      pattern
		bestValue int
		found     bool
	)
	for _, p := range g.wildcard {
		value, ok := p.capture(message)
		if !ok {
			continue
		}
		if !found || p.specificity() > best.specificity() {
			best = p
			bestValue = value
			found = true
		}
	}
	if found {
		return Kind{
			Code:        code,
			ID:          best.entry.ID,
			Name:        best.name,
			Description: best.entry.Message,
			Value:       bestValue,
			HasValue:    true,
			Message:     message,
		}
	}

	return Kind{
		Code:    code,
		Name:    g.name,
		Generic: true,
		Message: message,
	}
}

// Kinds returns every known kind in compiled order: one registry entry per
// table row, suitable for artifact generation.
func (t *Table) Kinds() []Kind {
	var all []pattern
	for _, code := range t.order {
		g := t.groups[code]
		for _, p := range g.exact {
			all = append(all, p)
		}
		all = append(all, g.wildcard...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].order < all[j].order })

	kinds := make([]Kind, 0, len(all))
	for _, p := range all {
		kinds = append(kinds, Kind{
			Code:        p.code,
			ID:          p.entry.ID,
			Name:        p.name,
			Description: p.entry.Message,
		})
	}
	return kinds
}

// Codes returns the known error codes in source order.
func (t *Table) Codes() []int {
	out := make([]int, len(t.order))
	copy(out, t.order)
	return out
}

// GroupName returns the camel-cased name of a code group.
func (t *Table) GroupName(code int) (string, bool) {
	g, ok := t.groups[code]
	if !ok {
		return "", false
	}
	return g.name, true
}

func (p pattern) specificity() int {
	return len(p.prefix) + len(p.suffix)
}

// capture matches a wildcard pattern against a message, extracting the
// numeric placeholder.
func (p pattern) capture(message string) (int, bool) {
	if len(message) <= len(p.prefix)+len(p.suffix) {
		return 0, false
	}
	if !strings.HasPrefix(message, p.prefix) || !strings.HasSuffix(message, p.suffix) {
		return 0, false
	}
	middle := message[len(p.prefix) : len(message)-len(p.suffix)]
	value, err := strconv.Atoi(middle)
	if err != nil {
		return 0, false
	}
	return value, true
}

// splitPlaceholder finds the underscore-delimited `X` token inside an id and
// returns the literal text around it.
func splitPlaceholder(id string) (prefix, suffix string, wildcard bool) {
	tokens := strings.Split(id, "_")
	for i, tok := range tokens {
		if tok != "X" {
			continue
		}
		prefix = strings.Join(tokens[:i], "_") + "_"
		if i+1 < len(tokens) {
			suffix = "_" + strings.Join(tokens[i+1:], "_")
		}
		return prefix, suffix, true
	}
	return "", "", false
}

// kindName derives the exported name of one pattern: placeholder dropped,
// remaining tokens camel-cased, a leading digit 2 spelled out.
func kindName(id string) string {
	return leadingTwo(camel(strings.ReplaceAll(id, "_X", "")))
}

// camel title-cases underscore-separated tokens. A letter following a digit
// starts a new word, so `2FA` becomes `2Fa`.
func camel(s string) string {
	var sb strings.Builder
	for _, part := range strings.Split(s, "_") {
		prevLetter := false
		for _, r := range strings.ToLower(part) {
			if unicode.IsLetter(r) && !prevLetter {
				r = unicode.ToUpper(r)
			}
			prevLetter = unicode.IsLetter(r)
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func leadingTwo(name string) string {
	if strings.HasPrefix(name, "2") {
		return "Two" + name[1:]
	}
	return name
}

// PatternAmbiguityError reports two identical patterns registered under the
// same code.
type PatternAmbiguityError struct {
	Code    int
	Pattern string
}

func (e *PatternAmbiguityError) Error() string {
	return fmt.Sprintf("errtable: code %d: pattern %q registered twice", e.Code, e.Pattern)
}

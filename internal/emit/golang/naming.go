package golang

import (
	"strings"
	"unicode"
)

// initialisms are spelled in full caps in exported Go names.
var initialisms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"api":  "API",
	"ip":   "IP",
	"ipv4": "IPv4",
	"ipv6": "IPv6",
	"ttl":  "TTL",
	"dc":   "DC",
	"rsa":  "RSA",
	"sha1": "SHA1",
	"json": "JSON",
	"cdn":  "CDN",
	"pts":  "Pts",
	"qts":  "Qts",
}

// exported converts a snake_case or camelCase schema identifier into an
// exported Go name.
func exported(name string) string {
	var sb strings.Builder
	for _, part := range splitIdentifier(name) {
		lower := strings.ToLower(part)
		if repl, ok := initialisms[lower]; ok {
			sb.WriteString(repl)
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		sb.WriteString(string(r))
	}
	return sb.String()
}

// splitIdentifier breaks snake_case and camelCase identifiers into parts.
func splitIdentifier(name string) []string {
	var (
		parts []string
		cur   strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}
	var prev rune
	for _, r := range name {
		switch {
		case r == '_':
			flush()
		case unicode.IsUpper(r) && prev != 0 && !unicode.IsUpper(prev):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
		prev = r
	}
	flush()
	return parts
}

// entityName builds the exported Go type name for a combinator, prefixing
// the namespace so names stay unique across the whole schema.
func entityName(namespace, name string) string {
	if namespace == "" {
		return exported(name)
	}
	return exported(namespace) + exported(name)
}

func splitQualified(qualified string) (namespace, name string) {
	if idx := strings.LastIndex(qualified, "."); idx >= 0 {
		return qualified[:idx], qualified[idx+1:]
	}
	return "", qualified
}

// fileStem maps a namespace to its output file stem.
func fileStem(namespace string) string {
	if namespace == "" {
		return "root"
	}
	return strings.ToLower(namespace)
}

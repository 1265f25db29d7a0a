package core

import (
	"strconv"
	"strings"
)

// MaxIdentifierLength is the longest identifier generated (PostgreSQL's NAMEDATALEN-1).
const MaxIdentifierLength = 63

// MaxSuffixAttempts bounds the numeric suffixes tried for one colliding name.
var MaxSuffixAttempts = 10000

// fallbackName replaces names with no usable characters.
const fallbackName = "unnamed"

// reservedWords are keywords that cannot appear unquoted as table or column names.
var reservedWords = map[string]bool{
	"all": true, "and": true, "any": true, "as": true, "asc": true, "between": true,
	"by": true, "case": true, "check": true, "column": true, "constraint": true,
	"create": true, "cross": true, "default": true, "delete": true, "desc": true,
	"distinct": true, "drop": true, "else": true, "end": true, "except": true,
	"false": true, "fetch": true, "for": true, "foreign": true, "from": true,
	"full": true, "grant": true, "group": true, "having": true, "in": true,
	"inner": true, "insert": true, "intersect": true, "into": true, "is": true,
	"join": true, "key": true, "left": true, "like": true, "limit": true, "not": true,
	"null": true, "offset": true, "on": true, "or": true, "order": true, "outer": true,
	"primary": true, "references": true, "right": true, "select": true, "set": true,
	"table": true, "then": true, "to": true, "true": true, "union": true,
	"unique": true, "update": true, "user": true, "using": true, "values": true,
	"when": true, "where": true, "with": true,
}

// NormalizeUnique maps display names to SQL identifiers, one per input and in
// the same order. Every output is lowercase, matches [a-z_][a-z0-9_]*, is not a
// reserved word, and is unique within the returned slice. The first occurrence
// of a name keeps the bare form; later collisions get _2, _3, ... suffixes.
//
// The mapping depends only on the input slice, so identical inputs always
// produce identical outputs.
func NormalizeUnique(names []string) ([]string, error) {
	used := make(map[string]bool, len(names))
	out := make([]string, len(names))

	for i, name := range names {
		base := toDBName(name)
		unique, ok := ensureUnique(base, used)
		if !ok {
			return nil, &NameGenerationError{Names: []string{name}}
		}
		used[unique] = true
		out[i] = unique
	}

	if len(out) != len(names) {
		return nil, &NameGenerationError{Names: names}
	}
	return out, nil
}

// toDBName converts a display name to a legal identifier.
// "Transaction ID" -> "transaction_id"
// "2024 Sales (EUR)" -> "_2024_sales_eur"
func toDBName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(lower))
	pendingSep := false
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	s := strings.Trim(b.String(), "_")
	if s == "" {
		s = fallbackName
	}
	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	s = truncate(s, MaxIdentifierLength)
	if reservedWords[s] {
		s += "_"
	}
	return s
}

func ensureUnique(base string, used map[string]bool) (string, bool) {
	if !used[base] {
		return base, true
	}
	for n := 2; n <= MaxSuffixAttempts+1; n++ {
		suffix := "_" + strconv.Itoa(n)
		candidate := truncate(base, MaxIdentifierLength-len(suffix)) + suffix
		if !used[candidate] {
			return candidate, true
		}
	}
	return "", false
}

// truncate shortens an ASCII identifier to at most n bytes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

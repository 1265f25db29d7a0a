package database

import (
	"strconv"
	"strings"
)

// walkPlaceholders copies sql into b, calling emit for every "?" outside
// quoted literals and identifiers. n is the 1-based placeholder index.
func walkPlaceholders(sql string, b *strings.Builder, emit func(b *strings.Builder, n int)) {
	var quote byte
	n := 0
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == '?':
			n++
			emit(b, n)
			continue
		}
		b.WriteByte(ch)
	}
}

// Rebind rewrites "?" placeholders to PostgreSQL's $1, $2, ... form.
// Question marks inside quoted strings are left alone.
func Rebind(sql string) string {
	if !strings.Contains(sql, "?") {
		return sql
	}
	var b strings.Builder
	b.Grow(len(sql) + 8)
	walkPlaceholders(sql, &b, func(b *strings.Builder, n int) {
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	})
	return b.String()
}

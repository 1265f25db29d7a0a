package database

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DryRun is a Conn that prints statements instead of executing them.
// Placeholders are replaced by SQL literals so the output is a runnable
// script.
type DryRun struct {
	w     io.Writer
	count int
}

// NewDryRun returns a DryRun writing to w.
func NewDryRun(w io.Writer) *DryRun {
	return &DryRun{w: w}
}

func (d *DryRun) Exec(_ context.Context, sql string, args ...any) error {
	d.count++
	_, err := fmt.Fprintf(d.w, "%s;\n", Interpolate(sql, args))
	return err
}

// Statements reports how many statements were written.
func (d *DryRun) Statements() int { return d.count }

func (d *DryRun) Ping(context.Context) error { return nil }

func (d *DryRun) Close() error { return nil }

// Interpolate substitutes args for "?" placeholders as SQL literals.
// Missing args render as "?".
func Interpolate(sql string, args []any) string {
	if len(args) == 0 {
		return sql
	}
	var b strings.Builder
	walkPlaceholders(sql, &b, func(b *strings.Builder, n int) {
		if n > len(args) {
			b.WriteByte('?')
			return
		}
		b.WriteString(literal(args[n-1]))
	})
	return b.String()
}

func literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quote(x)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return quote(x.Format(time.RFC3339Nano))
	default:
		return quote(fmt.Sprint(x))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

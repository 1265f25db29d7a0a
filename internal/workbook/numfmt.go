package workbook

import "strings"

// isDateNumFmt reports whether a built-in number format id is a date or
// time format. Ids 14-22 and 45-47 are the ECMA-376 date/time formats;
// 27-36 and 50-58 are their East Asian variants.
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom format code formats dates or
// times. Quoted literals, escaped characters and [bracketed] sections such as
// colors and locales are ignored.
func isDateFormatCode(code string) bool {
	// Only the first section decides; later ones cover negatives and text.
	if i := indexUnquoted(code, ';'); i >= 0 {
		code = code[:i]
	}

	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case inBracket:
			if ch == ']' {
				inBracket = false
			}
		case ch == '"':
			inQuote = true
		case ch == '[':
			if strings.HasPrefix(strings.ToLower(code[i:]), "[h]") ||
				strings.HasPrefix(strings.ToLower(code[i:]), "[m]") ||
				strings.HasPrefix(strings.ToLower(code[i:]), "[s]") {
				return true
			}
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		default:
			switch ch | 0x20 {
			case 'y', 'd', 'h', 's', 'm':
				return true
			}
		}
	}
	return false
}

func indexUnquoted(s string, sep byte) int {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuote = !inQuote
		case sep:
			if !inQuote {
				return i
			}
		}
	}
	return -1
}

package core

import "sort"

// UnifyColumnType reduces the values observed in one column to a single type.
//
// Empty cells match any type. A column with no non-empty cells is TypeEmpty;
// a column with exactly one non-empty kind gets that kind's type; anything
// else fails with a *SchemaInferenceError naming the sheet and column.
func UnifyColumnType(sheet, column string, values []Value) (ColumnType, error) {
	seen := make(map[Kind]bool, 2)
	for _, v := range values {
		if v.Kind() == KindEmpty {
			continue
		}
		seen[v.Kind()] = true
	}

	switch len(seen) {
	case 0:
		return TypeEmpty, nil
	case 1:
		for k := range seen {
			return columnTypeOf(k)
		}
	}

	kinds := make([]Kind, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return TypeEmpty, &SchemaInferenceError{Sheet: sheet, Column: column, Kinds: kinds}
}

// columnTypeOf maps a non-empty value kind to its column type.
func columnTypeOf(k Kind) (ColumnType, error) {
	switch k {
	case KindString:
		return TypeString, nil
	case KindNumber:
		return TypeNumber, nil
	case KindDateTime:
		return TypeDate, nil
	case KindBoolean:
		return TypeBoolean, nil
	case KindEmpty:
		return TypeEmpty, nil
	default:
		return TypeEmpty, invariantf("unknown value kind %s", k)
	}
}

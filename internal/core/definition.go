package core

import "unicode/utf8"

// BuildTableDefinitions infers one TableDefinition per sheet that has data.
//
// Table names are normalized across every sheet name in the workbook before
// any column work starts, so collisions are resolved workbook-wide. Sheets
// without data rows still reserve their name but produce no definition.
func BuildTableDefinitions(wb Workbook) ([]TableDefinition, error) {
	sheetNames := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		sheetNames[i] = s.Name
	}

	tableNames, err := NormalizeUnique(sheetNames)
	if err != nil {
		return nil, err
	}
	if len(tableNames) != len(wb.Sheets) {
		return nil, invariantf("got %d table names for %d sheets", len(tableNames), len(wb.Sheets))
	}

	defs := make([]TableDefinition, 0, len(wb.Sheets))
	for i, sheet := range wb.Sheets {
		if len(sheet.Rows) == 0 {
			continue
		}
		def, err := BuildTableDefinition(tableNames[i], sheet)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// BuildTableDefinition infers the definition of a single non-empty sheet
// under an already-normalized table name.
func BuildTableDefinition(tableName string, sheet Sheet) (TableDefinition, error) {
	if len(sheet.Rows) == 0 {
		return TableDefinition{}, invariantf("sheet %q has no data rows", sheet.Name)
	}
	for r, row := range sheet.Rows {
		if len(row) != len(sheet.Header) {
			return TableDefinition{}, invariantf("sheet %q: row %d has %d cells, header has %d",
				sheet.Name, r, len(row), len(sheet.Header))
		}
	}

	dbNames, err := NormalizeUnique(sheet.Header)
	if err != nil {
		return TableDefinition{}, err
	}
	if len(dbNames) != len(sheet.Header) {
		return TableDefinition{}, invariantf("sheet %q: got %d column names for %d header cells",
			sheet.Name, len(dbNames), len(sheet.Header))
	}

	cols := make([]ColumnDefinition, len(sheet.Header))
	for i, display := range sheet.Header {
		values := sheet.Column(i)
		typ, err := UnifyColumnType(sheet.Name, display, values)
		if err != nil {
			return TableDefinition{}, err
		}

		maxLen := NoLength
		if typ == TypeString {
			maxLen = maxStringLength(values)
		}

		cols[i] = ColumnDefinition{
			DisplayName:     display,
			DBName:          dbNames[i],
			Type:            typ,
			MaxStringLength: maxLen,
		}
	}

	return TableDefinition{
		SheetName: sheet.Name,
		TableName: tableName,
		Columns:   cols,
	}, nil
}

// maxStringLength returns the longest String cell in characters. Empty cells
// do not count.
func maxStringLength(values []Value) int {
	longest := 0
	for _, v := range values {
		if s, ok := v.AsString(); ok {
			if n := utf8.RuneCountInString(s); n > longest {
				longest = n
			}
		}
	}
	return longest
}

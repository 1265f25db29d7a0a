// Package core provides the business logic for spreadsheet import operations.
// This package has no UI or driver dependencies and can be used by any frontend.
package core

import (
	"context"
	"fmt"
)

// Executor runs generated statements against a database.
// Satisfied by the connections returned from database.Open and by
// database.DryRun.
type Executor interface {
	Exec(ctx context.Context, sql string, args ...any) error
}

// Row is one data row of a sheet, positionally aligned with Sheet.Header.
type Row []Value

// Sheet is one worksheet: its display name, header cells in order, and data
// rows in original order. Blank rows are already removed by the reader.
type Sheet struct {
	Name   string
	Header []string
	Rows   []Row
}

// Column returns the values of column i across all rows.
func (s Sheet) Column(i int) []Value {
	col := make([]Value, len(s.Rows))
	for r, row := range s.Rows {
		if i < len(row) {
			col[r] = row[i]
		}
	}
	return col
}

// Field is one header name paired with its cell value.
type Field struct {
	Name  string
	Value Value
}

// Record returns row r as an ordered name-to-value listing.
func (s Sheet) Record(r int) []Field {
	row := s.Rows[r]
	fields := make([]Field, len(s.Header))
	for i, name := range s.Header {
		fields[i] = Field{Name: name}
		if i < len(row) {
			fields[i].Value = row[i]
		}
	}
	return fields
}

// Workbook is the reader's output: sheets in workbook order.
type Workbook struct {
	Sheets []Sheet
}

// ColumnType is the single SQL-facing type inferred for a column.
type ColumnType int

const (
	TypeEmpty ColumnType = iota
	TypeString
	TypeNumber
	TypeDate
	TypeBoolean
)

// String returns the upper-case type name.
func (t ColumnType) String() string {
	switch t {
	case TypeEmpty:
		return "EMPTY"
	case TypeString:
		return "STRING"
	case TypeNumber:
		return "NUMBER"
	case TypeDate:
		return "DATE"
	case TypeBoolean:
		return "BOOLEAN"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// MarshalText lets column types appear by name in JSON plans.
func (t ColumnType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses the names written by MarshalText.
func (t *ColumnType) UnmarshalText(b []byte) error {
	for c := TypeEmpty; c <= TypeBoolean; c++ {
		if c.String() == string(b) {
			*t = c
			return nil
		}
	}
	return fmt.Errorf("unknown column type %q", b)
}

// NoLength marks MaxStringLength on non-string columns.
const NoLength = -1

// ColumnDefinition describes one column of an inferred table.
type ColumnDefinition struct {
	DisplayName     string     `json:"displayName"`
	DBName          string     `json:"dbName"`
	Type            ColumnType `json:"type"`
	MaxStringLength int        `json:"maxStringLength"` // NoLength unless Type is TypeString
}

// TableDefinition is the inferred structure of one sheet.
// Built once by BuildTableDefinitions and read-only afterwards.
type TableDefinition struct {
	SheetName string             `json:"sheetName"`
	TableName string             `json:"tableName"`
	Columns   []ColumnDefinition `json:"columns"`
}

// ColumnNames returns the database column names in column order.
func (d TableDefinition) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.DBName
	}
	return names
}

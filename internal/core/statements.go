package core

import (
	"strconv"
	"strings"
)

const (
	// StringLengthMargin is added to the longest observed string when sizing
	// VARCHAR columns; target encodings can expand text slightly.
	StringLengthMargin = 3

	// EmptyColumnLength sizes columns that held no values at all.
	EmptyColumnLength = 10
)

// SQLType returns the column type used in CREATE TABLE for c. It panics
// with an *InvariantViolation if c.Type is not one of the five known types,
// which only a hand-built ColumnDefinition can hold.
func SQLType(c ColumnDefinition) string {
	switch c.Type {
	case TypeBoolean:
		return "BOOLEAN"
	case TypeDate:
		return "TIMESTAMP WITH TIME ZONE"
	case TypeNumber:
		return "DOUBLE PRECISION"
	case TypeEmpty:
		return varchar(EmptyColumnLength)
	case TypeString:
		return varchar(c.MaxStringLength + StringLengthMargin)
	default:
		panic(invariantf("column %q has unknown type %s", c.DBName, c.Type))
	}
}

func varchar(n int) string {
	return "VARCHAR(" + strconv.Itoa(n) + ")"
}

// RenderCreateTable renders the DDL for def. Like SQLType it panics on an
// unknown column type; definitions from BuildTableDefinitions never carry one.
//
//	CREATE TABLE orders (id DOUBLE PRECISION, paid BOOLEAN)
func RenderCreateTable(def TableDefinition) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(def.TableName)
	b.WriteString(" (")
	for i, c := range def.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.DBName)
		b.WriteByte(' ')
		b.WriteString(SQLType(c))
	}
	b.WriteByte(')')
	return b.String()
}

// RenderInsert renders a parameterized INSERT with one positional "?" per
// column, in column order. BindRow produces arguments in the same order.
func RenderInsert(def TableDefinition) string {
	placeholders := make([]string, len(def.Columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return "INSERT INTO " + def.TableName +
		" (" + strings.Join(def.ColumnNames(), ", ") + ")" +
		" VALUES (" + strings.Join(placeholders, ", ") + ")"
}

// RenderDropTable renders the statement used to recreate a table on replace.
func RenderDropTable(def TableDefinition) string {
	return "DROP TABLE IF EXISTS " + def.TableName
}

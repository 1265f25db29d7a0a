// Package workbook reads .xlsx files into core.Workbook values.
//
// Row 1 of every sheet is the header. Each later row becomes one core.Row,
// aligned to the header, with every cell mapped to a tagged core.Value.
package workbook

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheet2db/internal/core"
)

// Option configures Read and ReadFile.
type Option func(*reader)

// WithLogger sets the logger used for skipped sheets and rows.
func WithLogger(l *slog.Logger) Option {
	return func(r *reader) {
		if l != nil {
			r.logger = l
		}
	}
}

type reader struct {
	f        *excelize.File
	logger   *slog.Logger
	date1904 bool

	// styles caches the date check per style index.
	styles map[int]bool
}

// ReadFile opens the workbook at path and reads it.
func ReadFile(path string, opts ...Option) (core.Workbook, error) {
	fh, err := os.Open(path)
	if err != nil {
		return core.Workbook{}, fmt.Errorf("open workbook: %w", err)
	}
	defer fh.Close()

	return Read(fh, opts...)
}

// Read parses an .xlsx stream. Sheets keep workbook order. Sheets with no
// data rows are left out.
func Read(r io.Reader, opts ...Option) (core.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return core.Workbook{}, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	rd := &reader{
		f:      f,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		styles: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(rd)
	}

	props, err := f.GetWorkbookProps()
	if err == nil && props.Date1904 != nil {
		rd.date1904 = *props.Date1904
	}

	var wb core.Workbook
	for _, name := range f.GetSheetList() {
		sheet, ok, err := rd.readSheet(name)
		if err != nil {
			return core.Workbook{}, err
		}
		if !ok {
			continue
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

// readSheet returns ok=false for sheets that hold no data rows.
func (rd *reader) readSheet(name string) (core.Sheet, bool, error) {
	rows, err := rd.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return core.Sheet{}, false, fmt.Errorf("read sheet %q: %w", name, err)
	}
	if len(rows) <= 1 {
		rd.logger.Info("skipping sheet without data rows", "sheet", name, "rows", len(rows))
		return core.Sheet{}, false, nil
	}

	header, err := rd.readHeader(name, rows[0])
	if err != nil {
		return core.Sheet{}, false, err
	}

	sheet := core.Sheet{Name: name, Header: header}
	for i, raw := range rows[1:] {
		rowNum := i + 2
		if len(raw) > len(header) {
			return core.Sheet{}, false, &StructureError{
				Sheet: name,
				Row:   rowNum,
				Msg:   fmt.Sprintf("row has %d cells but header has %d", len(raw), len(header)),
			}
		}

		row := make(core.Row, len(header))
		blank := true
		for c, text := range raw {
			v, err := rd.cellValue(name, c+1, rowNum, text)
			if err != nil {
				return core.Sheet{}, false, err
			}
			row[c] = v
			if !v.IsEmpty() {
				blank = false
			}
		}
		if blank {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	if len(sheet.Rows) == 0 {
		rd.logger.Info("skipping sheet with only blank rows", "sheet", name)
		return core.Sheet{}, false, nil
	}
	return sheet, true, nil
}

func (rd *reader) readHeader(sheet string, raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, &StructureError{Sheet: sheet, Row: 1, Msg: "header row is empty"}
	}

	header := make([]string, len(raw))
	for c, text := range raw {
		col := columnName(c + 1)
		if strings.TrimSpace(text) == "" {
			return nil, &StructureError{Sheet: sheet, Row: 1, Column: col, Msg: "header cell is blank"}
		}
		typ, err := rd.f.GetCellType(sheet, col+"1")
		if err != nil {
			return nil, fmt.Errorf("read header of sheet %q: %w", sheet, err)
		}
		if !isTextCell(typ) {
			return nil, &StructureError{Sheet: sheet, Row: 1, Column: col, Msg: "header cell must be text"}
		}
		header[c] = text
	}
	return header, nil
}

// cellValue maps one raw cell to a tagged value. col and row are 1-based.
func (rd *reader) cellValue(sheet string, col, row int, text string) (core.Value, error) {
	if text == "" {
		return core.EmptyValue(), nil
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return core.Value{}, err
	}
	typ, err := rd.f.GetCellType(sheet, cell)
	if err != nil {
		return core.Value{}, fmt.Errorf("read cell %s of sheet %q: %w", cell, sheet, err)
	}

	unsupported := func(msg string) error {
		return &StructureError{Sheet: sheet, Row: row, Column: columnName(col), Msg: msg}
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return core.StringValue(text), nil
	case excelize.CellTypeBool:
		b, ok := parseBool(text)
		if !ok {
			return core.Value{}, unsupported(fmt.Sprintf("invalid boolean %q", text))
		}
		return core.BooleanValue(b), nil
	case excelize.CellTypeDate:
		t, ok := parseISODate(text)
		if !ok {
			return core.Value{}, unsupported(fmt.Sprintf("invalid date %q", text))
		}
		return core.DateTimeValue(t), nil
	case excelize.CellTypeError:
		return core.Value{}, unsupported(fmt.Sprintf("unsupported cell type: error value %s", text))
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return core.Value{}, unsupported(fmt.Sprintf("invalid number %q", text))
		}
		isDate, err := rd.isDateCell(sheet, cell)
		if err != nil {
			return core.Value{}, err
		}
		if isDate {
			t, err := excelize.ExcelDateToTime(f, rd.date1904)
			if err != nil {
				return core.Value{}, unsupported(err.Error())
			}
			return core.DateTimeValue(t), nil
		}
		return core.NumberValue(f), nil
	default:
		return core.Value{}, unsupported(fmt.Sprintf("unsupported cell type %d", typ))
	}
}

func (rd *reader) isDateCell(sheet, cell string) (bool, error) {
	idx, err := rd.f.GetCellStyle(sheet, cell)
	if err != nil {
		return false, fmt.Errorf("read style of %s in sheet %q: %w", cell, sheet, err)
	}
	if isDate, ok := rd.styles[idx]; ok {
		return isDate, nil
	}

	style, err := rd.f.GetStyle(idx)
	if err != nil {
		return false, fmt.Errorf("read style %d: %w", idx, err)
	}
	isDate := isDateNumFmt(style.NumFmt)
	if style.CustomNumFmt != nil {
		isDate = isDateFormatCode(*style.CustomNumFmt)
	}
	rd.styles[idx] = isDate
	return isDate, nil
}

func isTextCell(typ excelize.CellType) bool {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return true
	}
	return false
}

func columnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return strconv.Itoa(col)
	}
	return name
}

func parseBool(s string) (bool, bool) {
	switch strings.ToUpper(s) {
	case "1", "TRUE":
		return true, true
	case "0", "FALSE":
		return false, true
	}
	return false, false
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseISODate(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

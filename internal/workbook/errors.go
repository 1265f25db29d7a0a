package workbook

import (
	"fmt"

	"github.com/JonMunkholm/sheet2db/internal/core"
)

// StructureError reports a workbook whose layout cannot be turned into
// tables: a bad header, a row wider than its header, or an unsupported cell.
// Row is 1-based as shown in spreadsheet applications; 0 means the whole sheet.
type StructureError struct {
	Sheet  string
	Row    int
	Column string
	Msg    string
}

func (e *StructureError) Error() string {
	switch {
	case e.Row == 0:
		return fmt.Sprintf("sheet %q: %s", e.Sheet, e.Msg)
	case e.Column == "":
		return fmt.Sprintf("sheet %q row %d: %s", e.Sheet, e.Row, e.Msg)
	default:
		return fmt.Sprintf("sheet %q cell %s%d: %s", e.Sheet, e.Column, e.Row, e.Msg)
	}
}

// Is makes errors.Is(err, core.ErrWorkbookStructure) true.
func (e *StructureError) Is(target error) bool {
	return target == core.ErrWorkbookStructure
}

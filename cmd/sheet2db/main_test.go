package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheet2db/internal/core"
	"github.com/JonMunkholm/sheet2db/internal/workbook"
)

// writeWorkbook saves a single-sheet xlsx built from rows (starting at A1)
// and returns its path.
func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	return execute(t, args...)
}

// execute runs the root command with no database configured, leaving the
// rest of the environment to the caller.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

var ordersRows = [][]any{
	{"ID", "Item", "Paid"},
	{1, "Widget", true},
	{2, "Gadget", false},
}

func TestPlanCommand(t *testing.T) {
	path := writeWorkbook(t, "Orders", ordersRows)

	out, err := run(t, "plan", path)
	require.NoError(t, err)

	assert.Contains(t, out, `-- sheet "Orders": 2 rows`)
	assert.Contains(t, out, "CREATE TABLE orders (id DOUBLE PRECISION, item VARCHAR(9), paid BOOLEAN);")
	assert.Contains(t, out, "INSERT INTO orders (id, item, paid) VALUES (?, ?, ?);")
}

func TestPlanCommand_JSON(t *testing.T) {
	path := writeWorkbook(t, "Orders", ordersRows)

	out, err := run(t, "plan", "--json", path)
	require.NoError(t, err)

	var plans []struct {
		Definition core.TableDefinition `json:"definition"`
		CreateSQL  string               `json:"createSql"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &plans))
	require.Len(t, plans, 1)
	assert.Equal(t, "orders", plans[0].Definition.TableName)
	assert.Equal(t, core.TypeBoolean, plans[0].Definition.Columns[2].Type)
}

func TestImportCommand_DryRun(t *testing.T) {
	path := writeWorkbook(t, "Orders", ordersRows)

	out, err := run(t, "import", "--dry-run", path)
	require.NoError(t, err)

	assert.Contains(t, out, "CREATE TABLE orders (id DOUBLE PRECISION, item VARCHAR(9), paid BOOLEAN);\n")
	assert.Contains(t, out, "INSERT INTO orders (id, item, paid) VALUES (1, 'Widget', TRUE);\n")
	assert.Contains(t, out, "INSERT INTO orders (id, item, paid) VALUES (2, 'Gadget', FALSE);\n")
}

func TestImportCommand_MixedColumnIsValidationFailure(t *testing.T) {
	path := writeWorkbook(t, "Inventory", [][]any{
		{"Code"},
		{"A1"},
		{2},
	})

	_, err := run(t, "import", "--dry-run", path)
	require.Error(t, err)

	var sie *core.SchemaInferenceError
	require.ErrorAs(t, err, &sie)
	assert.Equal(t, exitValidation, exitCodeFor(err))
}

func TestImportCommand_RequiresDatabase(t *testing.T) {
	path := writeWorkbook(t, "Orders", ordersRows)

	_, err := run(t, "import", path)
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCodeFor(err))
}

func TestImportCommand_UnsupportedURL(t *testing.T) {
	path := writeWorkbook(t, "Orders", ordersRows)

	_, err := run(t, "import", path, "mysql://localhost/db", "u", "p")
	require.Error(t, err)
	assert.Equal(t, exitDatabase, exitCodeFor(err))
}

func TestArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"import without file", []string{"import"}},
		{"import with two args", []string{"import", "a.xlsx", "postgres://x"}},
		{"plan without file", []string{"plan"}},
		{"unknown flag", []string{"plan", "--nope", "a.xlsx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, exitUsage, exitCodeFor(err))
		})
	}
}

func TestLogFlagsOverrideInvalidEnv(t *testing.T) {
	path := writeWorkbook(t, "Orders", ordersRows)
	t.Setenv("LOG_LEVEL", "verbose")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := execute(t, "--log-level", "error", "--log-format", "json", "plan", path)
	require.NoError(t, err)
}

func TestInvalidEnvWithoutOverrideIsUsageError(t *testing.T) {
	path := writeWorkbook(t, "Orders", ordersRows)
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := execute(t, "plan", path)
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCodeFor(err))
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestEnvCommand(t *testing.T) {
	out, err := run(t, "env")
	require.NoError(t, err)
	assert.Contains(t, out, "DATABASE_URL")
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"explicit code", withCode(exitUsage, errors.New("bad flag")), exitUsage},
		{"schema conflict", &core.SchemaInferenceError{Sheet: "s", Column: "c"}, exitValidation},
		{"workbook structure", &workbook.StructureError{Sheet: "s", Msg: "header cell is blank"}, exitValidation},
		{"not a workbook", errors.New("open workbook: zip: not a valid zip file"), exitValidation},
		{"database", errors.New("dial tcp 10.0.0.1:5432: connection refused"), exitDatabase},
		{"invariant", fmt.Errorf("import: %w", &core.InvariantViolation{Detail: "row width"}), exitInternal},
		{"other", errors.New("boom"), exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestDescribeError(t *testing.T) {
	assert.Equal(t, "boom", describeError(errors.New("boom")))

	err := &core.SchemaInferenceError{Sheet: "Orders", Column: "Code", Kinds: []core.Kind{core.KindString, core.KindNumber}}
	got := describeError(err)
	assert.Contains(t, got, "(Code: SCH001)")
	assert.Contains(t, got, `column "Code"`)
}

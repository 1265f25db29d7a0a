package core

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// EmptyPlaceholder is bound for Empty cells in string columns and for every
// cell of an all-empty column.
const EmptyPlaceholder = ""

// SheetPlan is everything needed to import one sheet.
type SheetPlan struct {
	Sheet      Sheet           `json:"-"`
	Definition TableDefinition `json:"definition"`
	CreateSQL  string          `json:"createSql"`
	InsertSQL  string          `json:"insertSql"`
}

// TableSummary reports what was imported for one sheet.
type TableSummary struct {
	Sheet string `json:"sheet"`
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

// Summary is the result of a completed import run.
type Summary struct {
	RunID    string         `json:"runId"`
	Tables   []TableSummary `json:"tables"`
	Duration time.Duration  `json:"duration"`
}

// Importer drives inference, statement generation, and execution for one
// workbook at a time. It keeps no state between runs.
type Importer struct {
	exec    Executor
	logger  *slog.Logger
	replace bool
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) ImporterOption {
	return func(im *Importer) {
		if l != nil {
			im.logger = l
		}
	}
}

// WithReplace drops each target table (if it exists) before creating it.
func WithReplace(replace bool) ImporterOption {
	return func(im *Importer) { im.replace = replace }
}

// NewImporter creates an Importer that sends statements to exec.
func NewImporter(exec Executor, opts ...ImporterOption) *Importer {
	im := &Importer{
		exec:   exec,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Plan infers table definitions and renders statements without executing
// anything. Entries follow workbook sheet order; empty sheets are absent.
func Plan(wb Workbook) ([]SheetPlan, error) {
	defs, err := BuildTableDefinitions(wb)
	if err != nil {
		return nil, err
	}

	sheets := make([]Sheet, 0, len(defs))
	for _, s := range wb.Sheets {
		if len(s.Rows) > 0 {
			sheets = append(sheets, s)
		}
	}
	if len(sheets) != len(defs) {
		return nil, invariantf("got %d definitions for %d non-empty sheets", len(defs), len(sheets))
	}

	plans := make([]SheetPlan, len(defs))
	for i, def := range defs {
		sheet := sheets[i]
		if sheet.Name != def.SheetName {
			return nil, invariantf("definition %q does not match sheet %q", def.SheetName, sheet.Name)
		}
		plans[i] = SheetPlan{
			Sheet:      sheet,
			Definition: def,
			CreateSQL:  RenderCreateTable(def),
			InsertSQL:  RenderInsert(def),
		}
	}
	return plans, nil
}

// Import creates one table per non-empty sheet and inserts every row, in
// sheet order then row order. The first error stops the run and is returned
// as-is; statements already executed are left to the executor's transaction
// handling.
func (im *Importer) Import(ctx context.Context, wb Workbook) (Summary, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := im.logger.With("run_id", runID)

	plans, err := Plan(wb)
	if err != nil {
		logger.Error("inference failed", "error", err)
		return Summary{}, err
	}
	if len(plans) == 0 {
		logger.Info("workbook has no data, nothing to import", "sheets", len(wb.Sheets))
		return Summary{RunID: runID, Duration: time.Since(start)}, nil
	}

	summary := Summary{RunID: runID, Tables: make([]TableSummary, 0, len(plans))}
	for _, p := range plans {
		n, err := im.importSheet(ctx, logger, p)
		if err != nil {
			return Summary{}, err
		}
		summary.Tables = append(summary.Tables, TableSummary{
			Sheet: p.Definition.SheetName,
			Table: p.Definition.TableName,
			Rows:  n,
		})
	}

	summary.Duration = time.Since(start)
	logger.Info("import complete", "tables", len(summary.Tables), "duration", summary.Duration)
	return summary, nil
}

func (im *Importer) importSheet(ctx context.Context, logger *slog.Logger, p SheetPlan) (int, error) {
	def := p.Definition
	logger = logger.With("sheet", def.SheetName, "table", def.TableName)

	if im.replace {
		drop := RenderDropTable(def)
		logger.Debug("dropping table", "sql", drop)
		if err := im.exec.Exec(ctx, drop); err != nil {
			logger.Error("drop table failed", "error", err)
			return 0, err
		}
	}

	logger.Info("creating table", "sql", p.CreateSQL)
	if err := im.exec.Exec(ctx, p.CreateSQL); err != nil {
		logger.Error("create table failed", "error", err)
		return 0, err
	}

	logger.Debug("inserting rows", "sql", p.InsertSQL, "rows", len(p.Sheet.Rows))
	for r, row := range p.Sheet.Rows {
		args, err := BindRow(def, row)
		if err != nil {
			logger.Error("bind failed", "row", r, "error", err)
			return r, err
		}
		if err := im.exec.Exec(ctx, p.InsertSQL, args...); err != nil {
			logger.Error("insert failed", "row", r, "error", err)
			return r, err
		}
	}

	logger.Info("sheet imported", "rows", len(p.Sheet.Rows))
	return len(p.Sheet.Rows), nil
}

// BindRow converts row into INSERT arguments, positionally matching
// def.Columns. Empty cells bind EmptyPlaceholder in string and all-empty
// columns and NULL elsewhere. A cell whose kind contradicts its column type
// returns an *InvariantViolation.
func BindRow(def TableDefinition, row Row) ([]any, error) {
	if len(row) != len(def.Columns) {
		return nil, invariantf("table %s: row has %d cells, definition has %d columns",
			def.TableName, len(row), len(def.Columns))
	}

	args := make([]any, len(def.Columns))
	for i, col := range def.Columns {
		arg, err := bindValue(col, row[i])
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	return args, nil
}

func bindValue(col ColumnDefinition, v Value) (any, error) {
	switch col.Type {
	case TypeEmpty:
		if !v.IsEmpty() {
			return nil, mismatch(col, v)
		}
		return EmptyPlaceholder, nil
	case TypeString:
		if v.IsEmpty() {
			return EmptyPlaceholder, nil
		}
		if s, ok := v.AsString(); ok {
			return s, nil
		}
	case TypeNumber:
		if v.IsEmpty() {
			return nil, nil
		}
		if f, ok := v.AsNumber(); ok {
			return f, nil
		}
	case TypeDate:
		if v.IsEmpty() {
			return nil, nil
		}
		if t, ok := v.AsDateTime(); ok {
			return t, nil
		}
	case TypeBoolean:
		if v.IsEmpty() {
			return nil, nil
		}
		if b, ok := v.AsBoolean(); ok {
			return b, nil
		}
	default:
		return nil, invariantf("column %s has unknown type %s", col.DBName, col.Type)
	}
	return nil, mismatch(col, v)
}

func mismatch(col ColumnDefinition, v Value) error {
	return invariantf("column %s is %s but cell holds %s", col.DBName, col.Type, v.Kind())
}

// Package core provides the business logic for spreadsheet import operations.
//
// This package is the heart of the importer: it turns loosely typed
// spreadsheet rows into table definitions and SQL text, independent of any
// file format, database driver, or transport. It can be used by the CLI, the
// HTTP API, or tests without modification.
//
// # Pipeline
//
// Data flows one way, with no state kept between runs:
//
//  1. The workbook reader produces a [Workbook]: sheets of [Row]s of [Value]s.
//  2. Sheet names and header cells become identifiers via [NormalizeUnique].
//  3. Each column's values are reduced to one [ColumnType] by [UnifyColumnType].
//  4. [BuildTableDefinitions] assembles one [TableDefinition] per non-empty sheet.
//  5. [RenderCreateTable] and [RenderInsert] produce the DDL and DML text.
//  6. [Importer.Import] executes CREATE TABLE once per sheet and INSERT once
//     per row, binding values with [BindRow].
//
// # Example
//
//	im := core.NewImporter(conn, core.WithLogger(slog.Default()))
//	summary, err := im.Import(ctx, wb)
//
// # Error Handling
//
// Three error kinds come out of the pipeline:
//
//   - [*SchemaInferenceError]: a column mixes value kinds (bad input)
//   - [*NameGenerationError]: identifiers could not be made unique (bad input)
//   - [*InvariantViolation]: an internal consistency check failed (a bug)
//
// Executor errors are returned unchanged. [MapError] turns any of these into
// a coded, user-facing message.
package core

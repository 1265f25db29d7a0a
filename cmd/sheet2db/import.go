package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheet2db/internal/core"
	"github.com/JonMunkholm/sheet2db/internal/database"
	"github.com/JonMunkholm/sheet2db/internal/workbook"
)

type importOptions struct {
	file     string
	dbURL    string
	user     string
	password string
	dryRun   bool
	replace  bool
	jsonOut  bool
}

func newImportCmd(a *app) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import <file.xlsx> [<db-url> <user> <password>]",
		Short: "Create one table per sheet and insert every row",
		Long: `Reads the workbook, infers a table per non-empty sheet and imports it.

The database comes from --db-url or DATABASE_URL. For compatibility the URL,
user and password may also be given as three extra positional arguments.`,
		Args: importArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			opts.file = args[0]
			if len(args) == 4 {
				opts.dbURL, opts.user, opts.password = args[1], args[2], args[3]
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), a, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.dbURL, "db-url", "", "Target database URL (postgres://, libsql://, duckdb:<path>)")
	cmd.Flags().StringVar(&opts.user, "user", "", "Database user (overrides DB_USER)")
	cmd.Flags().StringVar(&opts.password, "password", "", "Database password or libsql auth token (overrides DB_PASSWORD)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the SQL instead of executing it")
	cmd.Flags().BoolVar(&opts.replace, "replace", false, "Drop each target table before creating it")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print the summary as JSON")

	return cmd
}

func importArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 && len(args) != 4 {
		return withCode(exitUsage, fmt.Errorf("expected <file> or <file> <db-url> <user> <password>, got %d arguments", len(args)))
	}
	return nil
}

func runImport(ctx context.Context, a *app, opts importOptions, out io.Writer) error {
	logger := a.logger.With("file", opts.file)

	wb, err := workbook.ReadFile(opts.file, workbook.WithLogger(logger))
	if err != nil {
		return err
	}

	var conn database.Conn
	if opts.dryRun {
		conn = database.NewDryRun(out)
	} else {
		conn, err = a.connect(ctx, opts.dbURL, opts.user, opts.password)
		if err != nil {
			return err
		}
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn("close database connection", "error", err)
		}
	}()

	im := core.NewImporter(conn, core.WithLogger(logger), core.WithReplace(opts.replace))
	summary, err := im.Import(ctx, wb)
	if err != nil {
		return err
	}

	if opts.dryRun {
		return nil
	}
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	return printSummary(out, summary)
}

// connect merges flag overrides into the configured database settings and
// opens a connection.
func (a *app) connect(ctx context.Context, url, user, password string) (database.Conn, error) {
	db := a.cfg.Database
	if url != "" {
		db.URL = url
	}
	if user != "" {
		db.User = user
	}
	if password != "" {
		db.Password = password
	}

	cfg := *a.cfg
	cfg.Database = db
	if err := cfg.RequireDatabase(); err != nil {
		return nil, withCode(exitUsage, err)
	}

	dsn, err := db.DSN()
	if err != nil {
		return nil, withCode(exitUsage, err)
	}
	return database.Open(ctx, dsn, poolOptions(db))
}

func printSummary(out io.Writer, s core.Summary) error {
	if len(s.Tables) == 0 {
		_, err := fmt.Fprintln(out, "workbook has no data; nothing imported")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SHEET\tTABLE\tROWS")
	for _, t := range s.Tables {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", t.Sheet, t.Table, t.Rows)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "run %s finished in %s\n", s.RunID, s.Duration.Round(time.Millisecond))
	return err
}

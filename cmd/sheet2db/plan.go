package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheet2db/internal/core"
	"github.com/JonMunkholm/sheet2db/internal/workbook"
)

func newPlanCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "plan <file.xlsx>",
		Short: "Show the inferred tables and SQL without connecting",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return withCode(exitUsage, fmt.Errorf("expected one workbook path, got %d arguments", len(args)))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := workbook.ReadFile(args[0], workbook.WithLogger(a.logger))
			if err != nil {
				return err
			}
			plans, err := core.Plan(wb)
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(plans)
			}
			return printPlan(cmd.OutOrStdout(), plans)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the plan as JSON")
	return cmd
}

func printPlan(out io.Writer, plans []core.SheetPlan) error {
	if len(plans) == 0 {
		_, err := fmt.Fprintln(out, "-- workbook has no data")
		return err
	}
	for i, p := range plans {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "-- sheet %q: %d rows\n", p.Definition.SheetName, len(p.Sheet.Rows))
		for _, c := range p.Definition.Columns {
			fmt.Fprintf(out, "--   %-20s -> %s %s\n", c.DisplayName, c.DBName, c.Type)
		}
		fmt.Fprintf(out, "%s;\n%s;\n", p.CreateSQL, p.InsertSQL)
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opendq/opendq/pkg/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema <file.csv>",
	Short: "Infer the relational schema of a CSV file",
	Long: `Runs the file through DuckDB's CSV reader and prints the inferred
column types and row count. Useful for checking how the file will
load into an analytical database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		inspector, err := schema.NewInspector()
		if err != nil {
			return err
		}
		defer inspector.Close()

		cols, err := inspector.Describe(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%-32s %-20s %s\n", "COLUMN", "TYPE", "NULLABLE")
		for _, c := range cols {
			nullable := "no"
			if c.Nullable {
				nullable = "yes"
			}
			fmt.Printf("%-32s %-20s %s\n", c.Name, c.Type, nullable)
		}

		rows, err := inspector.RowCount(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("\n%d rows, %d columns\n", rows, len(cols))
		return nil
	},
}

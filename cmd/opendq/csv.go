package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opendq/opendq/pkg/report"
	"github.com/opendq/opendq/pkg/source"
	"github.com/opendq/opendq/pkg/validate"
)

var (
	flagSampleRows int
	flagDelimiter  string
)

var csvCmd = &cobra.Command{
	Use:   "csv <file|url|s3://bucket/key>",
	Short: "Validate a CSV file",
	Long: `Validates a delimited file through the blocker gate, structural
checks, content checks and reference code checks, then prints the
graded report. Exit status: 2 on blockers, 1 on major findings,
0 otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		src, err := source.Resolve(args[0], cfg.HTTP.Timeout())
		if err != nil {
			return err
		}
		path, cleanup, err := source.Fetch(ctx, src, "")
		if err != nil {
			return err
		}
		defer cleanup()

		sampleRows := flagSampleRows
		if sampleRows <= 0 {
			sampleRows = cfg.Validation.SampleRows
		}
		var delim rune
		if flagDelimiter != "" {
			runes := []rune(flagDelimiter)
			if len(runes) != 1 {
				return fmt.Errorf("delimiter must be a single character, got %q", flagDelimiter)
			}
			delim = runes[0]
		}

		rep := report.New(src.Location(), report.ModeCSV)
		validator := validate.NewCSV(path, validate.Options{
			SampleRows: sampleRows,
			Workers:    cfg.Validation.Workers,
			Delimiter:  delim,
		})
		validator.Run(ctx, rep)
		rep.Finalize(report.FinalizeOptions{ContentChecked: true})

		if err := emit(ctx, rep); err != nil {
			return err
		}
		exitStatus = rep.ExitStatus()
		return nil
	},
}

func init() {
	csvCmd.Flags().IntVar(&flagSampleRows, "sample-rows", 0, "data rows to inspect (default from config)")
	csvCmd.Flags().StringVar(&flagDelimiter, "delimiter", "", "field delimiter (default autodetect)")
}

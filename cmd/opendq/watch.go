package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/opendq/opendq/pkg/report"
	"github.com/opendq/opendq/pkg/validate"
	"github.com/opendq/opendq/pkg/watch"
)

var flagDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Revalidate CSV files in a directory as they change",
	Long: `Watches a directory and reruns the file checks whenever a CSV file
is created or modified. Prints a one-line verdict per file; stop
with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		watcher, err := watch.New(args[0], flagDebounce)
		if err != nil {
			return err
		}
		defer watcher.Close()

		watcher.OnCSV = func(path string) {
			rep := report.New(path, report.ModeCSV)
			validator := validate.NewCSV(path, validate.Options{
				SampleRows: cfg.Validation.SampleRows,
				Workers:    cfg.Validation.Workers,
			})
			validator.Run(ctx, rep)
			rep.Finalize(report.FinalizeOptions{ContentChecked: true})

			total, max := rep.Score()
			fmt.Printf("%s  %s  score %d/100 (%d/%d)  %s\n",
				time.Now().Format("15:04:05"), path, rep.ScorePercent(), total, max, rep.Verdict())
		}
		watcher.OnError = func(err error) {
			log.WithError(err).Warn("watch error")
		}

		if !flagQuiet {
			fmt.Printf("watching %s for CSV changes\n", args[0])
		}
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&flagDebounce, "debounce", watch.DefaultDebounce, "settle time before revalidating a changed file")
}

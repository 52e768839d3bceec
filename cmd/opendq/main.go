// Command opendq validates the quality of open-data CSV files and CKAN
// dataset metadata.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opendq/opendq/pkg/config"
	"github.com/opendq/opendq/pkg/render"
	"github.com/opendq/opendq/pkg/report"
	"github.com/opendq/opendq/pkg/store"
	"github.com/opendq/opendq/pkg/telemetry"
)

var (
	log = logrus.New()
	cfg = config.Default()

	// exitStatus carries the report verdict out of the command handlers:
	// 2 blocker, 1 major, 3 portal fetch failure, 0 otherwise.
	exitStatus int

	flagVerbose bool
	flagQuiet   bool

	// shared output flags
	flagJSON       bool
	flagShowOK     bool
	flagOutputJSON string
	flagOutputMD   string
	flagNoReport   bool
	flagStore      string

	telemetryShutdown = func(context.Context) error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "opendq",
	Short: "Open data quality validator",
	Long: `opendq grades the reusability of open-data publications: CSV files
(structure, content, reference codes) and CKAN dataset metadata
(DCAT-AP completeness, accessibility, consistency).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Global().Load(); err != nil {
			return err
		}
		cfg = config.Global().Get()
		switch {
		case flagVerbose:
			log.SetLevel(logrus.DebugLevel)
			logrus.SetLevel(logrus.DebugLevel)
		case flagQuiet:
			log.SetLevel(logrus.ErrorLevel)
			logrus.SetLevel(logrus.ErrorLevel)
		default:
			log.SetLevel(logrus.WarnLevel)
			logrus.SetLevel(logrus.WarnLevel)
		}
		shutdown, err := telemetry.Init(cmd.Context(), cfg.Telemetry)
		if err != nil {
			log.WithError(err).Warn("telemetry disabled")
			return nil
		}
		telemetryShutdown = shutdown
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "errors only")

	for _, cmd := range []*cobra.Command{csvCmd, ckanCmd} {
		cmd.Flags().BoolVar(&flagJSON, "json", false, "print the report as JSON on stdout")
		cmd.Flags().BoolVar(&flagShowOK, "show-ok", false, "list passed checks too")
		cmd.Flags().StringVar(&flagOutputJSON, "output-json", "", "write the JSON report to a file")
		cmd.Flags().StringVar(&flagOutputMD, "output-md", "", "write the Markdown report to a file")
		cmd.Flags().BoolVar(&flagNoReport, "no-report-file", false, "skip the automatic Markdown report")
		cmd.Flags().StringVar(&flagStore, "store", "", "archive the report (local or redis)")
	}

	rootCmd.AddCommand(csvCmd, ckanCmd, schemaCmd, watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error(err)
		if exitStatus == 0 {
			exitStatus = 1
		}
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := telemetryShutdown(flushCtx); err != nil {
		log.WithError(err).Debug("telemetry shutdown failed")
	}
	os.Exit(exitStatus)
}

// emit renders the report to the terminal (or stdout JSON), writes the
// requested files and archives it when a store is selected.
func emit(ctx context.Context, rep *report.Report) error {
	if flagJSON {
		data, err := rep.ToJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else if !flagQuiet {
		fmt.Print(render.Terminal(rep, flagShowOK))
	}

	if flagOutputJSON != "" {
		data, err := rep.ToJSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(flagOutputJSON, data, 0o644); err != nil {
			return err
		}
	}

	md := render.Markdown(rep, flagShowOK)
	if flagOutputMD != "" {
		if err := os.WriteFile(flagOutputMD, []byte(md), 0o644); err != nil {
			return err
		}
	}
	if !flagNoReport {
		if err := writeAutoReport(rep, md); err != nil {
			log.WithError(err).Warn("could not write the Markdown report")
		}
	}

	return archive(ctx, rep)
}

// writeAutoReport drops a Markdown report next to the working
// directory, named after the source.
func writeAutoReport(rep *report.Report, md string) error {
	dir := cfg.Reports.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, render.ReportFileName(rep.Source))
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return err
	}
	if !flagQuiet && !flagJSON {
		fmt.Printf("report written to %s\n", path)
	}
	return nil
}

func archive(ctx context.Context, rep *report.Report) error {
	var (
		st  store.Store
		err error
	)
	switch flagStore {
	case "":
		return nil
	case "local":
		st, err = store.NewLocalStore(cfg.Reports.Dir)
	case "redis":
		rc := store.DefaultRedisConfig(cfg.Redis.Address)
		rc.Password = cfg.Redis.Password
		rc.Database = cfg.Redis.Database
		if cfg.Redis.Prefix != "" {
			rc.Prefix = cfg.Redis.Prefix
		}
		if cfg.Redis.TTLSeconds > 0 {
			rc.TTL = cfg.Redis.TTL()
		}
		st, err = store.NewRedisStore(rc)
	default:
		return fmt.Errorf("unknown store backend %q (want local or redis)", flagStore)
	}
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Save(ctx, rep)
}

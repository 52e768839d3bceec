package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/opendq/opendq/pkg/ckan"
	"github.com/opendq/opendq/pkg/metadata"
	"github.com/opendq/opendq/pkg/relation"
	"github.com/opendq/opendq/pkg/report"
	"github.com/opendq/opendq/pkg/validate"
)

var (
	flagDownload    bool
	flagNoCheckURLs bool
	flagProfile     string
)

var ckanCmd = &cobra.Command{
	Use:   "ckan <dataset-url>",
	Short: "Validate a CKAN dataset",
	Long: `Fetches package metadata from a CKAN portal and validates it against
the applicable DCAT-AP national profile: completeness, per-resource
distribution checks, URL accessibility and consistency. With
--download the primary CSV distribution is fetched and run through
the file checks too.

Exit status: 2 on blockers, 1 on major findings, 3 when the portal
cannot be reached, 0 otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		portal, id, err := ckan.ParseDatasetRef(args[0])
		if err != nil {
			return err
		}
		client, err := ckan.NewClient(portal, cfg.HTTP.Timeout())
		if err != nil {
			return err
		}

		pkg, err := client.PackageShow(ctx, id)
		if err != nil {
			exitStatus = 3
			return err
		}

		rep := report.New(args[0], report.ModeCKAN)
		if flagProfile != "" {
			rep.Profile = flagProfile
		} else {
			rep.Profile = metadata.NewProfileResolver().Resolve(pkg, portal)
		}

		metadata.NewValidator(pkg, rep.Profile).Run(rep)
		if !flagNoCheckURLs {
			metadata.NewAccessibilityChecker(cfg.HTTP.Timeout()).Run(ctx, pkg, rep)
		}

		var rel *relation.Relation
		contentChecked := false
		if flagDownload && !rep.HasBlocker() {
			rel = downloadAndValidate(cmd, client, pkg, rep)
			contentChecked = rel != nil
		}

		metadata.CheckConsistency(pkg, rel, rep)
		rep.Finalize(report.FinalizeOptions{ContentChecked: contentChecked})

		if err := emit(ctx, rep); err != nil {
			return err
		}
		exitStatus = rep.ExitStatus()
		return nil
	},
}

// downloadAndValidate fetches the primary CSV distribution and runs the
// file checks on it. Failures degrade to a log line: the metadata
// verdict still stands on its own.
func downloadAndValidate(cmd *cobra.Command, client *ckan.Client, pkg *metadata.Package, rep *report.Report) *relation.Relation {
	ctx := cmd.Context()

	idx := ckan.PickCSVResource(pkg)
	if idx < 0 {
		log.Warn("dataset has no distribution to download")
		return nil
	}
	res := &pkg.Resources[idx]

	tmp, err := os.CreateTemp("", "opendq-*.csv")
	if err != nil {
		log.WithError(err).Warn("cannot create a download file")
		return nil
	}
	defer os.Remove(tmp.Name())

	_, err = client.Download(ctx, res, tmp, !flagQuiet && !flagJSON)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.WithError(err).WithField("resource", res.Label()).Warn("download failed; file checks skipped")
		return nil
	}

	validator := validate.NewCSV(tmp.Name(), validate.Options{
		SampleRows: cfg.Validation.SampleRows,
		Workers:    cfg.Validation.Workers,
	})
	return validator.Run(ctx, rep)
}

func init() {
	ckanCmd.Flags().BoolVar(&flagDownload, "download", false, "download the primary CSV and run the file checks")
	ckanCmd.Flags().BoolVar(&flagNoCheckURLs, "no-check-urls", false, "skip resource accessibility probes")
	ckanCmd.Flags().StringVar(&flagProfile, "profile", "", "force a DCAT-AP profile instead of detecting one")
}

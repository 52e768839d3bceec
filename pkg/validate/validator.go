// Package validate runs the file-level quality phases: the blocker
// gate, structural checks, column checks, content checks and reference
// code checks.
package validate

import (
	"context"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/opendq/opendq/pkg/relation"
	"github.com/opendq/opendq/pkg/report"
	"github.com/opendq/opendq/pkg/telemetry"
)

// DefaultSampleRows caps how many data rows the content checks inspect.
const DefaultSampleRows = 50000

// Options configures a CSV validation run.
type Options struct {
	// SampleRows caps retained data rows; zero means DefaultSampleRows.
	SampleRows int
	// Workers bounds the column-check pool; zero sizes it from the CPU count.
	Workers int
	// Delimiter overrides autodetection when non-zero.
	Delimiter rune
}

// CSV validates one delimited file through phases 0 to 4.
type CSV struct {
	path string
	opts Options
	log  *logrus.Entry
}

// NewCSV creates a validator for a file path.
func NewCSV(path string, opts Options) *CSV {
	if opts.SampleRows <= 0 {
		opts.SampleRows = DefaultSampleRows
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
		if opts.Workers > 8 {
			opts.Workers = 8
		}
	}
	return &CSV{
		path: path,
		opts: opts,
		log:  logrus.WithField("component", "validate").WithField("source", path),
	}
}

// Run executes the phases in order. A blocker in phase 0 short-circuits
// everything after it. The parsed relation is returned for downstream
// consistency checks; it is nil when the file never cleared the gate.
func (v *CSV) Run(ctx context.Context, rep *report.Report) *relation.Relation {
	ctx, span := telemetry.StartSpan(ctx, "validate.csv")
	defer span.End()

	rel := v.runBlockers(ctx, rep)
	if rel == nil || rep.HasBlocker() {
		v.log.WithField("phase", report.PhaseBlocker).Warn("blocked before inspection")
		return nil
	}

	v.runStructure(ctx, rep, rel)
	v.runColumns(ctx, rep, rel)
	v.runContent(ctx, rep, rel)
	v.runCodes(ctx, rep, rel)

	v.log.WithFields(logrus.Fields{
		"rows":    rel.NumRows(),
		"columns": rel.NumCols(),
		"lenient": rel.Lenient,
	}).Debug("validation complete")
	return rel
}

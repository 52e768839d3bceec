package validate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/opendq/opendq/internal/errdefs"
	"github.com/opendq/opendq/pkg/detect"
	"github.com/opendq/opendq/pkg/relation"
	"github.com/opendq/opendq/pkg/report"
	"github.com/opendq/opendq/pkg/telemetry"
)

// runBlockers is phase 0: conditions under which the dataset is
// unusable as published. Returns the parsed relation when the file
// cleared the gate, nil otherwise.
func (v *CSV) runBlockers(ctx context.Context, rep *report.Report) *relation.Relation {
	ctx, span := telemetry.StartSpan(ctx, "validate.blockers")
	defer span.End()

	info, err := os.Stat(v.path)
	if err != nil {
		telemetry.RecordError(ctx, errdefs.Wrap(err, errdefs.CodeNotFound, "source file missing"))
		rep.Add(ruleFileMissing.Finding(fmt.Sprintf("file does not exist: %s", v.path)))
		return nil
	}
	if info.Size() == 0 {
		telemetry.RecordError(ctx, errdefs.New(errdefs.CodeEmptyInput, "source file is zero bytes"))
		rep.Add(ruleFileEmpty.Finding("file is zero bytes"))
		return nil
	}

	data, err := os.ReadFile(v.path)
	if err != nil {
		telemetry.RecordError(ctx, errdefs.Wrap(err, errdefs.CodeNotFound, "source file unreadable"))
		rep.Add(ruleFileUnreadable.Finding(err.Error()))
		return nil
	}

	sample := data
	if len(sample) > detect.DefaultSampleSize {
		sample = sample[:detect.DefaultSampleSize]
	}
	if kind := detect.DetectContent(sample); !kind.Tabular() {
		telemetry.RecordError(ctx, errdefs.Newf(errdefs.CodeWrongType, "content is %s", kind))
		f := ruleWrongType.Finding(fmt.Sprintf("content is %s, not delimited text", kind))
		if kind == detect.KindZIP {
			f = f.WithDetail(describeWorkbook(data))
		}
		rep.Add(f)
		return nil
	}

	rel, err := relation.Parse(data, v.path, relation.Options{
		MaxRows:   v.opts.SampleRows,
		Delimiter: v.opts.Delimiter,
	})
	if err != nil {
		telemetry.RecordError(ctx, errdefs.Wrap(err, errdefs.CodeParse, "csv parse failed"))
		rep.Add(ruleUnparseable.Finding(err.Error()))
		return nil
	}

	if rel.NumCols() <= 1 {
		rep.Add(ruleTrivial.Finding("single-column file carries no tabular structure").
			WithDetail(fmt.Sprintf("columns: %d", rel.NumCols())))
		return nil
	}
	if rel.NumRows() == 0 {
		rep.Add(ruleTrivial.Finding("file contains a header but no data rows"))
		return nil
	}

	rep.OK(report.PhaseBlocker, "parseable", fmt.Sprintf("parsed %d rows x %d columns", rel.NumRows(), rel.NumCols()))
	return rel
}

// describeWorkbook names the sheets when a ZIP payload is actually an
// Office workbook, which makes the fix obvious to the publisher.
func describeWorkbook(data []byte) string {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	defer wb.Close()
	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return ""
	}
	return "spreadsheet workbook with sheets: " + strings.Join(sheets, ", ")
}

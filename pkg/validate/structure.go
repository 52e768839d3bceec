package validate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/opendq/opendq/pkg/detect"
	"github.com/opendq/opendq/pkg/relation"
	"github.com/opendq/opendq/pkg/report"
	"github.com/opendq/opendq/pkg/telemetry"
)

// runStructure is phase 1: encoding, byte order mark, parse strictness
// and header presence. Line endings are accepted either way; CRLF is a
// published convention, not a defect.
func (v *CSV) runStructure(ctx context.Context, rep *report.Report, rel *relation.Relation) {
	_, span := telemetry.StartSpan(ctx, "validate.structure")
	defer span.End()

	if detect.IsUTF8Compatible(rel.Encoding) {
		rep.OK(report.PhaseStructure, "encoding", "file is UTF-8")
	} else {
		rep.Add(ruleEncodingNotUTF8.Finding(fmt.Sprintf("file encoding is %s", rel.Encoding)).
			WithDetail("content was transcoded for inspection; checks below ran on the decoded text"))
	}

	if rel.HadBOM {
		rep.Add(ruleBOMPresent.Finding("file starts with a UTF-8 byte order mark"))
	} else {
		rep.OK(report.PhaseStructure, "no_bom", "no byte order mark")
	}

	if rel.Lenient {
		rep.Add(ruleLenientParse.Finding("strict CSV parse failed; file was read with relaxed quoting and ragged rows allowed"))
	}

	if !detect.LooksLikeHeader(rel.Header) {
		rep.Add(ruleNoHeader.Finding("first row contains numeric values and does not look like a header"))
	} else {
		rep.OK(report.PhaseStructure, "header", "first row looks like a header")
	}
}

// runColumns is phase 2: column naming and layout.
func (v *CSV) runColumns(ctx context.Context, rep *report.Report, rel *relation.Relation) {
	_, span := telemetry.StartSpan(ctx, "validate.columns")
	defer span.End()

	v.checkDuplicateColumns(rep, rel)
	v.checkColumnNames(rep, rel)
	v.checkWideFormat(rep, rel)
	v.checkAggregateRows(rep, rel)
	v.checkFootnotes(rep, rel)
}

func (v *CSV) checkDuplicateColumns(rep *report.Report, rel *relation.Relation) {
	seen := make(map[string]int)
	for _, h := range rel.Header {
		seen[strings.ToLower(strings.TrimSpace(h))]++
	}
	var dups []string
	for name, n := range seen {
		if n > 1 {
			dups = append(dups, name)
		}
	}
	if len(dups) == 0 {
		rep.OK(report.PhaseColumns, "unique_columns", "column names are unique")
		return
	}
	sort.Strings(dups)
	rep.Add(ruleDuplicateColumns.Finding("duplicate column names").
		WithDetail(strings.Join(dups, ", ")))
}

func (v *CSV) checkColumnNames(rep *report.Report, rel *relation.Relation) {
	var bad []string
	for _, h := range rel.Header {
		name := strings.TrimSpace(h)
		if name == "" || !badColNameRe.MatchString(strings.ToLower(name)) {
			bad = append(bad, h)
		}
	}
	// year headers are the wide-format check's business
	if len(bad) > 0 && countMatching(rel.Header, yearColumnRe) < wideFormatMinColumns {
		rep.Add(ruleBadColumnNames.Finding(fmt.Sprintf("%d column names use spaces, punctuation or leading digits", len(bad))).
			WithDetail(strings.Join(bad, ", ")))
	}
}

// checkWideFormat flags year or month columns spread across the header.
// Numeric year headers also trip the no-header heuristic, so that
// finding is withdrawn once wide format explains it.
func (v *CSV) checkWideFormat(rep *report.Report, rel *relation.Relation) {
	if n := countMatching(rel.Header, yearColumnRe); n >= wideFormatMinColumns {
		rep.Add(ruleWideYears.Finding(fmt.Sprintf("%d year columns spread observations across the header", n)))
		rep.Suppress(ruleNoHeader.Code)
		return
	}
	if n := countMatchingFunc(rel.Header, func(h string) bool {
		return monthNameRe.MatchString(strings.TrimSpace(h))
	}); n >= wideFormatMinColumns {
		rep.Add(ruleWideMonths.Finding(fmt.Sprintf("%d month columns spread observations across the header", n)))
		rep.Suppress(ruleNoHeader.Code)
	}
}

func (v *CSV) checkAggregateRows(rep *report.Report, rel *relation.Relation) {
	for _, row := range rel.Tail(aggregateTailWindow) {
		if label := firstNonEmpty(row); aggregateRowRe.MatchString(label) {
			rep.Add(ruleAggregateRows.Finding("trailing rows contain embedded totals").
				WithDetail(fmt.Sprintf("row label: %q", label)))
			return
		}
	}
	rep.OK(report.PhaseColumns, "no_aggregate_rows", "no embedded total rows detected")
}

func (v *CSV) checkFootnotes(rep *report.Report, rel *relation.Relation) {
	for _, row := range rel.Head(footnoteHeadWindow) {
		for i, cell := range row {
			if footnoteRe.MatchString(cell) {
				col := ""
				if i < len(rel.Header) {
					col = rel.Header[i]
				}
				rep.Add(ruleFootnoteMarkers.Finding("cells contain footnote markers").
					WithColumn(col).
					WithDetail(fmt.Sprintf("example: %q", cell)))
				return
			}
		}
	}
}

func countMatching(headers []string, re interface{ MatchString(string) bool }) int {
	return countMatchingFunc(headers, func(h string) bool {
		return re.MatchString(strings.TrimSpace(h))
	})
}

func countMatchingFunc(headers []string, match func(string) bool) int {
	n := 0
	for _, h := range headers {
		if match(h) {
			n++
		}
	}
	return n
}

func firstNonEmpty(row []string) string {
	for _, cell := range row {
		if s := strings.TrimSpace(cell); s != "" {
			return s
		}
	}
	return ""
}

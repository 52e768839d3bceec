package validate

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/opendq/opendq/pkg/relation"
	"github.com/opendq/opendq/pkg/report"
	"github.com/opendq/opendq/pkg/telemetry"
)

// fuzzyDistinctCap bounds the pairwise comparison set per column.
const fuzzyDistinctCap = 200

// columnStats is a single pass over one column. Columns are scanned
// concurrently; findings are emitted afterwards in column order so the
// report stays deterministic.
type columnStats struct {
	name  string
	total int
	empty int

	commaDecimal int
	nonISODate   int
	unitsInCell  int
	thousands    int
	dateLikeHits int

	commaExample string
	dateExample  string
	unitExample  string

	placeholders map[string]int
	distinct     map[string]int
	overflow     bool

	whitespace   int
	wsExample    string
	numericValue []float64
}

// runContent is phase 3: value-level checks over the sampled rows.
func (v *CSV) runContent(ctx context.Context, rep *report.Report, rel *relation.Relation) {
	_, span := telemetry.StartSpan(ctx, "validate.content")
	defer span.End()

	cols := make([]*columnStats, rel.NumCols())
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(v.opts.Workers)
	for i := 0; i < rel.NumCols(); i++ {
		g.Go(func() error {
			cols[i] = scanColumn(rel, i)
			return nil
		})
	}
	// scanColumn never fails; the group only bounds parallelism
	_ = g.Wait()

	var findings []report.Finding
	for _, st := range cols {
		findings = append(findings, st.findings()...)
	}
	findings = append(findings, checkDuplicateRows(rel)...)

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Column != findings[j].Column {
			return findings[i].Column < findings[j].Column
		}
		return findings[i].Code < findings[j].Code
	})
	for _, f := range findings {
		rep.Add(f)
	}
	if len(findings) == 0 {
		rep.OK(report.PhaseContent, "content", "no content issues in sampled rows")
	}
}

func scanColumn(rel *relation.Relation, col int) *columnStats {
	st := &columnStats{
		placeholders: make(map[string]int),
		distinct:     make(map[string]int),
	}
	if col < len(rel.Header) {
		st.name = rel.Header[col]
	}

	for row := 0; row < rel.NumRows(); row++ {
		raw := rel.Cell(row, col)
		val := strings.TrimSpace(raw)
		st.total++

		if val == "" {
			st.empty++
			continue
		}
		if raw != val {
			st.whitespace++
			if st.wsExample == "" {
				st.wsExample = raw
			}
		}
		if placeholderValues[strings.ToLower(val)] {
			st.placeholders[val]++
			continue
		}

		switch {
		case commaDecimalRe.MatchString(val):
			st.commaDecimal++
			if st.commaExample == "" {
				st.commaExample = val
			}
		case nonISODateRe.MatchString(val):
			st.nonISODate++
			if st.dateExample == "" {
				st.dateExample = val
			}
		case unitInCellRe.MatchString(val):
			st.unitsInCell++
			if st.unitExample == "" {
				st.unitExample = val
			}
		case thousandsRe.MatchString(val):
			st.thousands++
		}
		if dateLike(val) {
			st.dateLikeHits++
		}

		if f, err := strconv.ParseFloat(val, 64); err == nil {
			st.numericValue = append(st.numericValue, f)
		} else if len(st.distinct) < fuzzyDistinctCap {
			st.distinct[val]++
		} else if _, ok := st.distinct[val]; !ok {
			st.overflow = true
		}
	}
	return st
}

func (st *columnStats) findings() []report.Finding {
	var out []report.Finding

	if st.commaDecimal >= commaDecimalMinHits {
		out = append(out, ruleCommaDecimal.
			Finding(fmt.Sprintf("%d values use a comma as decimal separator", st.commaDecimal)).
			WithColumn(st.name).
			WithDetail(fmt.Sprintf("example: %s", st.commaExample)))
	}
	if st.nonISODate >= nonISODateMinHits {
		out = append(out, ruleNonISODate.
			Finding(fmt.Sprintf("%d values use a non-ISO date format", st.nonISODate)).
			WithColumn(st.name).
			WithDetail(fmt.Sprintf("example: %s", st.dateExample)))
	}
	if st.unitsInCell >= unitInCellMinHits {
		out = append(out, ruleUnitsInCells.
			Finding(fmt.Sprintf("%d values embed a measurement unit", st.unitsInCell)).
			WithColumn(st.name).
			WithDetail(fmt.Sprintf("example: %s", st.unitExample)))
	}
	if st.thousands >= thousandsMinHits {
		out = append(out, ruleNumericAsText.
			Finding(fmt.Sprintf("%d values carry thousands separators and will load as text", st.thousands)).
			WithColumn(st.name))
	}
	if len(st.placeholders) > 0 {
		keys := make([]string, 0, len(st.placeholders))
		n := 0
		for k, c := range st.placeholders {
			keys = append(keys, k)
			n += c
		}
		sort.Strings(keys)
		out = append(out, rulePlaceholders.
			Finding(fmt.Sprintf("%d cells hold placeholder strings instead of empty values", n)).
			WithColumn(st.name).
			WithDetail("values: "+strings.Join(keys, ", ")))
	}
	if st.total > 0 {
		if rate := float64(st.empty) / float64(st.total); rate > highNullRateThreshold {
			out = append(out, ruleHighNullRate.
				Finding(fmt.Sprintf("%.1f%% of values are empty", rate*100)).
				WithColumn(st.name))
		}
	}
	if st.whitespace > 0 {
		out = append(out, ruleWhitespaceValues.
			Finding(fmt.Sprintf("%d values carry leading or trailing whitespace", st.whitespace)).
			WithColumn(st.name).
			WithDetail(fmt.Sprintf("example: %q", st.wsExample)))
	}
	if pairs := st.nearDuplicates(); len(pairs) > 0 {
		var parts []string
		for _, p := range pairs {
			parts = append(parts, fmt.Sprintf("%q ~ %q", p.a, p.b))
		}
		out = append(out, ruleFuzzyCategories.
			Finding(fmt.Sprintf("%d near-duplicate category spellings", len(pairs))).
			WithColumn(st.name).
			WithDetail(strings.Join(parts, "; ")))
	}
	if f, ok := st.outliers(); ok {
		out = append(out, f)
	}
	return out
}

// outliers applies the 1.5 IQR fence to numeric columns with enough
// support. Signal only: outliers are often legitimate.
func (st *columnStats) outliers() (report.Finding, bool) {
	if len(st.numericValue) < outlierMinValues {
		return report.Finding{}, false
	}
	q, err := stats.Quartile(stats.Float64Data(st.numericValue))
	if err != nil {
		return report.Finding{}, false
	}
	iqr := q.Q3 - q.Q1
	if iqr == 0 {
		return report.Finding{}, false
	}
	lo := q.Q1 - outlierIQRFactor*iqr
	hi := q.Q3 + outlierIQRFactor*iqr
	n := 0
	for _, v := range st.numericValue {
		if v < lo || v > hi {
			n++
		}
	}
	if n == 0 {
		return report.Finding{}, false
	}
	return ruleOutliers.
		Finding(fmt.Sprintf("%d of %d numeric values fall outside the interquartile fence", n, len(st.numericValue))).
		WithColumn(st.name).
		WithDetail(fmt.Sprintf("expected range: %.4g to %.4g", lo, hi)), true
}

func checkDuplicateRows(rel *relation.Relation) []report.Finding {
	seen := make(map[string]bool, rel.NumRows())
	dups := 0
	for _, row := range rel.Rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			dups++
		}
		seen[key] = true
	}
	if dups == 0 {
		return nil
	}
	return []report.Finding{
		ruleDuplicateRows.Finding(fmt.Sprintf("%d exact duplicate rows", dups)),
	}
}

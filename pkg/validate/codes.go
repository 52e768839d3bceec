package validate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/opendq/opendq/pkg/relation"
	"github.com/opendq/opendq/pkg/report"
	"github.com/opendq/opendq/pkg/telemetry"
)

// codeScope binds a family of reference codes to the column names that
// usually carry them and the shape valid codes must have.
type codeScope struct {
	name    string
	columns *regexp.Regexp
	valid   *regexp.Regexp
	hint    string
}

var codeScopes = []codeScope{
	{
		name:    "NUTS",
		columns: regexp.MustCompile(`(?i)nuts`),
		valid:   regexp.MustCompile(`^[A-Z]{2}[0-9A-Z]{1,3}$`),
		hint:    "NUTS codes are a two-letter country prefix plus up to three characters (e.g. ITC4)",
	},
	{
		name:    "ISTAT municipality",
		columns: regexp.MustCompile(`(?i)istat|comune|municipio|municipality`),
		valid:   regexp.MustCompile(`^\d{6}$`),
		hint:    "ISTAT municipality codes are exactly six digits; format the column as text to keep leading zeros",
	},
	{
		name:    "ISO 3166-1 alpha-2 country",
		columns: regexp.MustCompile(`(?i)country|paese|pays|iso_`),
		valid:   regexp.MustCompile(`^[A-Z]{2}$`),
		hint:    "country codes are two uppercase letters (e.g. IT, DE)",
	},
}

var shortDigitsRe = regexp.MustCompile(`^\d{1,5}$`)

// runCodes is phase 4: reference code plausibility on columns whose
// names advertise a code list.
func (v *CSV) runCodes(ctx context.Context, rep *report.Report, rel *relation.Relation) {
	_, span := telemetry.StartSpan(ctx, "validate.codes")
	defer span.End()

	for col, header := range rel.Header {
		name := strings.TrimSpace(header)
		if !codeColumnRe.MatchString(name) {
			continue
		}
		scope := matchScope(name)
		if scope == nil {
			continue
		}
		v.checkCodeColumn(rep, rel, col, name, scope)
	}
}

func matchScope(column string) *codeScope {
	for i := range codeScopes {
		if codeScopes[i].columns.MatchString(column) {
			return &codeScopes[i]
		}
	}
	return nil
}

func (v *CSV) checkCodeColumn(rep *report.Report, rel *relation.Relation, col int, name string, scope *codeScope) {
	var invalid, shortDigits, total int
	var examples []string
	for row := 0; row < rel.NumRows(); row++ {
		val := strings.TrimSpace(rel.Cell(row, col))
		if val == "" || placeholderValues[strings.ToLower(val)] {
			continue
		}
		total++
		if scope.valid.MatchString(val) {
			continue
		}
		invalid++
		if shortDigitsRe.MatchString(val) {
			shortDigits++
		}
		if len(examples) < 5 {
			examples = append(examples, val)
		}
	}
	if total == 0 || invalid == 0 {
		if total > 0 {
			rep.OK(report.PhaseCodes, "reference_codes", fmt.Sprintf("column %s holds valid %s codes", name, scope.name))
		}
		return
	}

	f := ruleInvalidCodes.
		Finding(fmt.Sprintf("%d of %d values are not valid %s codes", invalid, total, scope.name)).
		WithColumn(name).
		WithDetail("examples: " + strings.Join(examples, ", "))
	f.FixHint = scope.hint
	// all-numeric short values in a six-digit code column mean the
	// spreadsheet stripped the leading zeros
	if scope.name == "ISTAT municipality" && shortDigits == invalid {
		f = f.WithDetail("examples: " + strings.Join(examples, ", ") + " (leading zeros likely stripped by a spreadsheet export)")
	}
	rep.Add(f)
}

package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/opendq/opendq/pkg/report"
)

// Markdown renders the report as a portable Markdown document.
func Markdown(rep *report.Report, showOK bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Open Data Quality Report\n\n")
	fmt.Fprintf(&b, "- **Source**: %s\n", rep.Source)
	if rep.Profile != "" {
		fmt.Fprintf(&b, "- **Profile**: %s\n", rep.Profile)
	}
	fmt.Fprintf(&b, "- **Mode**: %s\n", rep.Mode)
	fmt.Fprintf(&b, "- **Generated**: %s\n", rep.GeneratedAt.Format("2006-01-02 15:04 MST"))
	total, max := rep.Score()
	fmt.Fprintf(&b, "- **Score**: %d/100 (%d/%d points)\n", rep.ScorePercent(), total, max)
	fmt.Fprintf(&b, "- **Verdict**: %s\n\n", rep.Verdict())

	for _, sev := range []report.Severity{report.SeverityBlocker, report.SeverityMajor, report.SeverityMinor} {
		writeMarkdownGroup(&b, rep, sev)
	}
	if showOK {
		writeMarkdownGroup(&b, rep, report.SeverityOK)
	}

	if len(rep.Dimensions) > 0 {
		b.WriteString("## Dimensions\n\n")
		b.WriteString("| Dimension | Score | Max | Note |\n")
		b.WriteString("|---|---:|---:|---|\n")
		for _, d := range rep.Dimensions {
			fmt.Fprintf(&b, "| %s | %d | %d | %s |\n", d.Name, d.Score, d.Max, d.Note)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeMarkdownGroup(b *strings.Builder, rep *report.Report, sev report.Severity) {
	var group []report.Finding
	for _, f := range rep.Findings {
		if f.Severity == sev {
			group = append(group, f)
		}
	}
	if len(group) == 0 {
		return
	}

	fmt.Fprintf(b, "## %s (%d)\n\n", strings.ToUpper(string(sev)), len(group))
	for _, f := range group {
		loc := ""
		if f.Column != "" {
			loc = fmt.Sprintf(" `%s`", f.Column)
		}
		fmt.Fprintf(b, "- **%s**%s: %s\n", f.Code, loc, f.Message)
		if f.Detail != "" {
			fmt.Fprintf(b, "  - %s\n", f.Detail)
		}
		if f.FixHint != "" && sev != report.SeverityOK {
			fmt.Fprintf(b, "  - *fix*: %s\n", f.FixHint)
		}
	}
	b.WriteString("\n")
}

// ReportFileName derives the Markdown report file name from a source
// reference: the base name, snake-cased, with a .md extension.
func ReportFileName(source string) string {
	stem := filepath.Base(source)
	if i := strings.Index(stem, "?"); i >= 0 {
		stem = stem[:i]
	}
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "report"
	}
	var b strings.Builder
	prevUnderscore := false
	for _, r := range strings.ToLower(stem) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		default:
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		name = "report"
	}
	return name + ".md"
}

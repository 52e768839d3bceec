// Package render turns reports into terminal and Markdown output. Both
// renderers are pure functions of the report.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opendq/opendq/pkg/report"
)

var (
	colorBlocker = lipgloss.Color("196")
	colorMajor   = lipgloss.Color("208")
	colorMinor   = lipgloss.Color("226")
	colorOK      = lipgloss.Color("82")
	colorMuted   = lipgloss.Color("241")

	titleStyle = lipgloss.NewStyle().Bold(true).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	fixStyle   = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	severityStyles = map[report.Severity]lipgloss.Style{
		report.SeverityBlocker: lipgloss.NewStyle().Foreground(colorBlocker).Bold(true),
		report.SeverityMajor:   lipgloss.NewStyle().Foreground(colorMajor).Bold(true),
		report.SeverityMinor:   lipgloss.NewStyle().Foreground(colorMinor),
		report.SeverityOK:      lipgloss.NewStyle().Foreground(colorOK),
	}
)

// Terminal renders the report for an interactive session. Passed checks
// are listed only when showOK is set.
func Terminal(rep *report.Report, showOK bool) string {
	var b strings.Builder

	header := fmt.Sprintf("Open Data Quality  •  %s", rep.Source)
	if rep.Profile != "" {
		header += fmt.Sprintf("\n%s %s", labelStyle.Render("profile:"), rep.Profile)
	}
	header += fmt.Sprintf("\n%s %s", labelStyle.Render("generated:"), rep.GeneratedAt.Format("2006-01-02 15:04 MST"))
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	for _, sev := range []report.Severity{report.SeverityBlocker, report.SeverityMajor, report.SeverityMinor} {
		writeFindingGroup(&b, rep, sev)
	}
	if showOK {
		writeFindingGroup(&b, rep, report.SeverityOK)
	}

	b.WriteString(renderDimensions(rep))

	total, max := rep.Score()
	verdict := severityStyles[verdictSeverity(rep)].Render(rep.Verdict())
	b.WriteString(fmt.Sprintf("\nScore: %d/100 (%d/%d points)  •  %s\n", rep.ScorePercent(), total, max, verdict))
	return b.String()
}

func writeFindingGroup(b *strings.Builder, rep *report.Report, sev report.Severity) {
	var group []report.Finding
	for _, f := range rep.Findings {
		if f.Severity == sev {
			group = append(group, f)
		}
	}
	if len(group) == 0 {
		return
	}

	style := severityStyles[sev]
	b.WriteString(style.Render(strings.ToUpper(string(sev))))
	b.WriteString(fmt.Sprintf(" (%d)\n", len(group)))
	for _, f := range group {
		loc := ""
		if f.Column != "" {
			loc = fmt.Sprintf(" [%s]", f.Column)
		}
		b.WriteString(fmt.Sprintf("  %s %s%s: %s\n", style.Render("•"), f.Code, loc, f.Message))
		if f.Detail != "" {
			b.WriteString(fmt.Sprintf("      %s\n", labelStyle.Render(f.Detail)))
		}
		if f.FixHint != "" && sev != report.SeverityOK {
			b.WriteString(fmt.Sprintf("      %s\n", fixStyle.Render("fix: "+f.FixHint)))
		}
	}
	b.WriteString("\n")
}

func renderDimensions(rep *report.Report) string {
	if len(rep.Dimensions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Dimensions\n")
	for _, d := range rep.Dimensions {
		line := fmt.Sprintf("  %-26s %3d/%d", d.Name, d.Score, d.Max)
		if d.Note != "" {
			line += "  " + labelStyle.Render("("+d.Note+")")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func verdictSeverity(rep *report.Report) report.Severity {
	switch {
	case rep.HasSeverity(report.SeverityBlocker):
		return report.SeverityBlocker
	case rep.HasSeverity(report.SeverityMajor):
		return report.SeverityMajor
	default:
		return report.SeverityOK
	}
}

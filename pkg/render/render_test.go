package render

import (
	"strings"
	"testing"

	"github.com/opendq/opendq/pkg/report"
)

func sampleReport() *report.Report {
	rep := report.New("dati/Qualità Aria-2023.csv", report.ModeCSV)
	rep.Add(report.Finding{
		Severity:   report.SeverityMajor,
		Phase:      report.PhaseContent,
		Code:       "comma_decimal",
		Message:    "3 values use a comma as decimal separator",
		Detail:     "example: 1,5",
		FixHint:    "Use a dot as the decimal separator",
		Column:     "importo",
		ScoreDelta: -5,
		Dimension:  report.DimContent,
	})
	rep.OK(report.PhaseBlocker, "parseable", "parsed 10 rows x 3 columns")
	rep.Finalize(report.FinalizeOptions{ContentChecked: true})
	return rep
}

func TestMarkdown(t *testing.T) {
	out := Markdown(sampleReport(), false)

	for _, want := range []string{
		"# Open Data Quality Report",
		"## MAJOR (1)",
		"**comma_decimal** `importo`",
		"example: 1,5",
		"*fix*: Use a dot",
		"## Dimensions",
		"| Data content | 20 | 25 |",
		"USABLE WITH CAUTION",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "## OK") {
		t.Error("passed checks rendered without showOK")
	}
}

func TestMarkdownShowOK(t *testing.T) {
	out := Markdown(sampleReport(), true)
	if !strings.Contains(out, "## OK (1)") || !strings.Contains(out, "parseable") {
		t.Errorf("passed checks not rendered with showOK:\n%s", out)
	}
}

func TestTerminal(t *testing.T) {
	out := Terminal(sampleReport(), false)
	for _, want := range []string{"comma_decimal", "importo", "USABLE WITH CAUTION", "Data content"} {
		if !strings.Contains(out, want) {
			t.Errorf("terminal output missing %q", want)
		}
	}
	if strings.Contains(out, "parseable") {
		t.Error("passed checks rendered without showOK")
	}
}

func TestReportFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dati/Qualità Aria-2023.csv", "qualit_aria_2023.md"},
		{"data.csv", "data.md"},
		{"https://portal.example.org/download/rifiuti.csv?token=abc", "rifiuti.md"},
		{"", "report.md"},
		{"___.csv", "report.md"},
	}
	for _, tt := range tests {
		if got := ReportFileName(tt.in); got != tt.want {
			t.Errorf("ReportFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

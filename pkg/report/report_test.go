package report

import (
	"encoding/json"
	"testing"
)

var testRule = Rule{
	Code:      "comma_decimal",
	Severity:  SeverityMajor,
	Phase:     PhaseContent,
	Dimension: DimContent,
	Deduction: 5,
	FixHint:   "use a dot as the decimal separator",
}

func TestRuleFinding(t *testing.T) {
	f := testRule.Finding("commas used as decimal separators").WithColumn("value")
	if f.Severity != SeverityMajor || f.Code != "comma_decimal" {
		t.Errorf("rule fields not stamped: %+v", f)
	}
	if f.ScoreDelta != -5 {
		t.Errorf("ScoreDelta = %d, want -5", f.ScoreDelta)
	}
	if f.Column != "value" || f.FixHint == "" {
		t.Errorf("copy helpers lost data: %+v", f)
	}
}

func TestExitStatusAndVerdict(t *testing.T) {
	tests := []struct {
		name       string
		severities []Severity
		wantExit   int
		wantVerdct string
	}{
		{"clean", nil, 0, "GOOD"},
		{"ok only", []Severity{SeverityOK}, 0, "GOOD"},
		{"minor", []Severity{SeverityMinor}, 0, "GOOD"},
		{"major", []Severity{SeverityMinor, SeverityMajor}, 1, "USABLE WITH CAUTION"},
		{"blocker wins", []Severity{SeverityMajor, SeverityBlocker}, 2, "UNUSABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := New("test.csv", ModeCSV)
			for _, s := range tt.severities {
				rep.Add(Finding{Severity: s, Code: "x"})
			}
			if got := rep.ExitStatus(); got != tt.wantExit {
				t.Errorf("ExitStatus() = %d, want %d", got, tt.wantExit)
			}
			if got := rep.Verdict(); got != tt.wantVerdct {
				t.Errorf("Verdict() = %q, want %q", got, tt.wantVerdct)
			}
		})
	}
}

func TestFinalizeCleanCSV(t *testing.T) {
	rep := New("test.csv", ModeCSV)
	rep.Finalize(FinalizeOptions{ContentChecked: true})

	if len(rep.Dimensions) != 3 {
		t.Fatalf("dimensions = %d, want 3", len(rep.Dimensions))
	}
	total, max := rep.Score()
	if total != 60 || max != 60 {
		t.Errorf("score = %d/%d, want 60/60", total, max)
	}
	if rep.ScorePercent() != 100 {
		t.Errorf("percent = %d, want 100", rep.ScorePercent())
	}
}

func TestFinalizeDeductions(t *testing.T) {
	rep := New("test.csv", ModeCSV)
	rep.Add(Finding{Severity: SeverityMajor, Code: "encoding_not_utf8", Dimension: DimFormat, ScoreDelta: -10})
	rep.Finalize(FinalizeOptions{ContentChecked: true})

	if got := dimScore(rep, DimFormat); got != 5 {
		t.Errorf("format score = %d, want 5", got)
	}
	if rep.ScorePercent() != 83 { // 50/60
		t.Errorf("percent = %d, want 83", rep.ScorePercent())
	}
}

func TestFinalizeFloorsAtZero(t *testing.T) {
	rep := New("test.csv", ModeCSV)
	for i := 0; i < 4; i++ {
		rep.Add(Finding{Severity: SeverityMajor, Code: "x", Dimension: DimFormat, ScoreDelta: -10})
	}
	rep.Finalize(FinalizeOptions{ContentChecked: true})
	if got := dimScore(rep, DimFormat); got != 0 {
		t.Errorf("format score = %d, want 0", got)
	}
}

func TestFinalizeBlockerZeroesFileDimensions(t *testing.T) {
	rep := New("test.csv", ModeCSV)
	rep.Add(Finding{Severity: SeverityBlocker, Phase: PhaseBlocker, Code: "file_empty", Dimension: DimFormat, ScoreDelta: -15})
	rep.Finalize(FinalizeOptions{ContentChecked: true})

	for _, d := range rep.Dimensions {
		if d.Score != 0 {
			t.Errorf("dimension %s score = %d, want 0", d.Name, d.Score)
		}
		if d.Note != "Blocked before inspection" {
			t.Errorf("dimension %s note = %q", d.Name, d.Note)
		}
	}
	if rep.ScorePercent() != 0 {
		t.Errorf("percent = %d, want 0", rep.ScorePercent())
	}
}

func TestFinalizeCKANWithoutDownload(t *testing.T) {
	rep := New("https://dati.gov.it/dataset/x", ModeCKAN)
	rep.Finalize(FinalizeOptions{ContentChecked: false})

	if len(rep.Dimensions) != 5 {
		t.Fatalf("dimensions = %d, want 5", len(rep.Dimensions))
	}
	for _, d := range rep.Dimensions {
		if d.Score != d.Max {
			t.Errorf("dimension %s score = %d, want %d", d.Name, d.Score, d.Max)
		}
	}
	if got := dimNote(rep, DimContent); got != "Not checked (resource not downloaded)" {
		t.Errorf("content note = %q", got)
	}
	if got := dimNote(rep, DimMetadata); got != "" {
		t.Errorf("metadata note = %q, want empty", got)
	}
}

func TestFinalizeCKANAccessibilityDeduction(t *testing.T) {
	rep := New("https://dati.gov.it/dataset/x", ModeCKAN)
	rep.Add(Finding{Severity: SeverityMajor, Code: "resource_not_accessible", Dimension: DimAccessibility, ScoreDelta: -5})
	rep.Add(Finding{Severity: SeverityMajor, Code: "no_accessible_resources", Dimension: DimAccessibility, ScoreDelta: -20})
	rep.Finalize(FinalizeOptions{ContentChecked: false})

	if got := dimScore(rep, DimAccessibility); got != 0 {
		t.Errorf("accessibility score = %d, want 0", got)
	}
}

func TestSuppress(t *testing.T) {
	rep := New("test.csv", ModeCSV)
	rep.Add(Finding{Severity: SeverityMajor, Code: "no_header"})
	rep.Add(Finding{Severity: SeverityMajor, Code: "wide_format_years"})
	rep.Suppress("no_header")

	if rep.HasCode("no_header") {
		t.Error("suppressed finding still present")
	}
	if !rep.HasCode("wide_format_years") {
		t.Error("unrelated finding was dropped")
	}
}

func TestMarshalJSONFiltersPassedChecks(t *testing.T) {
	rep := New("test.csv", ModeCSV)
	rep.OK(PhaseBlocker, "parseable", "file parsed")
	rep.Add(testRule.Finding("commas used as decimal separators"))
	rep.Finalize(FinalizeOptions{ContentChecked: true})

	raw, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out struct {
		Mode     string `json:"mode"`
		Score    int    `json:"score"`
		ScoreRaw string `json:"score_raw"`
		Findings []struct {
			Code       string `json:"code"`
			ScoreDelta int    `json:"score_delta"`
			FixHint    string `json:"fix_hint"`
		} `json:"findings"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Mode != ModeCSV {
		t.Errorf("mode = %q", out.Mode)
	}
	if len(out.Findings) != 1 {
		t.Fatalf("findings = %d, want 1 (passed checks excluded)", len(out.Findings))
	}
	if out.Findings[0].Code != "comma_decimal" || out.Findings[0].ScoreDelta != -5 {
		t.Errorf("finding = %+v", out.Findings[0])
	}
	if out.Findings[0].FixHint == "" {
		t.Error("fix_hint missing from JSON")
	}
	if out.ScoreRaw != "55/60" {
		t.Errorf("score_raw = %q, want 55/60", out.ScoreRaw)
	}
}

func TestMarshalJSONStableAcrossRuns(t *testing.T) {
	build := func() *Report {
		rep := New("test.csv", ModeCSV)
		rep.Add(testRule.Finding("commas used as decimal separators").WithColumn("value"))
		rep.Finalize(FinalizeOptions{ContentChecked: true})
		return rep
	}
	a, b := build(), build()
	b.GeneratedAt = a.GeneratedAt

	rawA, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rawB, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(rawA) != string(rawB) {
		t.Errorf("two runs on the same input differ:\n%s\n%s", rawA, rawB)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(rawA, &keys); err != nil {
		t.Fatal(err)
	}
	if _, ok := keys["id"]; ok {
		t.Error("per-run archive ID must not leak into the serialized report")
	}
}

func TestMarshalJSONConcurrentWithAdd(t *testing.T) {
	rep := New("test.csv", ModeCSV)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			rep.Add(Finding{Severity: SeverityMinor, Code: "whitespace_values"})
		}
	}()
	for i := 0; i < 200; i++ {
		if _, err := json.Marshal(rep); err != nil {
			t.Fatalf("marshal: %v", err)
		}
	}
	<-done
}

func TestSeverityRank(t *testing.T) {
	if !(SeverityBlocker.Rank() > SeverityMajor.Rank() &&
		SeverityMajor.Rank() > SeverityMinor.Rank() &&
		SeverityMinor.Rank() > SeverityOK.Rank()) {
		t.Error("severity ranks out of order")
	}
}

func dimScore(rep *Report, name string) int {
	for _, d := range rep.Dimensions {
		if d.Name == name {
			return d.Score
		}
	}
	return -1
}

func dimNote(rep *Report, name string) string {
	for _, d := range rep.Dimensions {
		if d.Name == name {
			return d.Note
		}
	}
	return ""
}

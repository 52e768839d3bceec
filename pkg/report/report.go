package report

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Run modes.
const (
	ModeCSV  = "csv"
	ModeCKAN = "ckan"
)

// Dimension is one scored aspect of dataset quality.
type Dimension struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Max   int    `json:"max"`
	Note  string `json:"note,omitempty"`
}

// Report aggregates findings and dimension scores for one dataset run.
type Report struct {
	mu sync.Mutex

	// ID keys the report in archive stores; it never appears in the
	// serialized output.
	ID          string
	Source      string
	Profile     string
	Mode        string
	GeneratedAt time.Time
	Findings    []Finding
	Dimensions  []Dimension
}

// New creates an empty report for a source in the given mode.
func New(source, mode string) *Report {
	return &Report{
		ID:          uuid.NewString(),
		Source:      source,
		Mode:        mode,
		GeneratedAt: time.Now().UTC(),
	}
}

// Add appends a finding.
func (r *Report) Add(f Finding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Findings = append(r.Findings, f)
}

// OK records a passed check.
func (r *Report) OK(phase, code, message string) {
	r.Add(Finding{Severity: SeverityOK, Phase: phase, Code: code, Message: message})
}

// Suppress removes every finding with the given code. Used when a later
// check explains away an earlier heuristic, such as wide-format year
// columns masquerading as a missing header.
func (r *Report) Suppress(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.Findings[:0]
	for _, f := range r.Findings {
		if f.Code != code {
			kept = append(kept, f)
		}
	}
	r.Findings = kept
}

// HasSeverity reports whether any finding carries the severity.
func (r *Report) HasSeverity(s Severity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.Findings {
		if f.Severity == s {
			return true
		}
	}
	return false
}

// HasBlocker reports whether the run hit a blocker.
func (r *Report) HasBlocker() bool {
	return r.HasSeverity(SeverityBlocker)
}

// HasCode reports whether a finding with the code was recorded.
func (r *Report) HasCode(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.Findings {
		if f.Code == code {
			return true
		}
	}
	return false
}

// ExitStatus maps the worst severity to a process exit code:
// blocker = 2, major = 1, otherwise 0.
func (r *Report) ExitStatus() int {
	if r.HasSeverity(SeverityBlocker) {
		return 2
	}
	if r.HasSeverity(SeverityMajor) {
		return 1
	}
	return 0
}

// Verdict summarizes the report in one line.
func (r *Report) Verdict() string {
	switch {
	case r.HasSeverity(SeverityBlocker):
		return "UNUSABLE"
	case r.HasSeverity(SeverityMajor):
		return "USABLE WITH CAUTION"
	default:
		return "GOOD"
	}
}

// FinalizeOptions controls dimension assembly.
type FinalizeOptions struct {
	// ContentChecked is false when a portal run never downloaded the
	// resource. The file dimensions are then reported at full score
	// with an explanatory note.
	ContentChecked bool
}

// Finalize computes the dimension scores from the accumulated findings.
// Each dimension starts at its pool maximum, absorbs the score deltas of
// its findings and is floored at zero. A blocker zeroes the file
// dimensions outright.
func (r *Report) Finalize(opts FinalizeOptions) {
	names := []string{DimFormat, DimStructure, DimContent}
	if r.Mode == ModeCKAN {
		names = []string{DimAccessibility, DimMetadata, DimFormat, DimStructure, DimContent}
	}

	fileDim := map[string]bool{DimFormat: true, DimStructure: true, DimContent: true}
	blocked := false
	r.mu.Lock()
	deltas := make(map[string]int)
	for _, f := range r.Findings {
		if f.Dimension != "" {
			deltas[f.Dimension] += f.ScoreDelta
		}
		if f.Severity == SeverityBlocker && f.Phase == PhaseBlocker {
			blocked = true
		}
	}
	r.mu.Unlock()

	dims := make([]Dimension, 0, len(names))
	for _, name := range names {
		max := DimensionMax(name)
		d := Dimension{Name: name, Max: max}
		switch {
		case fileDim[name] && blocked:
			d.Score = 0
			d.Note = "Blocked before inspection"
		case fileDim[name] && r.Mode == ModeCKAN && !opts.ContentChecked:
			d.Score = max
			d.Note = "Not checked (resource not downloaded)"
		default:
			d.Score = max + deltas[name]
			if d.Score < 0 {
				d.Score = 0
			}
			if d.Score > max {
				d.Score = max
			}
		}
		dims = append(dims, d)
	}
	r.Dimensions = dims
}

// Score returns the achieved and maximum points over all dimensions.
func (r *Report) Score() (total, max int) {
	for _, d := range r.Dimensions {
		total += d.Score
		max += d.Max
	}
	return total, max
}

// ScorePercent normalizes the score to 0..100.
func (r *Report) ScorePercent() int {
	total, max := r.Score()
	if max == 0 {
		return 0
	}
	return int(float64(total)*100/float64(max) + 0.5)
}

type jsonReport struct {
	Source      string      `json:"source"`
	Profile     string      `json:"profile,omitempty"`
	Mode        string      `json:"mode"`
	GeneratedAt time.Time   `json:"generated_at"`
	Score       int         `json:"score"`
	ScoreRaw    string      `json:"score_raw"`
	Findings    []Finding   `json:"findings"`
	Dimensions  []Dimension `json:"dimensions"`
}

// MarshalJSON serializes the report. Passed checks are kept in memory
// for the terminal renderer but excluded from the machine format, as is
// the archive ID: the JSON must be identical across runs on unchanged
// input, modulo generated_at.
func (r *Report) MarshalJSON() ([]byte, error) {
	total, max := r.Score()
	r.mu.Lock()
	defer r.mu.Unlock()
	out := jsonReport{
		Source:      r.Source,
		Profile:     r.Profile,
		Mode:        r.Mode,
		GeneratedAt: r.GeneratedAt,
		Score:       r.ScorePercent(),
		ScoreRaw:    fmt.Sprintf("%d/%d", total, max),
		Findings:    make([]Finding, 0, len(r.Findings)),
		Dimensions:  r.Dimensions,
	}
	for _, f := range r.Findings {
		if f.Severity != SeverityOK {
			out.Findings = append(out.Findings, f)
		}
	}
	return json.Marshal(out)
}

// ToJSON renders the report as indented JSON.
func (r *Report) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Package report defines the quality report model: findings, severity
// levels, score dimensions and the exit status contract.
package report

// Severity classifies how much a finding degrades dataset usability.
type Severity string

const (
	// SeverityBlocker means the dataset is unusable as published.
	SeverityBlocker Severity = "blocker"
	// SeverityMajor means significant rework is needed before use.
	SeverityMajor Severity = "major"
	// SeverityMinor means cosmetic or advisory issues.
	SeverityMinor Severity = "minor"
	// SeverityOK records a passed check.
	SeverityOK Severity = "ok"
)

// Rank orders severities for aggregation (higher is worse).
func (s Severity) Rank() int {
	switch s {
	case SeverityBlocker:
		return 3
	case SeverityMajor:
		return 2
	case SeverityMinor:
		return 1
	default:
		return 0
	}
}

// Validation phases, in pipeline order.
const (
	PhaseBlocker     = "blocker"
	PhaseStructure   = "structure"
	PhaseColumns     = "columns"
	PhaseContent     = "content"
	PhaseCodes       = "codes"
	PhaseMetadata    = "metadata"
	PhaseConsistency = "consistency"
)

// Score dimension names. CSV-only runs carry the last three; portal runs
// carry all five.
const (
	DimAccessibility = "Accessibility"
	DimMetadata      = "Metadata completeness"
	DimFormat        = "File format compliance"
	DimStructure     = "Data structure"
	DimContent       = "Data content"
)

// DimensionMax returns the point pool for a dimension.
func DimensionMax(name string) int {
	switch name {
	case DimAccessibility, DimMetadata, DimStructure:
		return 20
	case DimFormat:
		return 15
	case DimContent:
		return 25
	default:
		return 0
	}
}

// Finding is a single check outcome. Findings are immutable once added
// to a report; the With* helpers return modified copies.
type Finding struct {
	Severity   Severity `json:"severity"`
	Phase      string   `json:"phase"`
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Detail     string   `json:"detail,omitempty"`
	FixHint    string   `json:"fix_hint,omitempty"`
	Column     string   `json:"column,omitempty"`
	ScoreDelta int      `json:"score_delta"`
	Dimension  string   `json:"-"`
}

// WithDetail returns a copy carrying supporting evidence.
func (f Finding) WithDetail(detail string) Finding {
	f.Detail = detail
	return f
}

// WithColumn returns a copy bound to a column name.
func (f Finding) WithColumn(column string) Finding {
	f.Column = column
	return f
}

// Rule bundles everything a check contributes to a report: the stable
// finding code, severity, phase, score dimension and deduction, and the
// remediation hint. Checks hold a Rule and stamp findings from it so
// detection logic and scoring cannot drift apart.
type Rule struct {
	Code      string
	Severity  Severity
	Phase     string
	Dimension string
	Deduction int
	FixHint   string
}

// Finding stamps a new finding from the rule descriptor.
func (r Rule) Finding(message string) Finding {
	return Finding{
		Severity:   r.Severity,
		Phase:      r.Phase,
		Code:       r.Code,
		Message:    message,
		FixHint:    r.FixHint,
		ScoreDelta: -r.Deduction,
		Dimension:  r.Dimension,
	}
}

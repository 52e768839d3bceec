package validate

import "github.com/opendq/opendq/pkg/report"

// Rule descriptors for phases 0 through 4. Each bundles the finding
// code with its severity, score dimension and deduction so detection
// and scoring cannot drift apart.
var (
	// Phase 0: blockers. No dimension; a blocker zeroes the file
	// dimensions wholesale.
	ruleFileMissing = report.Rule{
		Code: "file_not_found", Severity: report.SeverityBlocker, Phase: report.PhaseBlocker,
		FixHint: "Publish the file at the advertised location",
	}
	ruleFileUnreadable = report.Rule{
		Code: "file_unreadable", Severity: report.SeverityBlocker, Phase: report.PhaseBlocker,
		FixHint: "Fix file permissions or republish the file",
	}
	ruleFileEmpty = report.Rule{
		Code: "file_empty", Severity: report.SeverityBlocker, Phase: report.PhaseBlocker,
		FixHint: "Publish the actual data, not a zero-byte file",
	}
	ruleWrongType = report.Rule{
		Code: "file_wrong_type", Severity: report.SeverityBlocker, Phase: report.PhaseBlocker,
		FixHint: "Export the data as CSV or fix the advertised format",
	}
	ruleUnparseable = report.Rule{
		Code: "file_unparseable", Severity: report.SeverityBlocker, Phase: report.PhaseBlocker,
		FixHint: "Repair quoting and delimiters so the file parses as CSV",
	}
	ruleTrivial = report.Rule{
		Code: "trivial_dataset", Severity: report.SeverityBlocker, Phase: report.PhaseBlocker,
		FixHint: "Publish a table with at least two columns and one data row",
	}

	// Phase 1: file format.
	ruleEncodingNotUTF8 = report.Rule{
		Code: "encoding_not_utf8", Severity: report.SeverityMajor, Phase: report.PhaseStructure,
		Dimension: report.DimFormat, Deduction: 10,
		FixHint: "Re-export the file as UTF-8",
	}
	ruleBOMPresent = report.Rule{
		Code: "bom_present", Severity: report.SeverityMajor, Phase: report.PhaseStructure,
		Dimension: report.DimFormat, Deduction: 5,
		FixHint: "Save without a byte order mark (plain UTF-8)",
	}
	ruleNoHeader = report.Rule{
		Code: "no_header", Severity: report.SeverityMajor, Phase: report.PhaseStructure,
		Dimension: report.DimFormat, Deduction: 3,
		FixHint: "Add a header row naming each column",
	}
	ruleLenientParse = report.Rule{
		Code: "lenient_parse", Severity: report.SeverityMinor, Phase: report.PhaseStructure,
		Dimension: report.DimFormat, Deduction: 2,
		FixHint: "Quote fields consistently and keep every row the same width",
	}

	// Phase 2: structure.
	ruleWideYears = report.Rule{
		Code: "wide_format_years", Severity: report.SeverityMajor, Phase: report.PhaseColumns,
		Dimension: report.DimStructure, Deduction: 5,
		FixHint: "Unpivot to long format: one year column, one value column",
	}
	ruleWideMonths = report.Rule{
		Code: "wide_format_months", Severity: report.SeverityMajor, Phase: report.PhaseColumns,
		Dimension: report.DimStructure, Deduction: 5,
		FixHint: "Unpivot to long format: one month column, one value column",
	}
	ruleDuplicateColumns = report.Rule{
		Code: "duplicate_columns", Severity: report.SeverityMajor, Phase: report.PhaseColumns,
		Dimension: report.DimStructure, Deduction: 5,
		FixHint: "Give every column a unique name",
	}
	ruleAggregateRows = report.Rule{
		Code: "aggregate_rows", Severity: report.SeverityMajor, Phase: report.PhaseColumns,
		Dimension: report.DimStructure, Deduction: 5,
		FixHint: "Remove total and summary rows; aggregates belong to consumers",
	}
	ruleBadColumnNames = report.Rule{
		Code: "bad_column_names", Severity: report.SeverityMinor, Phase: report.PhaseColumns,
		Dimension: report.DimStructure, Deduction: 3,
		FixHint: "Use snake_case ASCII column names",
	}
	ruleFootnoteMarkers = report.Rule{
		Code: "footnote_markers", Severity: report.SeverityMinor, Phase: report.PhaseColumns,
		Dimension: report.DimStructure, Deduction: 2,
		FixHint: "Move footnotes to the dataset description or a notes column",
	}

	// Phase 3: content.
	ruleCommaDecimal = report.Rule{
		Code: "comma_decimal", Severity: report.SeverityMajor, Phase: report.PhaseContent,
		Dimension: report.DimContent, Deduction: 5,
		FixHint: "Use a dot as the decimal separator",
	}
	ruleNonISODate = report.Rule{
		Code: "non_iso_date", Severity: report.SeverityMajor, Phase: report.PhaseContent,
		Dimension: report.DimContent, Deduction: 5,
		FixHint: "Use ISO 8601 dates (YYYY-MM-DD)",
	}
	ruleHighNullRate = report.Rule{
		Code: "high_null_rate", Severity: report.SeverityMajor, Phase: report.PhaseContent,
		Dimension: report.DimContent, Deduction: 5,
		FixHint: "Fill the gaps or document why the values are missing",
	}
	ruleUnitsInCells = report.Rule{
		Code: "units_in_cells", Severity: report.SeverityMinor, Phase: report.PhaseContent,
		Dimension: report.DimContent, Deduction: 3,
		FixHint: "Keep cells numeric; put the unit in the column name or metadata",
	}
	rulePlaceholders = report.Rule{
		Code: "placeholder_values", Severity: report.SeverityMinor, Phase: report.PhaseContent,
		Dimension: report.DimContent, Deduction: 3,
		FixHint: "Leave missing values empty instead of placeholder strings",
	}
	ruleNumericAsText = report.Rule{
		Code: "numeric_as_text", Severity: report.SeverityMinor, Phase: report.PhaseContent,
		Dimension: report.DimContent, Deduction: 2,
		FixHint: "Drop thousands separators so values parse as numbers",
	}
	ruleFuzzyCategories = report.Rule{
		Code: "fuzzy_category_values", Severity: report.SeverityMajor, Phase: report.PhaseContent,
		Dimension: report.DimContent, Deduction: 3,
		FixHint: "Normalize category spellings to one canonical value",
	}
	ruleWhitespaceValues = report.Rule{
		Code: "whitespace_values", Severity: report.SeverityMinor, Phase: report.PhaseContent,
		Dimension: report.DimContent, Deduction: 1,
		FixHint: "Trim leading and trailing whitespace from values",
	}
	ruleDuplicateRows = report.Rule{
		Code: "duplicate_rows", Severity: report.SeverityMajor, Phase: report.PhaseContent,
		Dimension: report.DimContent, Deduction: 3,
		FixHint: "Deduplicate rows before publishing",
	}
	ruleOutliers = report.Rule{
		Code: "outlier_values", Severity: report.SeverityMinor, Phase: report.PhaseContent,
		Dimension: report.DimContent, Deduction: 0,
		FixHint: "Verify the flagged values; they may be unit or entry errors",
	}

	// Phase 4: reference codes.
	ruleInvalidCodes = report.Rule{
		Code: "invalid_reference_codes", Severity: report.SeverityMajor, Phase: report.PhaseCodes,
		Dimension: report.DimContent, Deduction: 4,
		FixHint: "Use valid codes from the reference code list",
	}
)

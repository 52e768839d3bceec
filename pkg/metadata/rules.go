package metadata

import "github.com/opendq/opendq/pkg/report"

// Rule descriptors for the metadata, accessibility and consistency
// checks.
var (
	ruleMissingTitle = report.Rule{
		Code: "missing_title", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 4,
		FixHint: "Give the dataset a descriptive title",
	}
	ruleMissingDescription = report.Rule{
		Code: "missing_description", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 4,
		FixHint: "Describe what the dataset contains, its coverage and its caveats",
	}
	ruleShortDescription = report.Rule{
		Code: "short_description", Severity: report.SeverityMinor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 2,
		FixHint: "Expand the description; a sentence or two is not enough to assess fitness for use",
	}
	ruleDescriptionEqualsTitle = report.Rule{
		Code: "description_equals_title", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 3,
		FixHint: "Write a real description instead of repeating the title",
	}
	ruleMissingPublisher = report.Rule{
		Code: "missing_publisher", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 4,
		FixHint: "Name the publishing organization",
	}
	ruleMissingLicense = report.Rule{
		Code: "missing_license", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 4,
		FixHint: "Declare a license; without one the data cannot legally be reused",
	}
	ruleFewTags = report.Rule{
		Code: "few_tags", Severity: report.SeverityMinor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 1,
		FixHint: "Add at least three keywords so the dataset can be found",
	}
	ruleMissingDate = report.Rule{
		Code: "missing_date", Severity: report.SeverityMinor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 2,
		FixHint: "Publish issued and modified dates",
	}
	ruleNonISOMetaDate = report.Rule{
		Code: "non_iso_metadata_date", Severity: report.SeverityMinor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 1,
		FixHint: "Use ISO 8601 for metadata dates",
	}
	ruleMissingOptionalField = report.Rule{
		Code: "missing_optional_field", Severity: report.SeverityMinor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 0,
		FixHint: "Fill in the recommended DCAT-AP fields",
	}
	ruleMissingProfileField = report.Rule{
		Code: "missing_profile_field", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 3,
		FixHint: "The national profile makes this field mandatory",
	}
	ruleResourceMissingFormat = report.Rule{
		Code: "resource_missing_format", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 1,
		FixHint: "Declare the distribution format",
	}
	ruleResourceMissingMimetype = report.Rule{
		Code: "resource_missing_mimetype", Severity: report.SeverityMinor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 0,
		FixHint: "Declare the distribution media type",
	}
	ruleMissingDistributionLicense = report.Rule{
		Code: "missing_distribution_license", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 2,
		FixHint: "Attach the license to every distribution",
	}
	ruleDistributionLicenseAdvisory = report.Rule{
		Code: "missing_distribution_license", Severity: report.SeverityMinor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 1,
		FixHint: "Attach the license to every distribution",
	}
	ruleResourceMissingURL = report.Rule{
		Code: "resource_missing_url", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 2,
		FixHint: "Every distribution needs a download URL",
	}
	ruleUnstableURL = report.Rule{
		Code: "unstable_url", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 2,
		FixHint: "Host the file on a stable portal URL, not a shortener or personal cloud drive",
	}
	ruleResourceMissingSize = report.Rule{
		Code: "resource_missing_size", Severity: report.SeverityMinor, Phase: report.PhaseMetadata,
		Dimension: report.DimMetadata, Deduction: 0,
		FixHint: "Declare the distribution byte size",
	}

	// Accessibility.
	ruleNoResources = report.Rule{
		Code: "no_resources", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimAccessibility, Deduction: 20,
		FixHint: "Attach at least one distribution to the dataset",
	}
	rulePrimaryNotAccessible = report.Rule{
		Code: "resource_not_accessible", Severity: report.SeverityBlocker, Phase: report.PhaseBlocker,
		Dimension: report.DimAccessibility, Deduction: 5,
		FixHint: "Fix the download URL of the primary distribution",
	}
	ruleResourceNotAccessible = report.Rule{
		Code: "resource_not_accessible", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimAccessibility, Deduction: 5,
		FixHint: "Fix the download URL",
	}
	ruleResourceTimeout = report.Rule{
		Code: "resource_timeout", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimAccessibility, Deduction: 5,
		FixHint: "The server did not answer within the timeout; check hosting",
	}
	ruleResourceError = report.Rule{
		Code: "resource_unreachable", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimAccessibility, Deduction: 3,
		FixHint: "The URL could not be contacted; check DNS and TLS",
	}
	ruleNoAccessibleResources = report.Rule{
		Code: "no_accessible_resources", Severity: report.SeverityMajor, Phase: report.PhaseMetadata,
		Dimension: report.DimAccessibility, Deduction: 20,
		FixHint: "None of the distributions can be retrieved",
	}

	// Consistency (signal only).
	ruleEncodingMismatch = report.Rule{
		Code: "encoding_mismatch", Severity: report.SeverityMinor, Phase: report.PhaseConsistency,
		Dimension: report.DimMetadata, Deduction: 1,
		FixHint: "Align the declared encoding with the file content",
	}
	ruleStaleData = report.Rule{
		Code: "stale_data", Severity: report.SeverityMinor, Phase: report.PhaseConsistency,
		Dimension: report.DimMetadata, Deduction: 0,
		FixHint: "Update the dataset or correct the declared frequency",
	}
)

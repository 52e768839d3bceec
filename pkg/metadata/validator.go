package metadata

import (
	"fmt"
	"strings"

	"github.com/opendq/opendq/pkg/report"
)

const shortDescriptionLength = 80

// Validator runs the metadata completeness checks for one package
// under one resolved profile.
type Validator struct {
	pkg     *Package
	profile *Profile
	name    string
}

// NewValidator creates a validator. profileName comes from the
// resolver; an unknown name falls back to the baseline rules.
func NewValidator(pkg *Package, profileName string) *Validator {
	return &Validator{
		pkg:     pkg,
		profile: ProfileByName(profileName),
		name:    profileName,
	}
}

// Run records findings for the DCAT-AP core fields, the profile's
// additional mandatory fields and each distribution.
func (v *Validator) Run(rep *report.Report) {
	v.checkTitleAndDescription(rep)
	v.checkPublisherAndLicense(rep)
	v.checkTags(rep)
	v.checkDates(rep)
	v.checkOptionalFields(rep)
	v.checkProfileFields(rep)
	for i := range v.pkg.Resources {
		v.checkResource(rep, &v.pkg.Resources[i])
	}
}

func (v *Validator) checkTitleAndDescription(rep *report.Report) {
	title := v.pkg.Field("title", v.profile)
	if title == "" {
		rep.Add(ruleMissingTitle.Finding("dataset has no title"))
	} else {
		rep.OK(report.PhaseMetadata, "title", "title present")
	}

	desc := v.pkg.Field("description", v.profile)
	switch {
	case desc == "":
		rep.Add(ruleMissingDescription.Finding("dataset has no description"))
	case title != "" && strings.EqualFold(strings.TrimSpace(desc), strings.TrimSpace(title)):
		rep.Add(ruleDescriptionEqualsTitle.Finding("description merely repeats the title"))
	case len([]rune(desc)) < shortDescriptionLength:
		rep.Add(ruleShortDescription.Finding(fmt.Sprintf("description is only %d characters", len([]rune(desc)))))
	default:
		rep.OK(report.PhaseMetadata, "description", "description present")
	}
}

func (v *Validator) checkPublisherAndLicense(rep *report.Report) {
	publisher := ""
	if v.pkg.Organization != nil {
		publisher = strings.TrimSpace(v.pkg.Organization.Title)
		if publisher == "" {
			publisher = strings.TrimSpace(v.pkg.Organization.Name)
		}
	}
	if publisher == "" {
		publisher = v.pkg.Extra("publisher_name", "publisher")
	}
	if publisher == "" {
		rep.Add(ruleMissingPublisher.Finding("no publishing organization"))
	} else {
		rep.OK(report.PhaseMetadata, "publisher", "publisher: "+publisher)
	}

	if strings.TrimSpace(v.pkg.LicenseID) == "" && strings.TrimSpace(v.pkg.LicenseTitle) == "" {
		rep.Add(ruleMissingLicense.Finding("dataset declares no license"))
	} else {
		rep.OK(report.PhaseMetadata, "license", "license declared")
	}
}

func (v *Validator) checkTags(rep *report.Report) {
	if len(v.pkg.Tags) < 3 {
		rep.Add(ruleFewTags.Finding(fmt.Sprintf("only %d keywords", len(v.pkg.Tags))))
	}
}

func (v *Validator) checkDates(rep *report.Report) {
	for _, name := range []string{"issued", "modified"} {
		val := v.pkg.Field(name, v.profile)
		if val == "" {
			rep.Add(ruleMissingDate.Finding("no " + name + " date").WithColumn(name))
			continue
		}
		if !validMetadataDate(val) {
			rep.Add(ruleNonISOMetaDate.
				Finding(name + " date is not ISO 8601").
				WithColumn(name).
				WithDetail("value: " + val))
		}
	}
}

// validMetadataDate accepts a plain ISO date or a full ISO timestamp.
func validMetadataDate(val string) bool {
	val = strings.TrimSpace(val)
	if len(val) < 10 {
		return false
	}
	date := val[:10]
	for i, c := range date {
		if i == 4 || i == 7 {
			if c != '-' {
				return false
			}
		} else if c < '0' || c > '9' {
			return false
		}
	}
	if len(val) == 10 {
		return true
	}
	return val[10] == 'T' || val[10] == ' '
}

func (v *Validator) checkOptionalFields(rep *report.Report) {
	for _, name := range []string{"frequency", "temporal_coverage", "spatial", "language", "identifier"} {
		if v.pkg.Field(name, v.profile) == "" {
			rep.Add(ruleMissingOptionalField.
				Finding("recommended field " + name + " is empty").
				WithColumn(name))
		}
	}
}

func (v *Validator) checkProfileFields(rep *report.Report) {
	if v.profile == nil {
		return
	}
	for _, field := range v.profile.Mandatory {
		if v.pkg.Field(field, v.profile) == "" {
			rep.Add(ruleMissingProfileField.
				Finding(fmt.Sprintf("%s requires %s", v.profile.Name, field)).
				WithColumn(field))
		}
	}
}

// unstableURLHosts are shorteners and personal cloud drives, which
// rot faster than portal-hosted files.
var unstableURLHosts = []string{
	"bit.ly", "tinyurl.com", "goo.gl", "t.co",
	"docs.google.com/spreadsheets", "drive.google.com",
	"dropbox.com", "onedrive.live.com", "1drv.ms",
}

func (v *Validator) checkResource(rep *report.Report, res *Resource) {
	label := res.Label()

	if strings.TrimSpace(res.URL) == "" {
		rep.Add(ruleResourceMissingURL.Finding("distribution has no download URL").WithColumn(label))
	} else if host := strings.ToLower(res.URL); isUnstableURL(host) {
		rep.Add(ruleUnstableURL.
			Finding("distribution is hosted on an unstable URL").
			WithColumn(label).
			WithDetail(res.URL))
	}

	if strings.TrimSpace(res.Format) == "" {
		rep.Add(ruleResourceMissingFormat.Finding("distribution declares no format").WithColumn(label))
	}
	if strings.TrimSpace(res.Mimetype) == "" {
		rep.Add(ruleResourceMissingMimetype.Finding("distribution declares no media type").WithColumn(label))
	}
	if res.SizeBytes() <= 0 {
		rep.Add(ruleResourceMissingSize.Finding("distribution declares no size").WithColumn(label))
	}

	if strings.TrimSpace(res.LicenseID) == "" && strings.TrimSpace(res.License) == "" {
		rule := ruleDistributionLicenseAdvisory
		msg := "distribution carries no license of its own"
		if v.profile.MandatesDistributionLicense() {
			rule = ruleMissingDistributionLicense
			msg = fmt.Sprintf("%s requires a license on every distribution", v.profile.Name)
		}
		rep.Add(rule.Finding(msg).WithColumn(label))
	}
}

func isUnstableURL(u string) bool {
	for _, host := range unstableURLHosts {
		if strings.Contains(u, host) {
			return true
		}
	}
	return false
}

package metadata

import (
	"fmt"
	"strings"
	"time"

	"github.com/opendq/opendq/pkg/detect"
	"github.com/opendq/opendq/pkg/relation"
	"github.com/opendq/opendq/pkg/report"
)

// freshnessWindows maps a declared update frequency to how stale the
// modified date may be before the dataset looks abandoned. Windows are
// generous: a daily dataset gets a week of slack.
var freshnessWindows = map[string]time.Duration{
	"DAILY":     7 * 24 * time.Hour,
	"WEEKLY":    30 * 24 * time.Hour,
	"MONTHLY":   90 * 24 * time.Hour,
	"QUARTERLY": 180 * 24 * time.Hour,
	"ANNUAL":    730 * 24 * time.Hour,
	"BIENNIAL":  1460 * 24 * time.Hour,
}

// CheckConsistency is phase 6: cross-checks between the metadata and
// the downloaded file, plus staleness against the declared frequency.
// rel is nil when the file was never downloaded; file-dependent checks
// are then skipped.
func CheckConsistency(pkg *Package, rel *relation.Relation, rep *report.Report) {
	checkEncodingConsistency(pkg, rel, rep)
	checkStaleness(pkg, rep, time.Now())
}

func checkEncodingConsistency(pkg *Package, rel *relation.Relation, rep *report.Report) {
	if rel == nil {
		return
	}
	declared := declaredEncoding(pkg)
	if declared == "" {
		return
	}
	if detect.EncodingsCompatible(declared, rel.Encoding) {
		rep.OK(report.PhaseConsistency, "encoding_consistent",
			fmt.Sprintf("declared encoding %s matches the file", declared))
		return
	}
	rep.Add(ruleEncodingMismatch.
		Finding(fmt.Sprintf("metadata declares %s but the file is %s", declared, rel.Encoding)))
}

func declaredEncoding(pkg *Package) string {
	idx := PrimaryResourceIndex(pkg)
	if idx >= 0 && pkg.Resources[idx].Encoding != "" {
		return pkg.Resources[idx].Encoding
	}
	return pkg.Extra("encoding")
}

func checkStaleness(pkg *Package, rep *report.Report, now time.Time) {
	freq := normalizeFrequency(pkg.Field("frequency", nil))
	window, ok := freshnessWindows[freq]
	if !ok {
		return
	}
	modified := pkg.Field("modified", nil)
	if modified == "" || len(modified) < 10 {
		return
	}
	t, err := time.Parse("2006-01-02", modified[:10])
	if err != nil {
		return
	}
	if age := now.Sub(t); age > window {
		rep.Add(ruleStaleData.
			Finding(fmt.Sprintf("declared %s updates but last modified %d days ago",
				strings.ToLower(freq), int(age.Hours()/24))))
	} else {
		rep.OK(report.PhaseConsistency, "fresh", "modified date is consistent with the declared frequency")
	}
}

// normalizeFrequency reduces EU frequency authority URIs and free-form
// labels to a bare token ("http://.../frequency/ANNUAL" -> "ANNUAL").
func normalizeFrequency(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if i := strings.LastIndex(raw, "/"); i >= 0 {
		raw = raw[i+1:]
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

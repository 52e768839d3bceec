package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opendq/opendq/pkg/report"
)

func csvPackage(urls ...string) *Package {
	pkg := &Package{}
	for _, u := range urls {
		pkg.Resources = append(pkg.Resources, Resource{Format: "CSV", URL: u})
	}
	return pkg
}

func TestAccessibilityAllReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rep := report.New("test", report.ModeCKAN)
	NewAccessibilityChecker(5*time.Second).Run(context.Background(), csvPackage(srv.URL+"/a.csv", srv.URL+"/b.csv"), rep)

	if rep.HasSeverity(report.SeverityMajor) || rep.HasBlocker() {
		t.Errorf("reachable resources produced findings: %+v", rep.Findings)
	}
	if !rep.HasCode("accessibility") {
		t.Error("expected the passed accessibility check to be recorded")
	}
}

func TestAccessibilityHeadRejectedGetAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rep := report.New("test", report.ModeCKAN)
	NewAccessibilityChecker(5*time.Second).Run(context.Background(), csvPackage(srv.URL+"/a.csv"), rep)

	if rep.HasCode("resource_not_accessible") {
		t.Errorf("GET fallback should have rescued the probe: %+v", rep.Findings)
	}
}

func TestAccessibilityPrimaryFailureBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	rep := report.New("test", report.ModeCKAN)
	NewAccessibilityChecker(5*time.Second).Run(context.Background(), csvPackage(srv.URL+"/a.csv"), rep)

	f := findByCode(rep, "resource_not_accessible")
	if f.Code == "" {
		t.Fatalf("missing resource_not_accessible: %+v", rep.Findings)
	}
	if f.Severity != report.SeverityBlocker {
		t.Errorf("primary failure severity = %q, want blocker", f.Severity)
	}
	if !rep.HasCode("no_accessible_resources") {
		t.Error("all probes failed; no_accessible_resources should be recorded")
	}
}

func TestAccessibilitySecondaryFailureIsMajor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone.pdf" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	pkg := &Package{Resources: []Resource{
		{Format: "CSV", URL: srv.URL + "/data.csv"},
		{Format: "PDF", URL: srv.URL + "/gone.pdf"},
	}}
	rep := report.New("test", report.ModeCKAN)
	NewAccessibilityChecker(5*time.Second).Run(context.Background(), pkg, rep)

	f := findByCode(rep, "resource_not_accessible")
	if f.Severity != report.SeverityMajor {
		t.Errorf("secondary failure severity = %q, want major", f.Severity)
	}
	if rep.HasBlocker() {
		t.Error("a secondary failure must not block the dataset")
	}
}

func TestAccessibilityUnreachableHost(t *testing.T) {
	// reserved TEST-NET-1 address; connections fail fast or time out
	rep := report.New("test", report.ModeCKAN)
	NewAccessibilityChecker(2*time.Second).Run(context.Background(), csvPackage("http://192.0.2.1:9/data.csv"), rep)

	if !rep.HasCode("resource_unreachable") && !rep.HasCode("resource_timeout") {
		t.Errorf("expected an unreachable or timeout finding: %+v", rep.Findings)
	}
}

func TestAccessibilityNoResources(t *testing.T) {
	rep := report.New("test", report.ModeCKAN)
	NewAccessibilityChecker(time.Second).Run(context.Background(), &Package{}, rep)
	if !rep.HasCode("no_resources") {
		t.Errorf("missing no_resources: %+v", rep.Findings)
	}
}

package ckan

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/opendq/opendq/internal/errdefs"
	"github.com/opendq/opendq/pkg/metadata"
)

func resourceFor(url string) *metadata.Resource {
	return &metadata.Resource{Name: "data.csv", Format: "CSV", URL: url}
}

const packageShowBody = `{
	"success": true,
	"result": {
		"id": "abc",
		"name": "qualita-aria-2023",
		"title": "Qualità dell'aria 2023",
		"license_id": "cc-by",
		"tags": [{"name": "aria"}],
		"extras": [{"key": "theme", "value": "ENVI"}],
		"resources": [
			{"id": "r1", "format": "CSV", "url": "https://x/data.csv", "size": "1234"}
		]
	}
}`

func TestPackageShow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/3/action/package_show" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "qualita-aria-2023" {
			t.Errorf("id = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(packageShowBody))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	pkg, err := client.PackageShow(context.Background(), "qualita-aria-2023")
	if err != nil {
		t.Fatalf("PackageShow: %v", err)
	}
	if pkg.Title != "Qualità dell'aria 2023" {
		t.Errorf("title = %q", pkg.Title)
	}
	if len(pkg.Resources) != 1 || pkg.Resources[0].SizeBytes() != 1234 {
		t.Errorf("resources = %+v", pkg.Resources)
	}
}

func TestPackageShowNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success": false, "error": {"message": "Not found", "__type": "Not Found Error"}}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.PackageShow(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected an error for a missing dataset")
	}
	if !errdefs.IsCode(err, errdefs.CodePortal) {
		t.Errorf("error code = %v, want %s", err, errdefs.CodePortal)
	}
	if !strings.Contains(err.Error(), "Not found") {
		t.Errorf("portal message lost: %v", err)
	}
}

func TestPackageShowServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL, 5*time.Second)
	_, err := client.PackageShow(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("expected an HTTP 502 error, got %v", err)
	}
}

func TestNewClientRejectsGarbage(t *testing.T) {
	if _, err := NewClient("://not a url", time.Second); err == nil {
		t.Error("expected an error for an invalid portal URL")
	}
}

func TestParseDatasetRef(t *testing.T) {
	tests := []struct {
		in         string
		wantPortal string
		wantID     string
		wantErr    bool
	}{
		{"https://dati.gov.it/dataset/rifiuti-2023", "https://dati.gov.it", "rifiuti-2023", false},
		{"https://data.gov.uk/dataset/abc/resource/def", "https://data.gov.uk", "abc", false},
		{"dati.gov.it/dataset/rifiuti-2023", "https://dati.gov.it", "rifiuti-2023", false},
		{"https://demo.ckan.org/qualita-aria", "https://demo.ckan.org", "qualita-aria", false},
		{"https://demo.ckan.org/", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			portal, id, err := ParseDatasetRef(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if portal != tt.wantPortal || id != tt.wantID {
				t.Errorf("got (%q, %q), want (%q, %q)", portal, id, tt.wantPortal, tt.wantID)
			}
		})
	}
}

func TestDownload(t *testing.T) {
	const body = "id,name\n1,Roma\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL, 5*time.Second)
	var buf bytes.Buffer
	res := resourceFor(srv.URL + "/data.csv")
	n, err := client.Download(context.Background(), res, &buf, false)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if n != int64(len(body)) || buf.String() != body {
		t.Errorf("downloaded %d bytes %q", n, buf.String())
	}
}

func TestDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	client, _ := NewClient(srv.URL, 5*time.Second)
	var buf bytes.Buffer
	_, err := client.Download(context.Background(), resourceFor(srv.URL+"/gone.csv"), &buf, false)
	if !errdefs.IsCode(err, errdefs.CodeDownload) {
		t.Errorf("error = %v, want code %s", err, errdefs.CodeDownload)
	}
}

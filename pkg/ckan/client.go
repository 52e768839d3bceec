// Package ckan talks to CKAN portals: fetching package metadata and
// downloading distributions.
package ckan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/opendq/opendq/internal/errdefs"
	"github.com/opendq/opendq/pkg/metadata"
)

// Client is a minimal CKAN action API client.
type Client struct {
	base   *url.URL
	client *http.Client
	log    *logrus.Entry
}

// NewClient creates a client for a portal base URL.
func NewClient(portalURL string, timeout time.Duration) (*Client, error) {
	if !strings.Contains(portalURL, "://") {
		portalURL = "https://" + portalURL
	}
	u, err := url.Parse(portalURL)
	if err != nil || u.Host == "" {
		return nil, errdefs.Newf(errdefs.CodePortal, "invalid portal URL: %s", portalURL)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:   &url.URL{Scheme: u.Scheme, Host: u.Host},
		client: &http.Client{Timeout: timeout},
		log:    logrus.WithField("component", "ckan").WithField("portal", u.Host),
	}, nil
}

// Portal returns the portal base URL.
func (c *Client) Portal() string {
	return c.base.String()
}

type actionEnvelope struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   struct {
		Message string `json:"message"`
		Type    string `json:"__type"`
	} `json:"error"`
}

// PackageShow fetches a dataset by name or id.
func (c *Client) PackageShow(ctx context.Context, id string) (*metadata.Package, error) {
	endpoint := *c.base
	endpoint.Path = "/api/3/action/package_show"
	endpoint.RawQuery = url.Values{"id": {id}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errdefs.Wrap(err, errdefs.CodePortal, "portal request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return nil, errdefs.Newf(errdefs.CodePortal, "portal answered HTTP %d", resp.StatusCode)
	}

	var env actionEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, 16<<20)).Decode(&env); err != nil {
		return nil, errdefs.Wrap(err, errdefs.CodePortal, "portal answer is not CKAN JSON")
	}
	if !env.Success {
		msg := env.Error.Message
		if msg == "" {
			msg = "dataset not found"
		}
		return nil, errdefs.Newf(errdefs.CodePortal, "package_show failed: %s", msg)
	}

	var pkg metadata.Package
	if err := json.Unmarshal(env.Result, &pkg); err != nil {
		return nil, errdefs.Wrap(err, errdefs.CodePortal, "cannot decode package")
	}
	c.log.WithField("dataset", pkg.Name).Debug("fetched package metadata")
	return &pkg, nil
}

// ParseDatasetRef splits a dataset page URL into portal base and
// dataset id. "https://dati.gov.it/dataset/rifiuti-2023" yields
// ("https://dati.gov.it", "rifiuti-2023").
func ParseDatasetRef(raw string) (portal, id string, err error) {
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", "", errdefs.Newf(errdefs.CodePortal, "not a dataset URL: %s", raw)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part == "dataset" && i+1 < len(parts) {
			return u.Scheme + "://" + u.Host, parts[i+1], nil
		}
	}
	if len(parts) > 0 && parts[len(parts)-1] != "" {
		return u.Scheme + "://" + u.Host, parts[len(parts)-1], nil
	}
	return "", "", errdefs.Newf(errdefs.CodePortal, "cannot extract a dataset id from %s", raw)
}

// PickCSVResource returns the index of the distribution to validate,
// or -1 when the dataset has none.
func PickCSVResource(pkg *metadata.Package) int {
	return metadata.PrimaryResourceIndex(pkg)
}

// Download streams a distribution to dst. A progress bar is rendered
// when showProgress is set and the size is known.
func (c *Client) Download(ctx context.Context, res *metadata.Resource, dst io.Writer, showProgress bool) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, errdefs.Wrap(err, errdefs.CodeDownload, "download failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, errdefs.Newf(errdefs.CodeDownload, "download answered HTTP %d", resp.StatusCode)
	}

	var w io.Writer = dst
	if showProgress {
		bar := progressbar.DefaultBytes(resp.ContentLength, fmt.Sprintf("downloading %s", res.Label()))
		w = io.MultiWriter(dst, bar)
	}
	return io.Copy(w, resp.Body)
}

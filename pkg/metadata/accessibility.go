package metadata

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/opendq/opendq/pkg/report"
	"github.com/opendq/opendq/pkg/telemetry"
)

// DefaultAccessTimeout bounds each resource probe.
const DefaultAccessTimeout = 15 * time.Second

// AccessibilityChecker probes each distribution URL. An unreachable
// primary distribution blocks the whole dataset; secondary failures
// degrade the accessibility score.
type AccessibilityChecker struct {
	client  *http.Client
	timeout time.Duration
	workers int
	log     *logrus.Entry
}

// NewAccessibilityChecker creates a checker with the given per-request
// timeout (zero means DefaultAccessTimeout).
func NewAccessibilityChecker(timeout time.Duration) *AccessibilityChecker {
	if timeout <= 0 {
		timeout = DefaultAccessTimeout
	}
	return &AccessibilityChecker{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		workers: 4,
		log:     logrus.WithField("component", "accessibility"),
	}
}

type probeResult struct {
	status int
	err    error
}

// Run probes every resource concurrently and records the findings in
// resource order.
func (c *AccessibilityChecker) Run(ctx context.Context, pkg *Package, rep *report.Report) {
	ctx, span := telemetry.StartSpan(ctx, "metadata.accessibility")
	defer span.End()

	if len(pkg.Resources) == 0 {
		rep.Add(ruleNoResources.Finding("dataset has no distributions"))
		return
	}

	primary := PrimaryResourceIndex(pkg)
	results := make([]probeResult, len(pkg.Resources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range pkg.Resources {
		g.Go(func() error {
			url := pkg.Resources[i].URL
			if strings.TrimSpace(url) == "" {
				return nil
			}
			status, err := c.probe(gctx, url)
			results[i] = probeResult{status: status, err: err}
			return nil
		})
	}
	_ = g.Wait()

	accessible, probed := 0, 0
	for i := range pkg.Resources {
		res := &pkg.Resources[i]
		if strings.TrimSpace(res.URL) == "" {
			continue
		}
		probed++
		r := results[i]
		switch {
		case r.err != nil && isTimeout(r.err):
			rep.Add(ruleResourceTimeout.
				Finding(fmt.Sprintf("no answer within %s", c.timeout)).
				WithColumn(res.Label()))
		case r.err != nil:
			rep.Add(ruleResourceError.
				Finding("URL could not be contacted").
				WithColumn(res.Label()).
				WithDetail(r.err.Error()))
		case r.status < 200 || r.status > 299:
			rule := ruleResourceNotAccessible
			if i == primary {
				rule = rulePrimaryNotAccessible
			}
			rep.Add(rule.
				Finding(fmt.Sprintf("download URL answers HTTP %d", r.status)).
				WithColumn(res.Label()).
				WithDetail(res.URL))
		default:
			accessible++
		}
	}

	if probed > 0 && accessible == 0 {
		rep.Add(ruleNoAccessibleResources.Finding("no distribution could be retrieved"))
	} else if accessible > 0 {
		rep.OK(report.PhaseMetadata, "accessibility",
			fmt.Sprintf("%d/%d distributions accessible", accessible, probed))
	}
}

// probe sends HEAD first and falls back to GET: many portals answer
// 405 or 403 to HEAD while serving GET fine.
func (c *AccessibilityChecker) probe(ctx context.Context, rawURL string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if status, err := c.request(ctx, http.MethodHead, rawURL); err == nil && status < 400 {
		return status, nil
	}
	return c.request(ctx, http.MethodGet, rawURL)
}

func (c *AccessibilityChecker) request(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if method == http.MethodGet {
		// drain a little so keep-alive can reuse the connection
		_, _ = io.CopyN(io.Discard, resp.Body, 1024)
	}
	return resp.StatusCode, nil
}

func isTimeout(err error) bool {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "context deadline exceeded") ||
		strings.Contains(err.Error(), "Client.Timeout exceeded")
}

// PrimaryResourceIndex picks the distribution a data consumer would
// download: the first CSV by declared format, media type or URL suffix,
// else the first resource.
func PrimaryResourceIndex(pkg *Package) int {
	for i := range pkg.Resources {
		res := &pkg.Resources[i]
		format := strings.ToLower(strings.TrimSpace(res.Format))
		mime := strings.ToLower(res.Mimetype)
		url := strings.ToLower(res.URL)
		if format == "csv" || strings.Contains(mime, "text/csv") || strings.HasSuffix(url, ".csv") {
			return i
		}
	}
	if len(pkg.Resources) > 0 {
		return 0
	}
	return -1
}
